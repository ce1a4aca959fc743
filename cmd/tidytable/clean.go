// cmd/tidytable/clean.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/ingest"
	"github.com/tidytable/tidytable/pkg/outlier"
	"github.com/tidytable/tidytable/pkg/pipeline"
	"github.com/tidytable/tidytable/pkg/report"
)

var (
	flagInteractive  bool
	flagOutput       string
	flagReportFormat string
	flagRowOutliers  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Detect issues, apply fixes and save the cleaned dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "choose fixes issue by issue")
	cleanCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "cleaned dataset path (default <input>_cleaned.csv)")
	cleanCmd.Flags().StringVar(&flagReportFormat, "report-format", "json", "impact report format (json or yaml)")
	cleanCmd.Flags().BoolVar(&flagRowOutliers, "filter-row-outliers", false, "drop multivariate row outliers before detection")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	defer logger.Sync()
	path := args[0]

	ds, err := ingest.Load(path, logger)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(ruleset, logger)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		StrictSchema: cfg.StrictSchema,
		MinColumns:   cfg.MinColumns,
		Interactive:  flagInteractive,
		In:           os.Stdin,
		Out:          os.Stdout,
	}
	if flagRowOutliers || cfg.RowOutlierFilter {
		opts.RowTagger = outlier.NewZScoreTagger(cfg.RowOutlierZ)
		opts.FilterRowOutliers = true
	}

	result, err := p.Run(ds, opts)
	if err != nil {
		return err
	}

	r := report.NewRenderer(os.Stdout)
	r.Issues(result.Issues)
	r.Impact(result.Report)

	outPath := flagOutput
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		outPath = filepath.Join(cfg.OutputDir, base+"_cleaned.csv")
	}
	if err := ingest.WriteCSV(result.Cleaned, outPath, logger); err != nil {
		return err
	}

	reportPath := filepath.Join(cfg.OutputDir, cfg.ReportName+"."+flagReportFormat)
	switch flagReportFormat {
	case "json":
		err = ingest.WriteReportJSON(result.Report, reportPath)
	case "yaml":
		err = ingest.WriteReportYAML(result.Report, reportPath)
	default:
		return fmt.Errorf("unsupported report format %q", flagReportFormat)
	}
	if err != nil {
		return err
	}

	logger.Info("Cleaning run complete",
		zap.String("run_id", result.Report.RunID),
		zap.String("dataset", outPath),
		zap.String("report", reportPath))
	return nil
}
