// cmd/tidytable/inspect.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tidytable/tidytable/pkg/classify"
	"github.com/tidytable/tidytable/pkg/detect"
	"github.com/tidytable/tidytable/pkg/ingest"
	"github.com/tidytable/tidytable/pkg/profile"
	"github.com/tidytable/tidytable/pkg/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Profile a dataset and list its issues without changing anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	ds, err := ingest.Load(args[0], logger)
	if err != nil {
		return err
	}
	if _, err := profile.ValidateSchema(ds, cfg.StrictSchema, cfg.MinColumns, logger); err != nil {
		return err
	}
	profile.InferKinds(ds, ruleset, logger)

	fmt.Printf("%d rows x %d columns\n\n", ds.RowCount(), ds.ColumnCount())
	for _, cs := range profile.DescribeAll(ds) {
		fmt.Printf("%-20s %-12s non-null=%-5d unique=%-5d", cs.Name, cs.Kind, cs.NonNull, cs.Unique)
		if cs.Kind == "numeric" {
			fmt.Printf(" mean=%.2f std=%.2f min=%.2f max=%.2f", cs.Mean, cs.StdDev, cs.Min, cs.Max)
		} else if cs.TopValue != "" {
			fmt.Printf(" top=%q (%d)", cs.TopValue, cs.TopCount)
		}
		fmt.Println()
	}
	fmt.Println()

	engine, err := detect.NewEngine(ruleset, logger)
	if err != nil {
		return err
	}
	issues := engine.Detect(ds, classify.Detect(ds, ruleset))
	report.NewRenderer(os.Stdout).Issues(issues)
	return nil
}
