// pkg/ingest/write.go
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

// WriteCSV saves a dataset to a headered CSV file. Null cells become empty
// fields.
func WriteCSV(ds *table.Dataset, path string, logger *zap.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Names()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	cols := ds.Columns()
	for row := 0; row < ds.RowCount(); row++ {
		record := make([]string, len(cols))
		for i, col := range cols {
			if row < len(col.Cells) && !table.IsNull(col.Cells[row]) {
				record[i] = table.AsString(col.Cells[row])
			}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	logger.Info("Saved cleaned dataset",
		zap.String("path", path),
		zap.Int("rows", ds.RowCount()))
	return nil
}

// WriteReportJSON saves an impact report as indented JSON.
func WriteReportJSON(report model.ImpactReport, path string) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteReportYAML saves an impact report as YAML.
func WriteReportYAML(report model.ImpactReport, path string) error {
	raw, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
