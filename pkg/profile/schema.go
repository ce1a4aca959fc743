// pkg/profile/schema.go
package profile

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/table"
)

// SchemaReport summarizes the structural pre-checks run before the pipeline
// proper.
type SchemaReport struct {
	Rows             int      `json:"rows" yaml:"rows"`
	Columns          int      `json:"columns" yaml:"columns"`
	ColumnOrder      []string `json:"column_order" yaml:"column_order"`
	DuplicateColumns []string `json:"duplicate_columns,omitempty" yaml:"duplicate_columns,omitempty"`
	EmptyColumns     []string `json:"empty_columns,omitempty" yaml:"empty_columns,omitempty"`
	Warnings         []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ValidateSchema checks dataset shape preconditions. In strict mode the first
// violation is returned as an error; otherwise violations are collected as
// warnings and the pipeline proceeds.
func ValidateSchema(ds *table.Dataset, strict bool, minColumns int, logger *zap.Logger) (*SchemaReport, error) {
	report := &SchemaReport{
		Rows:        ds.RowCount(),
		Columns:     ds.ColumnCount(),
		ColumnOrder: ds.Names(),
	}

	fail := func(msg string) error {
		if strict {
			return fmt.Errorf("schema validation: %s", msg)
		}
		report.Warnings = append(report.Warnings, msg)
		logger.Warn("Schema validation warning", zap.String("detail", msg))
		return nil
	}

	if ds.RowCount() == 0 {
		if err := fail("dataset has no rows"); err != nil {
			return nil, err
		}
	}
	if ds.ColumnCount() < minColumns {
		if err := fail("dataset has too few columns"); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	for _, name := range ds.Names() {
		if seen[name] {
			report.DuplicateColumns = append(report.DuplicateColumns, name)
		}
		seen[name] = true
		if name == "" || strings.EqualFold(name, "nan") {
			report.EmptyColumns = append(report.EmptyColumns, name)
		}
	}
	if len(report.DuplicateColumns) > 0 {
		if err := fail(fmt.Sprintf("duplicate columns found: %v", report.DuplicateColumns)); err != nil {
			return nil, err
		}
	}
	if len(report.EmptyColumns) > 0 {
		if err := fail(fmt.Sprintf("empty column names detected: %v", report.EmptyColumns)); err != nil {
			return nil, err
		}
	}

	return report, nil
}
