// pkg/ingest/read.go
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/table"
)

// Load reads a dataset from a file, dispatching on extension. All columns
// come in as text; kind inference runs afterwards.
func Load(path string, logger *zap.Logger) (*table.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, logger)
	case ".json":
		return LoadJSON(path, logger)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// LoadCSV reads a headered CSV file into a dataset.
func LoadCSV(path string, logger *zap.Logger) (*table.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	header := normalizeHeader(records[0])
	cells := make([][]any, len(header))
	for _, record := range records[1:] {
		for i := range header {
			var v any
			if i < len(record) && record[i] != "" {
				v = record[i]
			}
			cells[i] = append(cells[i], v)
		}
	}

	ds := table.New()
	for i, name := range header {
		if err := ds.AddColumn(name, table.KindText, cells[i]); err != nil {
			return nil, fmt.Errorf("building dataset from %s: %w", path, err)
		}
	}
	logger.Info("Loaded CSV file",
		zap.String("path", path),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return ds, nil
}

// LoadJSON reads an array-of-objects JSON file. Column order follows first
// appearance across the records.
func LoadJSON(path string, logger *zap.Logger) (*table.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s holds no records", path)
	}

	// Map iteration order is random; sort the keys discovered within each
	// record so column order is deterministic.
	var order []string
	seen := make(map[string]bool)
	for _, rec := range records {
		var fresh []string
		for key := range rec {
			if !seen[key] {
				seen[key] = true
				fresh = append(fresh, key)
			}
		}
		sort.Strings(fresh)
		order = append(order, fresh...)
	}

	ds := table.New()
	for _, name := range normalizeHeader(order) {
		if err := ds.AddColumn(name, table.KindText, nil); err != nil {
			return nil, fmt.Errorf("building dataset from %s: %w", path, err)
		}
	}
	cols := ds.Columns()
	for _, rec := range records {
		for i, name := range order {
			v, ok := rec[name]
			if !ok || v == nil {
				cols[i].Cells = append(cols[i].Cells, nil)
				continue
			}
			cols[i].Cells = append(cols[i].Cells, normalizeValue(v))
		}
	}
	logger.Info("Loaded JSON file",
		zap.String("path", path),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return ds, nil
}

func normalizeValue(v any) any {
	switch n := v.(type) {
	case string, float64, bool:
		return n
	default:
		return fmt.Sprintf("%v", n)
	}
}

// normalizeHeader trims whitespace from column names, labels blank names and
// deduplicates repeats with a numeric suffix.
func normalizeHeader(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int)
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("unnamed_%d", i)
		}
		if n := seen[name]; n > 0 {
			out[i] = fmt.Sprintf("%s_%d", name, n)
		} else {
			out[i] = name
		}
		seen[name]++
	}
	return out
}
