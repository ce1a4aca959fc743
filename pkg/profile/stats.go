// pkg/profile/stats.go
package profile

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tidytable/tidytable/pkg/table"
)

// ColumnStats carries the per-column summary the detection and recommendation
// engines consume.
type ColumnStats struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	NonNull     int      `json:"non_null" yaml:"non_null"`
	Nulls       int      `json:"nulls" yaml:"nulls"`
	Unique      int      `json:"unique" yaml:"unique"`
	Mean        float64  `json:"mean,omitempty" yaml:"mean,omitempty"`
	StdDev      float64  `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`
	Min         float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max         float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Median      float64  `json:"median,omitempty" yaml:"median,omitempty"`
	Skewness    float64  `json:"skewness,omitempty" yaml:"skewness,omitempty"`
	TopValue    string   `json:"top_value,omitempty" yaml:"top_value,omitempty"`
	TopCount    int      `json:"top_count,omitempty" yaml:"top_count,omitempty"`
	SampleCells []string `json:"sample_cells,omitempty" yaml:"sample_cells,omitempty"`
}

const maxSamples = 5

// Describe computes stats for a single column.
func Describe(col *table.Column) ColumnStats {
	cs := ColumnStats{Name: col.Name, Kind: col.Kind.String()}

	counts := make(map[string]int)
	var values []float64
	for _, v := range col.Cells {
		if table.IsNull(v) {
			cs.Nulls++
			continue
		}
		cs.NonNull++
		s := table.AsString(v)
		counts[s]++
		if len(cs.SampleCells) < maxSamples {
			cs.SampleCells = append(cs.SampleCells, s)
		}
		if f, ok := table.AsFloat(v); ok {
			values = append(values, f)
		}
	}
	cs.Unique = len(counts)

	for s, n := range counts {
		if n > cs.TopCount {
			cs.TopValue = s
			cs.TopCount = n
		}
	}

	if len(values) > 0 {
		sort.Float64s(values)
		cs.Min = values[0]
		cs.Max = values[len(values)-1]
		cs.Mean = stat.Mean(values, nil)
		cs.StdDev = stat.StdDev(values, nil)
		cs.Median = stat.Quantile(0.5, stat.LinInterp, values, nil)
		if len(values) > 2 && cs.StdDev > 0 {
			cs.Skewness = stat.Skew(values, nil)
		}
	}

	return cs
}

// DescribeAll profiles every column in the dataset.
func DescribeAll(ds *table.Dataset) []ColumnStats {
	out := make([]ColumnStats, 0, ds.ColumnCount())
	for _, col := range ds.Columns() {
		out = append(out, Describe(col))
	}
	return out
}

// Median returns the median of a column's coercible values, or 0 when none
// exist.
func Median(col *table.Column) (float64, bool) {
	var values []float64
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		if f, ok := table.AsFloat(v); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	return stat.Quantile(0.5, stat.LinInterp, values, nil), true
}

// Mode returns the most frequent non-null string value and its count.
func Mode(col *table.Column) (string, int) {
	counts := make(map[string]int)
	best, bestN := "", 0
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		s := table.AsString(v)
		counts[s]++
		if counts[s] > bestN {
			best, bestN = s, counts[s]
		}
	}
	return best, bestN
}
