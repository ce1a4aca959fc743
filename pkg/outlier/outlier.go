// pkg/outlier/outlier.go
package outlier

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tidytable/tidytable/pkg/table"
)

// TagColumn is the name of the boolean column a RowTagger's verdict merges
// into before detection.
const TagColumn = "_row_outlier"

// RowTagger labels each row of a dataset as an inlier (false) or outlier
// (true). Implementations plug in ahead of the univariate detection pass.
type RowTagger interface {
	Tag(ds *table.Dataset) []bool
}

// ZScoreTagger flags a row when the mean absolute z-score of its numeric
// cells exceeds the threshold. It is a cheap multivariate stand-in usable
// without model training.
type ZScoreTagger struct {
	Threshold float64
}

// NewZScoreTagger builds a tagger with the given |z| threshold.
func NewZScoreTagger(threshold float64) *ZScoreTagger {
	return &ZScoreTagger{Threshold: threshold}
}

// Tag computes per-column z-scores over the coercible numeric values and
// averages each row's absolute scores. Columns with zero spread are ignored.
func (t *ZScoreTagger) Tag(ds *table.Dataset) []bool {
	rows := ds.RowCount()
	tags := make([]bool, rows)

	sums := make([]float64, rows)
	counts := make([]int, rows)
	for _, col := range ds.Columns() {
		if col.Kind != table.KindNumeric {
			continue
		}
		var values []float64
		for _, v := range col.Cells {
			if f, ok := table.AsFloat(v); ok {
				values = append(values, f)
			}
		}
		if len(values) < 2 {
			continue
		}
		mean := stat.Mean(values, nil)
		std := stat.StdDev(values, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		for i := 0; i < rows && i < len(col.Cells); i++ {
			if f, ok := table.AsFloat(col.Cells[i]); ok {
				sums[i] += math.Abs((f - mean) / std)
				counts[i]++
			}
		}
	}

	for i := range tags {
		if counts[i] > 0 && sums[i]/float64(counts[i]) > t.Threshold {
			tags[i] = true
		}
	}
	return tags
}

// Merge appends the tagger's verdict as a boolean column. Returns false when
// the dataset already carries the tag column.
func Merge(ds *table.Dataset, tagger RowTagger) bool {
	if ds.Column(TagColumn) != nil {
		return false
	}
	tags := tagger.Tag(ds)
	cells := make([]any, len(tags))
	for i, t := range tags {
		cells[i] = t
	}
	return ds.AddColumn(TagColumn, table.KindBoolean, cells) == nil
}

// FilterOutliers drops the rows the tagger flagged and removes the tag
// column again. Returns the number of rows removed.
func FilterOutliers(ds *table.Dataset, tagger RowTagger) int {
	tags := tagger.Tag(ds)
	keep := make([]bool, len(tags))
	for i, t := range tags {
		keep[i] = !t
	}
	removed, err := ds.FilterRows(keep)
	if err != nil {
		return 0
	}
	return removed
}
