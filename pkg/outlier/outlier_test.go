// pkg/outlier/outlier_test.go
package outlier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidytable/tidytable/pkg/table"
)

func outlierDataset(t *testing.T) *table.Dataset {
	t.Helper()
	ds := table.New()
	cells := make([]any, 20)
	for i := range cells {
		cells[i] = 100.0
	}
	cells[0] = 95.0
	cells[1] = 105.0
	cells[19] = 5000.0
	require.NoError(t, ds.AddColumn("amount", table.KindNumeric, cells))
	require.NoError(t, ds.AddColumn("label", table.KindText, make([]any, 20)))
	return ds
}

func TestZScoreTaggerFlagsExtremeRow(t *testing.T) {
	ds := outlierDataset(t)
	tags := NewZScoreTagger(3).Tag(ds)

	require.Len(t, tags, 20)
	assert.True(t, tags[19])
	for i := 0; i < 19; i++ {
		assert.False(t, tags[i], "row %d should not be flagged", i)
	}
}

func TestZScoreTaggerIgnoresConstantColumns(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("flat", table.KindNumeric,
		[]any{1.0, 1.0, 1.0}))

	tags := NewZScoreTagger(0.1).Tag(ds)
	assert.Equal(t, []bool{false, false, false}, tags)
}

func TestMergeAddsTagColumnOnce(t *testing.T) {
	ds := outlierDataset(t)
	tagger := NewZScoreTagger(3)

	require.True(t, Merge(ds, tagger))
	col := ds.Column(TagColumn)
	require.NotNil(t, col)
	assert.Equal(t, table.KindBoolean, col.Kind)
	assert.Equal(t, true, col.Cells[19])
	assert.Equal(t, false, col.Cells[0])

	assert.False(t, Merge(ds, tagger), "tag column must not be added twice")
}

func TestFilterOutliersDropsFlaggedRows(t *testing.T) {
	ds := outlierDataset(t)
	removed := FilterOutliers(ds, NewZScoreTagger(3))

	assert.Equal(t, 1, removed)
	assert.Equal(t, 19, ds.RowCount())
	for _, v := range ds.Column("amount").Cells {
		assert.NotEqual(t, 5000.0, v)
	}
}
