// pkg/impact/impact_test.go
package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

func TestAnalyzeQuantifiesImprovement(t *testing.T) {
	original := table.New()
	require.NoError(t, original.AddColumn("id", table.KindNumeric,
		[]any{1.0, 2.0, 2.0, 4.0}))
	require.NoError(t, original.AddColumn("name", table.KindText,
		[]any{"a", "b", "b", nil}))

	cleaned := table.New()
	require.NoError(t, cleaned.AddColumn("id", table.KindNumeric,
		[]any{1.0, 2.0, 3.0}))
	require.NoError(t, cleaned.AddColumn("name", table.KindText,
		[]any{"a", "b", "x"}))

	log := []model.ExecutionLogEntry{{Column: "id", FixApplied: "dedup"}}
	report := Analyze(original, cleaned, log)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, log, report.ExecutionLog)

	assert.Equal(t, 4, report.Before.Rows)
	assert.Equal(t, 1, report.Before.MissingValues)
	assert.Equal(t, 1, report.Before.DuplicateRows)
	assert.InDelta(t, 87.5, report.Before.Completeness, 0.001)
	// completeness 87.5 minus one duplicate in four rows at penalty 10
	assert.InDelta(t, 85.0, report.Before.QualityScore, 0.001)

	assert.Equal(t, 3, report.After.Rows)
	assert.Equal(t, 0, report.After.MissingValues)
	assert.InDelta(t, 100.0, report.After.QualityScore, 0.001)

	imp := report.Improvements
	assert.Equal(t, 1, imp.RowsRemoved)
	assert.Equal(t, 0, imp.ColumnsRemoved)
	assert.Equal(t, 1, imp.MissingFixed)
	assert.Equal(t, 1, imp.DuplicatesRemoved)
	assert.InDelta(t, 12.5, imp.CompletenessGain, 0.001)
	assert.InDelta(t, 15.0, imp.QualityScoreGain, 0.001)

	assert.InDelta(t, 75.0, report.Before.ColumnCompleteness["name"], 0.001)
	assert.InDelta(t, 100.0, report.After.ColumnCompleteness["name"], 0.001)
}

func TestSnapshotEmptyDataset(t *testing.T) {
	ds := table.New()
	report := Analyze(ds, ds, nil)
	assert.Equal(t, 0, report.Before.Rows)
	assert.Equal(t, 0.0, report.Before.Completeness)
	assert.Equal(t, 0.0, report.Before.QualityScore)
}
