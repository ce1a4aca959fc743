// pkg/impact/impact.go
package impact

import (
	"github.com/google/uuid"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

const duplicatePenalty = 10

// Analyze compares the original and cleaned datasets and quantifies the
// improvement. Neither dataset is mutated.
func Analyze(original, cleaned *table.Dataset, log []model.ExecutionLogEntry) model.ImpactReport {
	before := snapshot(original)
	after := snapshot(cleaned)
	return model.ImpactReport{
		RunID:  uuid.New().String(),
		Before: before,
		After:  after,
		Improvements: model.Improvements{
			RowsRemoved:       before.Rows - after.Rows,
			ColumnsRemoved:    before.Columns - after.Columns,
			MissingFixed:      before.MissingValues - after.MissingValues,
			DuplicatesRemoved: before.DuplicateRows - after.DuplicateRows,
			CompletenessGain:  after.Completeness - before.Completeness,
			QualityScoreGain:  after.QualityScore - before.QualityScore,
		},
		ExecutionLog: log,
	}
}

func snapshot(ds *table.Dataset) model.Snapshot {
	rows := ds.RowCount()
	cols := ds.ColumnCount()
	s := model.Snapshot{
		Rows:               rows,
		Columns:            cols,
		MissingValues:      ds.MissingCellCount(),
		DuplicateRows:      ds.DuplicateRowCount(),
		ColumnCompleteness: make(map[string]float64, cols),
	}

	totalCells := rows * cols
	if totalCells > 0 {
		s.Completeness = float64(totalCells-s.MissingValues) / float64(totalCells) * 100
	}
	for _, col := range ds.Columns() {
		if rows == 0 {
			s.ColumnCompleteness[col.Name] = 0
			continue
		}
		s.ColumnCompleteness[col.Name] = float64(col.NonNullCount()) / float64(rows) * 100
	}

	score := s.Completeness
	if rows > 0 {
		score -= float64(s.DuplicateRows) / float64(rows) * duplicatePenalty
	}
	s.QualityScore = clamp(score, 0, 100)
	return s
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
