// pkg/execute/executor.go
package execute

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/classify"
	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

// Executor applies selected fixes to a private working copy of the dataset.
// The identifier columns and the original row count are captured once at
// construction; the caller's dataset is never touched.
type Executor struct {
	ds           *table.Dataset
	rules        rules.Rules
	logger       *zap.Logger
	idCols       []string
	originalRows int
	log          []model.ExecutionLogEntry
}

// NewExecutor copies the dataset and prepares a batch.
func NewExecutor(ds *table.Dataset, r rules.Rules, logger *zap.Logger) (*Executor, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	working := ds.Clone()
	return &Executor{
		ds:           working,
		rules:        r,
		logger:       logger,
		idCols:       classify.IdentifierColumns(working, r),
		originalRows: working.RowCount(),
	}, nil
}

// Dataset exposes the working copy. After Apply it holds the cleaned data.
func (x *Executor) Dataset() *table.Dataset { return x.ds }

// Log returns the execution log accumulated so far.
func (x *Executor) Log() []model.ExecutionLogEntry { return x.log }

// priorityClass orders fixes so that transformations revealing missingness
// run before imputation, format normalization runs before validity
// correction, and deduplication runs last over already-normalized values.
func priorityClass(id model.FixID) int {
	switch id {
	case model.FixStripWhitespace, model.FixRemoveSpecialChars,
		model.FixReplaceSpecialWithSpace, model.FixRemoveNonASCII,
		model.FixStandardizeCaseLower:
		return 1
	case model.FixStandardizeDateFormat:
		return 2
	case model.FixWordToNumber:
		return 3
	case model.FixProxyToNull, model.FixEmptyTextToNull:
		return 4
	case model.FixInvalidDateToNull, model.FixInvalidDateToMedian,
		model.FixInvalidDateDefault, model.FixDropInvalidDateRows:
		return 5
	case model.FixNegativeToAbs, model.FixNegativeToMedian, model.FixNegativeToNull,
		model.FixCapAt100, model.FixRangeToNull, model.FixDropInvalidRows,
		model.FixImpossibleAgeToMedian, model.FixImpossibleAgeToNull,
		model.FixDropImpossibleAgeRows, model.FixZeroMonetaryToMedian,
		model.FixZeroMonetaryToNull, model.FixDropZeroMonetaryRows,
		model.FixCapPercentile, model.FixCapIQR, model.FixRemoveOutliers,
		model.FixWinsorize, model.FixDropTextRows:
		return 6
	case model.FixMedianImpute, model.FixMeanImpute, model.FixModeImpute,
		model.FixExtractNumericImpute, model.FixForwardFill,
		model.FixTextToNullImpute, model.FixEmptyTextToMode,
		model.FixDropRows, model.FixDropColumn:
		return 7
	case model.FixKeepFirstID, model.FixKeepLastID, model.FixKeepComplete,
		model.FixDropExactDuplicate:
		return 8
	default:
		return 99
	}
}

// Apply runs the selected fixes in priority order against the working copy
// and returns it with the execution log. A failing fix is skipped and the
// batch continues.
func (x *Executor) Apply(fixes []model.Fix) (*table.Dataset, []model.ExecutionLogEntry) {
	ordered := make([]model.Fix, len(fixes))
	copy(ordered, fixes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return priorityClass(ordered[i].ID) < priorityClass(ordered[j].ID)
	})

	for _, fix := range ordered {
		x.applyContained(fix)
	}

	x.logger.Info("Batch execution complete",
		zap.Int("fixes_selected", len(fixes)),
		zap.Int("log_entries", len(x.log)),
		zap.Int("rows", x.ds.RowCount()))
	return x.ds, x.log
}

func (x *Executor) applyContained(fix model.Fix) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Warn("Fix application failed, continuing batch",
				zap.String("fix", string(fix.ID)),
				zap.String("column", fix.Column),
				zap.Any("cause", r))
		}
	}()

	if fix.Column != "" && x.ds.Column(fix.Column) == nil && !isCrossColumn(fix) {
		x.logger.Warn("Fix references a column no longer present, skipping",
			zap.String("fix", string(fix.ID)),
			zap.String("column", fix.Column))
		return
	}

	rowsBefore := x.ds.RowCount()
	applied := x.applyOne(fix)
	if applied && x.ds.RowCount() != rowsBefore {
		x.resequenceIdentifiers()
	}
}

func isCrossColumn(fix model.Fix) bool {
	mode, _ := fix.Str("mode")
	return mode == "sequence"
}

// guardDrop enforces both row-loss limits. Returns false when the drop must
// be skipped.
func (x *Executor) guardDrop(fix model.Fix, dropCount int) bool {
	if dropCount == 0 {
		return true
	}
	current := x.ds.RowCount()
	lost := x.originalRows - current + dropCount
	if float64(lost) > float64(x.originalRows)*x.rules.MaxCumulativeLossPct/100 {
		x.logger.Warn("Row drop skipped: cumulative loss limit",
			zap.String("fix", string(fix.ID)),
			zap.Int("would_drop", dropCount),
			zap.Int("already_lost", x.originalRows-current))
		return false
	}
	if float64(dropCount) > float64(current)*x.rules.MaxSingleDropPct/100 {
		x.logger.Warn("Row drop skipped: single-drop limit",
			zap.String("fix", string(fix.ID)),
			zap.Int("would_drop", dropCount),
			zap.Int("current_rows", current))
		return false
	}
	return true
}

// dropRows removes the rows where keep[i] is false, subject to the guards,
// and logs the fix when applied.
func (x *Executor) dropRows(fix model.Fix, keep []bool) bool {
	dropCount := 0
	for _, k := range keep {
		if !k {
			dropCount++
		}
	}
	if dropCount == 0 {
		return false
	}
	if !x.guardDrop(fix, dropCount) {
		return false
	}
	removed, err := x.ds.FilterRows(keep)
	if err != nil {
		x.logger.Warn("Row filter failed",
			zap.String("fix", string(fix.ID)),
			zap.Error(err))
		return false
	}
	x.record(fix, fmt.Sprintf("%d rows removed", removed))
	return true
}

// resequenceIdentifiers rewrites every identifier column to 1..N and records
// a synthetic log entry per column.
func (x *Executor) resequenceIdentifiers() {
	n := x.ds.RowCount()
	for _, name := range x.idCols {
		col := x.ds.Column(name)
		if col == nil {
			continue
		}
		for i := 0; i < n && i < len(col.Cells); i++ {
			col.Cells[i] = float64(i + 1)
		}
		x.log = append(x.log, model.ExecutionLogEntry{
			Column:        name,
			FixApplied:    "Resequenced identifier",
			ValuesChanged: fmt.Sprintf("renumbered 1..%d", n),
		})
	}
}

func (x *Executor) record(fix model.Fix, changed string) {
	x.log = append(x.log, model.ExecutionLogEntry{
		Column:        fix.Column,
		FixApplied:    fix.Label,
		ValuesChanged: changed,
	})
}
