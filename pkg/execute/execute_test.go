// pkg/execute/execute_test.go
package execute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

func newTestExecutor(t *testing.T, ds *table.Dataset, r rules.Rules) *Executor {
	t.Helper()
	x, err := NewExecutor(ds, r, zap.NewNop())
	require.NoError(t, err)
	return x
}

func TestNewExecutorValidation(t *testing.T) {
	_, err := NewExecutor(nil, rules.Default(), zap.NewNop())
	assert.Error(t, err)

	ds := table.New()
	_, err = NewExecutor(ds, rules.Default(), nil)
	assert.Error(t, err)
}

func TestApplyDoesNotTouchCaller(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("name", table.KindText, []any{" a ", "b"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, _ := x.Apply([]model.Fix{{
		ID: model.FixStripWhitespace, Column: "name", Label: "strip",
	}})

	assert.Equal(t, "a", cleaned.Column("name").Cells[0])
	assert.Equal(t, " a ", ds.Column("name").Cells[0])
}

func TestKeepFirstDedupResequencesIdentifiers(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("customer_id", table.KindNumeric,
		[]any{1.0, 2.0, 2.0, 4.0, 5.0, 6.0}))
	require.NoError(t, ds.AddColumn("name", table.KindText,
		[]any{"a", "b", "b2", "d", "e", "f"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, log := x.Apply([]model.Fix{{
		ID: model.FixKeepFirstID, Column: "customer_id", Label: "keep first",
	}})

	require.Equal(t, 5, cleaned.RowCount())
	assert.Equal(t, []any{"a", "b", "d", "e", "f"}, cleaned.Column("name").Cells)
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0, 5.0}, cleaned.Column("customer_id").Cells)

	var resequenced bool
	for _, entry := range log {
		if entry.FixApplied == "Resequenced identifier" {
			resequenced = true
			assert.Equal(t, "customer_id", entry.Column)
		}
	}
	assert.True(t, resequenced)
}

func TestKeepLastAndMostComplete(t *testing.T) {
	build := func() *table.Dataset {
		ds := table.New()
		require.NoError(t, ds.AddColumn("user_id", table.KindNumeric,
			[]any{1.0, 2.0, 2.0, 3.0}))
		require.NoError(t, ds.AddColumn("email", table.KindText,
			[]any{"a@x.com", nil, "b@x.com", "c@x.com"}))
		return ds
	}

	x := newTestExecutor(t, build(), rules.Default())
	cleaned, _ := x.Apply([]model.Fix{{
		ID: model.FixKeepLastID, Column: "user_id", Label: "keep last",
	}})
	require.Equal(t, 3, cleaned.RowCount())
	assert.Equal(t, "b@x.com", cleaned.Column("email").Cells[1])

	x = newTestExecutor(t, build(), rules.Default())
	cleaned, _ = x.Apply([]model.Fix{{
		ID: model.FixKeepComplete, Column: "user_id", Label: "keep complete",
	}})
	require.Equal(t, 3, cleaned.RowCount())
	assert.Equal(t, "b@x.com", cleaned.Column("email").Cells[1])
}

func TestSingleDropGuardSkipsLargeDrops(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("v", table.KindNumeric,
		[]any{1.0, nil, nil, 4.0}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, log := x.Apply([]model.Fix{{
		ID: model.FixDropRows, Column: "v", Label: "drop missing",
	}})

	// 2 of 4 rows is over the single-drop limit.
	assert.Equal(t, 4, cleaned.RowCount())
	assert.Empty(t, log)
}

func TestCumulativeLossGuard(t *testing.T) {
	ds := table.New()
	vCells := []any{nil, nil, nil, nil, 1.0, 2.0, 3.0, 4.0, 5.0, 6.0}
	wCells := []any{1.0, 2.0, 3.0, 4.0, nil, nil, 7.0, 8.0, 9.0, 10.0}
	require.NoError(t, ds.AddColumn("v", table.KindNumeric, vCells))
	require.NoError(t, ds.AddColumn("w", table.KindNumeric, wCells))

	r := rules.Default()
	r.MaxSingleDropPct = 100

	x := newTestExecutor(t, ds, r)
	cleaned, _ := x.Apply([]model.Fix{
		{ID: model.FixDropRows, Column: "v", Label: "drop v"},
		{ID: model.FixDropRows, Column: "w", Label: "drop w"},
	})

	// First drop removes 4 of 10; the second would push total loss past half
	// of the original rows and is skipped.
	assert.Equal(t, 6, cleaned.RowCount())
	assert.Equal(t, 2, cleaned.Column("w").NullCount())
}

func TestPriorityOrderRunsCleansBeforeImpute(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("score", table.KindText,
		[]any{"10", "?", nil, "30"}))

	x := newTestExecutor(t, ds, rules.Default())
	// Passed imputation first; the executor must still null the placeholder
	// before filling.
	cleaned, _ := x.Apply([]model.Fix{
		{ID: model.FixMedianImpute, Column: "score", Label: "median",
			Params: map[string]any{"median": 20.0}},
		{ID: model.FixProxyToNull, Column: "score", Label: "proxy"},
	})

	col := cleaned.Column("score")
	assert.Equal(t, 20.0, col.Cells[1])
	assert.Equal(t, 20.0, col.Cells[2])
	assert.Equal(t, 0, col.NullCount())
}

func TestStandardizeDates(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("joined_date", table.KindText,
		[]any{"2023-01-15", "01/05/2023", "2023.07.12", "garbage"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, _ := x.Apply([]model.Fix{{
		ID: model.FixStandardizeDateFormat, Column: "joined_date", Label: "standardize",
	}})

	col := cleaned.Column("joined_date")
	assert.Equal(t, "2023-01-15", col.Cells[0])
	assert.Equal(t, "2023-01-05", col.Cells[1])
	assert.Equal(t, "2023-07-12", col.Cells[2])
	assert.Equal(t, "garbage", col.Cells[3])
}

func TestWordToNumberAndTextToNull(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("age", table.KindText,
		[]any{"25", "twenty", "30"}))
	require.NoError(t, ds.AddColumn("amount", table.KindText,
		[]any{"100", "pending", "300"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, _ := x.Apply([]model.Fix{
		{ID: model.FixWordToNumber, Column: "age", Label: "words"},
		{ID: model.FixTextToNullImpute, Column: "amount", Label: "impute",
			Params: map[string]any{"median": 200.0}},
	})

	assert.Equal(t, 20.0, cleaned.Column("age").Cells[1])
	assert.Equal(t, 200.0, cleaned.Column("amount").Cells[1])
}

func TestTextToNullImputeFillsExistingNulls(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("amount", table.KindText,
		[]any{"100", "pending", nil, "300"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, _ := x.Apply([]model.Fix{{
		ID: model.FixTextToNullImpute, Column: "amount", Label: "impute",
		Params: map[string]any{"median": 200.0},
	}})

	col := cleaned.Column("amount")
	assert.Equal(t, 200.0, col.Cells[1])
	assert.Equal(t, 200.0, col.Cells[2])
	assert.Equal(t, 0, col.NullCount())
}

func TestTextToNullImputeRunsAfterWordConversion(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("amount", table.KindText,
		[]any{"100", "twenty", "pending"}))

	x := newTestExecutor(t, ds, rules.Default())
	// Passed first; word conversion must still claim "twenty" before the
	// remaining text is imputed.
	cleaned, _ := x.Apply([]model.Fix{
		{ID: model.FixTextToNullImpute, Column: "amount", Label: "impute",
			Params: map[string]any{"median": 200.0}},
		{ID: model.FixWordToNumber, Column: "amount", Label: "words"},
	})

	col := cleaned.Column("amount")
	assert.Equal(t, 20.0, col.Cells[1])
	assert.Equal(t, 200.0, col.Cells[2])
}

func TestForwardFillDates(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("joined_date", table.KindDatetime,
		[]any{nil, "2023-01-15", nil, "2023-03-10", nil}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, log := x.Apply([]model.Fix{{
		ID: model.FixForwardFill, Column: "joined_date", Label: "forward fill",
	}})

	col := cleaned.Column("joined_date")
	assert.Nil(t, col.Cells[0])
	assert.Equal(t, "2023-01-15", col.Cells[2])
	assert.Equal(t, "2023-03-10", col.Cells[4])
	require.Len(t, log, 1)
	assert.Equal(t, "2 values filled", log[0].ValuesChanged)
}

func TestInvalidDateModes(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("created", table.KindText,
		[]any{"2023-01-15", "garbage", "2099-12-31"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, _ := x.Apply([]model.Fix{
		{ID: model.FixInvalidDateToMedian, Column: "created", Label: "median",
			Params: map[string]any{"median_date": "2023-01-15"}},
		{ID: model.FixInvalidDateToNull, Column: "created", Label: "future",
			Params: map[string]any{"mode": "future"}},
	})

	col := cleaned.Column("created")
	assert.Equal(t, "2023-01-15", col.Cells[1])
	assert.Nil(t, col.Cells[2])
}

func TestSequenceViolationDrop(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("start_date", table.KindText,
		[]any{"2023-01-01", "2023-06-01", "2023-03-01", "2023-08-01"}))
	require.NoError(t, ds.AddColumn("end_date", table.KindText,
		[]any{"2023-02-01", "2023-05-01", "2023-04-01", "2023-09-01"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, _ := x.Apply([]model.Fix{{
		ID: model.FixDropInvalidRows, Column: "start_date/end_date", Label: "sequence",
		Params: map[string]any{"mode": "sequence", "start": "start_date", "end": "end_date"},
	}})

	require.Equal(t, 3, cleaned.RowCount())
	assert.Equal(t, "2023-01-01", cleaned.Column("start_date").Cells[0])
	assert.Equal(t, "2023-03-01", cleaned.Column("start_date").Cells[1])
}

func TestTextCleansAreIdempotent(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("name", table.KindText,
		[]any{" Alice ", "Bob!!", "CAROL"}))

	x := newTestExecutor(t, ds, rules.Default())
	fixes := []model.Fix{
		{ID: model.FixStripWhitespace, Column: "name", Label: "strip"},
		{ID: model.FixRemoveSpecialChars, Column: "name", Label: "special"},
		{ID: model.FixStandardizeCaseLower, Column: "name", Label: "lower"},
	}
	cleaned, _ := x.Apply(fixes)
	assert.Equal(t, []any{"alice", "bob", "carol"}, cleaned.Column("name").Cells)

	for _, fix := range fixes {
		assert.False(t, x.applyOne(fix), "re-applying %s should change nothing", fix.ID)
	}
}

func TestExtractNumericImpute(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("height", table.KindText,
		[]any{"170 cm", nil, "182 cm", "tall"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, _ := x.Apply([]model.Fix{{
		ID: model.FixExtractNumericImpute, Column: "height", Label: "extract",
		Params: map[string]any{"median": 176.0},
	}})

	col := cleaned.Column("height")
	assert.Equal(t, table.KindNumeric, col.Kind)
	assert.Equal(t, []any{170.0, 176.0, 182.0, 176.0}, col.Cells)
}

func TestDropExactDuplicates(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("a", table.KindText, []any{"x", "y", "x", "z"}))
	require.NoError(t, ds.AddColumn("b", table.KindText, []any{"1", "2", "1", "3"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, _ := x.Apply([]model.Fix{{
		ID: model.FixDropExactDuplicate, Column: "a", Label: "dedup",
	}})

	assert.Equal(t, 3, cleaned.RowCount())
}

func TestMissingColumnAndUnknownFixAreSkipped(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("a", table.KindText, []any{"x"}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, log := x.Apply([]model.Fix{
		{ID: model.FixStripWhitespace, Column: "ghost", Label: "ghost"},
		{ID: model.FixID("FIX_BOGUS"), Column: "a", Label: "bogus"},
	})

	assert.Equal(t, 1, cleaned.RowCount())
	assert.Empty(t, log)
}

func TestDropColumn(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("keep", table.KindText, []any{"x"}))
	require.NoError(t, ds.AddColumn("junk", table.KindText, []any{nil}))

	x := newTestExecutor(t, ds, rules.Default())
	cleaned, log := x.Apply([]model.Fix{{
		ID: model.FixDropColumn, Column: "junk", Label: "drop junk",
	}})

	assert.Nil(t, cleaned.Column("junk"))
	assert.Equal(t, []string{"keep"}, cleaned.Names())
	require.Len(t, log, 1)
	assert.Equal(t, "column removed", log[0].ValuesChanged)
}
