// pkg/recommend/recommend_test.go
package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/profile"
	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(rules.Default(), zap.NewNop())
	require.NoError(t, err)
	return e
}

func statsFor(ds *table.Dataset) map[string]profile.ColumnStats {
	out := make(map[string]profile.ColumnStats)
	for _, cs := range profile.DescribeAll(ds) {
		out[cs.Name] = cs
	}
	return out
}

func recommendedOf(fixes []model.Fix) *model.Fix {
	for i := range fixes {
		if fixes[i].Recommended {
			return &fixes[i]
		}
	}
	return nil
}

func TestRecommendAtMostOneRecommendedPerIssue(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("age", table.KindNumeric,
		[]any{25.0, nil, 30.0, 45.0, -5.0, 150.0}))
	require.NoError(t, ds.AddColumn("salary", table.KindNumeric,
		[]any{50000.0, -2000.0, 0.0, 55000.0, 60000.0, 70000.0}))

	issues := []model.Issue{
		model.NewIssue(model.CodeMissingValues, "age", model.IssueMissingData, model.SeverityHigh, "", nil),
		model.NewIssue(model.CodeNegativeAge, "age", model.IssueNumericValidity, model.SeverityHigh, "", nil),
		model.NewIssue(model.CodeImpossibleAge, "age", model.IssueDomainConstraint, model.SeverityHigh, "", nil),
		model.NewIssue(model.CodeInvalidMonetary, "salary", model.IssueDomainConstraint, model.SeverityHigh, "", nil),
	}

	fixes := newTestEngine(t).Recommend(ds, issues, statsFor(ds))
	require.NotEmpty(t, fixes)

	perIssue := make(map[string]int)
	for _, f := range fixes {
		if f.Recommended {
			perIssue[f.IssueCode+"/"+f.Column]++
		}
	}
	for key, n := range perIssue {
		assert.Equal(t, 1, n, "issue %s has %d recommended fixes", key, n)
	}
}

func TestMonetaryMedianFromPositiveValues(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("salary", table.KindNumeric,
		[]any{50000.0, -2000.0, 0.0, 55000.0, 60000.0, 70000.0}))

	issue := model.NewIssue(model.CodeInvalidMonetary, "salary",
		model.IssueDomainConstraint, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, nil)

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixZeroMonetaryToMedian, rec.ID)
	median, ok := rec.Float("median")
	require.True(t, ok)
	assert.InDelta(t, 57500.0, median, 0.001)
}

func TestHighMissingnessDropsColumn(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("notes", table.KindText,
		[]any{"hello", nil, nil, nil, "world", nil}))

	issue := model.NewIssue(model.CodeMissingValues, "notes",
		model.IssueMissingData, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, statsFor(ds))

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixDropColumn, rec.ID)
}

func TestHighMissingnessExtractsEmbeddedNumbers(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("height", table.KindText,
		[]any{"170 cm", nil, nil, nil, "182 cm", nil}))

	issue := model.NewIssue(model.CodeMissingValues, "height",
		model.IssueMissingData, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, statsFor(ds))

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixExtractNumericImpute, rec.ID)
	median, ok := rec.Float("median")
	require.True(t, ok)
	assert.InDelta(t, 176.0, median, 0.001)
}

func TestNumericImputeChoosesMedianForAge(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("age", table.KindNumeric,
		[]any{25.0, 30.0, nil, 45.0, 50.0, 28.0}))

	issue := model.NewIssue(model.CodeMissingValues, "age",
		model.IssueMissingData, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, statsFor(ds))

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixMedianImpute, rec.ID)
}

func TestNumericImputeChoosesMeanWhenSymmetric(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("score", table.KindNumeric,
		[]any{10.0, 20.0, nil, 30.0, 40.0, 50.0}))

	issue := model.NewIssue(model.CodeMissingValues, "score",
		model.IssueMissingData, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, statsFor(ds))

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixMeanImpute, rec.ID)
}

func TestCategoricalModeImpute(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("country", table.KindCategorical,
		[]any{"USA", "USA", "USA", nil, "UK", "USA"}))

	issue := model.NewIssue(model.CodeMissingValues, "country",
		model.IssueMissingData, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, statsFor(ds))

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixModeImpute, rec.ID)
	mode, ok := rec.Str("mode")
	require.True(t, ok)
	assert.Equal(t, "USA", mode)
}

func TestDatetimeMissingValuesForwardFill(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("joined_date", table.KindDatetime,
		[]any{"2023-01-15", nil, "2023-03-10", "2023-04-02"}))

	issue := model.NewIssue(model.CodeMissingValues, "joined_date",
		model.IssueMissingData, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, statsFor(ds))

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixForwardFill, rec.ID)

	var dropOffered bool
	for _, f := range fixes {
		if f.ID == model.FixDropRows {
			dropOffered = true
			assert.False(t, f.Recommended)
		}
	}
	assert.True(t, dropOffered)
}

func TestMissingValuesOfferDropRowsOnce(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("note", table.KindText,
		[]any{"alpha", "beta", "gamma", nil, "delta", "epsilon"}))

	issue := model.NewIssue(model.CodeMissingValues, "note",
		model.IssueMissingData, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, statsFor(ds))

	drops := 0
	for _, f := range fixes {
		if f.ID == model.FixDropRows {
			drops++
			assert.True(t, f.Recommended)
		}
	}
	assert.Equal(t, 1, drops)
}

func TestTypeMismatchPrefersWordConversion(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("age", table.KindText,
		[]any{"25", "twenty", "30"}))
	require.NoError(t, ds.AddColumn("amount", table.KindText,
		[]any{"100", "pending", "300"}))

	e := newTestEngine(t)

	wordIssue := model.NewIssue(model.CodeWordAsNumber, "age",
		model.IssueTypeMismatch, model.SeverityHigh, "", nil)
	fixes := e.Recommend(ds, []model.Issue{wordIssue}, nil)
	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixWordToNumber, rec.ID)

	textIssue := model.NewIssue(model.CodeWordAsNumber, "amount",
		model.IssueTypeMismatch, model.SeverityHigh, "", nil)
	fixes = e.Recommend(ds, []model.Issue{textIssue}, nil)
	rec = recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixTextToNullImpute, rec.ID)
	median, ok := rec.Float("median")
	require.True(t, ok)
	assert.InDelta(t, 200.0, median, 0.001)

	var dropOffered bool
	for _, f := range fixes {
		if f.ID == model.FixDropTextRows {
			dropOffered = true
			assert.False(t, f.Recommended)
		}
	}
	assert.True(t, dropOffered)
}

func TestDuplicateFixesKeepFirstRecommended(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("customer_id", table.KindNumeric,
		[]any{1.0, 2.0, 2.0, 4.0}))

	issue := model.NewIssue(model.CodeIDClash, "customer_id",
		model.IssueIdentityClash, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, nil)

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixKeepFirstID, rec.ID)

	ids := make(map[model.FixID]bool)
	for _, f := range fixes {
		ids[f.ID] = true
	}
	assert.True(t, ids[model.FixKeepLastID])
	assert.True(t, ids[model.FixKeepComplete])
}

func TestDateFixesStandardizeAndMedian(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("joined_date", table.KindText,
		[]any{"2023-01-15", "01/05/2023", "2023.07.12", "garbage"}))

	e := newTestEngine(t)

	mixed := model.NewIssue(model.CodeMixedDateFormats, "joined_date",
		model.IssueFormatDivergence, model.SeverityHigh, "", nil)
	fixes := e.Recommend(ds, []model.Issue{mixed}, nil)
	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixStandardizeDateFormat, rec.ID)

	invalid := model.NewIssue(model.CodeInvalidDateFormat, "joined_date",
		model.IssueInvalidDateFormat, model.SeverityHigh, "", nil)
	fixes = e.Recommend(ds, []model.Issue{invalid}, nil)
	rec = recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixInvalidDateToMedian, rec.ID)
	medianDate, ok := rec.Str("median_date")
	require.True(t, ok)
	assert.Equal(t, "2023-01-15", medianDate)
}

func TestRangeFixesCapRecommended(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("discount_percent", table.KindNumeric,
		[]any{50.0, 150.0, 80.0}))

	issue := model.NewIssue(model.CodeRangeExceeded, "discount_percent",
		model.IssueRangeViolation, model.SeverityHigh, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, nil)

	rec := recommendedOf(fixes)
	require.NotNil(t, rec)
	assert.Equal(t, model.FixCapAt100, rec.ID)
	bound, ok := rec.Float("cap")
	require.True(t, ok)
	assert.Equal(t, 100.0, bound)
}

func TestUnknownIssueTypeYieldsNoFixes(t *testing.T) {
	ds := table.New()
	require.NoError(t, ds.AddColumn("x", table.KindText, []any{"a"}))

	issue := model.NewIssue("BOGUS", "x", model.IssueType(99), model.SeverityLow, "", nil)
	fixes := newTestEngine(t).Recommend(ds, []model.Issue{issue}, nil)
	assert.Empty(t, fixes)
}
