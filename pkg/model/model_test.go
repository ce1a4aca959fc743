// pkg/model/model_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIssueFillsLabels(t *testing.T) {
	issue := NewIssue(CodeNegativeAge, "age", IssueNumericValidity, SeverityHigh,
		"2 negative age values", []string{"-5"})

	assert.Equal(t, "Numeric Validity", issue.TypeLabel)
	assert.Equal(t, "High", issue.SeverityStr)
	assert.Equal(t, []string{"-5"}, issue.Examples)
}

func TestFixParamAccessors(t *testing.T) {
	fix := Fix{
		ID: FixMedianImpute,
		Params: map[string]any{
			"median": 57500.0,
			"count":  3,
			"mode":   "USA",
			"future": true,
		},
	}

	f, ok := fix.Float("median")
	require.True(t, ok)
	assert.Equal(t, 57500.0, f)

	f, ok = fix.Float("count")
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = fix.Float("missing")
	assert.False(t, ok)

	s, ok := fix.Str("mode")
	require.True(t, ok)
	assert.Equal(t, "USA", s)

	_, ok = fix.Str("median")
	assert.False(t, ok)

	assert.True(t, fix.Bool("future"))
	assert.False(t, fix.Bool("absent"))
}

func TestRecommendedFilter(t *testing.T) {
	fixes := []Fix{
		{ID: FixMedianImpute, Recommended: true},
		{ID: FixMeanImpute},
		{ID: FixKeepFirstID, Recommended: true},
	}

	rec := Recommended(fixes)
	require.Len(t, rec, 2)
	assert.Equal(t, FixMedianImpute, rec[0].ID)
	assert.Equal(t, FixKeepFirstID, rec[1].ID)
}

func TestFixString(t *testing.T) {
	fix := Fix{Label: "Cap values at 100", Recommended: true}
	assert.Equal(t, "<Fix: Cap values at 100 [RECOMMENDED]>", fix.String())
}
