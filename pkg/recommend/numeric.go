// pkg/recommend/numeric.go
package recommend

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

// numericValidityFixes handles negative ages and percentage-style range
// violations.
func (e *Engine) numericValidityFixes(ds *table.Dataset, issue model.Issue) []model.Fix {
	col := ds.Column(issue.Column)
	if col == nil {
		return nil
	}

	switch issue.Code {
	case model.CodeNegativeAge:
		return e.negativeAgeFixes(col, issue)
	case model.CodeRangeExceeded:
		return e.rangeFixes(col, issue)
	default:
		return nil
	}
}

func (e *Engine) negativeAgeFixes(col *table.Column, issue model.Issue) []model.Fix {
	median, ok := medianWhere(col, func(f float64) bool { return f >= 0 })
	fixes := []model.Fix{}
	if ok {
		fixes = append(fixes, model.Fix{
			ID:          model.FixNegativeToMedian,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Replace negative values with median (%.0f)", median),
			Description: "Replace negative values with the median of the valid values",
			Impact:      "Preserves all rows",
			Risk:        "Low",
			Recommended: true,
			Params:      map[string]any{"median": median},
		})
	}
	fixes = append(fixes,
		model.Fix{
			ID:          model.FixNegativeToAbs,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       "Convert negative values to positive",
			Description: "Take the absolute value, assuming a sign-entry mistake",
			Impact:      "Preserves all rows",
			Risk:        "Wrong if the sign was not a typo",
		},
		model.Fix{
			ID:          model.FixNegativeToNull,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       "Replace negative values with missing",
			Description: "Treat negative values as unknown",
			Impact:      "Increases missingness",
			Risk:        "Low",
		})
	return fixes
}

func (e *Engine) rangeFixes(col *table.Column, issue model.Issue) []model.Fix {
	bound := e.rules.PercentCap
	return []model.Fix{
		{
			ID:          model.FixCapAt100,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Cap values at %.0f", bound),
			Description: fmt.Sprintf("Clamp values above %.0f down to %.0f", bound, bound),
			Impact:      "Preserves all rows",
			Risk:        "Hides how far out of range the values were",
			Recommended: true,
			Params:      map[string]any{"cap": bound},
		},
		{
			ID:          model.FixRangeToNull,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       "Replace out-of-range values with missing",
			Description: "Treat out-of-range values as unknown",
			Impact:      "Increases missingness",
			Risk:        "Low",
			Params:      map[string]any{"cap": bound},
		},
		{
			ID:          model.FixDropInvalidRows,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       "Drop rows with out-of-range values",
			Description: "Remove the affected rows entirely",
			Impact:      "Reduces row count",
			Risk:        "Loses all other values in the dropped rows",
			Params:      map[string]any{"cap": bound},
		},
	}
}

// medianWhere computes the median of coercible values passing the predicate.
func medianWhere(col *table.Column, keep func(float64) bool) (float64, bool) {
	var values []float64
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		if f, ok := table.AsFloatLoose(v); ok && keep(f) {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	return stat.Quantile(0.5, stat.LinInterp, values, nil), true
}
