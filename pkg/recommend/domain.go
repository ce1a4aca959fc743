// pkg/recommend/domain.go
package recommend

import (
	"fmt"
	"math"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

// domainFixes handles biologically impossible ages and non-positive monetary
// values.
func (e *Engine) domainFixes(ds *table.Dataset, issue model.Issue) []model.Fix {
	col := ds.Column(issue.Column)
	if col == nil {
		return nil
	}

	switch issue.Code {
	case model.CodeImpossibleAge:
		var fixes []model.Fix
		if median, ok := medianWhere(col, func(f float64) bool {
			return f >= e.rules.AgeMin && f <= e.rules.AgeMax
		}); ok {
			median = math.Round(median)
			fixes = append(fixes, model.Fix{
				ID:          model.FixImpossibleAgeToMedian,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       fmt.Sprintf("Replace impossible ages with median (%.0f)", median),
				Description: "Replace out-of-range ages with the median of the plausible ages",
				Impact:      "Preserves all rows",
				Risk:        "Low",
				Recommended: true,
				Params:      map[string]any{"median": median},
			})
		}
		fixes = append(fixes,
			model.Fix{
				ID:          model.FixImpossibleAgeToNull,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       "Replace impossible ages with missing",
				Description: "Treat out-of-range ages as unknown",
				Impact:      "Increases missingness",
				Risk:        "Low",
			},
			model.Fix{
				ID:          model.FixDropImpossibleAgeRows,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       "Drop rows with impossible ages",
				Description: "Remove the affected rows entirely",
				Impact:      "Reduces row count",
				Risk:        "Loses all other values in the dropped rows",
			})
		return fixes

	case model.CodeInvalidMonetary:
		var fixes []model.Fix
		if median, ok := medianWhere(col, func(f float64) bool { return f > 0 }); ok {
			fixes = append(fixes, model.Fix{
				ID:          model.FixZeroMonetaryToMedian,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       fmt.Sprintf("Replace non-positive values with median (%.2f)", median),
				Description: "Replace zero and negative amounts with the median of the positive values",
				Impact:      "Preserves all rows",
				Risk:        "Low",
				Recommended: true,
				Params:      map[string]any{"median": median},
			})
		}
		fixes = append(fixes,
			model.Fix{
				ID:          model.FixZeroMonetaryToNull,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       "Replace non-positive values with missing",
				Description: "Treat zero and negative amounts as unknown",
				Impact:      "Increases missingness",
				Risk:        "Low",
			},
			model.Fix{
				ID:          model.FixDropZeroMonetaryRows,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       "Drop rows with non-positive values",
				Description: "Remove the affected rows entirely",
				Impact:      "Reduces row count",
				Risk:        "Loses all other values in the dropped rows",
			})
		return fixes

	default:
		return nil
	}
}
