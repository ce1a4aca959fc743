// pkg/recommend/typemismatch.go
package recommend

import (
	"fmt"
	"strings"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

// typeMismatchFixes handles alphabetic content inside numeric columns. Spelled
// numbers convert; anything else coerces to missing and is imputed. Dropping
// the rows is always on offer but never the default.
func (e *Engine) typeMismatchFixes(ds *table.Dataset, issue model.Issue) []model.Fix {
	col := ds.Column(issue.Column)
	if col == nil {
		return nil
	}

	hasWords := false
	for _, v := range col.Cells {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, found := e.rules.NumberWords[strings.ToLower(strings.TrimSpace(s))]; found {
			hasWords = true
			break
		}
	}

	var fixes []model.Fix
	if hasWords {
		fixes = append(fixes, model.Fix{
			ID:          model.FixWordToNumber,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Convert spelled-out numbers in '%s'", issue.Column),
			Description: "Replace words like 'twenty' with their numeric value",
			Impact:      "Recovers the intended numbers",
			Risk:        "Low",
			Recommended: true,
		})
	} else {
		median, _ := medianWhere(col, func(float64) bool { return true })
		fixes = append(fixes, model.Fix{
			ID:          model.FixTextToNullImpute,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Convert text in '%s' to missing and impute", issue.Column),
			Description: fmt.Sprintf("Replace unconvertible text with the median of the numeric values (%.2f)", median),
			Impact:      "Preserves all rows",
			Risk:        "Imputed values may not reflect the original intent",
			Recommended: true,
			Params:      map[string]any{"median": median},
		})
	}

	fixes = append(fixes, model.Fix{
		ID:          model.FixDropTextRows,
		IssueCode:   issue.Code,
		Column:      issue.Column,
		Label:       fmt.Sprintf("Drop rows with text in '%s'", issue.Column),
		Description: "Remove the rows holding non-numeric values",
		Impact:      "Reduces row count",
		Risk:        "Loses all other values in the dropped rows",
	})
	return fixes
}
