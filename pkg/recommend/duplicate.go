// pkg/recommend/duplicate.go
package recommend

import (
	"fmt"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

// duplicateFixes handles identifier clashes. Keep-first is the default;
// keep-last and keep-most-complete are offered as alternatives, and when the
// dataset also carries exact full-row duplicates a dedicated drop option is
// added.
func (e *Engine) duplicateFixes(ds *table.Dataset, issue model.Issue) []model.Fix {
	fixes := []model.Fix{
		{
			ID:          model.FixKeepFirstID,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Keep first occurrence of each '%s'", issue.Column),
			Description: "Drop later rows repeating an identifier, then renumber",
			Impact:      "Removes the duplicated rows",
			Risk:        "Later occurrences may hold newer data",
			Recommended: true,
		},
		{
			ID:          model.FixKeepLastID,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Keep last occurrence of each '%s'", issue.Column),
			Description: "Drop earlier rows repeating an identifier, then renumber",
			Impact:      "Removes the duplicated rows",
			Risk:        "Earlier occurrences may be the authoritative entry",
		},
		{
			ID:          model.FixKeepComplete,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Keep most complete row per '%s'", issue.Column),
			Description: "For each duplicated identifier keep the row with the fewest missing values",
			Impact:      "Removes the duplicated rows",
			Risk:        "Ties resolve to the first occurrence",
		},
	}

	if ds.DuplicateRowCount() > 0 {
		fixes = append(fixes, model.Fix{
			ID:          model.FixDropExactDuplicate,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       "Drop exact duplicate rows",
			Description: fmt.Sprintf("Remove the %d rows identical to an earlier row", ds.DuplicateRowCount()),
			Impact:      "Removes fully redundant rows",
			Risk:        "None",
		})
	}
	return fixes
}
