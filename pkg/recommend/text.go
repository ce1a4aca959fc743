// pkg/recommend/text.go
package recommend

import (
	"fmt"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

// textCleaningFixes handles structural noise in text columns. Each defect
// category gets its own independently recommended transformation.
func (e *Engine) textCleaningFixes(ds *table.Dataset, issue model.Issue) []model.Fix {
	col := ds.Column(issue.Column)
	if col == nil {
		return nil
	}

	switch issue.Code {
	case model.CodeProxyMissing:
		return []model.Fix{{
			ID:          model.FixProxyToNull,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Convert placeholders in '%s' to missing", issue.Column),
			Description: "Replace tokens like '?' and 'unknown' with proper missing values",
			Impact:      "Makes the real missingness visible",
			Risk:        "None",
			Recommended: true,
		}}

	case model.CodeEmptyText:
		return e.emptyTextFixes(col, issue)

	case model.CodeWhitespace:
		return []model.Fix{{
			ID:          model.FixStripWhitespace,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Strip whitespace in '%s'", issue.Column),
			Description: "Remove leading and trailing spaces",
			Impact:      "Normalizes values for comparison",
			Risk:        "None",
			Recommended: true,
		}}

	case model.CodeSpecialChars:
		return []model.Fix{
			{
				ID:          model.FixRemoveSpecialChars,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       fmt.Sprintf("Remove special characters from '%s'", issue.Column),
				Description: "Delete characters like ?, !, @, #, $",
				Impact:      "Cleans up noisy values",
				Risk:        "May join words that the character separated",
				Recommended: true,
			},
			{
				ID:          model.FixReplaceSpecialWithSpace,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       fmt.Sprintf("Replace special characters in '%s' with spaces", issue.Column),
				Description: "Swap each special character for a single space",
				Impact:      "Cleans up noisy values",
				Risk:        "May introduce extra spacing",
			},
		}

	case model.CodeEncodingJunk:
		return []model.Fix{{
			ID:          model.FixRemoveNonASCII,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Remove non-ASCII characters from '%s'", issue.Column),
			Description: "Strip bytes outside the ASCII range",
			Impact:      "Removes encoding artifacts",
			Risk:        "Legitimate accented characters are also removed",
			Recommended: true,
		}}

	case model.CodeCaseDivergence:
		return []model.Fix{{
			ID:          model.FixStandardizeCaseLower,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Lowercase all values in '%s'", issue.Column),
			Description: "Standardize letter casing to lowercase",
			Impact:      "Makes equal values compare equal",
			Risk:        "Original casing is lost",
			Recommended: true,
		}}

	default:
		return nil
	}
}

func (e *Engine) emptyTextFixes(col *table.Column, issue model.Issue) []model.Fix {
	toNull := model.Fix{
		ID:          model.FixEmptyTextToNull,
		IssueCode:   issue.Code,
		Column:      issue.Column,
		Label:       fmt.Sprintf("Convert empty text in '%s' to missing", issue.Column),
		Description: "Replace empty-string variants with proper missing values",
		Impact:      "Makes the real missingness visible",
		Risk:        "None",
	}

	mode, _, total, _ := cleanMode(col, e)
	if total > 0 && mode != "" {
		return []model.Fix{
			{
				ID:          model.FixEmptyTextToMode,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       fmt.Sprintf("Replace empty text in '%s' with '%s'", issue.Column, mode),
				Description: fmt.Sprintf("Fill empty-string variants with the most common clean value ('%s')", mode),
				Impact:      "Preserves all rows with a plausible value",
				Risk:        "May overstate the dominant value",
				Recommended: true,
				Params:      map[string]any{"mode": mode},
			},
			toNull,
		}
	}

	toNull.Recommended = true
	return []model.Fix{toNull}
}
