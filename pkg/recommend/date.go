// pkg/recommend/date.go
package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

// dateFormatFixes handles mixed separators, unparseable values, future dates
// and start/end ordering violations.
func (e *Engine) dateFormatFixes(ds *table.Dataset, issue model.Issue) []model.Fix {
	switch issue.Code {
	case model.CodeMixedDateFormats:
		return []model.Fix{{
			ID:          model.FixStandardizeDateFormat,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Standardize dates in '%s' to YYYY-MM-DD", issue.Column),
			Description: "Parse each value against the known formats and rewrite the first match",
			Impact:      "One consistent date representation",
			Risk:        "Ambiguous day/month values resolve by format try-order",
			Recommended: true,
		}}

	case model.CodeInvalidDateFormat:
		return e.invalidDateFixes(ds, issue)

	case model.CodeFutureDate:
		return []model.Fix{
			{
				ID:          model.FixInvalidDateToNull,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       fmt.Sprintf("Convert future dates in '%s' to missing", issue.Column),
				Description: "Treat dates after today as unknown",
				Impact:      "Increases missingness",
				Risk:        "Low",
				Recommended: true,
				Params:      map[string]any{"mode": "future"},
			},
			{
				ID:          model.FixDropInvalidDateRows,
				IssueCode:   issue.Code,
				Column:      issue.Column,
				Label:       fmt.Sprintf("Drop rows with future dates in '%s'", issue.Column),
				Description: "Remove the affected rows entirely",
				Impact:      "Reduces row count",
				Risk:        "Loses all other values in the dropped rows",
				Params:      map[string]any{"mode": "future"},
			},
		}

	case model.CodeSequenceError:
		start, end, ok := splitColumnPair(issue.Column)
		if !ok {
			return nil
		}
		return []model.Fix{{
			ID:          model.FixDropInvalidRows,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Drop rows where '%s' is after '%s'", start, end),
			Description: "Remove rows whose dates are in the wrong order",
			Impact:      "Reduces row count",
			Risk:        "The correct order cannot be reconstructed automatically",
			Params:      map[string]any{"mode": "sequence", "start": start, "end": end},
		}}

	default:
		return nil
	}
}

func (e *Engine) invalidDateFixes(ds *table.Dataset, issue model.Issue) []model.Fix {
	col := ds.Column(issue.Column)
	if col == nil {
		return nil
	}

	var fixes []model.Fix
	if median, ok := medianDate(col, e.rules.FallbackLayouts); ok {
		fixes = append(fixes, model.Fix{
			ID:          model.FixInvalidDateToMedian,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Replace unparseable dates in '%s' with %s", issue.Column, median),
			Description: "Fill unreadable values with the median of the valid dates",
			Impact:      "Preserves all rows",
			Risk:        "Imputed dates are approximations",
			Recommended: true,
			Params:      map[string]any{"median_date": median},
		})
	}
	fixes = append(fixes,
		model.Fix{
			ID:          model.FixInvalidDateToNull,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Convert unparseable dates in '%s' to missing", issue.Column),
			Description: "Treat unreadable values as unknown",
			Impact:      "Increases missingness",
			Risk:        "Low",
		},
		model.Fix{
			ID:          model.FixDropInvalidDateRows,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Drop rows with unparseable dates in '%s'", issue.Column),
			Description: "Remove the affected rows entirely",
			Impact:      "Reduces row count",
			Risk:        "Loses all other values in the dropped rows",
		},
		model.Fix{
			ID:          model.FixInvalidDateDefault,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Replace unparseable dates in '%s' with %s", issue.Column, e.rules.DefaultDate),
			Description: "Fill unreadable values with a sentinel default date",
			Impact:      "Preserves all rows with an obvious sentinel",
			Risk:        "The sentinel can skew date arithmetic",
			Params:      map[string]any{"default_date": e.rules.DefaultDate},
		})
	return fixes
}

// medianDate returns the median of the parseable date values formatted as
// YYYY-MM-DD.
func medianDate(col *table.Column, layouts []string) (string, bool) {
	var times []time.Time
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		if t, ok := table.AsTime(v, layouts); ok {
			times = append(times, t)
		}
	}
	if len(times) == 0 {
		return "", false
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times[len(times)/2].Format("2006-01-02"), true
}

// splitColumnPair splits the "start/end" column naming used by cross-column
// issues.
func splitColumnPair(name string) (string, string, bool) {
	parts := strings.SplitN(name, "/", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
