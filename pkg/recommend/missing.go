// pkg/recommend/missing.go
package recommend

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/profile"
	"github.com/tidytable/tidytable/pkg/table"
)

var embeddedNumberPattern = regexp.MustCompile(`\d+\.?\d*`)

// missingValueFixes handles null cells. Policy: above the missingness
// threshold drop the column, unless numbers can still be extracted from the
// text; below it impute, choosing the statistic by distribution shape (dates
// forward-fill), with a row-drop alternative whenever retention stays
// acceptable and no drop is already on offer.
func (e *Engine) missingValueFixes(ds *table.Dataset, issue model.Issue, stats map[string]profile.ColumnStats) []model.Fix {
	col := ds.Column(issue.Column)
	if col == nil || ds.RowCount() == 0 {
		return nil
	}
	cs, ok := stats[issue.Column]
	if !ok {
		cs = profile.Describe(col)
	}

	nulls := col.NullCount()
	missingPct := float64(nulls) / float64(ds.RowCount()) * 100

	if missingPct > e.rules.MaxMissingPct {
		return e.highMissingnessFixes(col, issue, missingPct)
	}

	var fixes []model.Fix
	switch col.Kind {
	case table.KindNumeric:
		fixes = e.numericImputeFixes(col, issue, cs)
	case table.KindDatetime:
		fixes = e.datetimeImputeFixes(issue, nulls)
	default:
		fixes = e.categoricalImputeFixes(col, issue)
	}

	retention := float64(ds.RowCount()-nulls) / float64(ds.RowCount()) * 100
	if retention >= e.rules.MinRetentionPct && !containsFix(fixes, model.FixDropRows) {
		fixes = append(fixes, model.Fix{
			ID:          model.FixDropRows,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Drop rows missing '%s'", issue.Column),
			Description: fmt.Sprintf("Remove the %d rows where '%s' is missing", nulls, issue.Column),
			Impact:      fmt.Sprintf("Keeps %.0f%% of rows", retention),
			Risk:        "Loses all other values in the dropped rows",
		})
	}
	return fixes
}

func (e *Engine) highMissingnessFixes(col *table.Column, issue model.Issue, missingPct float64) []model.Fix {
	dropColumn := model.Fix{
		ID:          model.FixDropColumn,
		IssueCode:   issue.Code,
		Column:      issue.Column,
		Label:       fmt.Sprintf("Drop column '%s'", issue.Column),
		Description: fmt.Sprintf("Remove '%s' entirely (%.1f%% missing)", issue.Column, missingPct),
		Impact:      "Removes one column",
		Risk:        "All information in the column is lost",
	}

	if col.Kind.IsTextual() {
		if median, count := extractedNumericMedian(col); count > 0 {
			return []model.Fix{
				{
					ID:          model.FixExtractNumericImpute,
					IssueCode:   issue.Code,
					Column:      issue.Column,
					Label:       fmt.Sprintf("Extract numbers from '%s' and impute", issue.Column),
					Description: "Pull embedded numeric values out of the text, then fill gaps with their median",
					Impact:      fmt.Sprintf("Salvages %d embedded numeric values", count),
					Risk:        "Non-numeric text content is discarded",
					Recommended: true,
					Params:      map[string]any{"median": median},
				},
				dropColumn,
			}
		}
	}

	dropColumn.Recommended = true
	return []model.Fix{dropColumn}
}

func (e *Engine) numericImputeFixes(col *table.Column, issue model.Issue, cs profile.ColumnStats) []model.Fix {
	median := model.Fix{
		ID:          model.FixMedianImpute,
		IssueCode:   issue.Code,
		Column:      issue.Column,
		Label:       fmt.Sprintf("Fill '%s' with median (%.2f)", issue.Column, cs.Median),
		Description: "Replace missing values with the column median",
		Impact:      "Preserves all rows",
		Risk:        "Low",
		Params:      map[string]any{"median": cs.Median},
	}
	mean := model.Fix{
		ID:          model.FixMeanImpute,
		IssueCode:   issue.Code,
		Column:      issue.Column,
		Label:       fmt.Sprintf("Fill '%s' with mean (%.2f)", issue.Column, cs.Mean),
		Description: "Replace missing values with the column mean",
		Impact:      "Preserves all rows",
		Risk:        "Sensitive to outliers",
		Params:      map[string]any{"mean": cs.Mean},
	}

	skewed := math.Abs(cs.Skewness) > e.rules.SkewThreshold
	isAge := strings.Contains(strings.ToLower(issue.Column), "age")
	if skewed || isAge {
		median.Recommended = true
		return []model.Fix{median, mean}
	}
	mean.Recommended = true
	return []model.Fix{mean, median}
}

func (e *Engine) datetimeImputeFixes(issue model.Issue, nulls int) []model.Fix {
	return []model.Fix{{
		ID:          model.FixForwardFill,
		IssueCode:   issue.Code,
		Column:      issue.Column,
		Label:       fmt.Sprintf("Forward fill '%s' from the previous date", issue.Column),
		Description: "Fill missing dates with the last valid date above them",
		Impact:      fmt.Sprintf("Preserves all %d affected rows", nulls),
		Risk:        "Assumes temporal continuity",
		Recommended: true,
	}}
}

func containsFix(fixes []model.Fix, id model.FixID) bool {
	for _, f := range fixes {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (e *Engine) categoricalImputeFixes(col *table.Column, issue model.Issue) []model.Fix {
	mode, modeCount, cleanTotal, distinct := cleanMode(col, e)
	if cleanTotal == 0 {
		return nil
	}
	modeFreq := float64(modeCount) / float64(cleanTotal)
	diversity := float64(distinct) / float64(cleanTotal)

	if modeFreq > e.rules.ModeMinFrequency && diversity < e.rules.MaxDiversityRatio {
		return []model.Fix{{
			ID:          model.FixModeImpute,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Fill '%s' with most common value ('%s')", issue.Column, mode),
			Description: fmt.Sprintf("Replace missing values with '%s' (%.0f%% of clean values)", mode, modeFreq*100),
			Impact:      "Preserves all rows",
			Risk:        "May overstate the dominant category",
			Recommended: true,
			Params:      map[string]any{"mode": mode},
		}}
	}

	return []model.Fix{{
		ID:          model.FixDropRows,
		IssueCode:   issue.Code,
		Column:      issue.Column,
		Label:       fmt.Sprintf("Drop rows missing '%s'", issue.Column),
		Description: "No dominant value to impute; remove the affected rows",
		Impact:      fmt.Sprintf("Removes %d rows", col.NullCount()),
		Risk:        "Loses all other values in the dropped rows",
		Recommended: true,
	}}
}

// cleanMode computes the most frequent value after stripping placeholder
// tokens and special characters, plus clean-value totals for the frequency
// and diversity thresholds.
func cleanMode(col *table.Column, e *Engine) (string, int, int, int) {
	counts := make(map[string]int)
	total := 0
	best, bestN := "", 0
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		s := table.AsString(v)
		if e.rules.IsPlaceholder(s) || e.rules.IsEmptyVariant(s) {
			continue
		}
		s = strings.TrimSpace(removalPattern.ReplaceAllString(s, ""))
		if s == "" {
			continue
		}
		total++
		counts[s]++
		if counts[s] > bestN {
			best, bestN = s, counts[s]
		}
	}
	return best, bestN, total, len(counts)
}

var removalPattern = regexp.MustCompile(`[?!@#$%^&*]`)

// extractedNumericMedian pulls embedded numbers out of text cells and returns
// their median and count.
func extractedNumericMedian(col *table.Column) (float64, int) {
	tmp := &table.Column{Name: col.Name, Kind: table.KindNumeric}
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		m := embeddedNumberPattern.FindString(table.AsString(v))
		if m == "" {
			continue
		}
		if f, ok := table.AsFloat(m); ok {
			tmp.Cells = append(tmp.Cells, f)
		}
	}
	median, ok := profile.Median(tmp)
	if !ok {
		return 0, 0
	}
	return median, len(tmp.Cells)
}
