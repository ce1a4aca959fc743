// pkg/recommend/outlier.go
package recommend

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

// outlierFixes offers four remediation shapes for extreme values: percentile
// capping (default), IQR capping, row removal, and winsorization. Every bound
// is computed here so previews and applied effects agree.
func (e *Engine) outlierFixes(ds *table.Dataset, issue model.Issue) []model.Fix {
	col := ds.Column(issue.Column)
	if col == nil {
		return nil
	}

	var values []float64
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		if f, ok := table.AsFloat(v); ok {
			values = append(values, f)
		}
	}
	if len(values) < 3 {
		return nil
	}
	sort.Float64s(values)
	std := stat.StdDev(values, nil)
	if std == 0 {
		return nil
	}
	mean := stat.Mean(values, nil)

	p1 := stat.Quantile(0.01, stat.LinInterp, values, nil)
	p99 := stat.Quantile(0.99, stat.LinInterp, values, nil)
	q1 := stat.Quantile(0.25, stat.LinInterp, values, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, values, nil)
	iqr := q3 - q1
	p5 := stat.Quantile(0.05, stat.LinInterp, values, nil)
	p95 := stat.Quantile(0.95, stat.LinInterp, values, nil)

	return []model.Fix{
		{
			ID:          model.FixCapPercentile,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Cap '%s' at the 1st/99th percentiles", issue.Column),
			Description: fmt.Sprintf("Clamp values outside [%.2f, %.2f]", p1, p99),
			Impact:      "Preserves all rows",
			Risk:        "Low",
			Recommended: true,
			Params:      map[string]any{"lower": p1, "upper": p99},
		},
		{
			ID:          model.FixCapIQR,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Cap '%s' at 1.5×IQR bounds", issue.Column),
			Description: fmt.Sprintf("Clamp values outside [%.2f, %.2f]", q1-1.5*iqr, q3+1.5*iqr),
			Impact:      "Preserves all rows",
			Risk:        "More aggressive than percentile capping",
			Params:      map[string]any{"lower": q1 - 1.5*iqr, "upper": q3 + 1.5*iqr},
		},
		{
			ID:          model.FixRemoveOutliers,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Remove rows with outliers in '%s'", issue.Column),
			Description: fmt.Sprintf("Drop rows where the z-score exceeds %.0f", e.rules.OutlierZScore),
			Impact:      "Reduces row count",
			Risk:        "Loses all other values in the dropped rows",
			Params:      map[string]any{"mean": mean, "std": std, "zscore": e.rules.OutlierZScore},
		},
		{
			ID:          model.FixWinsorize,
			IssueCode:   issue.Code,
			Column:      issue.Column,
			Label:       fmt.Sprintf("Winsorize '%s' at the 5th/95th percentiles", issue.Column),
			Description: fmt.Sprintf("Clamp values outside [%.2f, %.2f]", p5, p95),
			Impact:      "Preserves all rows",
			Risk:        "Flattens the distribution tails",
			Params:      map[string]any{"lower": p5, "upper": p95},
		},
	}
}
