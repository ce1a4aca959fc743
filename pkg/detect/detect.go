// pkg/detect/detect.go
package detect

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/tidytable/tidytable/pkg/classify"
	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

const maxExamples = 3

var (
	specialCharPattern = regexp.MustCompile(`[?!#$%^&*]`)
	dateSepPattern     = regexp.MustCompile(`\d{1,4}([-/.])\d{1,2}[-/.]\d{1,4}`)
)

// Engine runs the fixed battery of data-quality checks over a dataset. It is
// stateless between runs; a failure inside one check is contained to that
// check and scanning continues.
type Engine struct {
	rules  rules.Rules
	logger *zap.Logger
}

// NewEngine creates a detection engine.
func NewEngine(r rules.Rules, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Engine{rules: r, logger: logger}, nil
}

// Detect runs every check in its fixed order and returns the accumulated
// issues. The dataset is never mutated.
func (e *Engine) Detect(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue

	checks := []struct {
		name string
		fn   func(*table.Dataset, classify.Roles) []model.Issue
	}{
		{"missing_data", e.checkMissingData},
		{"proxy_missingness", e.checkProxyMissingness},
		{"empty_text", e.checkEmptyText},
		{"negative_age", e.checkNegativeAge},
		{"range_violation", e.checkRangeViolation},
		{"impossible_age", e.checkImpossibleAge},
		{"invalid_monetary", e.checkInvalidMonetary},
		{"future_date", e.checkFutureDate},
		{"invalid_date_format", e.checkInvalidDateFormat},
		{"mixed_date_separators", e.checkMixedDateSeparators},
		{"logical_sequence", e.checkLogicalSequence},
		{"whitespace", e.checkWhitespace},
		{"special_chars", e.checkSpecialChars},
		{"encoding", e.checkEncoding},
		{"type_mismatch", e.checkTypeMismatch},
		{"case_divergence", e.checkCaseDivergence},
		{"identity_clash", e.checkIdentityClash},
		{"extreme_outlier", e.checkExtremeOutlier},
	}

	for _, check := range checks {
		found := e.runContained(check.name, check.fn, ds, roles)
		issues = append(issues, found...)
	}

	e.logger.Info("Detection pass complete",
		zap.Int("issues", len(issues)),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()))
	return issues
}

// runContained shields the battery from a panicking check.
func (e *Engine) runContained(name string, fn func(*table.Dataset, classify.Roles) []model.Issue, ds *table.Dataset, roles classify.Roles) (out []model.Issue) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Detection check failed, continuing",
				zap.String("check", name),
				zap.Any("cause", r))
			out = nil
		}
	}()
	return fn(ds, roles)
}

func (e *Engine) checkMissingData(ds *table.Dataset, _ classify.Roles) []model.Issue {
	var issues []model.Issue
	rows := ds.RowCount()
	for _, col := range ds.Columns() {
		nulls := col.NullCount()
		if nulls == 0 {
			continue
		}
		pct := float64(nulls) / float64(rows) * 100
		issues = append(issues, model.NewIssue(
			model.CodeMissingValues, col.Name, model.IssueMissingData, model.SeverityHigh,
			fmt.Sprintf("%d missing values (%.1f%%)", nulls, pct), nil))
	}
	return issues
}

func (e *Engine) checkProxyMissingness(ds *table.Dataset, _ classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !col.Kind.IsTextual() {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if e.rules.IsPlaceholder(s) {
				count++
				examples = appendExample(examples, s)
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeProxyMissing, col.Name, model.IssueProxyMissingness, model.SeverityMedium,
				fmt.Sprintf("%d placeholder values standing in for missing data", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkEmptyText(ds *table.Dataset, _ classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !col.Kind.IsTextual() {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if e.rules.IsEmptyVariant(s) {
				count++
				examples = appendExample(examples, s)
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeEmptyText, col.Name, model.IssueProxyMissingness, model.SeverityMedium,
				fmt.Sprintf("%d empty-string variants", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkNegativeAge(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !roles.Age[col.Name] {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			if table.IsNull(v) {
				continue
			}
			if f, ok := table.AsFloat(v); ok && f < 0 {
				count++
				examples = appendExample(examples, table.AsString(v))
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeNegativeAge, col.Name, model.IssueNumericValidity, model.SeverityHigh,
				fmt.Sprintf("%d negative age values", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkRangeViolation(ds *table.Dataset, _ classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !rules.MatchesAny(col.Name, e.rules.PercentKeywords) {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			if table.IsNull(v) {
				continue
			}
			if f, ok := table.AsFloat(v); ok && f > e.rules.PercentCap {
				count++
				examples = appendExample(examples, table.AsString(v))
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeRangeExceeded, col.Name, model.IssueRangeViolation, model.SeverityHigh,
				fmt.Sprintf("%d values above %.0f", count, e.rules.PercentCap), examples))
		}
	}
	return issues
}

func (e *Engine) checkImpossibleAge(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !roles.Age[col.Name] {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			if table.IsNull(v) {
				continue
			}
			if f, ok := table.AsFloat(v); ok && (f < e.rules.AgeMin || f > e.rules.AgeMax) {
				count++
				examples = appendExample(examples, table.AsString(v))
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeImpossibleAge, col.Name, model.IssueDomainConstraint, model.SeverityHigh,
				fmt.Sprintf("%d ages outside [%.0f, %.0f]", count, e.rules.AgeMin, e.rules.AgeMax), examples))
		}
	}
	return issues
}

func (e *Engine) checkInvalidMonetary(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !roles.Monetary[col.Name] {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			if table.IsNull(v) {
				continue
			}
			if f, ok := table.AsFloatLoose(v); ok && f <= 0 {
				count++
				examples = appendExample(examples, table.AsString(v))
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeInvalidMonetary, col.Name, model.IssueDomainConstraint, model.SeverityHigh,
				fmt.Sprintf("%d non-positive monetary values", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkFutureDate(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	now := time.Now()
	for _, col := range ds.Columns() {
		if !roles.Date[col.Name] {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			if table.IsNull(v) {
				continue
			}
			if t, ok := table.AsTime(v, e.rules.FallbackLayouts); ok && t.After(now) {
				count++
				examples = appendExample(examples, table.AsString(v))
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeFutureDate, col.Name, model.IssueTimeTravel, model.SeverityMedium,
				fmt.Sprintf("%d dates in the future", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkInvalidDateFormat(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !roles.Date[col.Name] {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			if table.IsNull(v) {
				continue
			}
			if _, isTime := v.(time.Time); isTime {
				continue
			}
			if _, ok := table.AsTime(v, e.rules.FallbackLayouts); !ok {
				count++
				examples = appendExample(examples, table.AsString(v))
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeInvalidDateFormat, col.Name, model.IssueInvalidDateFormat, model.SeverityHigh,
				fmt.Sprintf("%d unparseable date values", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkMixedDateSeparators(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !roles.Date[col.Name] {
			continue
		}
		seps := make(map[string]bool)
		var examples []string
		for _, v := range col.Cells {
			s, ok := v.(string)
			if !ok {
				continue
			}
			m := dateSepPattern.FindStringSubmatch(s)
			if m == nil {
				continue
			}
			if !seps[m[1]] {
				seps[m[1]] = true
				examples = appendExample(examples, s)
			}
		}
		if len(seps) > 1 {
			issues = append(issues, model.NewIssue(
				model.CodeMixedDateFormats, col.Name, model.IssueFormatDivergence, model.SeverityHigh,
				fmt.Sprintf("%d different date separators in one column", len(seps)), examples))
		}
	}
	return issues
}

func (e *Engine) checkLogicalSequence(ds *table.Dataset, _ classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, start := range ds.Columns() {
		lower := strings.ToLower(start.Name)
		if !strings.Contains(lower, "start") {
			continue
		}
		endName := strings.Replace(lower, "start", "end", 1)
		end := findColumnFold(ds, endName)
		if end == nil {
			continue
		}
		count := 0
		var examples []string
		for i := range start.Cells {
			if i >= len(end.Cells) {
				break
			}
			st, ok1 := table.AsTime(start.Cells[i], e.rules.FallbackLayouts)
			et, ok2 := table.AsTime(end.Cells[i], e.rules.FallbackLayouts)
			if !ok1 || !ok2 {
				continue
			}
			if st.After(et) {
				count++
				examples = appendExample(examples,
					table.AsString(start.Cells[i])+" > "+table.AsString(end.Cells[i]))
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeSequenceError, start.Name+"/"+end.Name, model.IssueLogicalSequence, model.SeverityHigh,
				fmt.Sprintf("%d rows where %s is after %s", count, start.Name, end.Name), examples))
		}
	}
	return issues
}

func (e *Engine) checkWhitespace(ds *table.Dataset, _ classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !col.Kind.IsTextual() {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if s != strings.TrimSpace(s) {
				count++
				examples = appendExample(examples, s)
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeWhitespace, col.Name, model.IssueStructuralNoise, model.SeverityLow,
				fmt.Sprintf("%d values with leading or trailing whitespace", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkSpecialChars(ds *table.Dataset, _ classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !col.Kind.IsTextual() {
			continue
		}
		if rules.MatchesAny(col.Name, e.rules.ContactKeywords) {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if e.rules.IsPlaceholder(s) {
				continue
			}
			if specialCharPattern.MatchString(s) {
				count++
				examples = appendExample(examples, s)
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeSpecialChars, col.Name, model.IssueStructuralNoise, model.SeverityMedium,
				fmt.Sprintf("%d values containing special characters", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkEncoding(ds *table.Dataset, _ classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !col.Kind.IsTextual() {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if table.HasNonASCII(s) {
				count++
				examples = appendExample(examples, s)
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeEncodingJunk, col.Name, model.IssueEncodingArtifact, model.SeverityMedium,
				fmt.Sprintf("%d values with non-ASCII characters", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkTypeMismatch(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !roles.Numeric[col.Name] || col.Kind == table.KindNumeric {
			continue
		}
		count := 0
		var examples []string
		for _, v := range col.Cells {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if e.rules.IsPlaceholder(s) || e.rules.IsEmptyVariant(s) {
				continue
			}
			if table.HasLetters(s) {
				count++
				examples = appendExample(examples, s)
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeWordAsNumber, col.Name, model.IssueTypeMismatch, model.SeverityHigh,
				fmt.Sprintf("%d text values in a numeric column", count), examples))
		}
	}
	return issues
}

func (e *Engine) checkCaseDivergence(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !col.Kind.IsTextual() {
			continue
		}
		if roles.Identifier[col.Name] || roles.Date[col.Name] {
			continue
		}
		hasUpper, hasLower := false, false
		var upperEx, lowerEx string
		for _, v := range col.Cells {
			s, ok := v.(string)
			if !ok || !table.HasLetters(s) {
				continue
			}
			switch {
			case s == strings.ToUpper(s) && s != strings.ToLower(s):
				hasUpper = true
				upperEx = s
			case s == strings.ToLower(s):
				hasLower = true
				lowerEx = s
			}
		}
		if hasUpper && hasLower {
			issues = append(issues, model.NewIssue(
				model.CodeCaseDivergence, col.Name, model.IssueFormatDivergence, model.SeverityLow,
				"inconsistent letter casing within column", []string{upperEx, lowerEx}))
		}
	}
	return issues
}

func (e *Engine) checkIdentityClash(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !roles.Identifier[col.Name] {
			continue
		}
		seen := make(map[string]int)
		dups := 0
		var examples []string
		for _, v := range col.Cells {
			if table.IsNull(v) {
				continue
			}
			key := table.AsString(v)
			seen[key]++
			if seen[key] == 2 {
				dups++
				examples = appendExample(examples, key)
			}
		}
		if dups > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeIDClash, col.Name, model.IssueIdentityClash, model.SeverityHigh,
				fmt.Sprintf("%d duplicated identifier values", dups), examples))
		}
	}
	return issues
}

func (e *Engine) checkExtremeOutlier(ds *table.Dataset, roles classify.Roles) []model.Issue {
	var issues []model.Issue
	for _, col := range ds.Columns() {
		if !roles.Numeric[col.Name] || roles.Identifier[col.Name] || roles.Age[col.Name] {
			continue
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
		if len(values) < 2 {
			continue
		}
		mean := stat.Mean(values, nil)
		std := stat.StdDev(values, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		count := 0
		var examples []string
		for _, f := range values {
			z := (f - mean) / std
			if z > e.rules.OutlierZScore || z < -e.rules.OutlierZScore {
				count++
				examples = appendExample(examples, table.AsString(f))
			}
		}
		if count > 0 {
			issues = append(issues, model.NewIssue(
				model.CodeZScoreOutlier, col.Name, model.IssueExtremeOutlier, model.SeverityMedium,
				fmt.Sprintf("%d values with |z-score| above %.0f", count, e.rules.OutlierZScore), examples))
		}
	}
	return issues
}

func findColumnFold(ds *table.Dataset, name string) *table.Column {
	for _, col := range ds.Columns() {
		if strings.EqualFold(col.Name, name) {
			return col
		}
	}
	return nil
}

func appendExample(examples []string, s string) []string {
	if len(examples) >= maxExamples {
		return examples
	}
	return append(examples, s)
}
