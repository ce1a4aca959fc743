// pkg/classify/classify.go
package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

// datePattern matches values shaped like dates with /, - or . separators.
var datePattern = regexp.MustCompile(`\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}`)

// sampleSize bounds how many string values the date-content heuristic looks at.
const sampleSize = 20

// Roles holds the semantic column role sets consumed by the detection engine
// and by the executor (identifier resequencing). Compute once, pass
// explicitly.
type Roles struct {
	Identifier map[string]bool
	Date       map[string]bool
	Numeric    map[string]bool
	Monetary   map[string]bool
	Age        map[string]bool
}

// Detect derives column roles from names and values. It is a pure function of
// the dataset and the ruleset.
func Detect(ds *table.Dataset, r rules.Rules) Roles {
	roles := Roles{
		Identifier: make(map[string]bool),
		Date:       make(map[string]bool),
		Numeric:    make(map[string]bool),
		Monetary:   make(map[string]bool),
		Age:        make(map[string]bool),
	}
	for _, col := range ds.Columns() {
		name := strings.ToLower(col.Name)
		if isIdentifier(col, r) {
			roles.Identifier[col.Name] = true
		}
		if isDate(col, r) {
			roles.Date[col.Name] = true
		}
		if isNumeric(col, r) {
			roles.Numeric[col.Name] = true
		}
		if rules.MatchesAny(col.Name, r.MonetaryKeywords) {
			roles.Monetary[col.Name] = true
		}
		if strings.Contains(name, "age") {
			roles.Age[col.Name] = true
		}
	}
	return roles
}

// IdentifierColumns returns the identifier role set alone, for callers that
// only resequence keys.
func IdentifierColumns(ds *table.Dataset, r rules.Rules) []string {
	var out []string
	for _, col := range ds.Columns() {
		if isIdentifier(col, r) {
			out = append(out, col.Name)
		}
	}
	return out
}

// isIdentifier detects sequential-key columns: the name mentions "id", every
// value is numeric, and the mean gap between sorted distinct values is at
// most the configured maximum.
func isIdentifier(col *table.Column, r rules.Rules) bool {
	if !strings.Contains(strings.ToLower(col.Name), "id") {
		return false
	}
	distinct := make(map[float64]bool)
	for _, v := range col.Cells {
		f, ok := table.AsFloat(v)
		if !ok {
			return false
		}
		distinct[f] = true
	}
	if len(distinct) < 2 {
		return false
	}
	vals := make([]float64, 0, len(distinct))
	for f := range distinct {
		vals = append(vals, f)
	}
	sort.Float64s(vals)
	gapSum := 0.0
	for i := 1; i < len(vals); i++ {
		gapSum += vals[i] - vals[i-1]
	}
	meanGap := gapSum / float64(len(vals)-1)
	return meanGap <= r.IDMaxMeanGap
}

func isDate(col *table.Column, r rules.Rules) bool {
	if col.Kind == table.KindDatetime {
		return true
	}
	if rules.MatchesAny(col.Name, r.DateKeywords) {
		if parseRatio(col, r) > r.DateNameCoverage {
			return true
		}
	}
	if !col.Kind.IsTextual() {
		return false
	}
	// Content heuristic: enough sampled values look like dates, and enough of
	// them actually parse.
	sampled, shaped := 0, 0
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		if sampled >= sampleSize {
			break
		}
		sampled++
		if datePattern.MatchString(table.AsString(v)) {
			shaped++
		}
	}
	if sampled == 0 || float64(shaped)/float64(sampled) <= r.DateNameCoverage {
		return false
	}
	return parseRatio(col, r) > r.DateNameCoverage
}

// parseRatio is the fraction of non-null values that parse as dates under the
// standardization layout list.
func parseRatio(col *table.Column, r rules.Rules) float64 {
	nonNull, parsed := 0, 0
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		nonNull++
		if _, ok := table.AsTime(v, r.StandardizeLayouts); ok {
			parsed++
		}
	}
	if nonNull == 0 {
		return 0
	}
	return float64(parsed) / float64(nonNull)
}

// isNumeric classifies columns for value-range checks. Name-based keyword
// lists take precedence: a categorically named column is never numeric, and a
// textual column qualifies only when its name suggests numbers and enough
// values coerce.
func isNumeric(col *table.Column, r rules.Rules) bool {
	if rules.MatchesAny(col.Name, r.CategoricalKeywords) {
		return false
	}
	if col.Kind == table.KindNumeric {
		return true
	}
	if !rules.MatchesAny(col.Name, r.NumericKeywords) {
		return false
	}
	if len(col.Cells) == 0 {
		return false
	}
	coerced := 0
	for _, v := range col.Cells {
		if _, ok := table.AsFloat(v); ok {
			coerced++
		}
	}
	return float64(coerced)/float64(len(col.Cells)) >= r.NumericCoverage
}
