// pkg/execute/apply.go
package execute

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/table"
)

var (
	stripPattern  = regexp.MustCompile(`[?!@#$%^&*]`)
	numberPattern = regexp.MustCompile(`\d+\.?\d*`)
)

// applyOne routes a fix to its transformation. Returns true when the fix was
// applied and logged.
func (x *Executor) applyOne(fix model.Fix) bool {
	switch fix.ID {
	case model.FixStripWhitespace:
		return x.mutateStrings(fix, strings.TrimSpace)
	case model.FixRemoveSpecialChars:
		return x.mutateStrings(fix, func(s string) string {
			return strings.TrimSpace(stripPattern.ReplaceAllString(s, ""))
		})
	case model.FixReplaceSpecialWithSpace:
		return x.mutateStrings(fix, func(s string) string {
			return strings.TrimSpace(stripPattern.ReplaceAllString(s, " "))
		})
	case model.FixRemoveNonASCII:
		return x.mutateStrings(fix, dropNonASCII)
	case model.FixStandardizeCaseLower:
		return x.mutateStrings(fix, strings.ToLower)

	case model.FixStandardizeDateFormat:
		return x.standardizeDates(fix)

	case model.FixWordToNumber:
		return x.wordToNumber(fix)
	case model.FixTextToNullImpute:
		return x.textToNullImpute(fix)
	case model.FixDropTextRows:
		return x.dropWhere(fix, func(v any) bool {
			s, ok := v.(string)
			return ok && table.HasLetters(s)
		})

	case model.FixProxyToNull:
		return x.mutateCells(fix, func(v any) (any, bool) {
			if s, ok := v.(string); ok && x.rules.IsPlaceholder(s) {
				return nil, true
			}
			return v, false
		})
	case model.FixEmptyTextToNull:
		return x.mutateCells(fix, func(v any) (any, bool) {
			if s, ok := v.(string); ok && x.rules.IsEmptyVariant(s) {
				return nil, true
			}
			return v, false
		})
	case model.FixEmptyTextToMode:
		mode, _ := fix.Str("mode")
		return x.mutateCells(fix, func(v any) (any, bool) {
			if s, ok := v.(string); ok && x.rules.IsEmptyVariant(s) {
				return mode, true
			}
			return v, false
		})

	case model.FixInvalidDateToNull:
		return x.invalidDateReplace(fix, nil)
	case model.FixInvalidDateToMedian:
		median, _ := fix.Str("median_date")
		return x.invalidDateReplace(fix, median)
	case model.FixInvalidDateDefault:
		def, _ := fix.Str("default_date")
		return x.invalidDateReplace(fix, def)
	case model.FixDropInvalidDateRows:
		return x.dropInvalidDates(fix)

	case model.FixNegativeToAbs:
		return x.mutateFloats(fix, func(f float64) (any, bool) {
			if f < 0 {
				return math.Abs(f), true
			}
			return f, false
		})
	case model.FixNegativeToMedian:
		median, _ := fix.Float("median")
		return x.mutateFloats(fix, func(f float64) (any, bool) {
			if f < 0 {
				return median, true
			}
			return f, false
		})
	case model.FixNegativeToNull:
		return x.mutateFloats(fix, func(f float64) (any, bool) {
			if f < 0 {
				return nil, true
			}
			return f, false
		})

	case model.FixCapAt100:
		bound, _ := fix.Float("cap")
		return x.mutateFloats(fix, func(f float64) (any, bool) {
			if f > bound {
				return bound, true
			}
			return f, false
		})
	case model.FixRangeToNull:
		bound, _ := fix.Float("cap")
		return x.mutateFloats(fix, func(f float64) (any, bool) {
			if f > bound {
				return nil, true
			}
			return f, false
		})
	case model.FixDropInvalidRows:
		if mode, _ := fix.Str("mode"); mode == "sequence" {
			return x.dropSequenceViolations(fix)
		}
		bound, _ := fix.Float("cap")
		return x.dropWhere(fix, func(v any) bool {
			f, ok := table.AsFloat(v)
			return ok && f > bound
		})

	case model.FixImpossibleAgeToMedian:
		median, _ := fix.Float("median")
		return x.mutateFloats(fix, func(f float64) (any, bool) {
			if f < x.rules.AgeMin || f > x.rules.AgeMax {
				return median, true
			}
			return f, false
		})
	case model.FixImpossibleAgeToNull:
		return x.mutateFloats(fix, func(f float64) (any, bool) {
			if f < x.rules.AgeMin || f > x.rules.AgeMax {
				return nil, true
			}
			return f, false
		})
	case model.FixDropImpossibleAgeRows:
		return x.dropWhere(fix, func(v any) bool {
			f, ok := table.AsFloat(v)
			return ok && (f < x.rules.AgeMin || f > x.rules.AgeMax)
		})

	case model.FixZeroMonetaryToMedian:
		median, _ := fix.Float("median")
		return x.mutateLooseFloats(fix, func(f float64) (any, bool) {
			if f <= 0 {
				return median, true
			}
			return f, false
		})
	case model.FixZeroMonetaryToNull:
		return x.mutateLooseFloats(fix, func(f float64) (any, bool) {
			if f <= 0 {
				return nil, true
			}
			return f, false
		})
	case model.FixDropZeroMonetaryRows:
		return x.dropWhere(fix, func(v any) bool {
			f, ok := table.AsFloatLoose(v)
			return ok && f <= 0
		})

	case model.FixCapPercentile, model.FixCapIQR, model.FixWinsorize:
		lower, _ := fix.Float("lower")
		upper, _ := fix.Float("upper")
		return x.mutateFloats(fix, func(f float64) (any, bool) {
			switch {
			case f < lower:
				return lower, true
			case f > upper:
				return upper, true
			default:
				return f, false
			}
		})
	case model.FixRemoveOutliers:
		mean, _ := fix.Float("mean")
		std, _ := fix.Float("std")
		z, _ := fix.Float("zscore")
		if std == 0 {
			return false
		}
		return x.dropWhere(fix, func(v any) bool {
			f, ok := table.AsFloat(v)
			return ok && math.Abs((f-mean)/std) > z
		})

	case model.FixMedianImpute:
		median, _ := fix.Float("median")
		return x.imputeNulls(fix, median)
	case model.FixMeanImpute:
		mean, _ := fix.Float("mean")
		return x.imputeNulls(fix, mean)
	case model.FixModeImpute:
		mode, _ := fix.Str("mode")
		return x.imputeNulls(fix, mode)
	case model.FixExtractNumericImpute:
		return x.extractNumericImpute(fix)
	case model.FixForwardFill:
		return x.forwardFill(fix)
	case model.FixDropRows:
		return x.dropWhere(fix, table.IsNull)
	case model.FixDropColumn:
		if x.ds.DropColumn(fix.Column) {
			x.record(fix, "column removed")
			return true
		}
		return false

	case model.FixKeepFirstID:
		return x.deduplicateByID(fix, keepFirst)
	case model.FixKeepLastID:
		return x.deduplicateByID(fix, keepLast)
	case model.FixKeepComplete:
		return x.keepMostComplete(fix)
	case model.FixDropExactDuplicate:
		return x.dropExactDuplicates(fix)

	default:
		x.logger.Warn("No implementation registered for fix, skipping",
			zap.String("fix", string(fix.ID)),
			zap.String("column", fix.Column))
		return false
	}
}

// mutateCells rewrites cells of the fix's column via fn, logging the change
// count.
func (x *Executor) mutateCells(fix model.Fix, fn func(any) (any, bool)) bool {
	col := x.ds.Column(fix.Column)
	if col == nil {
		return false
	}
	changed := 0
	for i, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		nv, did := fn(v)
		if did {
			col.Cells[i] = nv
			changed++
		}
	}
	if changed == 0 {
		return false
	}
	x.record(fix, fmt.Sprintf("%d values changed", changed))
	return true
}

func (x *Executor) mutateStrings(fix model.Fix, fn func(string) string) bool {
	return x.mutateCells(fix, func(v any) (any, bool) {
		s, ok := v.(string)
		if !ok {
			return v, false
		}
		ns := fn(s)
		if ns == s {
			return v, false
		}
		return ns, true
	})
}

func (x *Executor) mutateFloats(fix model.Fix, fn func(float64) (any, bool)) bool {
	return x.mutateCells(fix, func(v any) (any, bool) {
		f, ok := table.AsFloat(v)
		if !ok {
			return v, false
		}
		return fn(f)
	})
}

func (x *Executor) mutateLooseFloats(fix model.Fix, fn func(float64) (any, bool)) bool {
	return x.mutateCells(fix, func(v any) (any, bool) {
		f, ok := table.AsFloatLoose(v)
		if !ok {
			return v, false
		}
		return fn(f)
	})
}

// dropWhere removes the rows where the fix's column matches the predicate.
func (x *Executor) dropWhere(fix model.Fix, bad func(any) bool) bool {
	col := x.ds.Column(fix.Column)
	if col == nil {
		return false
	}
	keep := make([]bool, x.ds.RowCount())
	for i := range keep {
		keep[i] = true
		if i < len(col.Cells) && bad(col.Cells[i]) {
			keep[i] = false
		}
	}
	return x.dropRows(fix, keep)
}

func (x *Executor) standardizeDates(fix model.Fix) bool {
	return x.mutateStrings(fix, func(s string) string {
		t := strings.TrimSpace(s)
		for _, layout := range x.rules.StandardizeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.Format("2006-01-02")
			}
		}
		return s
	})
}

func (x *Executor) wordToNumber(fix model.Fix) bool {
	return x.mutateCells(fix, func(v any) (any, bool) {
		s, ok := v.(string)
		if !ok {
			return v, false
		}
		if n, found := x.rules.NumberWords[strings.ToLower(strings.TrimSpace(s))]; found {
			return n, true
		}
		return v, false
	})
}

// textToNullImpute nulls every non-numeric value, then fills the gaps
// (including pre-existing nulls) with the median when one was supplied.
func (x *Executor) textToNullImpute(fix model.Fix) bool {
	col := x.ds.Column(fix.Column)
	if col == nil {
		return false
	}
	median, hasMedian := fix.Float("median")
	changed := 0
	for i, v := range col.Cells {
		if table.IsNull(v) {
			if hasMedian {
				col.Cells[i] = median
				changed++
			}
			continue
		}
		if _, ok := table.AsFloatLoose(v); ok {
			continue
		}
		if hasMedian {
			col.Cells[i] = median
		} else {
			col.Cells[i] = nil
		}
		changed++
	}
	if changed == 0 {
		return false
	}
	x.record(fix, fmt.Sprintf("%d values changed", changed))
	return true
}

// invalidDateReplace rewrites the offending date values with the given
// replacement (nil for missing). In "future" mode the offenders are parseable
// dates after now; otherwise they are the unparseable values.
func (x *Executor) invalidDateReplace(fix model.Fix, replacement any) bool {
	future := false
	if mode, _ := fix.Str("mode"); mode == "future" {
		future = true
	}
	now := time.Now()
	return x.mutateCells(fix, func(v any) (any, bool) {
		t, ok := table.AsTime(v, x.rules.FallbackLayouts)
		if future {
			if ok && t.After(now) {
				return replacement, true
			}
			return v, false
		}
		if !ok {
			return replacement, true
		}
		return v, false
	})
}

func (x *Executor) dropInvalidDates(fix model.Fix) bool {
	future := false
	if mode, _ := fix.Str("mode"); mode == "future" {
		future = true
	}
	now := time.Now()
	return x.dropWhere(fix, func(v any) bool {
		if table.IsNull(v) {
			return false
		}
		t, ok := table.AsTime(v, x.rules.FallbackLayouts)
		if future {
			return ok && t.After(now)
		}
		return !ok
	})
}

func (x *Executor) dropSequenceViolations(fix model.Fix) bool {
	startName, _ := fix.Str("start")
	endName, _ := fix.Str("end")
	start := x.ds.Column(startName)
	end := x.ds.Column(endName)
	if start == nil || end == nil {
		return false
	}
	keep := make([]bool, x.ds.RowCount())
	for i := range keep {
		keep[i] = true
		if i >= len(start.Cells) || i >= len(end.Cells) {
			continue
		}
		st, ok1 := table.AsTime(start.Cells[i], x.rules.FallbackLayouts)
		et, ok2 := table.AsTime(end.Cells[i], x.rules.FallbackLayouts)
		if ok1 && ok2 && st.After(et) {
			keep[i] = false
		}
	}
	return x.dropRows(fix, keep)
}

func (x *Executor) imputeNulls(fix model.Fix, value any) bool {
	col := x.ds.Column(fix.Column)
	if col == nil {
		return false
	}
	changed := 0
	for i, v := range col.Cells {
		if table.IsNull(v) {
			col.Cells[i] = value
			changed++
		}
	}
	if changed == 0 {
		return false
	}
	x.record(fix, fmt.Sprintf("%d values filled", changed))
	return true
}

func (x *Executor) extractNumericImpute(fix model.Fix) bool {
	col := x.ds.Column(fix.Column)
	if col == nil {
		return false
	}
	median, _ := fix.Float("median")
	changed := 0
	for i, v := range col.Cells {
		if table.IsNull(v) {
			col.Cells[i] = median
			changed++
			continue
		}
		if _, ok := v.(float64); ok {
			continue
		}
		m := numberPattern.FindString(table.AsString(v))
		if m != "" {
			if f, ok := table.AsFloat(m); ok {
				col.Cells[i] = f
				changed++
				continue
			}
		}
		col.Cells[i] = median
		changed++
	}
	col.Kind = table.KindNumeric
	if changed == 0 {
		return false
	}
	x.record(fix, fmt.Sprintf("%d values converted or filled", changed))
	return true
}

func (x *Executor) forwardFill(fix model.Fix) bool {
	col := x.ds.Column(fix.Column)
	if col == nil {
		return false
	}
	changed := 0
	var last any
	for i, v := range col.Cells {
		if table.IsNull(v) {
			if last != nil {
				col.Cells[i] = last
				changed++
			}
			continue
		}
		last = v
	}
	if changed == 0 {
		return false
	}
	x.record(fix, fmt.Sprintf("%d values filled", changed))
	return true
}

func keepFirst(indices []int) int { return indices[0] }
func keepLast(indices []int) int  { return indices[len(indices)-1] }

// deduplicateByID keeps one row per identifier value, chosen by pick.
func (x *Executor) deduplicateByID(fix model.Fix, pick func([]int) int) bool {
	col := x.ds.Column(fix.Column)
	if col == nil {
		return false
	}
	groups := make(map[string][]int)
	var order []string
	for i, v := range col.Cells {
		key := table.AsString(v)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	keep := make([]bool, x.ds.RowCount())
	for _, key := range order {
		keep[pick(groups[key])] = true
	}
	return x.dropRows(fix, keep)
}

// keepMostComplete keeps, per duplicated identifier, the row with the fewest
// missing cells. Ties resolve to the earliest row.
func (x *Executor) keepMostComplete(fix model.Fix) bool {
	col := x.ds.Column(fix.Column)
	if col == nil {
		return false
	}
	groups := make(map[string][]int)
	for i, v := range col.Cells {
		key := table.AsString(v)
		groups[key] = append(groups[key], i)
	}
	keep := make([]bool, x.ds.RowCount())
	for _, indices := range groups {
		best := indices[0]
		bestNulls := x.rowNullCount(best)
		for _, idx := range indices[1:] {
			if n := x.rowNullCount(idx); n < bestNulls {
				best, bestNulls = idx, n
			}
		}
		keep[best] = true
	}
	return x.dropRows(fix, keep)
}

func (x *Executor) rowNullCount(row int) int {
	n := 0
	for _, col := range x.ds.Columns() {
		if row < len(col.Cells) && table.IsNull(col.Cells[row]) {
			n++
		}
	}
	return n
}

func (x *Executor) dropExactDuplicates(fix model.Fix) bool {
	seen := make(map[string]bool)
	keep := make([]bool, x.ds.RowCount())
	for i := range keep {
		key := x.ds.RowKey(i)
		if seen[key] {
			continue
		}
		seen[key] = true
		keep[i] = true
	}
	return x.dropRows(fix, keep)
}

func dropNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
