// pkg/profile/infer.go
package profile

import (
	"strings"

	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

const (
	numericInferThreshold  = 0.9
	datetimeInferThreshold = 0.9
	categoricalUniqueRatio = 0.05
)

// InferKinds assigns a Kind to each column and converts cell representations
// in-place where inference promotes the column to a richer type. Columns that
// resist a clean promotion stay textual so downstream mixed-content checks can
// see the raw values.
func InferKinds(ds *table.Dataset, r rules.Rules, logger *zap.Logger) {
	for _, col := range ds.Columns() {
		kind := inferColumn(col, r)
		col.Kind = kind
		logger.Debug("Inferred column kind",
			zap.String("column", col.Name),
			zap.String("kind", kind.String()))
	}
}

func inferColumn(col *table.Column, r rules.Rules) table.Kind {
	nonNull := 0
	for _, v := range col.Cells {
		if !table.IsNull(v) {
			nonNull++
		}
	}
	if nonNull == 0 {
		return table.KindText
	}

	if isBoolean(col) {
		convertBoolean(col)
		return table.KindBoolean
	}

	coercible := 0
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		if _, ok := table.AsFloatLoose(v); ok {
			coercible++
		}
	}
	if float64(coercible)/float64(nonNull) > numericInferThreshold {
		convertNumeric(col)
		return table.KindNumeric
	}

	parsed := 0
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		if _, ok := table.AsTime(v, r.FallbackLayouts); ok {
			parsed++
		}
	}
	if float64(parsed)/float64(nonNull) > datetimeInferThreshold {
		return table.KindDatetime
	}

	unique := make(map[string]bool)
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		unique[strings.ToLower(table.AsString(v))] = true
	}
	if float64(len(unique))/float64(nonNull) <= categoricalUniqueRatio {
		return table.KindCategorical
	}

	return table.KindText
}

// isBoolean reports whether every non-null value is a member of the boolean
// vocabulary. Pure 0/1 columns qualify.
func isBoolean(col *table.Column) bool {
	found := false
	for _, v := range col.Cells {
		if table.IsNull(v) {
			continue
		}
		found = true
		if b, ok := v.(bool); ok {
			_ = b
			continue
		}
		s := strings.ToLower(strings.TrimSpace(table.AsString(v)))
		switch s {
		case "0", "1", "true", "false":
		default:
			return false
		}
	}
	return found
}

func convertBoolean(col *table.Column) {
	for i, v := range col.Cells {
		if table.IsNull(v) {
			col.Cells[i] = nil
			continue
		}
		if _, ok := v.(bool); ok {
			continue
		}
		s := strings.ToLower(strings.TrimSpace(table.AsString(v)))
		col.Cells[i] = s == "1" || s == "true"
	}
}

// convertNumeric rewrites cells to float64; values that cannot be coerced
// become null.
func convertNumeric(col *table.Column) {
	for i, v := range col.Cells {
		if table.IsNull(v) {
			col.Cells[i] = nil
			continue
		}
		if f, ok := table.AsFloatLoose(v); ok {
			col.Cells[i] = f
		} else {
			col.Cells[i] = nil
		}
	}
}
