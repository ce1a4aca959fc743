// pkg/table/coerce.go
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// IsNull reports whether a cell holds no usable value.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	return false
}

// AsString converts a cell to its string form. Nulls become "".
func AsString(v any) string {
	if IsNull(v) {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// AsFloat attempts to convert a cell to float64. Strings are trimmed first.
func AsFloat(v any) (float64, bool) {
	if IsNull(v) {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case []byte:
		return AsFloat(string(val))
	default:
		return 0, false
	}
}

// AsFloatLoose is AsFloat with thousands separators stripped, matching the
// coercion applied during type inference and monetary remediation
// (e.g. "70,000" -> 70000).
func AsFloatLoose(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		return AsFloat(strings.ReplaceAll(s, ",", ""))
	}
	return AsFloat(v)
}

// AsBool attempts to convert a cell to bool.
func AsBool(v any) (bool, bool) {
	if IsNull(v) {
		return false, false
	}
	switch val := v.(type) {
	case bool:
		return val, true
	case float64:
		return val != 0, true
	case string:
		switch strings.TrimSpace(strings.ToLower(val)) {
		case "true", "t", "yes", "y", "1":
			return true, true
		case "false", "f", "no", "n", "0":
			return false, true
		}
	}
	return false, false
}

// AsTime attempts to convert a cell to a time.Time, trying the given layouts
// in order and keeping the first successful parse.
func AsTime(v any, layouts []string) (time.Time, bool) {
	if IsNull(v) {
		return time.Time{}, false
	}
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return time.Time{}, false
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, cleaned); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// HasLetters reports whether a cell's string form contains alphabetic
// characters (ASCII range).
func HasLetters(v any) bool {
	s := AsString(v)
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// HasNonASCII reports whether a cell's string form contains bytes outside the
// ASCII range.
func HasNonASCII(v any) bool {
	s := AsString(v)
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return true
		}
	}
	return false
}
