// pkg/model/fix.go
package model

import "fmt"

// FixID identifies a concrete remediation transformation. The executor
// dispatches on it with an exhaustive switch; an unrecognized ID is skipped
// with a diagnostic, never fatal.
type FixID string

const (
	FixMedianImpute         FixID = "FIX_MEDIAN_IMPUTE"
	FixMeanImpute           FixID = "FIX_MEAN_IMPUTE"
	FixModeImpute           FixID = "FIX_MODE_IMPUTE"
	FixExtractNumericImpute FixID = "FIX_EXTRACT_NUMERIC_IMPUTE"
	FixDropColumn           FixID = "FIX_DROP_COLUMN"
	FixDropRows             FixID = "FIX_DROP_ROWS"
	FixForwardFill          FixID = "FIX_FORWARD_FILL"

	FixNegativeToAbs    FixID = "FIX_NEGATIVE_TO_ABS"
	FixNegativeToMedian FixID = "FIX_NEGATIVE_TO_MEDIAN"
	FixNegativeToNull   FixID = "FIX_NEGATIVE_TO_NAN"
	FixCapAt100         FixID = "FIX_CAP_AT_100"
	FixRangeToNull      FixID = "FIX_RANGE_TO_NAN"
	FixDropInvalidRows  FixID = "FIX_DROP_INVALID_ROWS"

	FixWordToNumber     FixID = "FIX_WORD_TO_NUMBER"
	FixTextToNullImpute FixID = "FIX_TEXT_TO_NAN_IMPUTE"
	FixDropTextRows     FixID = "FIX_DROP_TEXT_ROWS"

	FixCapPercentile  FixID = "FIX_CAP_PERCENTILE"
	FixCapIQR         FixID = "FIX_CAP_IQR"
	FixRemoveOutliers FixID = "FIX_REMOVE_OUTLIERS"
	FixWinsorize      FixID = "FIX_WINSORIZE"

	FixKeepFirstID        FixID = "FIX_KEEP_FIRST_ID"
	FixKeepLastID         FixID = "FIX_KEEP_LAST_ID"
	FixKeepComplete       FixID = "FIX_KEEP_COMPLETE"
	FixDropExactDuplicate FixID = "FIX_DROP_EXACT_DUPLICATES"

	FixStripWhitespace         FixID = "FIX_STRIP_WHITESPACE"
	FixRemoveNonASCII          FixID = "FIX_REMOVE_NON_ASCII"
	FixStandardizeCaseLower    FixID = "FIX_STANDARDIZE_CASE_LOWER"
	FixProxyToNull             FixID = "FIX_PROXY_TO_NAN"
	FixRemoveSpecialChars      FixID = "FIX_REMOVE_SPECIAL_CHARS"
	FixReplaceSpecialWithSpace FixID = "FIX_REPLACE_SPECIAL_WITH_SPACE"
	FixEmptyTextToMode         FixID = "FIX_EMPTY_TEXT_TO_MODE"
	FixEmptyTextToNull         FixID = "FIX_EMPTY_TEXT_TO_NAN"

	FixStandardizeDateFormat  FixID = "FIX_STANDARDIZE_DATE_FORMAT"
	FixInvalidDateToNull      FixID = "FIX_INVALID_DATE_TO_NAN"
	FixDropInvalidDateRows    FixID = "FIX_DROP_INVALID_DATE_ROWS"
	FixInvalidDateDefault     FixID = "FIX_INVALID_DATE_DEFAULT"
	FixInvalidDateToMedian    FixID = "FIX_INVALID_DATE_IMPUTE_MEDIAN"

	FixImpossibleAgeToMedian FixID = "FIX_IMPOSSIBLE_AGE_TO_MEDIAN"
	FixImpossibleAgeToNull   FixID = "FIX_IMPOSSIBLE_AGE_TO_NAN"
	FixDropImpossibleAgeRows FixID = "FIX_DROP_IMPOSSIBLE_AGE_ROWS"
	FixZeroMonetaryToMedian  FixID = "FIX_ZERO_MONETARY_TO_MEDIAN"
	FixZeroMonetaryToNull    FixID = "FIX_ZERO_MONETARY_TO_NAN"
	FixDropZeroMonetaryRows  FixID = "FIX_DROP_ZERO_MONETARY_ROWS"
)

// Fix is one candidate remediation for an Issue. Several fixes may target the
// same issue as mutually exclusive options; at most one of them carries
// Recommended=true.
type Fix struct {
	ID            FixID          `json:"fix_id" yaml:"fix_id"`
	IssueCode     string         `json:"issue_id" yaml:"issue_id"`
	Column        string         `json:"column" yaml:"column"`
	Label         string         `json:"label" yaml:"label"`
	Description   string         `json:"description" yaml:"description"`
	Impact        string         `json:"impact" yaml:"impact"`
	Risk          string         `json:"risk" yaml:"risk"`
	Recommended   bool           `json:"is_recommended" yaml:"is_recommended"`
	RequiresInput bool           `json:"requires_user_input" yaml:"requires_user_input"`
	Params        map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func (f Fix) String() string {
	if f.Recommended {
		return fmt.Sprintf("<Fix: %s [RECOMMENDED]>", f.Label)
	}
	return fmt.Sprintf("<Fix: %s>", f.Label)
}

// Float reads a numeric parameter computed at recommendation time.
func (f Fix) Float(key string) (float64, bool) {
	v, ok := f.Params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// Str reads a string parameter computed at recommendation time.
func (f Fix) Str(key string) (string, bool) {
	v, ok := f.Params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool reads a boolean parameter, defaulting to false when absent.
func (f Fix) Bool(key string) bool {
	v, ok := f.Params[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Recommended filters a fix list down to the default-automation subset.
func Recommended(fixes []Fix) []Fix {
	out := make([]Fix, 0, len(fixes))
	for _, f := range fixes {
		if f.Recommended {
			out = append(out, f)
		}
	}
	return out
}
