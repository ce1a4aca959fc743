// pkg/rules/rules.go
package rules

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Rules collects every keyword list, token set and threshold the classifier,
// detection engine, recommendation strategies and executor consult. Lifting
// them out of the engines keeps the heuristics independently testable and
// overridable from a config file.
type Rules struct {
	DateKeywords        []string `mapstructure:"date_keywords" yaml:"date_keywords"`
	NumericKeywords     []string `mapstructure:"numeric_keywords" yaml:"numeric_keywords"`
	CategoricalKeywords []string `mapstructure:"categorical_keywords" yaml:"categorical_keywords"`
	MonetaryKeywords    []string `mapstructure:"monetary_keywords" yaml:"monetary_keywords"`
	PercentKeywords     []string `mapstructure:"percent_keywords" yaml:"percent_keywords"`
	ContactKeywords     []string `mapstructure:"contact_keywords" yaml:"contact_keywords"`

	PlaceholderTokens []string `mapstructure:"placeholder_tokens" yaml:"placeholder_tokens"`
	EmptyTextVariants []string `mapstructure:"empty_text_variants" yaml:"empty_text_variants"`

	// Go time layouts, tried in order; the first successful parse wins. The
	// month-first/day-first order for two-digit values is deliberately kept
	// as-is: it is an inherited ambiguity, not a bug to fix.
	StandardizeLayouts []string `mapstructure:"standardize_layouts" yaml:"standardize_layouts"`
	FallbackLayouts    []string `mapstructure:"fallback_layouts" yaml:"fallback_layouts"`

	NumberWords map[string]float64 `mapstructure:"number_words" yaml:"number_words"`

	MaxMissingPct        float64 `mapstructure:"max_missing_pct" yaml:"max_missing_pct"`
	ModeMinFrequency     float64 `mapstructure:"mode_min_frequency" yaml:"mode_min_frequency"`
	MaxDiversityRatio    float64 `mapstructure:"max_diversity_ratio" yaml:"max_diversity_ratio"`
	MinRetentionPct      float64 `mapstructure:"min_retention_pct" yaml:"min_retention_pct"`
	MaxCumulativeLossPct float64 `mapstructure:"max_cumulative_loss_pct" yaml:"max_cumulative_loss_pct"`
	MaxSingleDropPct     float64 `mapstructure:"max_single_drop_pct" yaml:"max_single_drop_pct"`
	OutlierZScore        float64 `mapstructure:"outlier_zscore" yaml:"outlier_zscore"`
	SkewThreshold        float64 `mapstructure:"skew_threshold" yaml:"skew_threshold"`

	AgeMin     float64 `mapstructure:"age_min" yaml:"age_min"`
	AgeMax     float64 `mapstructure:"age_max" yaml:"age_max"`
	PercentCap float64 `mapstructure:"percent_cap" yaml:"percent_cap"`

	IDMaxMeanGap      float64 `mapstructure:"id_max_mean_gap" yaml:"id_max_mean_gap"`
	DateNameCoverage  float64 `mapstructure:"date_name_coverage" yaml:"date_name_coverage"`
	NumericCoverage   float64 `mapstructure:"numeric_coverage" yaml:"numeric_coverage"`
	DefaultDate       string  `mapstructure:"default_date" yaml:"default_date"`
}

// IsPlaceholder reports whether a string is a placeholder token standing in
// for a missing value ("?", "unknown", ...). Comparison is trimmed and
// case-insensitive.
func (r Rules) IsPlaceholder(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	for _, tok := range r.PlaceholderTokens {
		if t == tok {
			return true
		}
	}
	return false
}

// IsEmptyVariant reports whether a string is one of the empty-text variants.
// The nan spellings compare case-insensitively, the rest exactly.
func (r Rules) IsEmptyVariant(s string) bool {
	t := strings.TrimSpace(s)
	for _, v := range r.EmptyTextVariants {
		if t == v {
			return true
		}
		if strings.EqualFold(v, "nan") && strings.EqualFold(t, v) {
			return true
		}
	}
	return false
}

// Default returns the compiled-in ruleset.
func Default() Rules {
	return Rules{
		DateKeywords: []string{
			"date", "time", "timestamp", "datetime", "created", "updated",
			"joined", "dob", "birth", "year", "month", "day",
		},
		NumericKeywords: []string{
			"age", "salary", "price", "cost", "amount", "count", "pct",
			"percent", "rate", "score", "income", "revenue", "fee", "payment",
			"wage", "height", "weight", "distance", "quantity", "total",
		},
		CategoricalKeywords: []string{
			"name", "email", "country", "city", "address", "state", "region",
			"category", "type", "status", "gender", "title", "description",
			"remark", "comment", "note",
		},
		MonetaryKeywords: []string{
			"salary", "price", "cost", "amount", "payment", "wage", "income",
			"revenue", "fee",
		},
		PercentKeywords: []string{"pct", "percent", "probability"},
		ContactKeywords: []string{"email", "url", "website", "link", "phone", "contact"},

		PlaceholderTokens: []string{"?", "unknown", "n/a", "none", "null", "."},
		EmptyTextVariants: []string{"", "nan", "NaN", "None", "NONE"},

		StandardizeLayouts: []string{
			"2006-1-2",
			"1/2/2006",
			"2/1/2006",
			"2006.1.2",
			"2.1.2006",
			"2006/1/2",
			"2-1-2006",
			"1-2-2006",
		},
		FallbackLayouts: []string{
			"1/2/2006",
			"2/1/2006",
			"2006.1.2",
			"2.1.2006",
			"2006-1-2",
			"2-1-2006",
		},

		NumberWords: map[string]float64{
			"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
			"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
			"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
			"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
			"nineteen": 19, "twenty": 20, "thirty": 30, "forty": 40,
			"fifty": 50, "sixty": 60, "seventy": 70, "eighty": 80,
			"ninety": 90, "hundred": 100, "thousand": 1000,
		},

		MaxMissingPct:        40,
		ModeMinFrequency:     0.2,
		MaxDiversityRatio:    0.7,
		MinRetentionPct:      60,
		MaxCumulativeLossPct: 50,
		MaxSingleDropPct:     30,
		OutlierZScore:        3,
		SkewThreshold:        1,

		AgeMin:     0,
		AgeMax:     120,
		PercentCap: 100,

		IDMaxMeanGap:     2,
		DateNameCoverage: 0.3,
		NumericCoverage:  0.3,
		DefaultDate:      "1900-01-01",
	}
}

// envKeys are the scalar rule keys overridable through the environment, e.g.
// TIDYTABLE_MAX_MISSING_PCT=50. Keyword lists and tables come from the
// defaults or the rules file only.
var envKeys = []string{
	"max_missing_pct", "mode_min_frequency", "max_diversity_ratio",
	"min_retention_pct", "max_cumulative_loss_pct", "max_single_drop_pct",
	"outlier_zscore", "skew_threshold", "age_min", "age_max", "percent_cap",
	"id_max_mean_gap", "date_name_coverage", "numeric_coverage", "default_date",
}

// Load reads rules from a yaml file layered over the defaults, with
// TIDYTABLE_-prefixed environment overrides on the scalar keys. An empty path
// layers only the environment.
func Load(path string) (Rules, error) {
	r := Default()
	v := viper.New()
	v.SetEnvPrefix("TIDYTABLE")
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return r, fmt.Errorf("bind env key %s: %w", key, err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return r, fmt.Errorf("read rules file: %w", err)
		}
	}
	if err := v.Unmarshal(&r); err != nil {
		return r, fmt.Errorf("unmarshal rules: %w", err)
	}
	return r, nil
}

// MatchesAny reports whether the lowercase form of name contains any keyword.
func MatchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
