// pkg/model/issue.go
package model

import "fmt"

// Severity ranks how urgently an issue should be remediated.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// String returns a string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// IssueType is the closed taxonomy of detectable data-quality defects.
// Every detection check maps to exactly one entry, and the recommendation
// engine dispatches on it exhaustively.
type IssueType int

const (
	IssueMissingData IssueType = iota
	IssueProxyMissingness
	IssueNumericValidity
	IssueRangeViolation
	IssueDomainConstraint
	IssueTimeTravel
	IssueInvalidDateFormat
	IssueFormatDivergence
	IssueLogicalSequence
	IssueStructuralNoise
	IssueEncodingArtifact
	IssueTypeMismatch
	IssueIdentityClash
	IssueExtremeOutlier
)

// String returns the human-readable category label
func (t IssueType) String() string {
	switch t {
	case IssueMissingData:
		return "Missing Data"
	case IssueProxyMissingness:
		return "Proxy Missingness"
	case IssueNumericValidity:
		return "Numeric Validity"
	case IssueRangeViolation:
		return "Range Violation"
	case IssueDomainConstraint:
		return "Domain Constraint Violation"
	case IssueTimeTravel:
		return "Time-Travel Error"
	case IssueInvalidDateFormat:
		return "Invalid Date Format"
	case IssueFormatDivergence:
		return "Format Divergence"
	case IssueLogicalSequence:
		return "Logical Sequence"
	case IssueStructuralNoise:
		return "Structural Noise"
	case IssueEncodingArtifact:
		return "Encoding Artifact"
	case IssueTypeMismatch:
		return "Type Mismatch"
	case IssueIdentityClash:
		return "Identity Clash"
	case IssueExtremeOutlier:
		return "Extreme Outlier"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Stable issue codes. A code identifies the concrete defect pattern within a
// taxonomy entry (e.g. both NEG_AGE and RANGE_EXCEEDED are Numeric Validity).
const (
	CodeMissingValues     = "MISSING_VAL"
	CodeProxyMissing      = "PROXY_MISSING"
	CodeEmptyText         = "EMPTY_TEXT"
	CodeNegativeAge       = "NEG_AGE"
	CodeRangeExceeded     = "RANGE_EXCEEDED"
	CodeImpossibleAge     = "IMPOSSIBLE_AGE"
	CodeInvalidMonetary   = "INVALID_MONETARY"
	CodeFutureDate        = "FUTURE_DATE"
	CodeInvalidDateFormat = "INVALID_DATE_FORMAT"
	CodeMixedDateFormats  = "DATE_FORMAT_MIXED"
	CodeSequenceError     = "SEQ_ERROR"
	CodeWhitespace        = "WHITESPACE"
	CodeSpecialChars      = "SPECIAL_CHARS"
	CodeEncodingJunk      = "ENCODING_JUNK"
	CodeWordAsNumber      = "WORD_AS_NUMBER"
	CodeCaseDivergence    = "CASE_DIVERGE"
	CodeIDClash           = "ID_CLASH"
	CodeZScoreOutlier     = "Z_OUTLIER"
)

// Issue records one detected data-quality defect. Issues are created by the
// detection engine, consumed by the recommendation engine, and never mutated.
type Issue struct {
	Code        string    `json:"issue_id" yaml:"issue_id"`
	Column      string    `json:"column" yaml:"column"` // "A/B" for cross-column issues
	Type        IssueType `json:"-" yaml:"-"`
	TypeLabel   string    `json:"issue_type" yaml:"issue_type"`
	Severity    Severity  `json:"-" yaml:"-"`
	SeverityStr string    `json:"severity" yaml:"severity"`
	Description string    `json:"description" yaml:"description"`
	Examples    []string  `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// NewIssue builds an Issue, filling the serialization-friendly label fields.
func NewIssue(code, column string, t IssueType, sev Severity, description string, examples []string) Issue {
	return Issue{
		Code:        code,
		Column:      column,
		Type:        t,
		TypeLabel:   t.String(),
		Severity:    sev,
		SeverityStr: sev.String(),
		Description: description,
		Examples:    examples,
	}
}
