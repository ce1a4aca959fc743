// pkg/recommend/engine.go
package recommend

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/profile"
	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

// Engine maps detected issues to candidate fixes. Each issue type routes to
// exactly one strategy; every strategy guarantees at most one recommended fix
// per issue. All statistics a fix needs are computed here and stored in
// Fix.Params so the executor never recomputes them.
type Engine struct {
	rules  rules.Rules
	logger *zap.Logger
}

// NewEngine creates a recommendation engine.
func NewEngine(r rules.Rules, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Engine{rules: r, logger: logger}, nil
}

// Recommend produces the full candidate-fix list for a set of issues. Column
// statistics arrive precomputed from profiling and are read-only here. A
// strategy that cannot compute what it needs returns fewer fixes instead of
// failing; an issue type with no strategy yields a diagnostic and no fixes.
func (e *Engine) Recommend(ds *table.Dataset, issues []model.Issue, stats map[string]profile.ColumnStats) []model.Fix {
	var fixes []model.Fix
	for _, issue := range issues {
		produced := e.dispatch(ds, issue, stats)
		if n := recommendedCount(produced); n > 1 {
			e.logger.Warn("Strategy produced multiple recommended fixes, keeping first",
				zap.String("issue", issue.Code),
				zap.Int("recommended", n))
			produced = keepFirstRecommended(produced)
		}
		fixes = append(fixes, produced...)
	}
	e.logger.Info("Recommendation pass complete",
		zap.Int("issues", len(issues)),
		zap.Int("fixes", len(fixes)))
	return fixes
}

func (e *Engine) dispatch(ds *table.Dataset, issue model.Issue, stats map[string]profile.ColumnStats) []model.Fix {
	switch issue.Type {
	case model.IssueMissingData:
		return e.missingValueFixes(ds, issue, stats)
	case model.IssueProxyMissingness, model.IssueStructuralNoise, model.IssueEncodingArtifact:
		return e.textCleaningFixes(ds, issue)
	case model.IssueNumericValidity, model.IssueRangeViolation:
		return e.numericValidityFixes(ds, issue)
	case model.IssueTypeMismatch:
		return e.typeMismatchFixes(ds, issue)
	case model.IssueExtremeOutlier:
		return e.outlierFixes(ds, issue)
	case model.IssueIdentityClash:
		return e.duplicateFixes(ds, issue)
	case model.IssueFormatDivergence:
		if issue.Code == model.CodeCaseDivergence {
			return e.textCleaningFixes(ds, issue)
		}
		return e.dateFormatFixes(ds, issue)
	case model.IssueInvalidDateFormat, model.IssueTimeTravel, model.IssueLogicalSequence:
		return e.dateFormatFixes(ds, issue)
	case model.IssueDomainConstraint:
		return e.domainFixes(ds, issue)
	default:
		e.logger.Warn("No strategy registered for issue type",
			zap.String("issue", issue.Code),
			zap.String("type", issue.Type.String()))
		return nil
	}
}

func recommendedCount(fixes []model.Fix) int {
	n := 0
	for _, f := range fixes {
		if f.Recommended {
			n++
		}
	}
	return n
}

func keepFirstRecommended(fixes []model.Fix) []model.Fix {
	seen := false
	for i := range fixes {
		if fixes[i].Recommended {
			if seen {
				fixes[i].Recommended = false
			}
			seen = true
		}
	}
	return fixes
}
