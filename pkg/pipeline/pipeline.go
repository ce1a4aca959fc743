// pkg/pipeline/pipeline.go
package pipeline

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tidytable/tidytable/pkg/classify"
	"github.com/tidytable/tidytable/pkg/detect"
	"github.com/tidytable/tidytable/pkg/execute"
	"github.com/tidytable/tidytable/pkg/impact"
	"github.com/tidytable/tidytable/pkg/model"
	"github.com/tidytable/tidytable/pkg/outlier"
	"github.com/tidytable/tidytable/pkg/profile"
	"github.com/tidytable/tidytable/pkg/recommend"
	"github.com/tidytable/tidytable/pkg/rules"
	"github.com/tidytable/tidytable/pkg/table"
)

// Options control one pipeline run.
type Options struct {
	StrictSchema bool
	MinColumns   int

	// RowTagger, when set, runs before detection. With FilterRowOutliers the
	// flagged rows are dropped; otherwise the verdict merges in as an extra
	// boolean column.
	RowTagger         outlier.RowTagger
	FilterRowOutliers bool

	// Interactive switches from recommended-only selection to a per-issue
	// prompt loop on In/Out.
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// Result bundles everything one run produces.
type Result struct {
	Original *table.Dataset
	Cleaned  *table.Dataset
	Schema   *profile.SchemaReport
	Issues   []model.Issue
	Fixes    []model.Fix
	Selected []model.Fix
	Report   model.ImpactReport
}

// Pipeline wires the stages together: classify, detect, recommend, select,
// execute, analyze.
type Pipeline struct {
	rules       rules.Rules
	logger      *zap.Logger
	detector    *detect.Engine
	recommender *recommend.Engine
}

// NewPipeline constructs a pipeline with its engines.
func NewPipeline(r rules.Rules, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	detector, err := detect.NewEngine(r, logger)
	if err != nil {
		return nil, err
	}
	recommender, err := recommend.NewEngine(r, logger)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		rules:       r,
		logger:      logger,
		detector:    detector,
		recommender: recommender,
	}, nil
}

// Run takes ownership of a copy of the dataset and executes the full chain.
// The caller's dataset is never mutated.
func (p *Pipeline) Run(ds *table.Dataset, opts Options) (*Result, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}

	working := ds.Clone()

	minCols := opts.MinColumns
	if minCols < 1 {
		minCols = 1
	}
	schema, err := profile.ValidateSchema(working, opts.StrictSchema, minCols, p.logger)
	if err != nil {
		return nil, err
	}

	profile.InferKinds(working, p.rules, p.logger)

	if opts.RowTagger != nil {
		if opts.FilterRowOutliers {
			removed := outlier.FilterOutliers(working, opts.RowTagger)
			if removed > 0 {
				p.logger.Info("Filtered multivariate row outliers", zap.Int("removed", removed))
			}
		} else {
			outlier.Merge(working, opts.RowTagger)
		}
	}

	roles := classify.Detect(working, p.rules)
	issues := p.detector.Detect(working, roles)

	stats := make(map[string]profile.ColumnStats, working.ColumnCount())
	for _, cs := range profile.DescribeAll(working) {
		stats[cs.Name] = cs
	}
	fixes := p.recommender.Recommend(working, issues, stats)

	result := &Result{
		Original: working,
		Schema:   schema,
		Issues:   issues,
		Fixes:    fixes,
	}

	executor, err := execute.NewExecutor(working, p.rules, p.logger)
	if err != nil {
		return nil, err
	}

	var cleaned *table.Dataset
	var log []model.ExecutionLogEntry
	if opts.Interactive {
		result.Selected = p.runInteractive(executor, issues, fixes, opts)
		cleaned, log = executor.Dataset(), executor.Log()
	} else {
		result.Selected = model.Recommended(fixes)
		cleaned, log = executor.Apply(result.Selected)
	}

	result.Cleaned = cleaned
	result.Report = impact.Analyze(working, cleaned, log)
	return result, nil
}
