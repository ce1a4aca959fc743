// pkg/model/report.go
package model

// ExecutionLogEntry records one applied fix, or a synthetic entry for
// identifier resequencing after a row-count change. The log is append-only.
type ExecutionLogEntry struct {
	Column        string `json:"column" yaml:"column"`
	FixApplied    string `json:"fix_applied" yaml:"fix_applied"`
	ValuesChanged string `json:"values_changed" yaml:"values_changed"`
}

// Snapshot holds the quality metrics of a dataset at one point in time.
type Snapshot struct {
	Rows               int                `json:"total_rows" yaml:"total_rows"`
	Columns            int                `json:"total_columns" yaml:"total_columns"`
	MissingValues      int                `json:"missing_values" yaml:"missing_values"`
	DuplicateRows      int                `json:"duplicate_rows" yaml:"duplicate_rows"`
	Completeness       float64            `json:"completeness" yaml:"completeness"`
	QualityScore       float64            `json:"quality_score" yaml:"quality_score"`
	ColumnCompleteness map[string]float64 `json:"column_completeness" yaml:"column_completeness"`
}

// Improvements are the after-minus-before deltas of a cleaning batch.
type Improvements struct {
	RowsRemoved       int     `json:"rows_removed" yaml:"rows_removed"`
	ColumnsRemoved    int     `json:"columns_removed" yaml:"columns_removed"`
	MissingFixed      int     `json:"missing_values_fixed" yaml:"missing_values_fixed"`
	DuplicatesRemoved int     `json:"duplicates_removed" yaml:"duplicates_removed"`
	CompletenessGain  float64 `json:"completeness_gain" yaml:"completeness_gain"`
	QualityScoreGain  float64 `json:"quality_score_gain" yaml:"quality_score_gain"`
}

// ImpactReport quantifies the before/after effect of one execution batch.
type ImpactReport struct {
	RunID        string              `json:"run_id" yaml:"run_id"`
	Before       Snapshot            `json:"before" yaml:"before"`
	After        Snapshot            `json:"after" yaml:"after"`
	Improvements Improvements        `json:"improvements" yaml:"improvements"`
	ExecutionLog []ExecutionLogEntry `json:"execution_log" yaml:"execution_log"`
}
