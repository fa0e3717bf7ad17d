// File path: internal/store/types.go
package store

import "time"

// Run is one persisted analysis run.
type Run struct {
	ID         string    `db:"id" json:"id"`
	Program    string    `db:"program" json:"program"`
	SourcePath string    `db:"source_path" json:"source_path"`
	Procedures int       `db:"procedure_count" json:"procedure_count"`
	DataItems  int       `db:"data_item_count" json:"data_item_count"`
	Warnings   int       `db:"warning_count" json:"warning_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ProcedureRow is a persisted reconciled procedure.
type ProcedureRow struct {
	ID        int64   `db:"id" json:"-"`
	RunID     string  `db:"run_id" json:"-"`
	Name      string  `db:"name" json:"name"`
	StartLine int     `db:"start_line" json:"start_line"`
	EndLine   int     `db:"end_line" json:"end_line"`
	Score     float64 `db:"score" json:"score"`
	Detectors string  `db:"detectors" json:"detectors"`
	Reasoning string  `db:"reasoning" json:"reasoning"`
}

// DataItemRow is a persisted flat data declaration.
type DataItemRow struct {
	ID      int64  `db:"id" json:"-"`
	RunID   string `db:"run_id" json:"-"`
	Level   int    `db:"level" json:"level"`
	Name    string `db:"name" json:"name"`
	Section string `db:"section" json:"section"`
	Picture string `db:"picture" json:"picture,omitempty"`
	Kind    string `db:"kind" json:"kind"`
	Line    int    `db:"line" json:"line"`
}

// PerformEdgeRow is a persisted inbound-reference count.
type PerformEdgeRow struct {
	RunID   string `db:"run_id" json:"-"`
	Target  string `db:"target" json:"target"`
	Inbound int    `db:"inbound" json:"inbound"`
}

// WarningRow is one persisted warning.
type WarningRow struct {
	RunID   string `db:"run_id" json:"-"`
	Message string `db:"message" json:"message"`
}

// RunDetail aggregates a run with its persisted artifacts.
type RunDetail struct {
	Run        Run              `json:"run"`
	Procedures []ProcedureRow   `json:"procedures"`
	DataItems  []DataItemRow    `json:"data_items"`
	Edges      []PerformEdgeRow `json:"perform_edges"`
	Warnings   []string         `json:"warnings"`
}
