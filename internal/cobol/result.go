// File path: internal/cobol/result.go
package cobol

import (
	"github.com/ykosuru/cobolscan/internal/cobol/data"
	"github.com/ykosuru/cobolscan/internal/cobol/proc"
)

// Result is the root aggregate of one analysis run. It is constructed
// once at the end of the pipeline and treated as read-only by every
// downstream consumer.
type Result struct {
	Program         string                        `json:"program"`
	SourcePath      string                        `json:"source_path,omitempty"`
	Data            *data.Forest                  `json:"data"`
	DataItems       []data.Declaration            `json:"data_items"`
	Files           []data.FileDescriptor         `json:"files,omitempty"`
	Parameters      []string                      `json:"parameters,omitempty"`
	Procedures      []proc.Procedure              `json:"procedures"`
	PerformEdges    map[string]int                `json:"perform_edges,omitempty"`
	StatementCounts map[proc.StatementKind]int    `json:"statement_counts,omitempty"`
	Warnings        []string                      `json:"warnings,omitempty"`
}

// enforceDataPreservation is the final integrity guard: if the live
// data-item list emptied out while non-empty per-section snapshots
// exist, the list and forest are rebuilt from the snapshots and the
// recovery is reported as a warning. An unrecoverable loss (no
// snapshots) is reported prominently but never crashes the run.
func (r *Result) enforceDataPreservation(collection *data.Collection) {
	if len(r.DataItems) > 0 {
		return
	}
	total := 0
	for _, snap := range collection.Snapshots {
		total += len(snap)
	}
	if total == 0 {
		if len(collection.Items) == 0 {
			// Nothing was ever collected; not a loss.
			return
		}
		r.Warnings = append(r.Warnings, "data items lost after reconciliation and no snapshot available for recovery")
		return
	}
	rebuilt := make([]data.Declaration, 0, total)
	for _, section := range []data.Section{
		data.SectionFile, data.SectionWorkingStorage, data.SectionLocalStorage,
		data.SectionLinkage, data.SectionCommunication, data.SectionUnknown,
	} {
		rebuilt = append(rebuilt, collection.Snapshots[section]...)
	}
	r.DataItems = rebuilt
	r.Data = data.BuildForest(rebuilt)
	r.Warnings = append(r.Warnings, "data items recovered from per-section snapshots after detected loss")
}
