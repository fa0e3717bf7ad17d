// File path: internal/cobol/proc/types.go
package proc

// StatementKind classifies a procedure-division statement by its verb.
type StatementKind string

const (
	KindIf        StatementKind = "if"
	KindEvaluate  StatementKind = "evaluate"
	KindWhen      StatementKind = "when"
	KindPerform   StatementKind = "perform"
	KindGoTo      StatementKind = "goto"
	KindCall      StatementKind = "call"
	KindMove      StatementKind = "move"
	KindCompute   StatementKind = "compute"
	KindRead      StatementKind = "read"
	KindWrite     StatementKind = "write"
	KindOpen      StatementKind = "open"
	KindClose     StatementKind = "close"
	KindDisplay   StatementKind = "display"
	KindAccept    StatementKind = "accept"
	KindStop      StatementKind = "stop"
	KindExit      StatementKind = "exit"
	KindStatement StatementKind = "statement"
)

// Statement is one classified statement with whatever references the
// detector could attribute to it.
type Statement struct {
	Kind          StatementKind
	Text          string
	Line          int
	DataRefs      []string
	FileRefs      []string
	PerformTarget string
}

// Detector tags the strategy that produced a candidate.
type Detector string

const (
	DetectorGrammar   Detector = "grammar"
	DetectorPattern   Detector = "pattern"
	DetectorHeuristic Detector = "heuristic"
)

// Candidate is one detector's view of a procedure. Candidates are owned
// by their detector until handed to the reconciler, which consumes and
// discards them.
type Candidate struct {
	Name       string
	StartLine  int
	EndLine    int
	Detector   Detector
	Statements []Statement
	Reasoning  []string
}

// Procedure is a reconciled, scored procedure in the final result.
type Procedure struct {
	Name       string
	StartLine  int
	EndLine    int
	Statements []Statement
	Score      float64
	Reasoning  []string
	Detectors  []Detector
}

// HasDetector reports whether the named strategy contributed.
func (p *Procedure) HasDetector(d Detector) bool {
	for _, tag := range p.Detectors {
		if tag == d {
			return true
		}
	}
	return false
}
