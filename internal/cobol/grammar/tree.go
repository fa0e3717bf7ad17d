// File path: internal/cobol/grammar/tree.go
package grammar

// The types in this package describe the concrete parse tree the
// extraction engine consumes. The tree is an input: a formal parser may
// hand one over fully populated, the bundled recognizer produces a
// partial one, and the engine tolerates nil or incomplete regions.

// ProgramTree is the root of a structurally recognized COBOL program.
// Any field may be zero when recognition failed for that region.
type ProgramTree struct {
	ProgramID string
	Divisions []DivisionNode
	Failures  []string
}

// DivisionNode covers one recognized division.
type DivisionNode struct {
	Name      string
	StartLine int
	EndLine   int
	Sections  []SectionNode
}

// SectionNode covers one section inside a division. Data-division
// sections carry entries; procedure-division sections carry procedures.
type SectionNode struct {
	Name       string
	StartLine  int
	EndLine    int
	Entries    []DataEntryNode
	Procedures []ProcedureNode
}

// DataEntryNode is a recognized data-description entry.
type DataEntryNode struct {
	Level int
	Name  string
	Text  string
	Line  int
}

// ProcedureNode is a recognized paragraph or section of the procedure
// division with its statements.
type ProcedureNode struct {
	Name       string
	StartLine  int
	EndLine    int
	Statements []StatementNode
}

// StatementNode is one recognized statement.
type StatementNode struct {
	Verb string
	Text string
	Line int
}

// Division returns the named division, nil when it was not recognized.
func (t *ProgramTree) Division(name string) *DivisionNode {
	if t == nil {
		return nil
	}
	for i := range t.Divisions {
		if t.Divisions[i].Name == name {
			return &t.Divisions[i]
		}
	}
	return nil
}
