// File path: internal/cobol/proc/grammar_detector.go
package proc

import (
	"strings"

	"github.com/ykosuru/cobolscan/internal/cobol/grammar"
)

// DetectGrammar yields candidates from the structurally recognized
// procedure division. Exact boundaries and per-statement classification
// come for free when recognition succeeded; a failed parse yields zero
// candidates and the other detectors compensate.
func DetectGrammar(tree *grammar.ProgramTree) []Candidate {
	div := tree.Division("PROCEDURE")
	if div == nil {
		return nil
	}
	var out []Candidate
	for _, sec := range div.Sections {
		for _, node := range sec.Procedures {
			cand := Candidate{
				Name:      strings.ToUpper(node.Name),
				StartLine: node.StartLine,
				EndLine:   node.EndLine,
				Detector:  DetectorGrammar,
				Reasoning: []string{"recognized by grammar boundary detector"},
			}
			for _, stmt := range node.Statements {
				cand.Statements = append(cand.Statements, Statement{
					Kind: classifyVerb(stmt.Verb),
					Text: stmt.Text,
					Line: stmt.Line,
				})
			}
			out = append(out, cand)
		}
	}
	return out
}

func classifyVerb(verb string) StatementKind {
	switch strings.ToUpper(verb) {
	case "IF":
		return KindIf
	case "EVALUATE":
		return KindEvaluate
	case "WHEN":
		return KindWhen
	case "PERFORM":
		return KindPerform
	case "GO":
		return KindGoTo
	case "CALL":
		return KindCall
	case "MOVE":
		return KindMove
	case "COMPUTE", "ADD", "SUBTRACT", "MULTIPLY", "DIVIDE":
		return KindCompute
	case "READ":
		return KindRead
	case "WRITE", "REWRITE":
		return KindWrite
	case "OPEN":
		return KindOpen
	case "CLOSE":
		return KindClose
	case "DISPLAY":
		return KindDisplay
	case "ACCEPT":
		return KindAccept
	case "STOP", "GOBACK":
		return KindStop
	case "EXIT":
		return KindExit
	default:
		return KindStatement
	}
}
