// File path: internal/cobol/grammar/recognize.go
package grammar

import (
	"regexp"
	"strings"

	"github.com/ykosuru/cobolscan/internal/cobol/source"
)

var (
	programIDRe = regexp.MustCompile(`(?i)PROGRAM-ID\.\s*([A-Z0-9-]+)`)
	divisionRe  = regexp.MustCompile(`(?i)^\s*(IDENTIFICATION|ENVIRONMENT|DATA|PROCEDURE)\s+DIVISION\b`)
	sectionRe   = regexp.MustCompile(`(?i)^\s*([A-Z0-9-]+)\s+SECTION\s*\.`)
	entryRe     = regexp.MustCompile(`(?i)^\s*(\d{1,2})\s+([A-Z0-9-]+|FILLER)?`)
	labelRe     = regexp.MustCompile(`(?i)^\s*([A-Z0-9][A-Z0-9-]*)\s*\.\s*(.*)$`)
	verbRe      = regexp.MustCompile(`(?i)^\s*([A-Z-]+)\b`)
)

// Recognize builds a best-effort ProgramTree from normalized lines. It
// stands in for an external formal parser: recognition failures for a
// region are recorded in Failures and leave that region absent rather
// than failing the whole pass.
func Recognize(lines []source.Line) *ProgramTree {
	tree := &ProgramTree{}
	if len(lines) == 0 {
		tree.Failures = append(tree.Failures, "no source lines to recognize")
		return tree
	}

	var current *DivisionNode
	var section *SectionNode
	var procedure *ProcedureNode

	closeProcedure := func(end int) {
		if procedure == nil || section == nil {
			procedure = nil
			return
		}
		procedure.EndLine = end
		section.Procedures = append(section.Procedures, *procedure)
		procedure = nil
	}
	closeSection := func(end int) {
		closeProcedure(end)
		if section == nil || current == nil {
			section = nil
			return
		}
		section.EndLine = end
		current.Sections = append(current.Sections, *section)
		section = nil
	}
	closeDivision := func(end int) {
		closeSection(end)
		if current == nil {
			return
		}
		current.EndLine = end
		tree.Divisions = append(tree.Divisions, *current)
		current = nil
	}

	lastLine := lines[len(lines)-1].Number
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if m := programIDRe.FindStringSubmatch(text); m != nil && tree.ProgramID == "" {
			tree.ProgramID = strings.ToUpper(strings.TrimSuffix(m[1], "."))
		}
		if m := divisionRe.FindStringSubmatch(text); m != nil {
			closeDivision(line.Number - 1)
			current = &DivisionNode{Name: strings.ToUpper(m[1]), StartLine: line.Number}
			// Divisions hold an implicit unnamed section until a real one opens.
			section = &SectionNode{StartLine: line.Number}
			continue
		}
		if current == nil {
			continue
		}
		if m := sectionRe.FindStringSubmatch(text); m != nil {
			closeSection(line.Number - 1)
			section = &SectionNode{Name: strings.ToUpper(m[1]), StartLine: line.Number}
			continue
		}
		switch current.Name {
		case "DATA":
			if m := entryRe.FindStringSubmatch(text); m != nil {
				level := parseLevel(m[1])
				if level > 0 && section != nil {
					section.Entries = append(section.Entries, DataEntryNode{
						Level: level,
						Name:  strings.ToUpper(m[2]),
						Text:  text,
						Line:  line.Number,
					})
				}
				continue
			}
			// Clause continuation of an unterminated previous entry.
			upper := strings.ToUpper(text)
			if strings.HasPrefix(upper, "FD ") || strings.HasPrefix(upper, "SD ") {
				continue
			}
			if section != nil && len(section.Entries) > 0 {
				last := &section.Entries[len(section.Entries)-1]
				if !strings.HasSuffix(strings.TrimSpace(last.Text), ".") {
					last.Text = last.Text + " " + text
				}
			}
		case "PROCEDURE":
			if name, rest := splitLabel(text); name != "" {
				closeProcedure(line.Number - 1)
				procedure = &ProcedureNode{Name: name, StartLine: line.Number}
				if rest != "" {
					procedure.Statements = append(procedure.Statements, statementNode(rest, line.Number))
				}
				continue
			}
			if procedure == nil {
				// Statements directly under a section header belong to
				// the section itself; only statements ahead of any
				// section or paragraph open the implicit entry
				// procedure.
				if section != nil && section.Name != "" {
					procedure = &ProcedureNode{Name: section.Name, StartLine: section.StartLine}
				} else {
					procedure = &ProcedureNode{Name: "MAIN", StartLine: line.Number}
				}
			}
			procedure.Statements = append(procedure.Statements, statementNode(text, line.Number))
		}
	}
	closeDivision(lastLine)

	if tree.Division("PROCEDURE") == nil {
		tree.Failures = append(tree.Failures, "procedure division not recognized")
	}
	if tree.Division("DATA") == nil {
		tree.Failures = append(tree.Failures, "data division not recognized")
	}
	return tree
}

// splitLabel recognizes a paragraph header: a name token terminated by a
// period at statement-start position, optionally followed by the first
// statement on the same line.
func splitLabel(text string) (string, string) {
	m := labelRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	name := strings.ToUpper(strings.TrimSpace(m[1]))
	if isVerb(name) {
		return "", ""
	}
	return name, strings.TrimSpace(m[2])
}

func statementNode(text string, line int) StatementNode {
	verb := ""
	if m := verbRe.FindStringSubmatch(text); m != nil {
		verb = strings.ToUpper(m[1])
	}
	return StatementNode{Verb: verb, Text: strings.TrimSuffix(text, "."), Line: line}
}

var verbs = map[string]struct{}{
	"MOVE": {}, "IF": {}, "ELSE": {}, "END-IF": {}, "PERFORM": {}, "EVALUATE": {},
	"WHEN": {}, "END-EVALUATE": {}, "GO": {}, "GOBACK": {}, "CALL": {}, "READ": {},
	"WRITE": {}, "REWRITE": {}, "OPEN": {}, "CLOSE": {}, "COMPUTE": {}, "ADD": {},
	"SUBTRACT": {}, "MULTIPLY": {}, "DIVIDE": {}, "DISPLAY": {}, "ACCEPT": {},
	"STOP": {}, "EXIT": {}, "INITIALIZE": {}, "STRING": {}, "UNSTRING": {},
	"INSPECT": {}, "SET": {}, "SEARCH": {}, "CONTINUE": {}, "NEXT": {}, "START": {},
	"DELETE": {}, "SORT": {}, "MERGE": {}, "RELEASE": {}, "RETURN": {},
}

func isVerb(word string) bool {
	_, ok := verbs[strings.ToUpper(word)]
	return ok
}

func parseLevel(s string) int {
	level := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		level = level*10 + int(r-'0')
	}
	return level
}
