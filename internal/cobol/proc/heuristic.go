// File path: internal/cobol/proc/heuristic.go
package proc

import (
	"regexp"
	"strings"

	"github.com/ykosuru/cobolscan/internal/cobol/source"
)

var (
	labelStartRe  = regexp.MustCompile(`(?i)^\s*([A-Z0-9][A-Z0-9-]*)\s*\.\s*(.*)$`)
	verbStartRe   = regexp.MustCompile(`(?i)^\s*([A-Z-]+)\b`)
	performRefRe  = regexp.MustCompile(`(?i)\bPERFORM\s+([A-Z0-9-]+)(?:\s+(?:THRU|THROUGH)\s+([A-Z0-9-]+))?`)
	goToRefRe     = regexp.MustCompile(`(?i)\bGO\s+TO\s+([A-Z0-9-]+)`)
	callRefRe     = regexp.MustCompile(`(?i)\bCALL\s+'?"?([A-Z0-9-]+)'?"?`)
	moveRefRe     = regexp.MustCompile(`(?i)\bMOVE\s+(.+?)\s+TO\s+([A-Z0-9-]+(?:\s*,?\s+[A-Z0-9-]+)*)`)
	fileVerbRe    = regexp.MustCompile(`(?i)\b(READ|WRITE|REWRITE|OPEN|CLOSE|START|DELETE)\s+(?:INPUT\s+|OUTPUT\s+|I-O\s+|EXTEND\s+)?([A-Z0-9-]+)`)
	computeRefRe  = regexp.MustCompile(`(?i)\b(?:COMPUTE|ADD|SUBTRACT|MULTIPLY|DIVIDE)\s+.*?\b(?:TO|GIVING|FROM|BY|INTO)\s+([A-Z0-9-]+)`)
	identifierRe  = regexp.MustCompile(`(?i)^[A-Z][A-Z0-9-]*$`)
	literalWordRe = regexp.MustCompile(`^['"0-9]`)
)

// DetectHeuristic is the independent line-and-keyword scan over the
// whole procedure region. Statements are classified by leading verb and
// attributed to the most recently seen label; each statement also
// records the data items and files it appears to touch and the target a
// perform-style statement names.
func DetectHeuristic(lines []source.Line) []Candidate {
	var out []Candidate
	var current *Candidate
	inProc := false
	lastLine := 0

	flush := func(end int) {
		if current == nil {
			return
		}
		current.EndLine = end
		out = append(out, *current)
		current = nil
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		lastLine = line.Number
		if procDivisionRe.MatchString(text) {
			inProc = true
			continue
		}
		if !inProc {
			continue
		}
		if divisionLineRe.MatchString(text) {
			flush(line.Number - 1)
			inProc = false
			continue
		}
		if m := sectionNameRe.FindStringSubmatch(text); m != nil {
			flush(line.Number - 1)
			current = &Candidate{
				Name:      strings.ToUpper(m[1]),
				StartLine: line.Number,
				Detector:  DetectorHeuristic,
				Reasoning: []string{"section header found by heuristic statement extractor"},
			}
			continue
		}
		if m := labelStartRe.FindStringSubmatch(text); m != nil && !isStatementVerb(m[1]) {
			flush(line.Number - 1)
			current = &Candidate{
				Name:      strings.ToUpper(m[1]),
				StartLine: line.Number,
				Detector:  DetectorHeuristic,
				Reasoning: []string{"label found by heuristic statement extractor"},
			}
			text = strings.TrimSpace(m[2])
			if text == "" {
				continue
			}
		}
		if current == nil {
			// Statements ahead of any label belong to the implicit
			// entry paragraph.
			current = &Candidate{
				Name:      "MAIN",
				StartLine: line.Number,
				Detector:  DetectorHeuristic,
				Reasoning: []string{"implicit entry paragraph"},
			}
		}
		for _, part := range splitStatements(text) {
			current.Statements = append(current.Statements, buildStatement(part, line.Number))
		}
	}
	flush(lastLine)
	return out
}

// splitStatements breaks a logical line into period-terminated
// statements, leaving quoted literals intact.
func splitStatements(text string) []string {
	var parts []string
	var b strings.Builder
	inQuote := byte(0)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inQuote != 0 {
			b.WriteByte(ch)
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			inQuote = ch
			b.WriteByte(ch)
		case '.':
			// A period followed by a digit is a decimal point.
			if i+1 < len(text) && text[i+1] >= '0' && text[i+1] <= '9' {
				b.WriteByte(ch)
				continue
			}
			if s := strings.TrimSpace(b.String()); s != "" {
				parts = append(parts, s)
			}
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		parts = append(parts, s)
	}
	return parts
}

func buildStatement(text string, line int) Statement {
	stmt := Statement{Text: text, Line: line, Kind: KindStatement}
	if m := verbStartRe.FindStringSubmatch(text); m != nil {
		stmt.Kind = classifyVerb(strings.ToUpper(m[1]))
	}
	switch stmt.Kind {
	case KindPerform:
		if m := performRefRe.FindStringSubmatch(text); m != nil {
			target := strings.ToUpper(m[1])
			if !isStatementVerb(target) && !literalWordRe.MatchString(target) {
				stmt.PerformTarget = target
			}
		}
	case KindGoTo:
		if m := goToRefRe.FindStringSubmatch(text); m != nil {
			stmt.PerformTarget = strings.ToUpper(m[1])
		}
	case KindCall:
		if m := callRefRe.FindStringSubmatch(text); m != nil {
			stmt.PerformTarget = strings.ToUpper(m[1])
		}
	case KindMove:
		if m := moveRefRe.FindStringSubmatch(text); m != nil {
			if from := strings.ToUpper(strings.TrimSpace(m[1])); identifierRe.MatchString(from) {
				stmt.DataRefs = append(stmt.DataRefs, from)
			}
			for _, to := range strings.FieldsFunc(m[2], func(r rune) bool { return r == ' ' || r == ',' }) {
				if to = strings.ToUpper(strings.TrimSpace(to)); to != "" {
					stmt.DataRefs = append(stmt.DataRefs, to)
				}
			}
		}
	case KindCompute:
		if m := computeRefRe.FindStringSubmatch(text); m != nil {
			stmt.DataRefs = append(stmt.DataRefs, strings.ToUpper(m[1]))
		}
	case KindRead, KindWrite, KindOpen, KindClose:
		if m := fileVerbRe.FindStringSubmatch(text); m != nil {
			stmt.FileRefs = append(stmt.FileRefs, strings.ToUpper(m[2]))
		}
	case KindIf, KindEvaluate, KindWhen:
		for _, word := range strings.Fields(text)[1:] {
			word = strings.ToUpper(strings.Trim(word, "()."))
			if identifierRe.MatchString(word) && !isStatementVerb(word) && !conditionKeyword(word) {
				stmt.DataRefs = append(stmt.DataRefs, word)
			}
		}
	}
	return stmt
}

func conditionKeyword(word string) bool {
	switch word {
	case "NOT", "AND", "OR", "EQUAL", "EQUALS", "GREATER", "LESS", "THAN",
		"TO", "IS", "ARE", "ZERO", "ZEROS", "ZEROES", "SPACE", "SPACES",
		"OTHER", "TRUE", "FALSE", "THEN", "NUMERIC", "ALPHABETIC":
		return true
	}
	return false
}
