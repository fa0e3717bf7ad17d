// File path: internal/cobol/proc/pattern_detector.go
package proc

import (
	"regexp"
	"strings"

	"github.com/ykosuru/cobolscan/internal/cobol/source"
)

var (
	procDivisionRe = regexp.MustCompile(`(?i)^\s*PROCEDURE\s+DIVISION`)
	divisionLineRe = regexp.MustCompile(`(?i)^\s*[A-Z-]+\s+DIVISION\s*\.`)
	paragraphRe    = regexp.MustCompile(`(?i)^\s*([A-Z0-9][A-Z0-9-]*)\s*\.\s*$`)
	sectionNameRe  = regexp.MustCompile(`(?i)^\s*([A-Z0-9][A-Z0-9-]*)\s+SECTION\s*\.\s*$`)
)

// DetectPattern scans normalized lines for paragraph-name-like tokens
// terminated by a period at statement-start position. Boundaries are
// coarse: a candidate ends where the next one starts or the division
// ends. Supplements the grammar detector where that one is silent.
func DetectPattern(lines []source.Line) []Candidate {
	var out []Candidate
	inProc := false
	lastLine := 0
	flush := func(end int) {
		if len(out) > 0 && out[len(out)-1].EndLine == 0 {
			out[len(out)-1].EndLine = end
		}
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
		name := ""
		if m := sectionNameRe.FindStringSubmatch(text); m != nil {
			name = strings.ToUpper(m[1])
		} else if m := paragraphRe.FindStringSubmatch(text); m != nil {
			name = strings.ToUpper(m[1])
		}
		if name == "" || isStatementVerb(name) {
			continue
		}
		flush(line.Number - 1)
		out = append(out, Candidate{
			Name:      name,
			StartLine: line.Number,
			Detector:  DetectorPattern,
			Reasoning: []string{"paragraph-like token at statement start"},
		})
	}
	flush(lastLine)
	return out
}

var statementVerbs = map[string]struct{}{
	"MOVE": {}, "IF": {}, "ELSE": {}, "END-IF": {}, "PERFORM": {}, "EVALUATE": {},
	"WHEN": {}, "END-EVALUATE": {}, "GO": {}, "GOBACK": {}, "CALL": {}, "READ": {},
	"WRITE": {}, "REWRITE": {}, "OPEN": {}, "CLOSE": {}, "COMPUTE": {}, "ADD": {},
	"SUBTRACT": {}, "MULTIPLY": {}, "DIVIDE": {}, "DISPLAY": {}, "ACCEPT": {},
	"STOP": {}, "EXIT": {}, "INITIALIZE": {}, "STRING": {}, "UNSTRING": {},
	"INSPECT": {}, "SET": {}, "SEARCH": {}, "CONTINUE": {}, "START": {},
	"DELETE": {}, "SORT": {}, "MERGE": {}, "RELEASE": {}, "RETURN": {},
}

func isStatementVerb(word string) bool {
	_, ok := statementVerbs[strings.ToUpper(word)]
	return ok
}
