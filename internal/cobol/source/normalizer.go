// File path: internal/cobol/source/normalizer.go
package source

import (
	"regexp"
	"strings"
)

// Format selects the reference format of the raw input.
type Format int

const (
	// FormatAuto sniffs fixed versus free format from the first lines.
	FormatAuto Format = iota
	// FormatFixed is the column-sensitive reference format: columns 1-6
	// sequence area, column 7 indicator area, columns 8-72 program text.
	FormatFixed
	// FormatFree is free-format source where only a leading comment
	// marker is significant.
	FormatFree
)

// Kind classifies a normalized line.
type Kind string

const (
	KindCode         Kind = "code"
	KindComment      Kind = "comment"
	KindContinuation Kind = "continuation"
)

// Line is one logical source line after normalization. Number is the
// 1-based line number of the raw line the text started on; continuation
// lines are spliced into the line they continue and keep its number.
type Line struct {
	Number int
	Text   string
	Kind   Kind
}

var (
	sequenceAreaRe = regexp.MustCompile(`^(\d{6}| {6})`)
	versionStampRe = regexp.MustCompile(`^\s*(?:VERSION|DATE-WRITTEN|DATE-COMPILED|AUTHOR|INSTALLATION|SECURITY)\b`)
	dateOnlyRe     = regexp.MustCompile(`^\s*\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}\.?\s*$`)
	literalOnlyRe  = regexp.MustCompile(`^\s*'[^']*'\.?\s*$|^\s*"[^"]*"\.?\s*$`)
)

// vendor banner fragments dropped by the metadata filter. The filter is
// conservative: a line naming a DIVISION or SECTION is never dropped.
var bannerFragments = []string{
	"MEMBER OF THE", "LICENSED MATERIAL", "COPYRIGHT", "ALL RIGHTS RESERVED",
	"GENERATED BY", "DO NOT EDIT",
}

// Normalizer turns raw source lines into logical lines suitable for
// structural analysis.
type Normalizer struct {
	format Format
}

func NewNormalizer(format Format) *Normalizer {
	return &Normalizer{format: format}
}

// Normalize strips sequence numbers, classifies the indicator column,
// splices continuations and drops comment and boilerplate lines. Raw
// lines are numbered from 1; dropped lines are absent from the output,
// never renumbered.
func (n *Normalizer) Normalize(raw []string) []Line {
	format := n.format
	if format == FormatAuto {
		format = DetectFormat(raw)
	}
	var out []Line
	for i, text := range raw {
		number := i + 1
		switch format {
		case FormatFixed:
			line, cont, keep := normalizeFixed(number, text)
			if !keep {
				continue
			}
			if cont && len(out) > 0 {
				prev := &out[len(out)-1]
				prev.Text = spliceContinuation(prev.Text, line.Text)
				continue
			}
			if isBoilerplate(line.Text) {
				continue
			}
			out = append(out, line)
		default:
			trimmed := strings.TrimSpace(text)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "*>") || strings.HasPrefix(trimmed, "*") {
				continue
			}
			if isBoilerplate(text) {
				continue
			}
			out = append(out, Line{Number: number, Text: text, Kind: KindCode})
		}
	}
	return out
}

// normalizeFixed handles one raw fixed-format line. The second return
// reports a continuation line, the third whether the line survives at all.
func normalizeFixed(number int, text string) (Line, bool, bool) {
	if strings.TrimSpace(text) == "" {
		return Line{}, false, false
	}
	body := text
	if sequenceAreaRe.MatchString(body) {
		body = body[6:]
	} else {
		// Nonconforming line without a sequence area. Keep it whole;
		// only an obvious comment marker drops it.
		trimmed := strings.TrimSpace(body)
		if strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "/") {
			return Line{}, false, false
		}
		return Line{Number: number, Text: body, Kind: KindCode}, false, true
	}
	if body == "" {
		return Line{}, false, false
	}
	indicator := body[0]
	rest := ""
	if len(body) > 1 {
		rest = body[1:]
	}
	// Identification area beyond column 72 carries no program text.
	if len(rest) > 65 {
		rest = rest[:65]
	}
	switch indicator {
	case '*', '/', '$', 'C', 'c':
		return Line{}, false, false
	case '-':
		return Line{Number: number, Text: strings.TrimSpace(rest), Kind: KindContinuation}, true, true
	case 'D', 'd':
		// Debug lines stay in the structural model.
		return Line{Number: number, Text: rest, Kind: KindCode}, false, strings.TrimSpace(rest) != ""
	default:
		if strings.TrimSpace(rest) == "" {
			return Line{}, false, false
		}
		return Line{Number: number, Text: rest, Kind: KindCode}, false, true
	}
}

// spliceContinuation merges a continuation fragment into the previous
// logical line without inserting a line break.
func spliceContinuation(prev, fragment string) string {
	prev = strings.TrimRight(prev, " ")
	if fragment == "" {
		return prev
	}
	// Continued literals re-open with a quote; join those directly.
	if strings.HasPrefix(fragment, "'") || strings.HasPrefix(fragment, "\"") {
		return prev + fragment[1:]
	}
	return prev + " " + fragment
}

// DetectFormat sniffs fixed versus free format. Sources whose lines carry
// a numeric or blank sequence area with program text starting past the
// indicator column are treated as fixed.
func DetectFormat(raw []string) Format {
	fixed, inspected := 0, 0
	for _, text := range raw {
		if strings.TrimSpace(text) == "" {
			continue
		}
		inspected++
		if len(text) >= 7 && sequenceAreaRe.MatchString(text) {
			switch text[6] {
			case '*', '/', '-', ' ', 'D', 'd':
				fixed++
			}
		}
		if inspected >= 50 {
			break
		}
	}
	if inspected == 0 {
		return FormatFree
	}
	if fixed*2 >= inspected {
		return FormatFixed
	}
	return FormatFree
}

// isBoilerplate reports vendor banners, bare version/date stamps and
// quoted-literal-only filler. Division and section headers always pass.
func isBoilerplate(text string) bool {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "DIVISION") || strings.Contains(upper, "SECTION") {
		return false
	}
	for _, fragment := range bannerFragments {
		if strings.Contains(upper, fragment) {
			return true
		}
	}
	if versionStampRe.MatchString(upper) {
		return true
	}
	if dateOnlyRe.MatchString(text) {
		return true
	}
	if literalOnlyRe.MatchString(text) {
		return true
	}
	return false
}
