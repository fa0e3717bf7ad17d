// File path: internal/cobol/data/collector.go
package data

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ykosuru/cobolscan/internal/cobol/grammar"
	"github.com/ykosuru/cobolscan/internal/cobol/source"
)

var (
	entryStartRe = regexp.MustCompile(`(?i)^\s*(\d{1,2})\s+(.*)$`)
	fdRe         = regexp.MustCompile(`(?i)^\s*(FD|SD)\s+([A-Z0-9-]+)(.*)$`)
	sectionRe    = regexp.MustCompile(`(?i)^\s*(FILE|WORKING-STORAGE|LINKAGE|LOCAL-STORAGE|COMMUNICATION)\s+SECTION\s*\.`)
	divisionRe   = regexp.MustCompile(`(?i)^\s*([A-Z-]+)\s+DIVISION\b`)
	pictureRe    = regexp.MustCompile(`(?i)\bPIC(?:TURE)?\s+(?:IS\s+)?([A-Z0-9()VSXZ,.*+$-]+)`)
	usageRe      = regexp.MustCompile(`(?i)\bUSAGE\s+(?:IS\s+)?([A-Z0-9-]+)|\b(COMP(?:-[1-5X])?|BINARY|PACKED-DECIMAL|DISPLAY|POINTER|INDEX)\b`)
	valueRe      = regexp.MustCompile(`(?i)\bVALUES?\s+(?:IS\s+|ARE\s+)?('[^']*'|"[^"]*"|[A-Z0-9+.-]+)(?:\s+(?:THRU|THROUGH)\s+('[^']*'|"[^"]*"|[A-Z0-9+.-]+))?`)
	occursRe     = regexp.MustCompile(`(?i)\bOCCURS\s+(\d+)(?:\s+TO\s+(\d+))?(?:\s+TIMES)?`)
	redefinesRe  = regexp.MustCompile(`(?i)\bREDEFINES\s+([A-Z0-9-]+)`)
	renamesRe    = regexp.MustCompile(`(?i)\bRENAMES\s+([A-Z0-9-]+)(?:\s+(?:THRU|THROUGH)\s+([A-Z0-9-]+))?`)
	nameTokenRe  = regexp.MustCompile(`(?i)^([A-Z0-9-]+)`)
)

// Collection is the flat, document-ordered output of a collector pass.
// Snapshots hold per-section copies used for loss recovery and are never
// mutated after collection.
type Collection struct {
	Items      []Declaration
	Files      []FileDescriptor
	Parameters []string
	Snapshots  map[Section][]Declaration
	Warnings   []string
}

// Collect walks declarations in document order. The parse tree is used
// when its data division was recognized; otherwise the collector pattern
// matches directly over the normalized lines. The choice is one of input
// availability, not behavior.
func Collect(tree *grammar.ProgramTree, lines []source.Line) *Collection {
	c := &Collection{Snapshots: make(map[Section][]Declaration)}
	if div := tree.Division("DATA"); div != nil && len(div.Sections) > 0 {
		c.collectFromTree(div)
		c.scanFiles(lines)
	} else {
		if tree != nil && len(tree.Failures) > 0 {
			c.Warnings = append(c.Warnings, "data division not structurally recognized; falling back to line scan")
		}
		c.collectFromLines(lines)
	}
	c.assignParameters()
	return c
}

func (c *Collection) collectFromTree(div *grammar.DivisionNode) {
	for _, sec := range div.Sections {
		section := sectionFromName(sec.Name)
		for _, entry := range sec.Entries {
			if !validLevel(entry.Level) {
				c.Warnings = append(c.Warnings, "skipping entry with out-of-range level at line "+strconv.Itoa(entry.Line))
				continue
			}
			decl, warn := parseEntry(entry.Level, entry.Text, entry.Line, section)
			if warn != "" {
				c.Warnings = append(c.Warnings, warn)
			}
			c.add(decl)
		}
	}
}

// scanFiles picks FD/SD entries out of the normalized lines. Used on the
// tree path, where the recognizer does not surface file descriptors.
func (c *Collection) scanFiles(lines []source.Line) {
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if m := fdRe.FindStringSubmatch(text); m != nil {
			c.Files = append(c.Files, FileDescriptor{
				Name:       strings.ToUpper(m[2]),
				Line:       line.Number,
				Definition: text,
			})
		}
	}
}

func (c *Collection) collectFromLines(lines []source.Line) {
	inData := false
	section := SectionUnknown
	pending := ""
	pendingLine := 0
	flush := func() {
		if pending == "" {
			return
		}
		text := pending
		pending = ""
		m := entryStartRe.FindStringSubmatch(text)
		if m == nil {
			return
		}
		level, err := strconv.Atoi(m[1])
		if err != nil || !validLevel(level) {
			return
		}
		decl, warn := parseEntry(level, text, pendingLine, section)
		if warn != "" {
			c.Warnings = append(c.Warnings, warn)
		}
		c.add(decl)
	}
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if m := divisionRe.FindStringSubmatch(text); m != nil {
			flush()
			inData = strings.EqualFold(m[1], "DATA")
			section = SectionUnknown
			continue
		}
		if !inData {
			continue
		}
		if m := sectionRe.FindStringSubmatch(text); m != nil {
			flush()
			section = sectionFromName(strings.ToUpper(m[1]))
			continue
		}
		if m := fdRe.FindStringSubmatch(text); m != nil {
			flush()
			c.Files = append(c.Files, FileDescriptor{
				Name:       strings.ToUpper(m[2]),
				Line:       line.Number,
				Definition: text,
			})
			continue
		}
		if entryStartRe.MatchString(text) {
			flush()
			pending = text
			pendingLine = line.Number
		} else if pending != "" {
			pending = pending + " " + text
		}
		if pending != "" && strings.HasSuffix(strings.TrimSpace(pending), ".") {
			flush()
		}
	}
	flush()
}

// add applies the section-dependent inclusion filter and records the
// declaration into the live list and its section snapshot.
func (c *Collection) add(decl Declaration) {
	if !c.retain(decl) {
		return
	}
	c.Items = append(c.Items, decl)
	c.Snapshots[decl.Section] = append(c.Snapshots[decl.Section], decl)
}

func (c *Collection) retain(decl Declaration) bool {
	if decl.Section == SectionLinkage {
		// Linkage items describe parameter shape; only condition names
		// are excluded.
		return decl.Level != 88
	}
	switch decl.Level {
	case 1, 77, 88, 66:
		return true
	}
	if decl.Name == Filler && decl.Value == "" {
		return false
	}
	return true
}

// assignParameters records every linkage 01/77 item as a call parameter
// in declaration order.
func (c *Collection) assignParameters() {
	index := 0
	for i := range c.Items {
		item := &c.Items[i]
		if item.Section != SectionLinkage {
			continue
		}
		if item.Level == 1 || item.Level == 77 {
			item.Linkage = &LinkageInfo{ParamIndex: index}
			c.Parameters = append(c.Parameters, item.Name)
			index++
		}
	}
	// Snapshot copies carry the same linkage marks.
	snap := c.Snapshots[SectionLinkage]
	j := 0
	for i := range snap {
		if snap[i].Level == 1 || snap[i].Level == 77 {
			snap[i].Linkage = &LinkageInfo{ParamIndex: j}
			j++
		}
	}
}

// parseEntry extracts the clauses of a single data-description entry.
// A malformed entry still yields a declaration with whatever fields
// could be extracted; the warning reports what was missing.
func parseEntry(level int, text string, line int, section Section) (Declaration, string) {
	decl := Declaration{Level: level, Section: section, Line: line, Name: Filler}
	body := text
	if m := entryStartRe.FindStringSubmatch(text); m != nil {
		body = m[2]
	}
	body = strings.TrimSpace(body)

	if m := nameTokenRe.FindStringSubmatch(body); m != nil {
		token := strings.ToUpper(m[1])
		if !clauseKeyword(token) {
			decl.Name = strings.TrimSuffix(token, ".")
		}
	}

	if level == 66 {
		if m := renamesRe.FindStringSubmatch(body); m != nil {
			decl.RenamesFrom = strings.ToUpper(m[1])
			decl.RenamesThru = strings.ToUpper(m[2])
			return decl, ""
		}
		return decl, "66-level " + decl.Name + " without RENAMES clause"
	}

	if m := pictureRe.FindStringSubmatch(body); m != nil {
		decl.Picture = strings.ToUpper(strings.TrimSuffix(m[1], "."))
	}
	decl.Kind = InferKind(decl.Picture)
	if m := usageRe.FindStringSubmatch(body); m != nil {
		if m[1] != "" {
			decl.Usage = strings.ToUpper(m[1])
		} else {
			decl.Usage = strings.ToUpper(m[2])
		}
	}
	if m := valueRe.FindStringSubmatch(body); m != nil {
		decl.Value = strings.Trim(m[1], `'"`)
		decl.ValueThrough = strings.Trim(m[2], `'"`)
	}
	if m := occursRe.FindStringSubmatch(body); m != nil {
		decl.Occurs, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			decl.OccursBound, _ = strconv.Atoi(m[2])
		} else {
			decl.OccursBound = decl.Occurs
		}
	}
	if m := redefinesRe.FindStringSubmatch(body); m != nil {
		decl.Redefines = strings.ToUpper(m[1])
	}

	if level == 88 && decl.Value == "" {
		return decl, "condition name " + decl.Name + " without VALUE clause"
	}
	return decl, ""
}

func clauseKeyword(token string) bool {
	switch strings.TrimSuffix(token, ".") {
	case "PIC", "PICTURE", "VALUE", "VALUES", "OCCURS", "REDEFINES", "RENAMES",
		"USAGE", "COMP", "BINARY", "DISPLAY", "FILLER":
		return true
	}
	return false
}

func sectionFromName(name string) Section {
	switch strings.ToUpper(name) {
	case "FILE":
		return SectionFile
	case "WORKING-STORAGE":
		return SectionWorkingStorage
	case "LINKAGE":
		return SectionLinkage
	case "LOCAL-STORAGE":
		return SectionLocalStorage
	case "COMMUNICATION":
		return SectionCommunication
	default:
		return SectionUnknown
	}
}

func validLevel(level int) bool {
	return (level >= 1 && level <= 49) || level == 66 || level == 77 || level == 88
}
