// File path: internal/cobol/grammar/recognize_test.go
package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykosuru/cobolscan/internal/cobol/source"
)

func toLines(texts ...string) []source.Line {
	lines := make([]source.Line, len(texts))
	for i, t := range texts {
		lines[i] = source.Line{Number: i + 1, Text: t, Kind: source.KindCode}
	}
	return lines
}

func TestRecognizeFullProgram(t *testing.T) {
	lines := toLines(
		"IDENTIFICATION DIVISION.",
		"PROGRAM-ID. PAYROLL.",
		"DATA DIVISION.",
		"WORKING-STORAGE SECTION.",
		"01  WS-TOTAL PIC 9(7)V99",
		"    VALUE 0.",
		"PROCEDURE DIVISION.",
		"MAIN-LOGIC.",
		"    PERFORM CALC-PAY.",
		"    STOP RUN.",
		"CALC-PAY.",
		"    ADD WS-RATE TO WS-TOTAL.",
	)
	tree := Recognize(lines)

	assert.Equal(t, "PAYROLL", tree.ProgramID)
	assert.Empty(t, tree.Failures)

	dataDiv := tree.Division("DATA")
	require.NotNil(t, dataDiv)
	require.Len(t, dataDiv.Sections, 2)
	ws := dataDiv.Sections[1]
	assert.Equal(t, "WORKING-STORAGE", ws.Name)
	require.Len(t, ws.Entries, 1)
	assert.Equal(t, 1, ws.Entries[0].Level)
	assert.Equal(t, "WS-TOTAL", ws.Entries[0].Name)
	// The unterminated entry absorbed its clause continuation.
	assert.Contains(t, ws.Entries[0].Text, "VALUE 0.")

	procDiv := tree.Division("PROCEDURE")
	require.NotNil(t, procDiv)
	require.Len(t, procDiv.Sections, 1)
	procs := procDiv.Sections[0].Procedures
	require.Len(t, procs, 2)

	main := procs[0]
	assert.Equal(t, "MAIN-LOGIC", main.Name)
	assert.Equal(t, 8, main.StartLine)
	assert.Equal(t, 10, main.EndLine)
	require.Len(t, main.Statements, 2)
	assert.Equal(t, "PERFORM", main.Statements[0].Verb)
	assert.Equal(t, "STOP", main.Statements[1].Verb)

	calc := procs[1]
	assert.Equal(t, "CALC-PAY", calc.Name)
	assert.Equal(t, 12, calc.EndLine)
	require.Len(t, calc.Statements, 1)
	assert.Equal(t, "ADD", calc.Statements[0].Verb)
}

func TestRecognizeImplicitEntryParagraph(t *testing.T) {
	lines := toLines(
		"PROCEDURE DIVISION.",
		"    DISPLAY 'HI'.",
		"    GOBACK.",
	)
	tree := Recognize(lines)

	procDiv := tree.Division("PROCEDURE")
	require.NotNil(t, procDiv)
	require.Len(t, procDiv.Sections, 1)
	procs := procDiv.Sections[0].Procedures
	require.Len(t, procs, 1)
	assert.Equal(t, "MAIN", procs[0].Name)
	assert.Len(t, procs[0].Statements, 2)

	// Missing data division is a recorded failure, not an error.
	assert.Contains(t, tree.Failures, "data division not recognized")
}

func TestRecognizeSectionBodyBelongsToSection(t *testing.T) {
	lines := toLines(
		"PROCEDURE DIVISION.",
		"INIT-PARA.",
		"    DISPLAY 'INIT'.",
		"REPORT-BODY SECTION.",
		"    DISPLAY 'BODY'.",
		"    STOP RUN.",
	)
	tree := Recognize(lines)

	procDiv := tree.Division("PROCEDURE")
	require.NotNil(t, procDiv)
	require.Len(t, procDiv.Sections, 2)

	implicit := procDiv.Sections[0]
	require.Len(t, implicit.Procedures, 1)
	assert.Equal(t, "INIT-PARA", implicit.Procedures[0].Name)

	// Statements directly under the section header carry the section's
	// name; no synthetic entry procedure appears.
	body := procDiv.Sections[1]
	assert.Equal(t, "REPORT-BODY", body.Name)
	require.Len(t, body.Procedures, 1)
	assert.Equal(t, "REPORT-BODY", body.Procedures[0].Name)
	assert.Equal(t, 4, body.Procedures[0].StartLine)
	require.Len(t, body.Procedures[0].Statements, 2)
	assert.Equal(t, "STOP", body.Procedures[0].Statements[1].Verb)

	for _, sec := range procDiv.Sections {
		for _, p := range sec.Procedures {
			assert.NotEqual(t, "MAIN", p.Name)
		}
	}
}

func TestRecognizeLabelWithTrailingStatement(t *testing.T) {
	lines := toLines(
		"PROCEDURE DIVISION.",
		"INIT-PARA. MOVE ZERO TO WS-COUNT.",
	)
	tree := Recognize(lines)

	procs := tree.Division("PROCEDURE").Sections[0].Procedures
	require.Len(t, procs, 1)
	assert.Equal(t, "INIT-PARA", procs[0].Name)
	require.Len(t, procs[0].Statements, 1)
	assert.Equal(t, "MOVE", procs[0].Statements[0].Verb)
}

func TestRecognizeEmptyInput(t *testing.T) {
	tree := Recognize(nil)
	require.Len(t, tree.Failures, 1)
	assert.Nil(t, tree.Division("PROCEDURE"))
}
