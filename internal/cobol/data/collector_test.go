// File path: internal/cobol/data/collector_test.go
package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykosuru/cobolscan/internal/cobol/grammar"
	"github.com/ykosuru/cobolscan/internal/cobol/source"
)

func toLines(texts ...string) []source.Line {
	lines := make([]source.Line, len(texts))
	for i, t := range texts {
		lines[i] = source.Line{Number: i + 1, Text: t, Kind: source.KindCode}
	}
	return lines
}

func TestCollectFromLines(t *testing.T) {
	lines := toLines(
		"IDENTIFICATION DIVISION.",
		"PROGRAM-ID. ORDERS.",
		"DATA DIVISION.",
		"FILE SECTION.",
		"FD  ORDER-FILE RECORDING MODE F.",
		"01  ORDER-REC.",
		"    05 ORDER-ID      PIC 9(8).",
		"    05 ORDER-AMOUNT  PIC 9(6)V99.",
		"WORKING-STORAGE SECTION.",
		"01  WS-STATUS        PIC XX VALUE '00'.",
		"    88 STATUS-OK     VALUE '00'.",
		"77  WS-COUNT         PIC 9(4) COMP VALUE 0.",
		"LINKAGE SECTION.",
		"01  LNK-REQUEST.",
		"    05 LNK-ACTION    PIC X(8).",
		"PROCEDURE DIVISION USING LNK-REQUEST.",
	)
	c := Collect(&grammar.ProgramTree{}, lines)

	require.Len(t, c.Files, 1)
	assert.Equal(t, "ORDER-FILE", c.Files[0].Name)
	assert.Equal(t, 5, c.Files[0].Line)

	byName := map[string]Declaration{}
	for _, item := range c.Items {
		byName[item.Name] = item
	}

	orderID := byName["ORDER-ID"]
	assert.Equal(t, 5, orderID.Level)
	assert.Equal(t, "9(8)", orderID.Picture)
	assert.Equal(t, KindInteger, orderID.Kind)
	assert.Equal(t, SectionFile, orderID.Section)

	assert.Equal(t, KindDecimal, byName["ORDER-AMOUNT"].Kind)

	status := byName["WS-STATUS"]
	assert.Equal(t, "00", status.Value)
	assert.Equal(t, KindString, status.Kind)

	statusOK := byName["STATUS-OK"]
	assert.Equal(t, 88, statusOK.Level)
	assert.Equal(t, "00", statusOK.Value)

	count := byName["WS-COUNT"]
	assert.Equal(t, 77, count.Level)
	assert.Equal(t, "COMP", count.Usage)

	require.Equal(t, []string{"LNK-REQUEST"}, c.Parameters)
	require.NotNil(t, byName["LNK-REQUEST"].Linkage)
	assert.Equal(t, 0, byName["LNK-REQUEST"].Linkage.ParamIndex)
}

func TestCollectMultiLineEntry(t *testing.T) {
	lines := toLines(
		"DATA DIVISION.",
		"WORKING-STORAGE SECTION.",
		"01  WS-TABLE.",
		"    05 WS-ROW OCCURS 10 TO 50 TIMES",
		"       PIC X(20).",
	)
	c := Collect(&grammar.ProgramTree{}, lines)

	byName := map[string]Declaration{}
	for _, item := range c.Items {
		byName[item.Name] = item
	}
	row := byName["WS-ROW"]
	assert.Equal(t, 10, row.Occurs)
	assert.Equal(t, 50, row.OccursBound)
	assert.Equal(t, "X(20)", row.Picture)
}

func TestCollectFillerFilter(t *testing.T) {
	lines := toLines(
		"DATA DIVISION.",
		"WORKING-STORAGE SECTION.",
		"01  WS-HEADER.",
		"    05 FILLER PIC X(5).",
		"    05 FILLER PIC X(10) VALUE 'REPORT'.",
		"    05 WS-TITLE PIC X(30).",
	)
	c := Collect(&grammar.ProgramTree{}, lines)

	var names []string
	for _, item := range c.Items {
		names = append(names, item.Name)
	}
	// Subordinate FILLER without VALUE is dropped; one with VALUE stays.
	assert.Equal(t, []string{"WS-HEADER", Filler, "WS-TITLE"}, names)
	assert.Equal(t, "REPORT", c.Items[1].Value)
}

func TestCollectWarnings(t *testing.T) {
	lines := toLines(
		"DATA DIVISION.",
		"WORKING-STORAGE SECTION.",
		"01  WS-FLAG PIC X.",
		"    88 FLAG-SET.",
		"66  SHADOW-NAME.",
	)
	c := Collect(&grammar.ProgramTree{}, lines)

	require.Len(t, c.Warnings, 2)
	assert.Contains(t, c.Warnings[0], "FLAG-SET")
	assert.Contains(t, c.Warnings[0], "VALUE")
	assert.Contains(t, c.Warnings[1], "SHADOW-NAME")
	assert.Contains(t, c.Warnings[1], "RENAMES")
}

func TestCollectRedefinesAndRenames(t *testing.T) {
	lines := toLines(
		"DATA DIVISION.",
		"WORKING-STORAGE SECTION.",
		"01  WS-RAW        PIC X(8).",
		"01  WS-PARTS REDEFINES WS-RAW.",
		"    05 WS-LEFT    PIC X(4).",
		"    05 WS-RIGHT   PIC X(4).",
		"66  WS-ALL RENAMES WS-LEFT THRU WS-RIGHT.",
	)
	c := Collect(&grammar.ProgramTree{}, lines)

	byName := map[string]Declaration{}
	for _, item := range c.Items {
		byName[item.Name] = item
	}
	assert.Equal(t, "WS-RAW", byName["WS-PARTS"].Redefines)
	assert.Equal(t, "WS-LEFT", byName["WS-ALL"].RenamesFrom)
	assert.Equal(t, "WS-RIGHT", byName["WS-ALL"].RenamesThru)
}

func TestCollectFromTree(t *testing.T) {
	tree := &grammar.ProgramTree{
		ProgramID: "PAYROLL",
		Divisions: []grammar.DivisionNode{
			{
				Name: "DATA",
				Sections: []grammar.SectionNode{
					{
						Name: "WORKING-STORAGE",
						Entries: []grammar.DataEntryNode{
							{Level: 1, Text: "01 WS-EMP-REC.", Line: 10},
							{Level: 5, Text: "05 WS-EMP-ID PIC 9(6).", Line: 11},
							{Level: 99, Text: "99 BOGUS-LEVEL.", Line: 12},
						},
					},
				},
			},
		},
	}
	c := Collect(tree, nil)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "WS-EMP-REC", c.Items[0].Name)
	assert.Equal(t, "WS-EMP-ID", c.Items[1].Name)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0], "line 12")
}

func TestInferKind(t *testing.T) {
	cases := []struct {
		picture string
		want    Kind
	}{
		{"", KindGroup},
		{"9(4)", KindInteger},
		{"S9(7)V99", KindDecimal},
		{"9(5).99", KindDecimal},
		{"X(10)", KindString},
		{"A(20)", KindAlphabetic},
		{"X(3)9(2)", KindInteger},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InferKind(tc.picture), "picture %q", tc.picture)
	}
}
