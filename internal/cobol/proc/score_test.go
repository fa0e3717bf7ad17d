// File path: internal/cobol/proc/score_test.go
package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreWeightsAndDataRefs(t *testing.T) {
	s := NewScorer(0, nil, "SAMPLE")
	p := &Procedure{
		Name: "COMPUTE-TAX",
		Statements: []Statement{
			{Kind: KindIf, DataRefs: []string{"WS-RATE"}},
			{Kind: KindPerform},
			{Kind: KindEvaluate},
			{Kind: KindGoTo},
			{Kind: KindCall},
			{Kind: KindMove, DataRefs: []string{"WS-RATE", "WS-TAX"}},
		},
	}
	// 6 statements + 2 + 1 + 2 + 1 + 2 weights + 2 distinct data refs.
	assert.Equal(t, 16.0, s.Score(p))
}

func TestScoreNamingBonus(t *testing.T) {
	s := NewScorer(0, nil, "SAMPLE")
	plain := &Procedure{Name: "X9-PARA", Statements: []Statement{{Kind: KindMove}}}
	named := &Procedure{Name: "VALIDATE-INPUT", Statements: []Statement{{Kind: KindMove}}}

	assert.Equal(t, 1.0, s.Score(plain))
	assert.Equal(t, 11.0, s.Score(named))
	assert.Contains(t, named.Reasoning, "business-logic naming bonus applied")
}

func TestFalsePositiveRules(t *testing.T) {
	s := NewScorer(0, []string{"skip-me"}, "DRIVER")
	inbound := map[string]int{"VALIDATE-INPUT": 3}

	cases := []struct {
		name string
		proc Procedure
		bad  bool
	}{
		{"division keyword", Procedure{Name: "WORKING-STORAGE"}, true},
		{"section keyword", Procedure{Name: "FILE-CONTROL"}, true},
		{"explicit exclusion", Procedure{Name: "SKIP-ME", Statements: []Statement{{Kind: KindMove}}}, true},
		{"long variable-style name", Procedure{Name: "WS-CUSTOMER-RECORD-AREA"}, true},
		{"short non-entry name", Procedure{Name: "X"}, true},
		{"short entry point survives", Procedure{Name: "DRIVER", Statements: []Statement{{Kind: KindMove}}}, false},
		{"empty but referenced", Procedure{Name: "VALIDATE-INPUT"}, false},
		{"empty and unreferenced", Procedure{Name: "QQ-PARA-WITH-NO-SIGNAL"}, true},
	}
	for _, tc := range cases {
		p := tc.proc
		bad, reason := s.FalsePositive(&p, inbound)
		assert.Equal(t, tc.bad, bad, "%s (%s)", tc.name, reason)
	}
}

func TestFalsePositiveShortEntryPointExemption(t *testing.T) {
	s := NewScorer(0, nil, "m8")
	inbound := map[string]int{}

	// A one- or two-character name survives only as the entry point.
	entry := Procedure{Name: "M8", Statements: []Statement{{Kind: KindMove}}}
	bad, reason := s.FalsePositive(&entry, inbound)
	assert.False(t, bad, reason)

	other := Procedure{Name: "Q1", Statements: []Statement{{Kind: KindMove}}}
	bad, reason = s.FalsePositive(&other, inbound)
	assert.True(t, bad)
	assert.Contains(t, reason, "too short")
}

func TestApplyFiltersAndOrders(t *testing.T) {
	s := NewScorer(5, nil, "SAMPLE")
	inbound := map[string]int{"VALIDATE-INPUT": 3}
	procs := []Procedure{
		{Name: "ZZ-LATE-PARA", StartLine: 50, Statements: []Statement{
			{Kind: KindIf}, {Kind: KindPerform}, {Kind: KindCall},
		}},
		{Name: "X", StartLine: 5},
		{Name: "VALIDATE-INPUT", StartLine: 10},
		{Name: "QQ-TINY-PARA", StartLine: 30, Statements: []Statement{{Kind: KindMove}}},
	}

	kept, dropped := s.Apply(procs, inbound)
	require.Len(t, kept, 2)
	assert.Equal(t, "VALIDATE-INPUT", kept[0].Name)
	assert.Equal(t, "ZZ-LATE-PARA", kept[1].Name)

	require.Len(t, dropped, 2)
	reasons := map[string]string{}
	for _, d := range dropped {
		reasons[d.Name] = d.Reasoning[len(d.Reasoning)-1]
	}
	assert.Contains(t, reasons["X"], "too short")
	assert.Contains(t, reasons["QQ-TINY-PARA"], "below minimum score")

	// Naming bonus puts the empty but referenced paragraph on top.
	byScore := ByScore(kept)
	assert.Equal(t, "VALIDATE-INPUT", byScore[0].Name)
}
