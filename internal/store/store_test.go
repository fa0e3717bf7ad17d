// File path: internal/store/store_test.go
package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykosuru/cobolscan/internal/cobol"
	"github.com/ykosuru/cobolscan/internal/cobol/data"
	"github.com/ykosuru/cobolscan/internal/cobol/proc"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *cobol.Result {
	return &cobol.Result{
		Program:    "PAYROLL",
		SourcePath: "payroll.cbl",
		DataItems: []data.Declaration{
			{Level: 1, Name: "WS-REC", Section: data.SectionWorkingStorage, Line: 10},
			{Level: 5, Name: "WS-ID", Section: data.SectionWorkingStorage, Picture: "9(6)", Kind: data.KindInteger, Line: 11},
		},
		Procedures: []proc.Procedure{
			{Name: "MAIN-LOGIC", StartLine: 20, EndLine: 25, Score: 14,
				Detectors: []proc.Detector{proc.DetectorGrammar, proc.DetectorHeuristic},
				Reasoning: []string{"recognized by grammar boundary detector"}},
			{Name: "CALC-PAY", StartLine: 26, EndLine: 30, Score: 8},
		},
		PerformEdges: map[string]int{"CALC-PAY": 2},
		Warnings:     []string{"grammar: data division not recognized"},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.SaveResult(ctx, sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "PAYROLL", runs[0].Program)
	assert.Equal(t, 2, runs[0].Procedures)
	assert.Equal(t, 2, runs[0].DataItems)
	assert.Equal(t, 1, runs[0].Warnings)

	detail, err := s.RunByID(ctx, runID)
	require.NoError(t, err)

	require.Len(t, detail.Procedures, 2)
	assert.Equal(t, "MAIN-LOGIC", detail.Procedures[0].Name)
	assert.Equal(t, "grammar,heuristic", detail.Procedures[0].Detectors)
	assert.Equal(t, 14.0, detail.Procedures[0].Score)

	require.Len(t, detail.DataItems, 2)
	assert.Equal(t, "WS-REC", detail.DataItems[0].Name)
	assert.Equal(t, "9(6)", detail.DataItems[1].Picture)

	require.Len(t, detail.Edges, 1)
	assert.Equal(t, "CALC-PAY", detail.Edges[0].Target)
	assert.Equal(t, 2, detail.Edges[0].Inbound)

	assert.Equal(t, []string{"grammar: data division not recognized"}, detail.Warnings)
}

func TestRunByIDNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.RunByID(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveNilResult(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveResult(context.Background(), nil)
	assert.Error(t, err)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
