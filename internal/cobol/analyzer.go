// File path: internal/cobol/analyzer.go
package cobol

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ykosuru/cobolscan/internal/cobol/data"
	"github.com/ykosuru/cobolscan/internal/cobol/grammar"
	"github.com/ykosuru/cobolscan/internal/cobol/proc"
	"github.com/ykosuru/cobolscan/internal/cobol/source"
	"github.com/ykosuru/cobolscan/internal/common"
	"github.com/ykosuru/cobolscan/internal/config"
)

var programIDRe = regexp.MustCompile(`(?i)PROGRAM-ID\.\s*([A-Z0-9-]+)`)

// Analyzer runs the structural extraction pipeline over one COBOL
// source unit. An Analyzer is stateless between runs; distinct files may
// be analyzed in parallel with distinct calls.
type Analyzer struct {
	cfg config.Config
}

func New(cfg config.Config) *Analyzer {
	cfg.Normalize()
	return &Analyzer{cfg: cfg}
}

// Analyze extracts the structural model from raw source. Malformed
// COBOL never fails the run: the result is best-effort and carries the
// accumulated warnings. Only a cancelled context or nonsensical input
// surfaces as an error.
func (a *Analyzer) Analyze(ctx context.Context, path string, raw []byte) (*Result, error) {
	logger := common.Logger()
	if ctx != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}
	if len(raw) == 0 {
		return nil, errors.New("empty source input")
	}

	var warnings []string
	rawLines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")

	lines := normalizeInput(rawLines, a.cfg)
	if len(lines) == 0 {
		warnings = append(warnings, "no code lines survived normalization")
	}

	var tree *grammar.ProgramTree
	if a.cfg.GrammarDetection {
		tree = grammar.Recognize(lines)
		for _, failure := range tree.Failures {
			warnings = append(warnings, "grammar: "+failure)
		}
		if a.cfg.Strict && len(tree.Divisions) == 0 {
			return nil, fmt.Errorf("strict mode: structural recognition failed for %s", path)
		}
	} else {
		tree = &grammar.ProgramTree{}
	}

	program := programName(tree, path, lines)

	collection := data.Collect(tree, lines)
	warnings = append(warnings, collection.Warnings...)

	forest := data.BuildForest(collection.Items)
	warnings = append(warnings, forest.Warnings...)

	// The three detectors read the same immutable normalized input and
	// share no state; they run concurrently and join before the
	// reconciler, which is inherently sequential.
	var grammarCands, patternCands, heuristicCands []proc.Candidate
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		grammarCands = proc.DetectGrammar(tree)
	}()
	go func() {
		defer wg.Done()
		if a.cfg.PatternDetection {
			patternCands = proc.DetectPattern(lines)
		}
	}()
	go func() {
		defer wg.Done()
		if a.cfg.HybridMode {
			heuristicCands = proc.DetectHeuristic(lines)
		}
	}()
	wg.Wait()

	if len(grammarCands) == 0 && a.cfg.GrammarDetection {
		warnings = append(warnings, "grammar detector yielded no candidates; relying on pattern and heuristic detectors")
	}

	reconciled := proc.Reconcile(grammarCands, patternCands, heuristicCands)
	performEdges := countPerformEdges(reconciled)

	scorer := proc.NewScorer(a.cfg.MinScore, a.cfg.Exclusions, program)
	scorer.NamingBonus = a.cfg.NamingBonus
	scorer.Weights = proc.Weights{
		If:       a.cfg.WeightIf,
		Perform:  a.cfg.WeightPerform,
		Evaluate: a.cfg.WeightEvaluate,
		GoTo:     a.cfg.WeightGoTo,
		Call:     a.cfg.WeightCall,
	}
	procedures, dropped := scorer.Apply(reconciled, performEdges)
	for _, d := range dropped {
		logger.Debug("analyzer: candidate dropped", "program", program, "name", d.Name)
	}

	result := &Result{
		Program:         program,
		SourcePath:      path,
		Data:            forest,
		DataItems:       collection.Items,
		Files:           collection.Files,
		Parameters:      collection.Parameters,
		Procedures:      procedures,
		PerformEdges:    performEdges,
		StatementCounts: countStatements(procedures),
		Warnings:        warnings,
	}

	// Data-preservation guard: reconciliation must not have consumed
	// the collected data items. Recovery rebuilds from the per-section
	// snapshots and is reported, never silent.
	result.enforceDataPreservation(collection)

	logger.Info("analyzer: run complete",
		"program", program,
		"data_items", len(result.DataItems),
		"procedures", len(result.Procedures),
		"warnings", len(result.Warnings))
	return result, nil
}

func normalizeInput(rawLines []string, cfg config.Config) []source.Line {
	if !cfg.Preprocess {
		out := make([]source.Line, 0, len(rawLines))
		for i, text := range rawLines {
			if strings.TrimSpace(text) == "" {
				continue
			}
			out = append(out, source.Line{Number: i + 1, Text: text, Kind: source.KindCode})
		}
		return out
	}
	format := source.FormatAuto
	switch cfg.Format {
	case "fixed":
		format = source.FormatFixed
	case "free":
		format = source.FormatFree
	}
	return source.NewNormalizer(format).Normalize(rawLines)
}

func programName(tree *grammar.ProgramTree, path string, lines []source.Line) string {
	if tree != nil && tree.ProgramID != "" {
		return tree.ProgramID
	}
	for _, line := range lines {
		if m := programIDRe.FindStringSubmatch(line.Text); m != nil {
			return strings.ToUpper(strings.TrimSuffix(m[1], "."))
		}
	}
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// countPerformEdges tallies inbound perform/go-to/call references per
// normalized target name across all reconciled statements.
func countPerformEdges(procs []proc.Procedure) map[string]int {
	edges := make(map[string]int)
	for _, p := range procs {
		for _, stmt := range p.Statements {
			if stmt.PerformTarget == "" {
				continue
			}
			target := strings.ToUpper(strings.Trim(stmt.PerformTarget, ".,;"))
			if target == "" {
				continue
			}
			edges[target]++
		}
	}
	return edges
}

func countStatements(procs []proc.Procedure) map[proc.StatementKind]int {
	counts := make(map[proc.StatementKind]int)
	for _, p := range procs {
		for _, stmt := range p.Statements {
			counts[stmt.Kind]++
		}
	}
	return counts
}
