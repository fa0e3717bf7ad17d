// File path: internal/cobol/proc/reconcile.go
package proc

import (
	"sort"
	"strings"
)

// Reconcile merges same-named candidates from the three detectors into
// one procedure set. The registry is seeded by the grammar detector;
// pattern candidates fill names the grammar missed; heuristic candidates
// either replace an existing entry's statement list (the heuristic list
// carries per-statement data and file attribution, so it is treated as
// richer) or register as new procedures. Statement-list replacement is
// the one sanctioned mutation of upstream data in the whole pipeline.
func Reconcile(grammarCands, patternCands, heuristicCands []Candidate) []Procedure {
	registry := make(map[string]*Procedure)
	order := make([]string, 0, len(grammarCands)+len(patternCands)+len(heuristicCands))

	register := func(c Candidate) *Procedure {
		key := strings.ToUpper(c.Name)
		p := &Procedure{
			Name:       key,
			StartLine:  c.StartLine,
			EndLine:    c.EndLine,
			Statements: c.Statements,
			Reasoning:  append([]string(nil), c.Reasoning...),
			Detectors:  []Detector{c.Detector},
		}
		registry[key] = p
		order = append(order, key)
		return p
	}

	for _, c := range grammarCands {
		key := strings.ToUpper(c.Name)
		if existing, ok := registry[key]; ok {
			existing.Detectors = append(existing.Detectors, c.Detector)
			continue
		}
		register(c)
	}
	for _, c := range patternCands {
		key := strings.ToUpper(c.Name)
		if existing, ok := registry[key]; ok {
			existing.Detectors = append(existing.Detectors, c.Detector)
			existing.Reasoning = append(existing.Reasoning, "confirmed by pattern boundary detector")
			continue
		}
		register(c)
	}
	for _, c := range heuristicCands {
		key := strings.ToUpper(c.Name)
		existing, ok := registry[key]
		if !ok {
			register(c)
			continue
		}
		if len(c.Statements) >= len(existing.Statements) {
			existing.Statements = c.Statements
		}
		if existing.EndLine == 0 && c.EndLine != 0 {
			existing.EndLine = c.EndLine
		}
		existing.Detectors = append(existing.Detectors, c.Detector)
		existing.Reasoning = append(existing.Reasoning, "enhanced by heuristic extractor")
	}

	out := make([]Procedure, 0, len(order))
	for _, key := range order {
		out = append(out, *registry[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartLine < out[j].StartLine
	})
	return out
}
