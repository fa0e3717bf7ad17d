// File path: internal/cobol/proc/score.go
package proc

import (
	"regexp"
	"sort"
	"strings"
)

// Weights are the scoring multipliers per statement kind. The values are
// tuned defaults, not derived constants; callers may override them.
type Weights struct {
	If       float64
	Perform  float64
	Evaluate float64
	GoTo     float64
	Call     float64
}

// DefaultWeights returns the observed-behavior defaults.
func DefaultWeights() Weights {
	return Weights{If: 2, Perform: 1, Evaluate: 2, GoTo: 1, Call: 2}
}

// DefaultNamingBonus is the flat bonus for business-logic-sounding names.
const DefaultNamingBonus = 10.0

// businessTerms earn the flat naming bonus on substring match.
var businessTerms = []string{
	"PROCESS", "VALIDATE", "CALCULATE", "TRANSFORM", "CONVERT", "INITIALIZE",
	"READ", "WRITE", "OPEN", "CLOSE", "FILE", "MAIN", "START", "BEGIN",
	"END", "FINISH", "COMPLETE",
}

// divisionKeywords are never procedure names, at any score.
var divisionKeywords = map[string]struct{}{
	"IDENTIFICATION": {}, "ENVIRONMENT": {}, "DATA": {}, "PROCEDURE": {},
	"FILE-CONTROL": {}, "WORKING-STORAGE": {}, "LINKAGE-SECTION": {},
	"FILE-SECTION": {}, "CONFIGURATION": {}, "INPUT-OUTPUT": {},
}

var variablePrefixRe = regexp.MustCompile(`^(WS|LS|FD|SD)-?[A-Z0-9-]+$`)

// Scorer computes confidence scores and filters false positives.
type Scorer struct {
	Weights     Weights
	NamingBonus float64
	MinScore    float64
	Exclusions  map[string]struct{}
	EntryPoint  string
}

// NewScorer builds a scorer with default weights, a minimum score and an
// extra exclusion set merged into the built-in division keywords.
func NewScorer(minScore float64, exclusions []string, entryPoint string) *Scorer {
	s := &Scorer{
		Weights:     DefaultWeights(),
		NamingBonus: DefaultNamingBonus,
		MinScore:    minScore,
		Exclusions:  make(map[string]struct{}, len(exclusions)),
		EntryPoint:  strings.ToUpper(entryPoint),
	}
	for _, name := range exclusions {
		s.Exclusions[strings.ToUpper(strings.TrimSpace(name))] = struct{}{}
	}
	return s
}

// Score computes the confidence score for one procedure.
func (s *Scorer) Score(p *Procedure) float64 {
	var ifs, performs, evaluates, gotos, calls float64
	dataRefs := make(map[string]struct{})
	for _, stmt := range p.Statements {
		switch stmt.Kind {
		case KindIf:
			ifs++
		case KindPerform:
			performs++
		case KindEvaluate:
			evaluates++
		case KindGoTo:
			gotos++
		case KindCall:
			calls++
		}
		for _, ref := range stmt.DataRefs {
			dataRefs[ref] = struct{}{}
		}
	}
	score := float64(len(p.Statements)) +
		s.Weights.If*ifs +
		s.Weights.Perform*performs +
		s.Weights.Evaluate*evaluates +
		s.Weights.GoTo*gotos +
		s.Weights.Call*calls +
		float64(len(dataRefs))
	if bonus := s.namingBonus(p.Name); bonus > 0 {
		score += bonus
		p.Reasoning = append(p.Reasoning, "business-logic naming bonus applied")
	}
	return score
}

func (s *Scorer) namingBonus(name string) float64 {
	upper := strings.ToUpper(name)
	for _, term := range businessTerms {
		if strings.Contains(upper, term) {
			return s.NamingBonus
		}
	}
	return 0
}

// FalsePositive reports whether the candidate must be rejected
// independent of its score.
func (s *Scorer) FalsePositive(p *Procedure, inbound map[string]int) (bool, string) {
	name := strings.ToUpper(p.Name)
	if _, ok := divisionKeywords[name]; ok {
		return true, "name is a division or section keyword"
	}
	if _, ok := s.Exclusions[name]; ok {
		return true, "name is explicitly excluded"
	}
	if len(name) > 15 && variablePrefixRe.MatchString(name) {
		return true, "name matches a variable naming convention"
	}
	if len(name) <= 2 && name != s.EntryPoint {
		return true, "name too short for a paragraph"
	}
	if len(p.Statements) == 0 && inbound[name] == 0 && s.namingBonus(name) == 0 {
		return true, "no statements, no inbound references, no naming signal"
	}
	return false, ""
}

// Apply scores every procedure, drops false positives and sub-threshold
// candidates and returns survivors ordered by start line. The secondary
// reporting order (descending score) is available via ByScore.
func (s *Scorer) Apply(procs []Procedure, inbound map[string]int) (kept []Procedure, dropped []Procedure) {
	for i := range procs {
		p := procs[i]
		if bad, reason := s.FalsePositive(&p, inbound); bad {
			p.Reasoning = append(p.Reasoning, "rejected: "+reason)
			dropped = append(dropped, p)
			continue
		}
		p.Score = s.Score(&p)
		if p.Score < s.MinScore {
			p.Reasoning = append(p.Reasoning, "rejected: below minimum score")
			dropped = append(dropped, p)
			continue
		}
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartLine < kept[j].StartLine
	})
	return kept, dropped
}

// ByScore returns a copy of the procedures ordered by descending score
// for reporting.
func ByScore(procs []Procedure) []Procedure {
	out := append([]Procedure(nil), procs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
