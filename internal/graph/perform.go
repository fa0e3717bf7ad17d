// File path: internal/graph/perform.go
package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/ykosuru/cobolscan/internal/cobol/proc"
)

// ProcNode is one vertex of the perform graph.
type ProcNode struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	External  bool   `json:"external"`
}

// PerformGraph is the call-reference artifact derived from the final
// procedure list: an edge A->B exists when a statement of A performs,
// goes to or calls B. Targets with no matching procedure stay in the
// graph as external vertices.
type PerformGraph struct {
	g     graph.Graph[string, *ProcNode]
	nodes map[string]*ProcNode
}

// Build constructs the perform graph from retained procedures.
func Build(procs []proc.Procedure) *PerformGraph {
	pg := &PerformGraph{
		g:     graph.New(func(n *ProcNode) string { return n.Name }, graph.Directed()),
		nodes: make(map[string]*ProcNode),
	}
	for i := range procs {
		node := &ProcNode{Name: strings.ToUpper(procs[i].Name), StartLine: procs[i].StartLine}
		pg.nodes[node.Name] = node
		_ = pg.g.AddVertex(node)
	}
	for i := range procs {
		from := strings.ToUpper(procs[i].Name)
		for _, stmt := range procs[i].Statements {
			if stmt.PerformTarget == "" {
				continue
			}
			to := strings.ToUpper(stmt.PerformTarget)
			if _, ok := pg.nodes[to]; !ok {
				node := &ProcNode{Name: to, External: true}
				pg.nodes[to] = node
				_ = pg.g.AddVertex(node)
			}
			// Parallel references collapse into one edge.
			_ = pg.g.AddEdge(from, to)
		}
	}
	return pg
}

// Stats summarizes fan-in and fan-out per procedure.
type Stats struct {
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	FanIn      map[string]int `json:"fan_in"`
	FanOut     map[string]int `json:"fan_out"`
	Unresolved []string       `json:"unresolved,omitempty"`
}

// Stats computes degree statistics and the unresolved-target list.
func (pg *PerformGraph) Stats() (*Stats, error) {
	adjacency, err := pg.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("adjacency map: %w", err)
	}
	stats := &Stats{FanIn: make(map[string]int), FanOut: make(map[string]int)}
	stats.Nodes = len(adjacency)
	for from, targets := range adjacency {
		stats.FanOut[from] = len(targets)
		stats.Edges += len(targets)
		for to := range targets {
			stats.FanIn[to]++
		}
	}
	for name, node := range pg.nodes {
		if node.External {
			stats.Unresolved = append(stats.Unresolved, name)
		}
	}
	sort.Strings(stats.Unresolved)
	return stats, nil
}

// WriteDOT renders the graph in Graphviz DOT format for downstream
// visualization.
func (pg *PerformGraph) WriteDOT(w io.Writer) error {
	return draw.DOT(pg.g, w)
}
