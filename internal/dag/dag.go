// Package dag renders edge lists as directed-graph descriptions for
// documentation.
package dag

import (
	"fmt"
	"strings"
)

// Edge is one directed (source, target) pair.
type Edge struct {
	From string
	To   string
}

// Graph is a directed-graph description: one node per distinct name appearing
// anywhere in the edge list, plus the original edge sequence. Node names are
// not validated and duplicate edges are preserved, so the description can be
// handed to a renderer exactly as authored.
type Graph struct {
	Nodes []string // distinct names in first-appearance order
	Edges []Edge   // input order, duplicates kept
}

// Build constructs a graph description from an edge list.
func Build(edges []Edge) *Graph {
	g := &Graph{Edges: append([]Edge(nil), edges...)}
	seen := make(map[string]bool, 2*len(edges))
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			g.Nodes = append(g.Nodes, name)
		}
	}
	for _, e := range edges {
		add(e.From)
		add(e.To)
	}
	return g
}

// DOT renders the graph in Graphviz DOT format. Names are quoted so arbitrary
// strings survive; gonum's graph encoders are not used here because they
// reject the duplicate edges and self-loops this description must preserve.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "\t%s;\n", quote(n))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "\t%s -> %s;\n", quote(e.From), quote(e.To))
	}
	b.WriteString("}\n")
	return b.String()
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}
