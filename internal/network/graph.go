// Package network models the reaction graph: one node per reaction and an
// edge A->B whenever a product of A can be consumed by B.
package network

import "github.com/vanshika/rxnpath/internal/domain"

type edgeKey struct {
	from, to string
}

// Graph is a directed graph over reaction IDs kept as forward and reverse
// adjacency lists. Adjacency order is edge insertion order. A Graph is not
// safe for concurrent mutation but may be read from many goroutines once
// built.
type Graph struct {
	nodes []string
	index map[string]struct{}
	succ  map[string][]string
	pred  map[string][]string
	via   map[edgeKey][]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]struct{}),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
		via:   make(map[edgeKey][]string),
	}
}

// AddNode adds id if it is not already present.
func (g *Graph) AddNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = struct{}{}
	g.nodes = append(g.nodes, id)
}

// AddEdge adds from->to, creating missing nodes, and records compound as one
// of the IDs carried along the edge. It reports whether the edge is new.
func (g *Graph) AddEdge(from, to, compound string) bool {
	g.AddNode(from)
	g.AddNode(to)

	key := edgeKey{from: from, to: to}
	via, exists := g.via[key]
	if compound != "" && !contains(via, compound) {
		via = append(via, compound)
	}
	g.via[key] = via
	if exists {
		return false
	}
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
	return true
}

// HasNode reports whether id is a node.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// HasEdge reports whether from->to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.via[edgeKey{from: from, to: to}]
	return ok
}

// Via returns the compounds handed along from->to, nil if there is no edge.
func (g *Graph) Via(from, to string) []string {
	return append([]string(nil), g.via[edgeKey{from: from, to: to}]...)
}

// Successors returns the reactions reachable in one step from id.
func (g *Graph) Successors(id string) []string {
	return g.succ[id]
}

// Predecessors returns the reactions that reach id in one step.
func (g *Graph) Predecessors(id string) []string {
	return g.pred[id]
}

// Nodes returns node IDs in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.via)
}

// Edges lists every edge, grouped by source node in node order and then in
// insertion order.
func (g *Graph) Edges() []domain.NetworkEdge {
	edges := make([]domain.NetworkEdge, 0, len(g.via))
	for _, from := range g.nodes {
		for _, to := range g.succ[from] {
			edges = append(edges, domain.NetworkEdge{
				Source: from,
				Target: to,
				Via:    append([]string(nil), g.via[edgeKey{from: from, to: to}]...),
			})
		}
	}
	return edges
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
