package network

import "github.com/vanshika/rxnpath/internal/domain"

// Find returns shortest walks between source and target.
//
//   - concrete -> concrete: the single shortest walk, or nothing.
//   - concrete -> wildcard: a shortest walk to every node reachable from
//     source, including the one-step walk [source].
//   - wildcard -> concrete: a shortest walk from every node that reaches
//     target, including [target].
//   - wildcard -> wildcard: nothing.
//
// Walks are returned in breadth-first discovery order. Unknown nodes and
// unreachable pairs yield an empty result, never an error.
func Find(g *Graph, source, target domain.Endpoint) []domain.Pathway {
	from, fromOK := source.ID()
	to, toOK := target.ID()

	switch {
	case fromOK && toOK:
		if p, ok := g.ShortestPath(from, to); ok {
			return []domain.Pathway{p}
		}
		return nil
	case fromOK:
		return g.pathsFrom(from)
	case toOK:
		return g.pathsTo(to)
	default:
		return nil
	}
}

// ShortestPath returns a shortest walk from -> to.
func (g *Graph) ShortestPath(from, to string) (domain.Pathway, bool) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return nil, false
	}
	if from == to {
		return domain.Pathway{from}, true
	}

	parent := map[string]string{from: from}
	queue := []string{from}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.succ[node] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = node
			if next == to {
				return unwind(parent, from, to), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func (g *Graph) pathsFrom(from string) []domain.Pathway {
	if !g.HasNode(from) {
		return nil
	}
	order, parent := bfs(from, g.succ)
	paths := make([]domain.Pathway, 0, len(order))
	for _, node := range order {
		paths = append(paths, unwind(parent, from, node))
	}
	return paths
}

func (g *Graph) pathsTo(to string) []domain.Pathway {
	if !g.HasNode(to) {
		return nil
	}
	order, next := bfs(to, g.pred)
	paths := make([]domain.Pathway, 0, len(order))
	for _, node := range order {
		p := domain.Pathway{node}
		for cur := node; cur != to; {
			cur = next[cur]
			p = append(p, cur)
		}
		paths = append(paths, p)
	}
	return paths
}

// bfs walks adj from start and returns nodes in discovery order along with
// the node each was discovered from. start maps to itself.
func bfs(start string, adj map[string][]string) ([]string, map[string]string) {
	parent := map[string]string{start: start}
	order := []string{start}
	for i := 0; i < len(order); i++ {
		for _, next := range adj[order[i]] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = order[i]
			order = append(order, next)
		}
	}
	return order, parent
}

// unwind rebuilds the walk from -> to out of a forward parent map.
func unwind(parent map[string]string, from, to string) domain.Pathway {
	var reversed []string
	for cur := to; ; cur = parent[cur] {
		reversed = append(reversed, cur)
		if cur == from {
			break
		}
	}
	p := make(domain.Pathway, len(reversed))
	for i, id := range reversed {
		p[len(reversed)-1-i] = id
	}
	return p
}
