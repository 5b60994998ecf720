package graph

// Symmetrize adds a reverse edge (v, u, w) for every edge (u, v, w)
// that has no counterpart yet, turning the graph into a symmetric
// (undirected-equivalent) one. Self-loops are left alone.
func (g *Graph) Symmetrize() {
	span := g.Span()
	seen := make(map[[2]Key]bool, g.edges)
	for u := Key(0); u < span; u++ {
		for _, e := range g.adj[u] {
			seen[[2]Key{u, e.To}] = true
		}
	}
	// Snapshot the edge lists first; AddEdge appends while we walk.
	type rev struct {
		u, v Key
		w    Weight
	}
	var missing []rev
	for u := Key(0); u < span; u++ {
		for _, e := range g.adj[u] {
			if e.To == u {
				continue
			}
			if !seen[[2]Key{e.To, u}] {
				seen[[2]Key{e.To, u}] = true
				missing = append(missing, rev{e.To, u, e.Weight})
			}
		}
	}
	for _, r := range missing {
		g.AddEdge(r.u, r.v, r.w)
	}
}

// AddSelfLoops adds a self-loop of weight w to every vertex accepted by
// the filter that does not already carry one. A nil filter accepts all
// vertices.
func (g *Graph) AddSelfLoops(w Weight, filter func(u Key) bool) {
	span := g.Span()
	for u := Key(0); u < span; u++ {
		if filter != nil && !filter(u) {
			continue
		}
		if !g.HasEdge(u, u) {
			g.AddEdge(u, u, w)
		}
	}
}
