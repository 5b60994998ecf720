package graph

// Statistics is a snapshot of graph size counters.
type Statistics struct {
	Vertices    int
	Edges       int
	TotalWeight Weight
}

// GetStatistics returns current graph statistics
func (g *Graph) GetStatistics() Statistics {
	return Statistics{
		Vertices:    g.Order(),
		Edges:       g.Size(),
		TotalWeight: g.TotalEdgeWeight(),
	}
}
