package labelrank

import (
	"github.com/dd0wney/cluso-labelrank/pkg/graph"
)

// Modularity computes the modularity Q of the partition given by the
// membership function fc. M is half the total undirected edge weight
// (callers pass g.TotalEdgeWeight()/2) and R is the resolution
// parameter in (0, 1]. The result lies in [-0.5, 1].
func Modularity(g *graph.Graph, fc func(u graph.Key) graph.Key, m, r float64) float64 {
	span := g.Span()
	cin := make([]graph.Weight, span)
	ctot := make([]graph.Weight, span)
	g.ForEachVertexKey(func(u graph.Key) {
		c := fc(u)
		g.ForEachEdge(u, func(v graph.Key, w graph.Weight) {
			if fc(v) == c {
				cin[c] += w
			}
			ctot[c] += w
		})
	})
	q := 0.0
	for i := range cin {
		q += communityModularity(cin[i], ctot[i], m, r)
	}
	return q
}

// ModularityIdentity computes the modularity where every vertex is its
// own community.
func ModularityIdentity(g *graph.Graph, m, r float64) float64 {
	return Modularity(g, func(u graph.Key) graph.Key { return u }, m, r)
}

// communityModularity is the contribution of one community: the
// fraction of intra-community weight minus the null-model expectation.
func communityModularity(cin, ctot graph.Weight, m, r float64) float64 {
	d := ctot / (2 * m)
	return cin/(2*m) - r*d*d
}

// DeltaModularity computes the change in modularity when moving a
// vertex from community D to community C. The arguments are the total
// weight from the vertex to C, from the vertex to D, the vertex total,
// the totals of C and D, then M and R as in Modularity.
//
// LabelRank itself never moves vertices between communities; this is
// for callers composing other community heuristics on top.
func DeltaModularity(vcout, vdout, vtot, ctot, dtot, m, r float64) float64 {
	return (vcout-vdout)/m - r*vtot*(vtot+ctot-dtot)/(2*m*m)
}
