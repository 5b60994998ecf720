package labelrank

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-labelrank/pkg/graph"
)

// k4 builds a clique of four with self-loops, all weights 1.
func k4() *graph.Graph {
	g := graph.New(4)
	addClique(g, 0, 1, 2, 3)
	g.AddSelfLoops(1, nil)
	return g
}

// TestModularitySingleCommunity tests S2: a clique in one community has
// modularity exactly 0 at R=1
func TestModularitySingleCommunity(t *testing.T) {
	g := k4()
	m := g.TotalEdgeWeight() / 2

	q := Modularity(g, func(u graph.Key) graph.Key { return 0 }, m, 1)
	if math.Abs(q) > 1e-12 {
		t.Errorf("Expected modularity 0 for a single community, got %f", q)
	}
}

// TestModularityResolution tests S6: lowering R raises the modularity
// of the single-community clique
func TestModularityResolution(t *testing.T) {
	g := k4()
	m := g.TotalEdgeWeight() / 2
	fc := func(u graph.Key) graph.Key { return 0 }

	q1 := Modularity(g, fc, m, 1.0)
	qHalf := Modularity(g, fc, m, 0.5)

	if qHalf <= q1 {
		t.Errorf("Expected Q(R=0.5) > Q(R=1), got %f <= %f", qHalf, q1)
	}
}

// TestModularityIdentityOverload tests that the identity overload equals
// the general form with fc(u)=u
func TestModularityIdentityOverload(t *testing.T) {
	g := bridgedTriangles()
	m := g.TotalEdgeWeight() / 2

	general := Modularity(g, func(u graph.Key) graph.Key { return u }, m, 1)
	overload := ModularityIdentity(g, m, 1)

	if math.Abs(general-overload) > 1e-12 {
		t.Errorf("Identity overload disagrees: %f vs %f", general, overload)
	}
}

// TestModularityBounds tests that Q stays in [-0.5, 1] for assorted
// partitions
func TestModularityBounds(t *testing.T) {
	graphs := []*graph.Graph{twoTriangles(), bridgedTriangles(), k4()}
	for _, g := range graphs {
		m := g.TotalEdgeWeight() / 2
		partitions := []func(graph.Key) graph.Key{
			func(u graph.Key) graph.Key { return u },
			func(u graph.Key) graph.Key { return 0 },
			func(u graph.Key) graph.Key { return u % 2 },
		}
		for i, fc := range partitions {
			q := Modularity(g, fc, m, 1)
			if q < -0.5-1e-12 || q > 1+1e-12 {
				t.Errorf("Partition %d: modularity %f out of [-0.5, 1]", i, q)
			}
		}
	}
}

// TestModularityRenamingInvariance tests that relabeling communities
// leaves Q unchanged
func TestModularityRenamingInvariance(t *testing.T) {
	g := bridgedTriangles()
	m := g.TotalEdgeWeight() / 2

	membership := []graph.Key{0, 0, 0, 4, 4, 4}
	renamed := []graph.Key{5, 5, 5, 1, 1, 1}

	q1 := Modularity(g, func(u graph.Key) graph.Key { return membership[u] }, m, 1)
	q2 := Modularity(g, func(u graph.Key) graph.Key { return renamed[u] }, m, 1)

	if math.Abs(q1-q2) > 1e-12 {
		t.Errorf("Renaming changed modularity: %f vs %f", q1, q2)
	}
}

// TestModularityTwoTriangles tests the expected value for the S1 graph:
// two triangles with self-loops give Q = 0.5
func TestModularityTwoTriangles(t *testing.T) {
	g := twoTriangles()
	m := g.TotalEdgeWeight() / 2
	fc := func(u graph.Key) graph.Key {
		if u < 3 {
			return 0
		}
		return 1
	}

	q := Modularity(g, fc, m, 1)
	if math.Abs(q-0.5) > 1e-12 {
		t.Errorf("Expected modularity 0.5, got %f", q)
	}
}

// TestDeltaModularity tests the delta formula against a direct
// before/after computation
func TestDeltaModularity(t *testing.T) {
	g := bridgedTriangles()
	m := g.TotalEdgeWeight() / 2

	// Move vertex 2 from community D={2} to C={0,1}.
	before := []graph.Key{0, 0, 2, 3, 3, 3}
	after := []graph.Key{0, 0, 0, 3, 3, 3}

	qBefore := Modularity(g, func(u graph.Key) graph.Key { return before[u] }, m, 1)
	qAfter := Modularity(g, func(u graph.Key) graph.Key { return after[u] }, m, 1)

	// Totals for the delta arguments, computed from the graph.
	var vcout, vdout, vtot, ctot, dtot graph.Weight
	g.ForEachEdge(2, func(v graph.Key, w graph.Weight) {
		vtot += w
		if v != 2 && before[v] == 0 {
			vcout += w
		}
	})
	vdout = 0 // vertex 2 is alone in D, only its self-loop stays
	// ctot excludes the moving vertex, dtot includes it.
	g.ForEachVertexKey(func(u graph.Key) {
		g.ForEachEdge(u, func(v graph.Key, w graph.Weight) {
			if before[u] == 0 {
				ctot += w
			}
			if before[u] == 2 {
				dtot += w
			}
		})
	})

	delta := DeltaModularity(vcout, vdout, vtot, ctot, dtot, m, 1)
	got := qAfter - qBefore
	if math.Abs(delta-got) > 1e-9 {
		t.Errorf("Delta modularity %f does not match direct difference %f", delta, got)
	}
}
