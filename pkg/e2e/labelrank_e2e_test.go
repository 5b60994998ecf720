package e2e

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-labelrank/pkg/graph"
	"github.com/dd0wney/cluso-labelrank/pkg/labelrank"
	"github.com/dd0wney/cluso-labelrank/pkg/metrics"
	"github.com/dd0wney/cluso-labelrank/pkg/mtx"
)

// buildGraph wires undirected edges, then symmetrizes and adds
// self-loops the way the CLI prepares its input.
func buildGraph(span graph.Key, edges [][2]graph.Key) *graph.Graph {
	g := graph.New(span)
	for _, e := range edges {
		g.AddEdge(e[0], e[1], 1)
	}
	g.Symmetrize()
	g.AddSelfLoops(1, nil)
	return g
}

func communitiesOf(membership []graph.Key, vertices ...graph.Key) map[graph.Key]bool {
	set := make(map[graph.Key]bool)
	for _, u := range vertices {
		set[membership[u]] = true
	}
	return set
}

// TestScenarioTwoTriangles runs S1: two disjoint triangles split into
// exactly two communities with high modularity
func TestScenarioTwoTriangles(t *testing.T) {
	g := buildGraph(6, [][2]graph.Key{{0, 1}, {0, 2}, {1, 2}, {3, 4}, {3, 5}, {4, 5}})

	result, err := labelrank.Run(g, labelrank.DefaultOptions())
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Iterations, 5, "should converge quickly")
	require.Equal(t, 2, result.NumCommunities())

	first := communitiesOf(result.Membership, 0, 1, 2)
	second := communitiesOf(result.Membership, 3, 4, 5)
	assert.Len(t, first, 1, "first triangle must share one label")
	assert.Len(t, second, 1, "second triangle must share one label")

	m := g.TotalEdgeWeight() / 2
	q := labelrank.Modularity(g, result.CommunityOf, m, 1)
	assert.Greater(t, q, 0.4)
}

// TestScenarioSingleClique runs S2: one K4 community has modularity 0
func TestScenarioSingleClique(t *testing.T) {
	g := buildGraph(4, [][2]graph.Key{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})

	result, err := labelrank.Run(g, labelrank.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 1, result.NumCommunities(), "a clique is one community")

	m := g.TotalEdgeWeight() / 2
	q := labelrank.Modularity(g, result.CommunityOf, m, 1)
	assert.InDelta(t, 0.0, q, 1e-12)
}

// TestScenarioBridge runs S3: two triangles joined by one edge
func TestScenarioBridge(t *testing.T) {
	g := buildGraph(6, [][2]graph.Key{{0, 1}, {0, 2}, {1, 2}, {3, 4}, {3, 5}, {4, 5}, {2, 3}})

	result, err := labelrank.Run(g, labelrank.DefaultOptions())
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Iterations, 10)
	assert.Equal(t, 2, result.NumCommunities())
	assert.Len(t, communitiesOf(result.Membership, 0, 1, 2), 1)
	assert.Len(t, communitiesOf(result.Membership, 3, 4, 5), 1)
}

// TestScenarioPath runs S4: a path of five vertices terminates with a
// sane community count
func TestScenarioPath(t *testing.T) {
	g := buildGraph(5, [][2]graph.Key{{0, 1}, {1, 2}, {2, 3}, {3, 4}})

	result, err := labelrank.Run(g, labelrank.DefaultOptions())
	require.NoError(t, err)

	n := result.NumCommunities()
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 5)
	assert.LessOrEqual(t, result.Iterations, labelrank.DefaultOptions().MaxIterations)
}

// TestScenarioStall runs S5: the bridge graph plateaus at two updating
// vertices, and the stall guard must end the run at that iteration
func TestScenarioStall(t *testing.T) {
	g := buildGraph(6, [][2]graph.Key{{0, 1}, {0, 2}, {1, 2}, {3, 4}, {3, 5}, {4, 5}, {2, 3}})

	result, err := labelrank.Run(g, labelrank.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Iterations, "stall guard should stop the oscillation")
}

// TestScenarioResolution runs S6: R=0.5 scores the single-community
// clique higher than R=1
func TestScenarioResolution(t *testing.T) {
	g := buildGraph(4, [][2]graph.Key{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})
	m := g.TotalEdgeWeight() / 2
	fc := func(graph.Key) graph.Key { return 0 }

	q1 := labelrank.Modularity(g, fc, m, 1.0)
	qHalf := labelrank.Modularity(g, fc, m, 0.5)

	assert.NotEqual(t, q1, qHalf)
	assert.Greater(t, qHalf, q1)
}

// TestEndToEndFromMTX exercises the full pipeline: parse, preprocess,
// run, score and instrument
func TestEndToEndFromMTX(t *testing.T) {
	data := `%%MatrixMarket matrix coordinate pattern symmetric
6 6 7
2 1
3 1
3 2
5 4
6 4
6 5
4 3
`
	g, err := mtx.Read(strings.NewReader(data))
	require.NoError(t, err)

	g.Symmetrize()
	g.AddSelfLoops(1, nil)

	reg := metrics.NewRegistry()
	opts := labelrank.DefaultOptions()
	opts.Metrics = reg
	opts.Repeat = 2

	result, err := labelrank.Run(g, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NumCommunities())

	families, err := reg.Gather()
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, mf := range families {
		seen[mf.GetName()] = true
	}
	assert.True(t, seen["labelrank_runs_total"], "run metrics recorded")
	assert.True(t, seen["labelrank_sweep_duration_seconds"], "sweep metrics recorded")

	communities := result.Communities()
	require.Len(t, communities, 2)
	assert.Equal(t, 6, communities[0].Size+communities[1].Size)
}
