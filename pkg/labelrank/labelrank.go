package labelrank

import (
	"time"

	"github.com/dd0wney/cluso-labelrank/pkg/graph"
	"github.com/dd0wney/cluso-labelrank/pkg/parallel"
)

// vertexLabelset is the labelset instantiation used by the engine.
type vertexLabelset = Labelset[graph.Key, graph.Weight]

type vertexAccumulator = accumulator[graph.Key, graph.Weight]

// Run executes LabelRank on the graph and returns the detected
// community membership. The graph is read-only during the call; callers
// wanting undirected semantics symmetrize and add self-loops first (see
// graph.Symmetrize and graph.AddSelfLoops).
//
// When Options.Repeat is above 1 the whole computation reruns that many
// times and the reported duration is the mean; membership and iteration
// count come from the last run and are identical across runs.
func Run(g *graph.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if g.Span() == 0 {
		return &Result{Membership: []graph.Key{}}, nil
	}

	var membership []graph.Key
	var iterations int
	var total time.Duration
	for r := 0; r < opts.Repeat; r++ {
		start := time.Now()
		membership, iterations = run(g, opts, nil)
		total += time.Since(start)
	}
	res := &Result{
		Membership: membership,
		Iterations: iterations,
		Duration:   total / time.Duration(opts.Repeat),
	}
	if opts.Metrics != nil {
		opts.Metrics.RecordRun(res.Iterations, res.NumCommunities(), res.Duration)
	}
	return res, nil
}

// run performs one full LabelRank computation. A nil order means the
// natural ascending vertex order; tests pass explicit orders to check
// order independence.
func run(g *graph.Graph, opts Options, order []graph.Key) ([]graph.Key, int) {
	span := g.Span()
	if order == nil {
		order = make([]graph.Key, span)
		g.ForEachVertexKey(func(u graph.Key) { order[u] = u })
	}

	var pool *parallel.Pool
	workers := opts.Workers
	if workers > 1 {
		pool = parallel.NewPool(workers)
		defer pool.Close()
	} else {
		workers = 1
	}
	accs := make([]*vertexAccumulator, workers)
	for i := range accs {
		accs[i] = newAccumulator[graph.Key, graph.Weight](span)
	}
	counts := make([]int, workers)

	// sweep applies fn to every vertex in order, chunked across the
	// pool when parallel. fn must only write vertex-owned state.
	sweep := func(fn func(acc *vertexAccumulator, count *int, u graph.Key)) {
		if pool == nil {
			for _, u := range order {
				fn(accs[0], &counts[0], u)
			}
			return
		}
		pool.ForEachChunk(len(order), func(chunk, start, end int) {
			for i := start; i < end; i++ {
				fn(accs[chunk], &counts[chunk], order[i])
			}
		})
	}

	// Double-buffered labelsets: ls holds the previous iteration, ms
	// receives the current one. Updates read only ls, which keeps the
	// iteration Jacobi and makes the sweep embarrassingly parallel.
	ls := make([]vertexLabelset, span)
	ms := make([]vertexLabelset, span)

	sweep(func(acc *vertexAccumulator, _ *int, u graph.Key) {
		initializeVertex(acc, g, u, opts.Inflation, opts.Cutoff, &ls[u])
	})

	i := 0
	updatedPrev := -1
	for {
		for c := range counts {
			counts[c] = 0
		}
		sweepStart := time.Now()
		sweep(func(acc *vertexAccumulator, count *int, u graph.Key) {
			if isVertexStable(ls, g, u, opts.ConditionalUpdate) {
				ms[u].CopyFrom(&ls[u])
				return
			}
			updateVertex(acc, g, ls, u, opts.Inflation, opts.Cutoff, &ms[u])
			*count++
		})
		updated := 0
		for _, c := range counts {
			updated += c
		}
		i++
		ls, ms = ms, ls
		if opts.Metrics != nil {
			opts.Metrics.RecordSweep(updated, time.Since(sweepStart))
		}
		if updated == 0 {
			break
		}
		// Stall guard: a repeated update count usually means the
		// labelsets are oscillating rather than converging.
		if !opts.DisableStallCheck && updated == updatedPrev {
			break
		}
		if i >= opts.MaxIterations {
			break
		}
		updatedPrev = updated
	}

	membership := make([]graph.Key, span)
	g.ForEachVertexKey(func(u graph.Key) {
		membership[u], _ = ls[u].Best()
	})
	return membership, i
}

// initializeVertex builds u's labelset from its weighted out-edges: the
// neighbor weights, normalized, inflated and cut off.
func initializeVertex(acc *vertexAccumulator, g *graph.Graph, u graph.Key, e, th graph.Weight, dst *vertexLabelset) {
	var sumw graph.Weight
	g.ForEachEdge(u, func(v graph.Key, w graph.Weight) {
		acc.add(v, w)
		sumw += w
	})
	if sumw == 0 {
		// No out-weight to normalize by; the vertex keeps itself as
		// the only candidate instead of dividing by zero.
		acc.clear()
		dst.Clear()
		dst.Add(u, 1)
		return
	}
	acc.finalize(1/sumw, e, th)
	acc.materialize(dst)
}

// updateVertex recomputes u's labelset as the weighted combination of
// its neighbors' previous labelsets, finalized. It reads ls only and
// writes ms[u] only.
func updateVertex(acc *vertexAccumulator, g *graph.Graph, ls []vertexLabelset, u graph.Key, e, th graph.Weight, dst *vertexLabelset) {
	var sumw graph.Weight
	g.ForEachEdge(u, func(v graph.Key, w graph.Weight) {
		acc.combine(&ls[v], w)
		sumw += w
	})
	if sumw == 0 {
		acc.clear()
		dst.Clear()
		dst.Add(u, 1)
		return
	}
	acc.finalize(1/sumw, e, th)
	acc.materialize(dst)
}

// isVertexStable counts the out-neighbors whose labelsets already
// contain every label of u; the vertex may skip its update when that
// count exceeds q times its degree.
func isVertexStable(ls []vertexLabelset, g *graph.Graph, u graph.Key, q float64) bool {
	count := 0
	g.ForEachEdgeKey(u, func(v graph.Key) {
		if ls[u].IsSubset(&ls[v]) {
			count++
		}
	})
	return float64(count) > q*float64(g.Degree(u))
}
