package labelrank

import (
	"time"

	"github.com/dd0wney/cluso-labelrank/pkg/graph"
)

// Result is the outcome of one LabelRank run.
type Result struct {
	// Membership maps each vertex to its community label. Labels are
	// vertex keys; only the partition they induce is stable across
	// equivalent runs, not the label identities.
	Membership []graph.Key

	// Iterations is the number of sweeps the main loop performed.
	Iterations int

	// Duration is the wall-clock time of one full computation, averaged
	// over Options.Repeat runs. It covers buffer allocation,
	// initialization and membership extraction as well as the main
	// loop; the main loop is not timed on its own.
	Duration time.Duration
}

// Community is one detected community.
type Community struct {
	ID    int
	Label graph.Key
	Nodes []graph.Key
	Size  int
}

// Communities groups the membership vector into communities, ordered by
// first-seen vertex.
func (r *Result) Communities() []Community {
	index := make(map[graph.Key]int)
	communities := make([]Community, 0)
	for u, label := range r.Membership {
		i, ok := index[label]
		if !ok {
			i = len(communities)
			index[label] = i
			communities = append(communities, Community{ID: i, Label: label})
		}
		communities[i].Nodes = append(communities[i].Nodes, graph.Key(u))
	}
	for i := range communities {
		communities[i].Size = len(communities[i].Nodes)
	}
	return communities
}

// NumCommunities returns the number of distinct community labels.
func (r *Result) NumCommunities() int {
	seen := make(map[graph.Key]struct{})
	for _, label := range r.Membership {
		seen[label] = struct{}{}
	}
	return len(seen)
}

// CommunityOf returns the community label of vertex u.
func (r *Result) CommunityOf(u graph.Key) graph.Key {
	return r.Membership[u]
}
