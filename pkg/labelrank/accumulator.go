package labelrank

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// accumulator is the dense scratch labelset used while combining the
// neighborhood of one vertex. Insert and increment are O(1) array
// writes; a touched-key list keeps materialization proportional to the
// number of distinct labels seen, not to the vertex span.
//
// One accumulator serves one sweep worker and is reused across
// vertices; it is never shared.
type accumulator[K constraints.Integer, V constraints.Float] struct {
	vals    []V
	present []bool
	touched []K
}

func newAccumulator[K constraints.Integer, V constraints.Float](span K) *accumulator[K, V] {
	return &accumulator[K, V]{
		vals:    make([]V, span),
		present: make([]bool, span),
	}
}

// clear resets only the touched entries.
func (a *accumulator[K, V]) clear() {
	for _, k := range a.touched {
		a.vals[k] = 0
		a.present[k] = false
	}
	a.touched = a.touched[:0]
}

// add increments label k by v, creating the entry if absent.
func (a *accumulator[K, V]) add(k K, v V) {
	if !a.present[k] {
		a.present[k] = true
		a.touched = append(a.touched, k)
	}
	a.vals[k] += v
}

// combine adds w times each probability of x.
func (a *accumulator[K, V]) combine(x *Labelset[K, V], w V) {
	x.ForEach(func(k K, v V) {
		a.add(k, w*v)
	})
}

// finalize applies scale, inflation and relative cutoff, dropping
// entries below th times the maximum.
func (a *accumulator[K, V]) finalize(m, e, th V) {
	var vmax V
	for _, k := range a.touched {
		v := V(math.Pow(float64(a.vals[k]*m), float64(e)))
		a.vals[k] = v
		if v > vmax {
			vmax = v
		}
	}
	n := 0
	for _, k := range a.touched {
		if a.vals[k] >= th*vmax {
			a.touched[n] = k
			n++
		} else {
			a.vals[k] = 0
			a.present[k] = false
		}
	}
	a.touched = a.touched[:n]
}

// materialize copies the surviving entries into dst in ascending key
// order and clears the accumulator for the next vertex.
func (a *accumulator[K, V]) materialize(dst *Labelset[K, V]) {
	sort.Slice(a.touched, func(i, j int) bool { return a.touched[i] < a.touched[j] })
	dst.keys = dst.keys[:0]
	dst.vals = dst.vals[:0]
	for _, k := range a.touched {
		dst.keys = append(dst.keys, k)
		dst.vals = append(dst.vals, a.vals[k])
		a.vals[k] = 0
		a.present[k] = false
	}
	a.touched = a.touched[:0]
}
