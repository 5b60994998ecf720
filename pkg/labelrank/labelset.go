package labelrank

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// Labelset maps candidate community labels to their (unnormalized)
// probabilities at a single vertex. Keys are kept in ascending order,
// which makes traversal deterministic, subset tests a merge-walk, and
// argmax tie-breaks independent of insertion history.
//
// Labelsets are tiny after cutoff (a handful of entries), so the sorted
// slice pair beats a hash map on both memory and traversal cost.
type Labelset[K constraints.Integer, V constraints.Float] struct {
	keys []K
	vals []V
}

// NewLabelset creates an empty labelset.
func NewLabelset[K constraints.Integer, V constraints.Float]() *Labelset[K, V] {
	return &Labelset[K, V]{}
}

// Len returns the number of labels.
func (s *Labelset[K, V]) Len() int {
	return len(s.keys)
}

// search returns the position of k, or the insertion point if absent.
func (s *Labelset[K, V]) search(k K) (int, bool) {
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= k })
	return i, i < len(s.keys) && s.keys[i] == k
}

// Has reports whether label k is present.
func (s *Labelset[K, V]) Has(k K) bool {
	_, ok := s.search(k)
	return ok
}

// Get returns the probability of label k, or zero if absent.
func (s *Labelset[K, V]) Get(k K) V {
	if i, ok := s.search(k); ok {
		return s.vals[i]
	}
	return 0
}

// Add inserts label k with probability v. The caller promises k is
// absent; use Set to overwrite.
func (s *Labelset[K, V]) Add(k K, v V) {
	i, _ := s.search(k)
	s.keys = append(s.keys, 0)
	s.vals = append(s.vals, 0)
	copy(s.keys[i+1:], s.keys[i:])
	copy(s.vals[i+1:], s.vals[i:])
	s.keys[i] = k
	s.vals[i] = v
}

// Set overwrites the probability of label k, inserting it if absent.
func (s *Labelset[K, V]) Set(k K, v V) {
	if i, ok := s.search(k); ok {
		s.vals[i] = v
		return
	}
	s.Add(k, v)
}

// Remove deletes label k if present.
func (s *Labelset[K, V]) Remove(k K) {
	i, ok := s.search(k)
	if !ok {
		return
	}
	s.keys = append(s.keys[:i], s.keys[i+1:]...)
	s.vals = append(s.vals[:i], s.vals[i+1:]...)
}

// Clear removes all labels, keeping capacity.
func (s *Labelset[K, V]) Clear() {
	s.keys = s.keys[:0]
	s.vals = s.vals[:0]
}

// ForEach visits every (label, probability) pair in ascending key order.
func (s *Labelset[K, V]) ForEach(f func(k K, v V)) {
	for i, k := range s.keys {
		f(k, s.vals[i])
	}
}

// ForEachKey visits every label in ascending key order.
func (s *Labelset[K, V]) ForEachKey(f func(k K)) {
	for _, k := range s.keys {
		f(k)
	}
}

// ForEachValue visits every probability, allowing in-place mutation.
func (s *Labelset[K, V]) ForEachValue(f func(v *V)) {
	for i := range s.vals {
		f(&s.vals[i])
	}
}

// Filter retains only entries whose probability satisfies pred.
func (s *Labelset[K, V]) Filter(pred func(v V) bool) {
	n := 0
	for i, v := range s.vals {
		if pred(v) {
			s.keys[n] = s.keys[i]
			s.vals[n] = v
			n++
		}
	}
	s.keys = s.keys[:n]
	s.vals = s.vals[:n]
}

// CopyFrom replaces the contents of s with those of x.
func (s *Labelset[K, V]) CopyFrom(x *Labelset[K, V]) {
	s.keys = append(s.keys[:0], x.keys...)
	s.vals = append(s.vals[:0], x.vals...)
}

// Combine adds w times each probability of x into s, creating entries
// as needed.
func (s *Labelset[K, V]) Combine(x *Labelset[K, V], w V) {
	for i, k := range x.keys {
		if j, ok := s.search(k); ok {
			s.vals[j] += w * x.vals[i]
		} else {
			s.Add(k, w*x.vals[i])
		}
	}
}

// Scale multiplies every probability by m.
func (s *Labelset[K, V]) Scale(m V) {
	for i := range s.vals {
		s.vals[i] *= m
	}
}

// Inflate raises every probability to the exponent e.
func (s *Labelset[K, V]) Inflate(e V) {
	for i := range s.vals {
		s.vals[i] = V(math.Pow(float64(s.vals[i]), float64(e)))
	}
}

// Cutoff removes entries below th times the maximum probability. The
// largest entry always survives, so a non-empty labelset stays
// non-empty.
func (s *Labelset[K, V]) Cutoff(th V) {
	var vmax V
	for _, v := range s.vals {
		if v > vmax {
			vmax = v
		}
	}
	s.Filter(func(v V) bool { return v >= th*vmax })
}

// Finalize applies scale, inflation and relative cutoff in one pass
// over the values plus one compaction. This is the only finalization
// the iteration driver uses; the decomposed operations exist for
// clarity and tests.
func (s *Labelset[K, V]) Finalize(m, e, th V) {
	var vmax V
	for i := range s.vals {
		v := V(math.Pow(float64(s.vals[i]*m), float64(e)))
		s.vals[i] = v
		if v > vmax {
			vmax = v
		}
	}
	s.Filter(func(v V) bool { return v >= th*vmax })
}

// IsSubset reports whether every label of s appears in y. Probabilities
// are not compared. Both key slices are sorted, so this is a single
// merge-walk.
func (s *Labelset[K, V]) IsSubset(y *Labelset[K, V]) bool {
	if len(s.keys) > len(y.keys) {
		return false
	}
	j := 0
	for _, k := range s.keys {
		for j < len(y.keys) && y.keys[j] < k {
			j++
		}
		if j >= len(y.keys) || y.keys[j] != k {
			return false
		}
		j++
	}
	return true
}

// Best returns the label with the highest probability and that
// probability. Among equal maxima the largest label wins, matching
// ascending traversal order. An empty labelset returns zero values.
func (s *Labelset[K, V]) Best() (K, V) {
	var bestK K
	var bestV V
	for i, v := range s.vals {
		if v >= bestV {
			bestV = v
			bestK = s.keys[i]
		}
	}
	return bestK, bestV
}
