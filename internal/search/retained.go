package search

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// worse orders shapelets for eviction: lower quality first, and on equal
// quality the later insertion first.
func worse(a, b *shapelet.Shapelet) bool {
	if a.Quality != b.Quality {
		return a.Quality < b.Quality
	}
	return a.Seq > b.Seq
}

type minHeap []*shapelet.Shapelet

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(*shapelet.Shapelet)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

type candidateKey struct {
	index, start, length int
	channels             string
}

func keyOf(s *shapelet.Shapelet) candidateKey {
	return candidateKey{index: s.SeriesIndex, start: s.Start, length: s.Length, channels: fmt.Sprint(s.Channels)}
}

// retainedSet keeps the best k shapelets whose pairwise source distance is at
// least minDist. It is not safe for concurrent use.
type retainedSet struct {
	k       int
	minDist float64
	dist    distance.Evaluator
	items   minHeap
	keys    map[candidateKey]struct{}
}

func newRetainedSet(k int, minDist float64, dist distance.Evaluator) *retainedSet {
	return &retainedSet{
		k:       k,
		minDist: minDist,
		dist:    dist,
		items:   make(minHeap, 0, k),
		keys:    make(map[candidateKey]struct{}, k),
	}
}

func (r *retainedSet) Len() int { return len(r.items) }

// Min returns the worst retained shapelet, or nil when empty.
func (r *retainedSet) Min() *shapelet.Shapelet {
	if len(r.items) == 0 {
		return nil
	}
	return r.items[0]
}

// Offer inserts c when it earns a place and returns the members it
// displaced.
//
// A candidate closer than minDist to one or more members replaces all of
// them only when its quality is strictly higher than each of theirs. A
// candidate without conflicts is inserted while the set holds fewer than k
// members, and otherwise only when it beats the current minimum, which it
// then evicts.
func (r *retainedSet) Offer(c *shapelet.Shapelet) (accepted bool, evicted []*shapelet.Shapelet, err error) {
	key := keyOf(c)
	if _, dup := r.keys[key]; dup {
		return false, nil, nil
	}
	if len(r.items) >= r.k && c.Quality <= r.items[0].Quality {
		return false, nil, nil
	}

	conflicts, err := r.conflicts(c)
	if err != nil {
		return false, nil, err
	}
	if len(conflicts) > 0 {
		for _, m := range conflicts {
			if c.Quality <= m.Quality {
				return false, nil, nil
			}
		}
		r.remove(conflicts)
		r.push(c, key)
		return true, conflicts, nil
	}

	if len(r.items) < r.k {
		r.push(c, key)
		return true, nil, nil
	}
	out := heap.Pop(&r.items).(*shapelet.Shapelet)
	delete(r.keys, keyOf(out))
	r.push(c, key)
	return true, []*shapelet.Shapelet{out}, nil
}

// Sorted returns the members best first; ties keep insertion order.
func (r *retainedSet) Sorted() []*shapelet.Shapelet {
	out := append([]*shapelet.Shapelet(nil), r.items...)
	sort.Slice(out, func(i, j int) bool { return worse(out[j], out[i]) })
	return out
}

func (r *retainedSet) conflicts(c *shapelet.Shapelet) ([]*shapelet.Shapelet, error) {
	if r.minDist <= 0 {
		return nil, nil
	}
	var out []*shapelet.Shapelet
	for _, m := range r.items {
		d, err := distance.Between(r.dist, c, m)
		if err != nil {
			return nil, fmt.Errorf("diversity check against %s: %w", m, err)
		}
		if d < r.minDist {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *retainedSet) push(c *shapelet.Shapelet, key candidateKey) {
	heap.Push(&r.items, c)
	r.keys[key] = struct{}{}
}

func (r *retainedSet) remove(members []*shapelet.Shapelet) {
	drop := make(map[*shapelet.Shapelet]struct{}, len(members))
	for _, m := range members {
		drop[m] = struct{}{}
		delete(r.keys, keyOf(m))
	}
	kept := r.items[:0]
	for _, m := range r.items {
		if _, ok := drop[m]; !ok {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(r.items); i++ {
		r.items[i] = nil
	}
	r.items = kept
	heap.Init(&r.items)
}
