package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

func drain(g generator) []window {
	var out []window
	for {
		w, ok := g.next()
		if !ok {
			return out
		}
		out = append(out, w)
	}
}

func TestExhaustiveGenerator_Order(t *testing.T) {
	a, err := series.New("a", [][]float64{{1, 2, 3, 4}, {4, 3, 2, 1}})
	require.NoError(t, err)
	b, err := series.New("b", [][]float64{{1, 3, 2}, {2, 3, 1}})
	require.NoError(t, err)
	ds, err := series.NewDataset([]*series.Series{a, b})
	require.NoError(t, err)
	f, err := shapelet.NewFactory(shapelet.Independent)
	require.NoError(t, err)

	p := Params{MinLength: 2, MaxLength: 3, Filter: Exhaustive}
	g := newGenerator(p, ds, f, nil)
	got := drain(g)

	want := []window{
		{index: 0, channels: []int{0}, start: 0, length: 2},
		{index: 0, channels: []int{0}, start: 1, length: 2},
		{index: 0, channels: []int{0}, start: 2, length: 2},
		{index: 0, channels: []int{0}, start: 0, length: 3},
		{index: 0, channels: []int{0}, start: 1, length: 3},
		{index: 0, channels: []int{1}, start: 0, length: 2},
		{index: 0, channels: []int{1}, start: 1, length: 2},
		{index: 0, channels: []int{1}, start: 2, length: 2},
		{index: 0, channels: []int{1}, start: 0, length: 3},
		{index: 0, channels: []int{1}, start: 1, length: 3},
		{index: 1, channels: []int{0}, start: 0, length: 2},
		{index: 1, channels: []int{0}, start: 1, length: 2},
		{index: 1, channels: []int{0}, start: 0, length: 3},
		{index: 1, channels: []int{1}, start: 0, length: 2},
		{index: 1, channels: []int{1}, start: 1, length: 2},
		{index: 1, channels: []int{1}, start: 0, length: 3},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, Exhausted, g.exhausted())
}

func TestRandomGenerator_ByClassAlternates(t *testing.T) {
	var items []*series.Series
	for _, label := range []string{"a", "a", "a", "b"} {
		s, err := series.New(label, [][]float64{{1, 2, 3, 4, 5, 6}})
		require.NoError(t, err)
		items = append(items, s)
	}
	ds, err := series.NewDataset(items)
	require.NoError(t, err)
	f, err := shapelet.NewFactory(shapelet.Dependent)
	require.NoError(t, err)

	p := Params{MinLength: 2, MaxLength: 4, MaxIterations: 10, Filter: RandomByClass}
	g := newGenerator(p, ds, f, rand.New(rand.NewSource(3)))
	got := drain(g)

	require.Len(t, got, 10)
	for i, w := range got {
		if i%2 == 0 {
			assert.Less(t, w.index, 3, "even draws come from class a")
		} else {
			assert.Equal(t, 3, w.index, "odd draws come from class b")
		}
		assert.GreaterOrEqual(t, w.length, 2)
		assert.LessOrEqual(t, w.length, 4)
		assert.LessOrEqual(t, w.start+w.length, 6)
	}
	assert.Equal(t, TargetReached, g.exhausted())
}
