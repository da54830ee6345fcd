package search

import (
	"math/rand"

	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// window identifies a candidate before its values are extracted.
type window struct {
	index    int
	channels []int
	start    int
	length   int
}

// generator yields candidate windows in dispatch order. It runs on the
// dispatcher goroutine only.
type generator interface {
	// next returns the next window, or false when no candidate is left.
	next() (window, bool)
	// exhausted is the terminal state reported once next returns false.
	exhausted() State
}

func newGenerator(p Params, ds *series.Dataset, f shapelet.Factory, rng *rand.Rand) generator {
	switch p.Filter {
	case Random:
		return &randomGenerator{p: p, ds: ds, f: f, rng: rng}
	case RandomByClass:
		return &randomGenerator{p: p, ds: ds, f: f, rng: rng, members: ds.ClassMembers()}
	default:
		return &exhaustiveGenerator{p: p, ds: ds, f: f, length: p.MinLength}
	}
}

// exhaustiveGenerator walks series, then channel set, then length, then
// offset.
type exhaustiveGenerator struct {
	p  Params
	ds *series.Dataset
	f  shapelet.Factory

	index  int
	sets   [][]int
	set    int
	length int
	start  int
}

func (g *exhaustiveGenerator) next() (window, bool) {
	for g.index < g.ds.Len() {
		s := g.ds.At(g.index)
		if g.sets == nil {
			g.sets = g.f.ChannelSets(s)
		}
		if g.set >= len(g.sets) {
			g.index++
			g.sets, g.set = nil, 0
			continue
		}
		if g.length > g.p.MaxLength {
			g.set++
			g.length = g.p.MinLength
			continue
		}
		if g.start+g.length > s.Len() {
			g.length++
			g.start = 0
			continue
		}

		w := window{index: g.index, channels: g.sets[g.set], start: g.start, length: g.length}
		g.start++
		return w, true
	}
	return window{}, false
}

func (g *exhaustiveGenerator) exhausted() State { return Exhausted }

// randomGenerator draws MaxIterations windows uniformly. With members set,
// draws cycle over classes and pick a series uniformly inside the class.
type randomGenerator struct {
	p       Params
	ds      *series.Dataset
	f       shapelet.Factory
	rng     *rand.Rand
	members [][]int
	drawn   int
}

func (g *randomGenerator) next() (window, bool) {
	if g.drawn >= g.p.MaxIterations {
		return window{}, false
	}

	var index int
	if g.members != nil {
		class := g.members[g.drawn%len(g.members)]
		index = class[g.rng.Intn(len(class))]
	} else {
		index = g.rng.Intn(g.ds.Len())
	}
	g.drawn++

	s := g.ds.At(index)
	sets := g.f.ChannelSets(s)
	channels := sets[g.rng.Intn(len(sets))]
	length := g.p.MinLength + g.rng.Intn(g.p.MaxLength-g.p.MinLength+1)
	start := g.rng.Intn(s.Len() - length + 1)

	return window{index: index, channels: channels, start: start, length: length}, true
}

func (g *randomGenerator) exhausted() State { return TargetReached }
