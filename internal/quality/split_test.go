package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(distances []float64, classes []int) []Entry {
	out := make([]Entry, len(distances))
	for i := range distances {
		out[i] = Entry{Distance: distances[i], Class: classes[i]}
	}
	return out
}

func h(ps ...float64) float64 {
	var e float64
	for _, p := range ps {
		if p > 0 {
			e -= p * math.Log(p)
		}
	}
	return e
}

func TestBestGainRatio(t *testing.T) {
	tests := []struct {
		name      string
		distances []float64
		classes   []int
		want      float64
	}{
		{
			name:      "perfect split",
			distances: []float64{1, 2, 3, 4},
			classes:   []int{0, 0, 1, 1},
			want:      1,
		},
		{
			// The best thresholds sit after the first or third point; the
			// first is kept.
			name:      "alternating classes",
			distances: []float64{1, 2, 3, 4},
			classes:   []int{0, 1, 0, 1},
			want:      (h(0.5, 0.5) - 0.75*h(1.0/3, 2.0/3)) / h(0.25, 0.75),
		},
		{
			name:      "tied distances only allow the middle split",
			distances: []float64{1, 1, 2, 2},
			classes:   []int{0, 1, 0, 1},
			want:      0,
		},
		{
			name:      "all distances equal",
			distances: []float64{3, 3, 3, 3},
			classes:   []int{0, 0, 1, 1},
			want:      0,
		},
		{
			name:      "single class",
			distances: []float64{1, 2, 3},
			classes:   []int{1, 1, 1},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bestGainRatio(line(tt.distances, tt.classes), 2)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestBestGainRatio_ThreeClasses(t *testing.T) {
	// One class is cut off perfectly, the remaining two are mixed.
	got := bestGainRatio(line([]float64{1, 2, 5, 5, 5, 5}, []int{0, 0, 1, 2, 1, 2}), 3)
	gain := h(1.0/3, 1.0/3, 1.0/3) - (4.0/6)*h(0.5, 0.5)
	assert.InDelta(t, gain/h(1.0/3, 2.0/3), got, 1e-12)
}

func TestBestFStat(t *testing.T) {
	tests := []struct {
		name      string
		distances []float64
		classes   []int
		want      float64
	}{
		{
			// Side means 1.5 and 3.5: between 4, within 1 on 2 degrees of freedom.
			name:      "perfect split",
			distances: []float64{1, 2, 3, 4},
			classes:   []int{1, 1, 0, 0},
			want:      8,
		},
		{
			// The splits after the first or third point both explain a third
			// of the class variance with an F of 3.
			name:      "alternating classes",
			distances: []float64{1, 2, 3, 4},
			classes:   []int{1, 0, 1, 0},
			want:      1,
		},
		{
			name:      "identical distances per side are floored",
			distances: []float64{0, 0, 1, 1},
			classes:   []int{1, 1, 0, 0},
			want:      1 / (minWithin / 2),
		},
		{
			name:      "no candidate class members",
			distances: []float64{1, 2, 3},
			classes:   []int{0, 0, 0},
			want:      0,
		},
		{
			name:      "all distances equal",
			distances: []float64{2, 2, 2, 2},
			classes:   []int{1, 0, 1, 0},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bestFStat(line(tt.distances, tt.classes))
			assert.InEpsilon(t, tt.want+1, got+1, 1e-9)
		})
	}
}

func TestBestFStat_WiderMarginScoresHigher(t *testing.T) {
	classes := []int{1, 1, 0, 0}
	narrow := bestFStat(line([]float64{0.10, 0.11, 0.12, 0.13}, classes))
	wide := bestFStat(line([]float64{0.10, 0.11, 50, 90}, classes))
	assert.InDelta(t, 8, narrow, 1e-9)
	assert.Greater(t, wide, narrow)

	tight := bestFStat(line([]float64{0, 0, 1, 1}, classes))
	apart := bestFStat(line([]float64{0, 0, 5, 5}, classes))
	assert.Greater(t, apart, tight)
}

func TestBestFStat_ScaleInvariant(t *testing.T) {
	classes := []int{1, 0, 1, 1, 0, 0}
	base := []float64{0.2, 0.5, 0.7, 1.1, 1.6, 2.4}
	scaled := make([]float64, len(base))
	for i, d := range base {
		scaled[i] = 10 * d
	}
	assert.InEpsilon(t, bestFStat(line(base, classes)), bestFStat(line(scaled, classes)), 1e-9)
}

func TestBinarize(t *testing.T) {
	got := binarize(line([]float64{1, 2, 3}, []int{2, 0, 2}), 2)
	assert.Equal(t, []Entry{{1, 1}, {2, 0}, {3, 1}}, got)
}
