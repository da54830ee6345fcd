package distance_test

import (
	"math/rand"
	"testing"

	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// benchmarkDistance measures one shapelet of length l against a series of
// length n with the given channel count.
func benchmarkDistance(b *testing.B, strategy distance.Strategy, n, l, channels int) {
	rng := rand.New(rand.NewSource(1))
	mk := func(label string) *series.Series {
		rows := make([][]float64, channels)
		for c := range rows {
			rows[c] = make([]float64, n)
			for i := range rows[c] {
				rows[c][i] = rng.NormFloat64()
			}
		}
		s, err := series.New(label, rows)
		if err != nil {
			b.Fatalf("series: %v", err)
		}
		return s
	}

	ds, err := series.NewDataset([]*series.Series{mk("a"), mk("b")})
	if err != nil {
		b.Fatalf("dataset: %v", err)
	}
	f, _ := shapelet.NewFactory(shapelet.Dependent)
	all := f.ChannelSets(ds.At(0))[0]
	s, err := f.New(ds, 0, all, n/3, l)
	if err != nil {
		b.Fatalf("shapelet: %v", err)
	}
	ev, _ := distance.New(strategy)
	target := ds.At(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ev.Distance(s, target); err != nil {
			b.Fatalf("distance: %v", err)
		}
	}
}

func BenchmarkDependent_Univariate500(b *testing.B) {
	benchmarkDistance(b, distance.EuclideanDependent, 500, 50, 1)
}

func BenchmarkDependent_Multivariate500(b *testing.B) {
	benchmarkDistance(b, distance.EuclideanDependent, 500, 50, 6)
}

func BenchmarkIndependent_Multivariate500(b *testing.B) {
	benchmarkDistance(b, distance.EuclideanIndependent, 500, 50, 6)
}
