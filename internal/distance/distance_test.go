package distance_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

const tolerance = 1e-6

func sine(n int, phase, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(float64(i)/3+phase)
	}
	return out
}

func dataset(t *testing.T, items ...*series.Series) *series.Dataset {
	t.Helper()
	ds, err := series.NewDataset(items)
	require.NoError(t, err)
	return ds
}

func mustSeries(t *testing.T, label string, channels ...[]float64) *series.Series {
	t.Helper()
	s, err := series.New(label, channels)
	require.NoError(t, err)
	return s
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want distance.Strategy
	}{
		{in: "euclidean", want: distance.EuclideanDependent},
		{in: "euclidean_dependent", want: distance.EuclideanDependent},
		{in: "euclideanIndependent", want: distance.EuclideanIndependent},
		{in: "EUCLIDEAN-INDEPENDENT", want: distance.EuclideanIndependent},
	}
	for _, tt := range tests {
		got, err := distance.ParseStrategy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := distance.ParseStrategy("manhattan")
	assert.ErrorIs(t, err, errdefs.ErrInvalidConfiguration)
}

func TestDistance_ZeroAgainstOwnSource(t *testing.T) {
	src := mustSeries(t, "a", sine(40, 0, 2), sine(40, 1, 5))
	ds := dataset(t, src, mustSeries(t, "b", sine(40, 2, 1), sine(40, 3, 1)))

	for _, strategy := range []distance.Strategy{distance.EuclideanDependent, distance.EuclideanIndependent} {
		t.Run(strategy.String(), func(t *testing.T) {
			ev, err := distance.New(strategy)
			require.NoError(t, err)

			f, err := shapelet.NewFactory(shapelet.Dependent)
			require.NoError(t, err)
			s, err := f.New(ds, 0, []int{0, 1}, 7, 10)
			require.NoError(t, err)

			d, err := ev.Distance(s, src)
			require.NoError(t, err)
			assert.InDelta(t, 0, d, tolerance)
		})
	}
}

func TestDistance_ZeroAgainstOwnSourceWithLargeOffset(t *testing.T) {
	offsets := []float64{0, 1e6, 1e7, 1e8}
	for _, off := range offsets {
		ch := make([]float64, 400)
		for i := range ch {
			ch[i] = off + math.Sin(float64(i)/5)
		}
		src := mustSeries(t, "level", ch)
		ds := dataset(t, src, mustSeries(t, "flat", sine(400, 0, 1)))

		f, err := shapelet.NewFactory(shapelet.Dependent)
		require.NoError(t, err)
		s, err := f.New(ds, 0, []int{0}, 300, 20)
		require.NoError(t, err)

		for _, strategy := range []distance.Strategy{distance.EuclideanDependent, distance.EuclideanIndependent} {
			ev, err := distance.New(strategy)
			require.NoError(t, err)
			d, err := ev.Distance(s, src)
			require.NoError(t, err)
			assert.InDelta(t, 0, d, tolerance, "offset %g, %s", off, strategy)
		}
	}
}

func TestDistance_NonNegativeAndScaleInvariant(t *testing.T) {
	a := mustSeries(t, "a", sine(30, 0, 1))
	scaled := mustSeries(t, "a", sine(30, 0, 50))
	other := mustSeries(t, "b", []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3, 2, 3, 8, 4, 6, 2, 6, 4, 3, 3, 8, 3, 2, 7})
	ds := dataset(t, a, scaled, other)

	ev, err := distance.New(distance.EuclideanDependent)
	require.NoError(t, err)
	f, err := shapelet.NewFactory(shapelet.Independent)
	require.NoError(t, err)
	s, err := f.New(ds, 0, []int{0}, 3, 8)
	require.NoError(t, err)

	dScaled, err := ev.Distance(s, scaled)
	require.NoError(t, err)
	assert.InDelta(t, 0, dScaled, tolerance, "z-normalisation removes amplitude differences")

	dOther, err := ev.Distance(s, other)
	require.NoError(t, err)
	assert.Greater(t, dOther, 0.0)
}

func TestDistance_ConstantWindowIsNotNormalised(t *testing.T) {
	flat := mustSeries(t, "a", []float64{0, 0, 0, 0, 0, 0})
	ds := dataset(t, flat, mustSeries(t, "b", []float64{1, 2, 3, 4, 5, 6}))

	ev, err := distance.New(distance.EuclideanDependent)
	require.NoError(t, err)
	f, err := shapelet.NewFactory(shapelet.Dependent)
	require.NoError(t, err)
	s, err := f.New(ds, 0, []int{0}, 0, 3)
	require.NoError(t, err)

	d, err := ev.Distance(s, flat)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
	assert.False(t, math.IsNaN(d))
}

func TestDistance_SeriesShorterThanShapelet(t *testing.T) {
	long := mustSeries(t, "a", sine(20, 0, 1))
	short := mustSeries(t, "b", sine(5, 0, 1))
	ds := dataset(t, long, short)

	ev, err := distance.New(distance.EuclideanDependent)
	require.NoError(t, err)
	f, err := shapelet.NewFactory(shapelet.Dependent)
	require.NoError(t, err)
	s, err := f.New(ds, 0, []int{0}, 0, 10)
	require.NoError(t, err)

	_, err = ev.Distance(s, short)
	assert.ErrorIs(t, err, errdefs.ErrInvalidInput)
}

func TestDistance_IndependentNeverExceedsDependent(t *testing.T) {
	// Channel 1 of the target is shifted, so only per-channel alignment can
	// match both channels exactly.
	src := mustSeries(t, "a", sine(30, 0, 1), sine(30, 0.5, 1))
	target := mustSeries(t, "b", sine(30, 0, 1), sine(30, 0.5+4.0/3, 1))
	ds := dataset(t, src, target)

	f, err := shapelet.NewFactory(shapelet.Dependent)
	require.NoError(t, err)
	s, err := f.New(ds, 0, []int{0, 1}, 6, 10)
	require.NoError(t, err)

	dep, err := distance.New(distance.EuclideanDependent)
	require.NoError(t, err)
	ind, err := distance.New(distance.EuclideanIndependent)
	require.NoError(t, err)

	dd, err := dep.Distance(s, target)
	require.NoError(t, err)
	di, err := ind.Distance(s, target)
	require.NoError(t, err)

	assert.LessOrEqual(t, di, dd+tolerance)
	assert.InDelta(t, 0, di, tolerance)
	assert.Greater(t, dd, tolerance)
}

func TestBetween(t *testing.T) {
	src := mustSeries(t, "a", sine(30, 0, 1), sine(30, 1, 1))
	ds := dataset(t, src, mustSeries(t, "b", sine(30, 2, 1), sine(30, 3, 1)))
	ev, err := distance.New(distance.EuclideanDependent)
	require.NoError(t, err)

	ind, err := shapelet.NewFactory(shapelet.Independent)
	require.NoError(t, err)

	short, err := ind.New(ds, 0, []int{0}, 5, 6)
	require.NoError(t, err)
	long, err := ind.New(ds, 0, []int{0}, 3, 12)
	require.NoError(t, err)
	otherChannel, err := ind.New(ds, 0, []int{1}, 5, 6)
	require.NoError(t, err)

	d1, err := distance.Between(ev, short, long)
	require.NoError(t, err)
	d2, err := distance.Between(ev, long, short)
	require.NoError(t, err)
	assert.InDelta(t, 0, d1, tolerance, "short is contained in long")
	assert.Equal(t, d1, d2, "argument order must not matter")

	d3, err := distance.Between(ev, short, otherChannel)
	require.NoError(t, err)
	assert.True(t, math.IsInf(d3, 1))
}

func TestAlign_RejectsMismatchedShapes(t *testing.T) {
	ev, err := distance.New(distance.EuclideanIndependent)
	require.NoError(t, err)

	_, err = ev.Align([][]float64{{1, 2}}, [][]float64{{1, 2}, {3, 4}})
	assert.ErrorIs(t, err, errdefs.ErrInvalidInput)

	_, err = ev.Align([][]float64{{1, 2, 3}}, [][]float64{{1, 2}})
	assert.ErrorIs(t, err, errdefs.ErrInvalidInput)
}
