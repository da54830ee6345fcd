package shapelet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

func twoChannelDataset(t *testing.T) *series.Dataset {
	t.Helper()
	a, err := series.New("up", [][]float64{{0, 1, 2, 3, 4, 5}, {5, 4, 3, 2, 1, 0}})
	require.NoError(t, err)
	b, err := series.New("down", [][]float64{{5, 4, 3, 2, 1, 0}, {0, 1, 2, 3, 4, 5}})
	require.NoError(t, err)
	ds, err := series.NewDataset([]*series.Series{a, b})
	require.NoError(t, err)
	return ds
}

func TestParseType(t *testing.T) {
	typ, err := shapelet.ParseType("Dependent")
	require.NoError(t, err)
	assert.Equal(t, shapelet.Dependent, typ)

	typ, err = shapelet.ParseType("independent")
	require.NoError(t, err)
	assert.Equal(t, shapelet.Independent, typ)

	_, err = shapelet.ParseType("diagonal")
	assert.ErrorIs(t, err, errdefs.ErrInvalidConfiguration)
}

func TestFactory_ChannelSets(t *testing.T) {
	ds := twoChannelDataset(t)

	dep, err := shapelet.NewFactory(shapelet.Dependent)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}}, dep.ChannelSets(ds.At(0)))

	ind, err := shapelet.NewFactory(shapelet.Independent)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}, {1}}, ind.ChannelSets(ds.At(0)))
}

func TestFactory_NewCopiesWindow(t *testing.T) {
	ds := twoChannelDataset(t)
	f, err := shapelet.NewFactory(shapelet.Dependent)
	require.NoError(t, err)

	s, err := f.New(ds, 0, []int{0, 1}, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{2, 3, 4}, {3, 2, 1}}, s.Values())
	assert.Equal(t, "up", s.Label)
	assert.Equal(t, ds.ClassIndex(0), s.ClassIndex)
	assert.Equal(t, 2, s.NumChannels())

	vals := s.Values()
	vals[0][0] = 99
	assert.Equal(t, 2.0, s.Values()[0][0], "Values must return a copy")
}

func TestFactory_NewRejectsOutOfBounds(t *testing.T) {
	ds := twoChannelDataset(t)
	dep, err := shapelet.NewFactory(shapelet.Dependent)
	require.NoError(t, err)
	ind, err := shapelet.NewFactory(shapelet.Independent)
	require.NoError(t, err)

	tests := []struct {
		name     string
		f        shapelet.Factory
		index    int
		channels []int
		start    int
		length   int
	}{
		{name: "window past end", f: dep, index: 0, channels: []int{0, 1}, start: 4, length: 3},
		{name: "negative start", f: dep, index: 0, channels: []int{0, 1}, start: -1, length: 2},
		{name: "zero length", f: dep, index: 0, channels: []int{0, 1}, start: 0, length: 0},
		{name: "series out of range", f: dep, index: 5, channels: []int{0, 1}, start: 0, length: 2},
		{name: "dependent subset", f: dep, index: 0, channels: []int{0}, start: 0, length: 2},
		{name: "independent two channels", f: ind, index: 0, channels: []int{0, 1}, start: 0, length: 2},
		{name: "channel out of range", f: ind, index: 0, channels: []int{2}, start: 0, length: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.f.New(ds, tt.index, tt.channels, tt.start, tt.length)
			assert.ErrorIs(t, err, errdefs.ErrInvalidInput)
		})
	}
}

func TestShapelet_SameChannels(t *testing.T) {
	ds := twoChannelDataset(t)
	f, err := shapelet.NewFactory(shapelet.Independent)
	require.NoError(t, err)

	a, err := f.New(ds, 0, []int{0}, 0, 3)
	require.NoError(t, err)
	b, err := f.New(ds, 1, []int{0}, 1, 4)
	require.NoError(t, err)
	c, err := f.New(ds, 1, []int{1}, 1, 4)
	require.NoError(t, err)

	assert.True(t, a.SameChannels(b))
	assert.False(t, a.SameChannels(c))
}
