package shapelet

import (
	"fmt"

	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/series"
)

// Factory cuts candidates out of a dataset. Search strategies decide which
// (series, channel set, start, length) to ask for.
type Factory interface {
	// Type returns the candidate flavor this factory produces.
	Type() Type
	// ChannelSets lists the channel sets a candidate from s may span.
	ChannelSets(s *series.Series) [][]int
	// New extracts the window [start, start+length) over channels from
	// series index of ds.
	New(ds *series.Dataset, index int, channels []int, start, length int) (*Shapelet, error)
}

type factory struct {
	typ Type
}

// NewFactory returns the factory for t.
func NewFactory(t Type) (Factory, error) {
	switch t {
	case Dependent, Independent:
		return &factory{typ: t}, nil
	default:
		return nil, fmt.Errorf("unknown candidate type %d: %w", t, errdefs.ErrInvalidConfiguration)
	}
}

func (f *factory) Type() Type { return f.typ }

func (f *factory) ChannelSets(s *series.Series) [][]int {
	n := s.NumChannels()
	if f.typ == Dependent {
		all := make([]int, n)
		for c := range all {
			all[c] = c
		}
		return [][]int{all}
	}

	sets := make([][]int, n)
	for c := range sets {
		sets[c] = []int{c}
	}
	return sets
}

func (f *factory) New(ds *series.Dataset, index int, channels []int, start, length int) (*Shapelet, error) {
	if index < 0 || index >= ds.Len() {
		return nil, fmt.Errorf("series index %d out of range [0,%d): %w", index, ds.Len(), errdefs.ErrInvalidInput)
	}
	src := ds.At(index)

	switch f.typ {
	case Dependent:
		if len(channels) != src.NumChannels() {
			return nil, fmt.Errorf("dependent candidate must span %d channels, got %d: %w",
				src.NumChannels(), len(channels), errdefs.ErrInvalidInput)
		}
	case Independent:
		if len(channels) != 1 {
			return nil, fmt.Errorf("independent candidate must span one channel, got %d: %w",
				len(channels), errdefs.ErrInvalidInput)
		}
	}
	if length < 1 || start < 0 || start+length > src.Len() {
		return nil, fmt.Errorf("window [%d,%d) outside series %d of length %d: %w",
			start, start+length, index, src.Len(), errdefs.ErrInvalidInput)
	}

	s := &Shapelet{
		SeriesIndex: index,
		Start:       start,
		Length:      length,
		Channels:    append([]int(nil), channels...),
		Type:        f.typ,
		Label:       ds.Label(index),
		ClassIndex:  ds.ClassIndex(index),
		values:      make([][]float64, len(channels)),
		normalized:  make([][]float64, len(channels)),
	}
	for i, c := range channels {
		if c < 0 || c >= src.NumChannels() {
			return nil, fmt.Errorf("channel %d outside series %d with %d channels: %w",
				c, index, src.NumChannels(), errdefs.ErrInvalidInput)
		}
		s.values[i] = append([]float64(nil), src.Channel(c)[start:start+length]...)
		s.normalized[i] = series.ZNormalize(s.values[i])
	}

	return s, nil
}
