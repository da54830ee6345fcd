// Package shapelet defines shapelet candidates and the factories that cut
// them out of a dataset.
package shapelet

import (
	"fmt"
	"strings"

	"github.com/your-org/shapelet-transform/internal/errdefs"
)

// Type selects which channels a candidate spans.
type Type int

const (
	// Dependent candidates span every channel of the source series jointly.
	Dependent Type = iota
	// Independent candidates are confined to a single channel.
	Independent
)

// String returns the configuration name of the type.
func (t Type) String() string {
	switch t {
	case Dependent:
		return "dependent"
	case Independent:
		return "independent"
	default:
		return "unknown"
	}
}

// ParseType resolves a configuration name into a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dependent", "dependant":
		return Dependent, nil
	case "independent":
		return Independent, nil
	default:
		return 0, fmt.Errorf("unknown candidate type %q: %w", name, errdefs.ErrInvalidConfiguration)
	}
}

// Shapelet is a contiguous window cut from one series. The values are an
// exclusive copy, so later changes to the source cannot reach it. Quality
// and Seq are assigned by the search before the shapelet is shared; after
// that it is read-only.
type Shapelet struct {
	SeriesIndex int
	Start       int
	Length      int
	Channels    []int
	Type        Type
	Label       string
	ClassIndex  int
	Quality     float64
	// Seq is the dispatch order of the candidate within its search run.
	Seq int

	values     [][]float64
	normalized [][]float64
}

// Values returns a copy of the raw extracted values, one row per spanned
// channel.
func (s *Shapelet) Values() [][]float64 {
	out := make([][]float64, len(s.values))
	for i, v := range s.values {
		out[i] = append([]float64(nil), v...)
	}
	return out
}

// Normalized returns the z-normalised values used by distance evaluators.
// The rows must be treated as read-only.
func (s *Shapelet) Normalized() [][]float64 { return s.normalized }

// NumChannels returns the number of spanned channels.
func (s *Shapelet) NumChannels() int { return len(s.Channels) }

// SameChannels reports whether s and o span the same channel set.
func (s *Shapelet) SameChannels(o *Shapelet) bool {
	if len(s.Channels) != len(o.Channels) {
		return false
	}
	for i := range s.Channels {
		if s.Channels[i] != o.Channels[i] {
			return false
		}
	}
	return true
}

// String describes where the shapelet was taken from.
func (s *Shapelet) String() string {
	return fmt.Sprintf("shapelet{series=%d start=%d len=%d channels=%v label=%s quality=%.6f}",
		s.SeriesIndex, s.Start, s.Length, s.Channels, s.Label, s.Quality)
}
