// Package distance computes the distance between a shapelet and a series by
// sliding the shapelet along the series and keeping the best z-normalised
// alignment.
//
// Both evaluators report sqrt(min SSE / (length × channels)), so values are
// comparable across shapelet lengths and channel counts. Windows whose
// variance is below series.MinVariance are compared unnormalised.
package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// Strategy names a distance evaluator.
type Strategy int

const (
	// EuclideanDependent aligns every spanned channel at one shared offset.
	EuclideanDependent Strategy = iota
	// EuclideanIndependent aligns each spanned channel at its own best offset.
	EuclideanIndependent
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case EuclideanDependent:
		return "euclidean_dependent"
	case EuclideanIndependent:
		return "euclidean_independent"
	default:
		return "unknown"
	}
}

// ParseStrategy resolves a configuration name. "euclidean" is accepted as
// an alias for the dependent evaluator.
func ParseStrategy(name string) (Strategy, error) {
	switch canonical(name) {
	case "euclidean", "euclideandependent":
		return EuclideanDependent, nil
	case "euclideanindependent":
		return EuclideanIndependent, nil
	default:
		return 0, fmt.Errorf("unknown distance strategy %q: %w", name, errdefs.ErrInvalidConfiguration)
	}
}

func canonical(name string) string {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(r.Replace(name))
}

// Evaluator computes shapelet-to-series distances. Implementations hold no
// mutable state and are safe for concurrent use.
type Evaluator interface {
	Strategy() Strategy
	// Distance returns the best-alignment distance of s against x.
	Distance(s *shapelet.Shapelet, x *series.Series) (float64, error)
	// Align slides the already normalised pattern rows over the raw target
	// rows. Row i of pattern is compared with row i of target.
	Align(pattern, target [][]float64) (float64, error)
}

// New returns the evaluator for strategy.
func New(strategy Strategy) (Evaluator, error) {
	switch strategy {
	case EuclideanDependent:
		return dependent{}, nil
	case EuclideanIndependent:
		return independent{}, nil
	default:
		return nil, fmt.Errorf("unknown distance strategy %d: %w", strategy, errdefs.ErrInvalidConfiguration)
	}
}

type dependent struct{}

func (dependent) Strategy() Strategy { return EuclideanDependent }

func (d dependent) Distance(s *shapelet.Shapelet, x *series.Series) (float64, error) {
	target, err := targetRows(s, x)
	if err != nil {
		return 0, err
	}
	return d.Align(s.Normalized(), target)
}

func (dependent) Align(pattern, target [][]float64) (float64, error) {
	if err := checkShapes(pattern, target); err != nil {
		return 0, err
	}
	best := bestAlignment(pattern, target)
	return normalise(best, len(pattern[0]), len(pattern)), nil
}

type independent struct{}

func (independent) Strategy() Strategy { return EuclideanIndependent }

func (d independent) Distance(s *shapelet.Shapelet, x *series.Series) (float64, error) {
	target, err := targetRows(s, x)
	if err != nil {
		return 0, err
	}
	return d.Align(s.Normalized(), target)
}

func (independent) Align(pattern, target [][]float64) (float64, error) {
	if err := checkShapes(pattern, target); err != nil {
		return 0, err
	}
	var total float64
	for c := range pattern {
		total += bestAlignment(pattern[c:c+1], target[c:c+1])
	}
	return normalise(total, len(pattern[0]), len(pattern)), nil
}

// Between returns the source-to-source distance of two shapelets: the shorter
// one is slid over the raw values of the longer one. Shapelets spanning
// different channel sets never overlap and are infinitely far apart.
func Between(ev Evaluator, a, b *shapelet.Shapelet) (float64, error) {
	if !a.SameChannels(b) {
		return math.Inf(1), nil
	}
	if a.Length > b.Length {
		a, b = b, a
	}
	return ev.Align(a.Normalized(), b.Values())
}

func targetRows(s *shapelet.Shapelet, x *series.Series) ([][]float64, error) {
	if x.Len() < s.Length {
		return nil, fmt.Errorf("series of length %d is shorter than shapelet of length %d: %w",
			x.Len(), s.Length, errdefs.ErrInvalidInput)
	}
	rows := make([][]float64, len(s.Channels))
	for i, c := range s.Channels {
		if c < 0 || c >= x.NumChannels() {
			return nil, fmt.Errorf("shapelet channel %d outside series with %d channels: %w",
				c, x.NumChannels(), errdefs.ErrInvalidInput)
		}
		rows[i] = x.Channel(c)
	}
	return rows, nil
}

func checkShapes(pattern, target [][]float64) error {
	if len(pattern) == 0 || len(pattern) != len(target) {
		return fmt.Errorf("pattern spans %d channels, target %d: %w", len(pattern), len(target), errdefs.ErrInvalidInput)
	}
	l := len(pattern[0])
	if l == 0 {
		return fmt.Errorf("empty pattern: %w", errdefs.ErrInvalidInput)
	}
	n := len(target[0])
	for c := range pattern {
		if len(pattern[c]) != l || len(target[c]) != n {
			return fmt.Errorf("ragged rows in channel %d: %w", c, errdefs.ErrInvalidInput)
		}
	}
	if n < l {
		return fmt.Errorf("target of length %d is shorter than pattern of length %d: %w", n, l, errdefs.ErrInvalidInput)
	}
	return nil
}

func normalise(sse float64, length, channels int) float64 {
	return math.Sqrt(sse / float64(length*channels))
}
