package search

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/quality"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// DefaultTimeBudget is applied when Params.TimeBudget is zero.
const DefaultTimeBudget = time.Hour

// Filter selects how candidates are enumerated.
type Filter int

const (
	// Exhaustive visits every (series, channel set, length, offset).
	Exhaustive Filter = iota
	// Random draws MaxIterations candidates uniformly.
	Random
	// RandomByClass draws MaxIterations candidates, cycling over classes so
	// each class contributes the same number of draws.
	RandomByClass
)

func (f Filter) String() string {
	switch f {
	case Exhaustive:
		return "exhaustive"
	case Random:
		return "random"
	case RandomByClass:
		return "random_by_class"
	default:
		return "unknown"
	}
}

// ParseFilter resolves a configuration name.
func ParseFilter(name string) (Filter, error) {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	switch strings.ToLower(r.Replace(name)) {
	case "exhaustive", "full":
		return Exhaustive, nil
	case "random":
		return Random, nil
	case "randombyclass", "classbalanced":
		return RandomByClass, nil
	default:
		return 0, fmt.Errorf("unknown search filter %q: %w", name, errdefs.ErrInvalidConfiguration)
	}
}

// Params configures one search run.
type Params struct {
	// K is the maximum number of shapelets to retain.
	K         int
	MinLength int
	MaxLength int
	// MaxIterations bounds the number of draws of the random filters.
	MaxIterations int
	// MinDist is the smallest source-to-source distance allowed between two
	// retained shapelets. Zero disables the diversity check.
	MinDist  float64
	Filter   Filter
	Quality  quality.Strategy
	Distance distance.Strategy
	Type     shapelet.Type
	// TimeBudget bounds the wall time of a run. Zero means DefaultTimeBudget.
	TimeBudget time.Duration
	Seed       int64
	// Workers is the number of concurrent scorers. Zero means GOMAXPROCS.
	Workers int
	// BatchSize is the number of candidates dispatched between deadline
	// checks. Zero means 4 per worker.
	BatchSize int
}

// DefaultParams returns the parameters used when a configuration omits them.
func DefaultParams() Params {
	return Params{
		K:             10,
		MinLength:     3,
		MaxLength:     10,
		MaxIterations: 1000,
		Filter:        Exhaustive,
		Quality:       quality.GainRatio,
		Distance:      distance.EuclideanDependent,
		Type:          shapelet.Dependent,
		TimeBudget:    DefaultTimeBudget,
	}
}

// Validate reports every problem with p at once. All errors wrap
// errdefs.ErrInvalidConfiguration.
func (p Params) Validate() error {
	var err error
	invalid := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf(format+": %w", append(args, errdefs.ErrInvalidConfiguration)...))
	}

	if p.K < 1 {
		invalid("k must be at least 1, got %d", p.K)
	}
	if p.MinLength < 1 {
		invalid("min length must be at least 1, got %d", p.MinLength)
	}
	if p.MinLength > p.MaxLength {
		invalid("min length %d exceeds max length %d", p.MinLength, p.MaxLength)
	}
	if p.MinDist < 0 {
		invalid("min dist must not be negative, got %g", p.MinDist)
	}
	if p.TimeBudget < 0 {
		invalid("time budget must not be negative, got %s", p.TimeBudget)
	}
	if p.Workers < 0 {
		invalid("workers must not be negative, got %d", p.Workers)
	}
	if p.BatchSize < 0 {
		invalid("batch size must not be negative, got %d", p.BatchSize)
	}
	switch p.Filter {
	case Exhaustive:
	case Random, RandomByClass:
		if p.MaxIterations < 1 {
			invalid("max iterations must be at least 1 for the %s filter, got %d", p.Filter, p.MaxIterations)
		}
	default:
		invalid("unknown search filter %d", p.Filter)
	}
	if p.Quality.String() == "unknown" {
		invalid("unknown quality strategy %d", p.Quality)
	}
	if p.Distance.String() == "unknown" {
		invalid("unknown distance strategy %d", p.Distance)
	}
	if p.Type.String() == "unknown" {
		invalid("unknown candidate type %d", p.Type)
	}

	return err
}

func (p Params) withDefaults() Params {
	if p.TimeBudget == 0 {
		p.TimeBudget = DefaultTimeBudget
	}
	if p.Workers == 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	if p.BatchSize == 0 {
		p.BatchSize = 4 * p.Workers
	}
	return p
}
