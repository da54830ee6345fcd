// Package quality scores how well a candidate's distances separate the
// classes of a dataset.
package quality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// Strategy names a quality measure.
type Strategy int

const (
	// GainRatio is the multi-class information gain ratio of the best split.
	GainRatio Strategy = iota
	// GainRatioBinary is GainRatio with the label reduced to "same class as
	// the candidate" versus everything else.
	GainRatioBinary
	// OrderlineSplit scores the best orderline split with an F statistic.
	OrderlineSplit
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case GainRatio:
		return "gain_ratio"
	case GainRatioBinary:
		return "gain_ratio_binary"
	case OrderlineSplit:
		return "orderline_split"
	default:
		return "unknown"
	}
}

// ParseStrategy resolves a configuration name.
func ParseStrategy(name string) (Strategy, error) {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	switch strings.ToLower(r.Replace(name)) {
	case "gainratio", "gainratiomulticlass":
		return GainRatio, nil
	case "binary", "gainratiobinary":
		return GainRatioBinary, nil
	case "orderline", "orderlinesplit", "orderlineaaron":
		return OrderlineSplit, nil
	default:
		return 0, fmt.Errorf("unknown quality strategy %q: %w", name, errdefs.ErrInvalidConfiguration)
	}
}

// Entry is one point of an orderline: the distance of the candidate to a
// series and that series' class index.
type Entry struct {
	Distance float64
	Class    int
}

// Evaluator scores candidates against the dataset it was built for.
// Implementations are safe for concurrent use.
type Evaluator interface {
	Strategy() Strategy
	// Score returns the informativeness of c; higher is better.
	Score(c *shapelet.Shapelet) (float64, error)
	// Orderline returns the (distance, class) pairs of c sorted by distance.
	Orderline(c *shapelet.Shapelet) ([]Entry, error)
}

// New binds strategy to ds and dist. The dataset must hold at least two
// classes.
func New(strategy Strategy, ds *series.Dataset, dist distance.Evaluator) (Evaluator, error) {
	if ds.NumClasses() < 2 {
		return nil, fmt.Errorf("quality needs at least 2 classes, dataset has %d: %w",
			ds.NumClasses(), errdefs.ErrInvalidConfiguration)
	}
	base := evaluator{ds: ds, dist: dist, strategy: strategy}

	switch strategy {
	case GainRatio, GainRatioBinary, OrderlineSplit:
		return &base, nil
	default:
		return nil, fmt.Errorf("unknown quality strategy %d: %w", strategy, errdefs.ErrInvalidConfiguration)
	}
}

type evaluator struct {
	ds       *series.Dataset
	dist     distance.Evaluator
	strategy Strategy
}

func (e *evaluator) Strategy() Strategy { return e.strategy }

func (e *evaluator) Orderline(c *shapelet.Shapelet) ([]Entry, error) {
	line := make([]Entry, e.ds.Len())
	for i := range line {
		d, err := e.dist.Distance(c, e.ds.At(i))
		if err != nil {
			return nil, fmt.Errorf("distance to series %d: %w", i, err)
		}
		line[i] = Entry{Distance: d, Class: e.ds.ClassIndex(i)}
	}
	sort.SliceStable(line, func(i, j int) bool { return line[i].Distance < line[j].Distance })
	return line, nil
}

func (e *evaluator) Score(c *shapelet.Shapelet) (float64, error) {
	line, err := e.Orderline(c)
	if err != nil {
		return 0, err
	}

	switch e.strategy {
	case GainRatio:
		return bestGainRatio(line, e.ds.NumClasses()), nil
	case GainRatioBinary:
		return bestGainRatio(binarize(line, c.ClassIndex), 2), nil
	default:
		return bestFStat(binarize(line, c.ClassIndex)), nil
	}
}

// binarize maps class indexes to 1 for target and 0 otherwise.
func binarize(line []Entry, target int) []Entry {
	out := make([]Entry, len(line))
	for i, en := range line {
		out[i].Distance = en.Distance
		if en.Class == target {
			out[i].Class = 1
		}
	}
	return out
}
