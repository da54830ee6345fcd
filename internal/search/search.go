// Package search drives shapelet discovery: it enumerates candidates,
// scores them against the dataset and keeps the best diverse set.
package search

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/quality"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// Result is the outcome of one search run.
type Result struct {
	RunID string
	// Shapelets are the retained shapelets, best first.
	Shapelets []*shapelet.Shapelet
	// State is the terminal state that ended the run.
	State     State
	Evaluated int
	Elapsed   time.Duration
	// Warning wraps errdefs.ErrResourceExhausted when the time budget ran
	// out before K shapelets were retained.
	Warning error
}

// Searcher runs shapelet searches with fixed parameters. Runs on one
// Searcher must not overlap.
type Searcher struct {
	params Params
	logger *zap.Logger
	state  atomic.Int32
}

// New validates params and returns a Searcher in the Idle state.
func New(params Params, logger *zap.Logger) (*Searcher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{params: params.withDefaults(), logger: logger}, nil
}

// Params returns the effective parameters, defaults applied.
func (s *Searcher) Params() Params { return s.params }

// State returns the current lifecycle state.
func (s *Searcher) State() State { return State(s.state.Load()) }

func (s *Searcher) setState(st State) { s.state.Store(int32(st)) }

// Run searches ds for shapelets.
//
// Candidates are generated serially, scored concurrently in batches and
// applied to the retained set in generation order, so a fixed Seed yields
// the same result for any worker count. The time budget is checked after
// every batch; when it expires the shapelets retained so far are returned
// with State TimeExpired. Cancelling ctx aborts the run with ctx.Err().
func (s *Searcher) Run(ctx context.Context, ds *series.Dataset) (*Result, error) {
	p := s.params
	if ds.MinLength() < p.MaxLength {
		return nil, fmt.Errorf("shortest series has length %d, max shapelet length is %d: %w",
			ds.MinLength(), p.MaxLength, errdefs.ErrInvalidInput)
	}

	dist, err := distance.New(p.Distance)
	if err != nil {
		return nil, err
	}
	scorer, err := quality.New(p.Quality, ds, dist)
	if err != nil {
		return nil, err
	}
	factory, err := shapelet.NewFactory(p.Type)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	logger.Info("Shapelet search started",
		zap.Stringer("filter", p.Filter),
		zap.Stringer("quality", p.Quality),
		zap.Stringer("distance", p.Distance),
		zap.Stringer("type", p.Type),
		zap.Int("k", p.K),
		zap.Int("series", ds.Len()),
		zap.Int("workers", p.Workers),
		zap.Duration("time_budget", p.TimeBudget))

	budget, cancel := context.WithTimeout(ctx, p.TimeBudget)
	defer cancel()

	s.setState(Searching)
	defer s.setState(Done)

	started := time.Now()
	gen := newGenerator(p, ds, factory, rand.New(rand.NewSource(p.Seed)))
	retained := newRetainedSet(p.K, p.MinDist, dist)
	batch := make([]*shapelet.Shapelet, 0, p.BatchSize)
	seq, evaluated := 0, 0
	final := Searching

	for final == Searching {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch = batch[:0]
		for len(batch) < p.BatchSize {
			w, ok := gen.next()
			if !ok {
				break
			}
			c, err := factory.New(ds, w.index, w.channels, w.start, w.length)
			if err != nil {
				return nil, fmt.Errorf("extract candidate: %w", err)
			}
			c.Seq = seq
			seq++
			batch = append(batch, c)
		}
		if len(batch) == 0 {
			final = gen.exhausted()
			break
		}

		if err := score(ctx, scorer, batch, p.Workers); err != nil {
			return nil, err
		}
		evaluated += len(batch)

		for _, c := range batch {
			accepted, evicted, err := retained.Offer(c)
			if err != nil {
				return nil, err
			}
			if accepted {
				logger.Debug("Shapelet retained",
					zap.Stringer("shapelet", c),
					zap.Int("evicted", len(evicted)),
					zap.Int("size", retained.Len()))
			}
		}

		if budget.Err() != nil && ctx.Err() == nil {
			final = TimeExpired
		}
	}

	res := &Result{
		RunID:     runID,
		Shapelets: retained.Sorted(),
		State:     final,
		Evaluated: evaluated,
		Elapsed:   time.Since(started),
	}
	s.setState(final)
	if final == TimeExpired && len(res.Shapelets) < p.K {
		res.Warning = fmt.Errorf("time budget %s expired with %d of %d shapelets retained: %w",
			p.TimeBudget, len(res.Shapelets), p.K, errdefs.ErrResourceExhausted)
		logger.Warn("Shapelet search ended short", zap.Error(res.Warning))
	}

	logger.Info("Shapelet search finished",
		zap.Stringer("state", final),
		zap.Int("evaluated", evaluated),
		zap.Int("kept", len(res.Shapelets)),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// score sets Quality on every candidate of batch using at most workers
// goroutines.
func score(ctx context.Context, scorer quality.Evaluator, batch []*shapelet.Shapelet, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, c := range batch {
		c := c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			q, err := scorer.Score(c)
			if err != nil {
				return fmt.Errorf("score %s: %w", c, err)
			}
			c.Quality = q
			return nil
		})
	}
	return g.Wait()
}
