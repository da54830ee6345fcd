// Package transform turns a dataset into a feature table of shapelet
// distances.
package transform

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/shapelet"
)

// Option configures a Transformer.
type Option func(*Transformer)

// WithNormalize z-normalises every channel of a series before measuring
// distances.
func WithNormalize(on bool) Option {
	return func(t *Transformer) { t.normalize = on }
}

// WithWorkers bounds the number of series transformed concurrently.
func WithWorkers(n int) Option {
	return func(t *Transformer) {
		if n > 0 {
			t.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// Transformer maps series onto their distances to a fixed shapelet set.
type Transformer struct {
	shapelets []*shapelet.Shapelet
	dist      distance.Evaluator
	normalize bool
	workers   int
	logger    *zap.Logger
}

// New returns a Transformer over shapelets, in the given order.
func New(shapelets []*shapelet.Shapelet, dist distance.Evaluator, opts ...Option) (*Transformer, error) {
	if len(shapelets) == 0 {
		return nil, fmt.Errorf("transform needs at least one shapelet: %w", errdefs.ErrInvalidConfiguration)
	}
	if dist == nil {
		return nil, fmt.Errorf("transform needs a distance evaluator: %w", errdefs.ErrInvalidConfiguration)
	}

	t := &Transformer{
		shapelets: append([]*shapelet.Shapelet(nil), shapelets...),
		dist:      dist,
		workers:   runtime.GOMAXPROCS(0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// NumShapelets returns the number of feature columns.
func (t *Transformer) NumShapelets() int { return len(t.shapelets) }

// Shapelets returns the shapelets backing the feature columns.
func (t *Transformer) Shapelets() []*shapelet.Shapelet {
	return append([]*shapelet.Shapelet(nil), t.shapelets...)
}

// TransformSeries returns the distance of s to every shapelet.
func (t *Transformer) TransformSeries(s *series.Series) ([]float64, error) {
	if t.normalize {
		s = s.Normalized()
	}
	out := make([]float64, len(t.shapelets))
	for i, sh := range t.shapelets {
		d, err := t.dist.Distance(sh, s)
		if err != nil {
			return nil, fmt.Errorf("shapelet %d: %w", i, err)
		}
		out[i] = d
	}
	return out, nil
}

// Fit transforms every series of ds. Rows keep dataset order and the target
// column holds ds.ClassIndex.
func (t *Transformer) Fit(ctx context.Context, ds *series.Dataset) (*FeatureTable, error) {
	table := newFeatureTable(ds.Len(), len(t.shapelets), ds.Classes())
	k := len(t.shapelets)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for i := 0; i < ds.Len(); i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := t.TransformSeries(ds.At(i))
			if err != nil {
				return fmt.Errorf("series %d: %w", i, err)
			}
			// Rows are disjoint, so concurrent writes do not overlap.
			table.data.SetRow(i, append(row, float64(ds.ClassIndex(i))))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.logger.Debug("Dataset transformed",
		zap.Int("rows", ds.Len()),
		zap.Int("shapelets", k),
		zap.Bool("normalize", t.normalize))
	return table, nil
}
