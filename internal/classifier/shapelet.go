package classifier

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/your-org/shapelet-transform/internal/distance"
	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/search"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/internal/transform"
)

// ErrNotBuilt is returned when a ShapeletClassifier is used before Build.
var ErrNotBuilt = errors.New("classifier not built")

// Option configures a ShapeletClassifier.
type Option func(*ShapeletClassifier)

// WithTrainer replaces the default 1-NN trainer.
func WithTrainer(t Trainer) Option {
	return func(c *ShapeletClassifier) {
		if t != nil {
			c.trainer = t
		}
	}
}

// WithNormalize z-normalises series channels before the transform.
func WithNormalize(on bool) Option {
	return func(c *ShapeletClassifier) { c.normalize = on }
}

// WithWorkers bounds the transform fan-out.
func WithWorkers(n int) Option {
	return func(c *ShapeletClassifier) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger shared with the search and transform.
func WithLogger(l *zap.Logger) Option {
	return func(c *ShapeletClassifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShapeletClassifier はシェイプレット探索、変換、分類器の学習をまとめて行います。
type ShapeletClassifier struct {
	params    search.Params
	trainer   Trainer
	normalize bool
	workers   int
	logger    *zap.Logger

	result      *search.Result
	transformer *transform.Transformer
	model       Model
	classes     []string
}

// NewShapeletClassifier validates params and returns an unbuilt classifier.
func NewShapeletClassifier(params search.Params, opts ...Option) (*ShapeletClassifier, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	c := &ShapeletClassifier{
		params:  params,
		trainer: NearestNeighbor{K: 1},
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Build searches ds for shapelets, transforms ds with them and trains the
// downstream model on the resulting table. A search that retains no
// shapelet fails the build.
func (c *ShapeletClassifier) Build(ctx context.Context, ds *series.Dataset) error {
	searcher, err := search.New(c.params, c.logger)
	if err != nil {
		return err
	}
	res, err := searcher.Run(ctx, ds)
	if err != nil {
		return fmt.Errorf("shapelet search: %w", err)
	}
	if res.Warning != nil {
		c.logger.Warn("Building with a partial shapelet set", zap.Error(res.Warning))
	}
	if len(res.Shapelets) == 0 {
		return fmt.Errorf("search retained no shapelets after %d candidates: %w", res.Evaluated, errdefs.ErrResourceExhausted)
	}

	dist, err := distance.New(c.params.Distance)
	if err != nil {
		return err
	}
	tr, err := transform.New(res.Shapelets, dist,
		transform.WithNormalize(c.normalize),
		transform.WithWorkers(c.workers),
		transform.WithLogger(c.logger))
	if err != nil {
		return err
	}
	table, err := tr.Fit(ctx, ds)
	if err != nil {
		return fmt.Errorf("transform training set: %w", err)
	}
	model, err := c.trainer.Train(ctx, table)
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	c.result = res
	c.transformer = tr
	c.model = model
	c.classes = table.Classes()
	c.logger.Info("Shapelet classifier built",
		zap.String("run_id", res.RunID),
		zap.Int("shapelets", len(res.Shapelets)),
		zap.String("model_version", model.Version()))
	return nil
}

// Result returns the search result of the last Build, or nil.
func (c *ShapeletClassifier) Result() *search.Result { return c.result }

// Transformer returns the transformer of the last Build, or nil.
func (c *ShapeletClassifier) Transformer() *transform.Transformer { return c.transformer }

// Classes returns the class names known to the model.
func (c *ShapeletClassifier) Classes() []string { return append([]string(nil), c.classes...) }

// Distribution returns the class probabilities of s, aligned with Classes.
func (c *ShapeletClassifier) Distribution(s *series.Series) ([]float64, error) {
	if c.model == nil {
		return nil, ErrNotBuilt
	}
	x, err := c.transformer.TransformSeries(s)
	if err != nil {
		return nil, err
	}
	return c.model.PredictDistribution(x)
}

// Classify returns the predicted label of s.
func (c *ShapeletClassifier) Classify(s *series.Series) (string, error) {
	if c.model == nil {
		return "", ErrNotBuilt
	}
	x, err := c.transformer.TransformSeries(s)
	if err != nil {
		return "", err
	}
	idx, err := c.model.Predict(x)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(c.classes) {
		return "", fmt.Errorf("model predicted class %d of %d: %w", idx, len(c.classes), errdefs.ErrInvalidInput)
	}
	return c.classes[idx], nil
}

// Accuracy returns the share of ds classified with its own label.
func (c *ShapeletClassifier) Accuracy(ctx context.Context, ds *series.Dataset) (float64, error) {
	correct := 0
	for i := 0; i < ds.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		label, err := c.Classify(ds.At(i))
		if err != nil {
			return 0, fmt.Errorf("classify series %d: %w", i, err)
		}
		if label == ds.Label(i) {
			correct++
		}
	}
	return float64(correct) / float64(ds.Len()), nil
}
