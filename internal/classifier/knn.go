package classifier

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/transform"
)

// NearestNeighbor はk近傍法のTrainerです。
// Kが0の場合は1として扱います。
type NearestNeighbor struct {
	K int
}

// Train は特徴量テーブルを記憶したモデルを返します。
func (n NearestNeighbor) Train(ctx context.Context, table *transform.FeatureTable) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := n.K
	if k <= 0 {
		k = 1
	}
	rows, _ := table.Dims()
	if rows == 0 {
		return nil, fmt.Errorf("empty feature table: %w", errdefs.ErrInvalidInput)
	}
	if k > rows {
		k = rows
	}

	return &knnModel{
		version:  fmt.Sprintf("knn-%s", uuid.New().String()),
		k:        k,
		features: table.Features(),
		targets:  table.Targets(),
		classes:  len(table.Classes()),
	}, nil
}

type knnModel struct {
	version  string
	k        int
	features *mat.Dense
	targets  []int
	classes  int
}

func (m *knnModel) Version() string { return m.version }

func (m *knnModel) Predict(x []float64) (int, error) {
	dist, err := m.PredictDistribution(x)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(dist), nil
}

// PredictDistribution returns the share of the k nearest rows voting for
// each class. Equal distances are broken by row order.
func (m *knnModel) PredictDistribution(x []float64) ([]float64, error) {
	rows, cols := m.features.Dims()
	if len(x) != cols {
		return nil, fmt.Errorf("feature vector has %d values, model expects %d: %w", len(x), cols, errdefs.ErrInvalidInput)
	}

	order := make([]int, rows)
	dist := make([]float64, rows)
	for i := range order {
		order[i] = i
		dist[i] = floats.Distance(x, m.features.RawRowView(i), 2)
	}
	sort.SliceStable(order, func(a, b int) bool { return dist[order[a]] < dist[order[b]] })

	votes := make([]float64, m.classes)
	for _, i := range order[:m.k] {
		votes[m.targets[i]]++
	}
	floats.Scale(1/float64(m.k), votes)
	return votes, nil
}
