// Package classifier connects the shapelet transform to a downstream
// classifier.
package classifier

import (
	"context"

	"github.com/your-org/shapelet-transform/internal/transform"
)

// Modelは学習済み分類器のインターフェースです。
type Model interface {
	// Predictは特徴ベクトルに対するクラスインデックスを返します。
	Predict(x []float64) (int, error)
	// PredictDistributionはクラスごとの確率を返します。
	PredictDistribution(x []float64) ([]float64, error)
	// Versionはモデルのバージョンを返します。
	Version() string
}

// Trainerは特徴量テーブルからModelを学習します。
type Trainer interface {
	Train(ctx context.Context, table *transform.FeatureTable) (Model, error)
}
