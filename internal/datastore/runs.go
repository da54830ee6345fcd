package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/your-org/shapelet-transform/internal/search"
)

// Execer は、*pgxpool.Poolが満たすべき書き込み用メソッドのインターフェースです。
// テストでモックを注入できます。
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RunRecorder は、探索結果の要約を search_runs テーブルに記録します。
type RunRecorder struct {
	db     Execer
	logger *zap.Logger
	now    func() time.Time
}

// NewRunRecorder は、新しいRunRecorderを生成します。
func NewRunRecorder(db Execer, logger *zap.Logger) *RunRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunRecorder{db: db, logger: logger, now: time.Now}
}

// Record は、1回の探索結果を挿入します。best_quality は保持数が0のときNULLです。
func (r *RunRecorder) Record(ctx context.Context, dataset string, res *search.Result) error {
	const query = `
		INSERT INTO search_runs (run_id, time, dataset, state, evaluated, retained, best_quality, elapsed_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var best decimal.NullDecimal
	if len(res.Shapelets) > 0 {
		best = decimal.NewNullDecimal(decimal.NewFromFloat(res.Shapelets[0].Quality))
	}
	_, err := r.db.Exec(ctx, query,
		res.RunID,
		r.now(),
		dataset,
		res.State.String(),
		res.Evaluated,
		len(res.Shapelets),
		best,
		res.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record search run %s: %w", res.RunID, err)
	}
	r.logger.Debug("Search run recorded", zap.String("run_id", res.RunID), zap.String("dataset", dataset))
	return nil
}
