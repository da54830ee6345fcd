package datastore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/series"
)

const seriesTable = "series_channels"

var seriesColumns = []string{"dataset", "series_id", "label", "channel", "samples"}

// Pool is an interface that abstracts the pgxpool.Pool for testability.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Close()
}

// Repository reads and writes datasets in the series_channels table.
type Repository struct {
	db     Pool
	logger *zap.Logger
}

// NewRepository creates a new Repository.
func NewRepository(db Pool, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{db: db, logger: logger}
}

// FetchDataset loads every series stored under name, ordered by series id.
func (r *Repository) FetchDataset(ctx context.Context, name string) (*series.Dataset, error) {
	query := `
        SELECT series_id, label, channel, samples
        FROM series_channels
        WHERE dataset = $1
        ORDER BY series_id ASC, channel ASC;
    `
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset %q: %w", name, err)
	}
	defer rows.Close()

	var (
		items    []*series.Series
		curID    = -1
		curLabel string
		channels [][]float64
	)
	flush := func() error {
		if channels == nil {
			return nil
		}
		s, err := series.New(curLabel, channels)
		if err != nil {
			return fmt.Errorf("series %d: %w", curID, err)
		}
		items = append(items, s)
		channels = nil
		return nil
	}

	for rows.Next() {
		var (
			id, channel int
			label       string
			samples     []float64
		)
		if err := rows.Scan(&id, &label, &channel, &samples); err != nil {
			return nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		if id != curID {
			if err := flush(); err != nil {
				return nil, err
			}
			curID, curLabel = id, label
		}
		if channel != len(channels) {
			return nil, fmt.Errorf("series %d is missing channel %d: %w", id, len(channels), errdefs.ErrInvalidInput)
		}
		channels = append(channels, samples)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset %q: %w", name, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("dataset %q not found: %w", name, errdefs.ErrInvalidInput)
	}

	ds, err := series.NewDataset(items)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Dataset fetched", zap.String("dataset", name), zap.Int("series", ds.Len()))
	return ds, nil
}

// SaveDataset bulk-inserts ds under name. Series ids are dataset positions.
func (r *Repository) SaveDataset(ctx context.Context, name string, ds *series.Dataset) error {
	rows := make([][]any, 0, ds.Len()*ds.NumChannels())
	for i := 0; i < ds.Len(); i++ {
		s := ds.At(i)
		for c := 0; c < s.NumChannels(); c++ {
			rows = append(rows, []any{name, i, s.Label(), c, s.Channel(c)})
		}
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{seriesTable}, seriesColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy dataset %q: %w", name, err)
	}
	r.logger.Info("Dataset saved", zap.String("dataset", name), zap.Int64("rows", n))
	return nil
}
