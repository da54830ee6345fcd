package datastore

import (
	"context"
	"sync"

	"github.com/your-org/shapelet-transform/internal/series"
)

// Source yields a dataset.
type Source interface {
	Load(ctx context.Context) (*series.Dataset, error)
}

// CSVSource loads a dataset from a wide CSV file.
type CSVSource struct {
	Path string
}

// Load implements Source.
func (s CSVSource) Load(ctx context.Context) (*series.Dataset, error) {
	return LoadDatasetFromCSV(ctx, s.Path)
}

// PostgresSource loads a named dataset through a Repository.
type PostgresSource struct {
	Repo *Repository
	Name string
}

// Load implements Source.
func (s PostgresSource) Load(ctx context.Context) (*series.Dataset, error) {
	return s.Repo.FetchDataset(ctx, s.Name)
}

// InMemSource is an in-memory Source for tests and demos.
type InMemSource struct {
	mu    sync.RWMutex
	items []*series.Series
}

// NewInMemSource creates a new InMemSource.
func NewInMemSource() *InMemSource {
	return &InMemSource{}
}

// Add appends a series built from label and channels.
func (s *InMemSource) Add(label string, channels [][]float64) error {
	item, err := series.New(label, channels)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

// Load implements Source. Each call returns a new Dataset over the series
// added so far.
func (s *InMemSource) Load(ctx context.Context) (*series.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return series.NewDataset(s.items)
}
