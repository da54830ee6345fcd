// Package csvwriter exports feature tables as CSV.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/your-org/shapelet-transform/internal/transform"
)

// Writer is a simple CSV writer.
type Writer struct {
	closer io.Closer
	writer *csv.Writer
	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter creates a new CSV writer.
func NewWriter(filePath string, logger *zap.Logger) (*Writer, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}
	w := New(file, logger)
	w.closer = file
	return w, nil
}

// New wraps out. Close does not close out.
func New(out io.Writer, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		writer: csv.NewWriter(out),
		logger: logger,
	}
}

// Write writes a record to the CSV file.
func (w *Writer) Write(record []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	return nil
}

// WriteFeatureTable writes a header row followed by one row per series.
// Distances are rounded to precision decimal places and the target column
// holds the class name.
func (w *Writer) WriteFeatureTable(table *transform.FeatureTable, precision int32) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Write(table.Columns()); err != nil {
		return fmt.Errorf("failed to write header to CSV: %w", err)
	}

	rows, cols := table.Dims()
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		row := table.Row(i)
		for j := 0; j < cols-1; j++ {
			if math.IsNaN(row[j]) || math.IsInf(row[j], 0) {
				return fmt.Errorf("row %d column %s holds non-finite value %v", i, table.Columns()[j], row[j])
			}
			record[j] = decimal.NewFromFloat(row[j]).StringFixed(precision)
		}
		record[cols-1] = table.Label(i)
		if err := w.writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d to CSV: %w", i, err)
		}
	}

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	w.logger.Info("Feature table written", zap.Int("rows", rows), zap.Int("columns", cols))
	return nil
}

// Flush flushes any buffered data to the underlying file.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer.Flush()
}

// Close flushes and closes the file opened by NewWriter.
func (w *Writer) Close() error {
	w.Flush()
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
