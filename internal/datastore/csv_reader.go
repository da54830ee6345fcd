package datastore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/your-org/shapelet-transform/internal/errdefs"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/pkg/logger"
)

// csvFixedColumns is the number of leading columns before the samples.
const csvFixedColumns = 3

// LoadDatasetFromCSV reads a labeled multivariate dataset from a wide CSV file.
// The file must have a header and the following columns:
// series, label, channel, v0, v1, ...
// Every row holds one channel of one series. Rows of a series must be
// contiguous and list channels 0..c-1 in order. Series may differ in length;
// shorter rows leave their trailing cells empty.
func LoadDatasetFromCSV(ctx context.Context, filePath string) (*series.Dataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	ds, err := ReadDatasetCSV(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	logger.Infof("Loaded %d series (%d classes, %d channels) from %s", ds.Len(), ds.NumClasses(), ds.NumChannels(), filePath)
	return ds, nil
}

// ReadDatasetCSV parses the wide CSV format described at LoadDatasetFromCSV.
func ReadDatasetCSV(ctx context.Context, r io.Reader) (*series.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	// Read the header row
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv is empty: %w", errdefs.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) < csvFixedColumns+1 || !strings.EqualFold(strings.TrimSpace(header[0]), "series") {
		return nil, fmt.Errorf("csv header must start with series,label,channel,v0: %w", errdefs.ErrInvalidInput)
	}

	var (
		items    []*series.Series
		seen     = make(map[string]struct{})
		curID    string
		curLabel string
		channels [][]float64
	)
	flush := func() error {
		if channels == nil {
			return nil
		}
		s, err := series.New(curLabel, channels)
		if err != nil {
			return fmt.Errorf("series %q: %w", curID, err)
		}
		items = append(items, s)
		channels = nil
		return nil
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		if len(record) < csvFixedColumns+1 {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d: %w",
				line, csvFixedColumns+1, len(record), errdefs.ErrInvalidInput)
		}

		id := strings.TrimSpace(record[0])
		label := strings.TrimSpace(record[1])
		channel, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: channel %q: %w", line, record[2], errdefs.ErrInvalidInput)
		}

		if id != curID || channels == nil {
			if err := flush(); err != nil {
				return nil, err
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("line %d: rows of series %q are not contiguous: %w", line, id, errdefs.ErrInvalidInput)
			}
			seen[id] = struct{}{}
			curID, curLabel = id, label
		}
		if label != curLabel {
			return nil, fmt.Errorf("line %d: series %q has labels %q and %q: %w", line, id, curLabel, label, errdefs.ErrInvalidInput)
		}
		if channel != len(channels) {
			return nil, fmt.Errorf("line %d: series %q expected channel %d, got %d: %w",
				line, id, len(channels), channel, errdefs.ErrInvalidInput)
		}

		values, err := parseSamples(record[csvFixedColumns:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		channels = append(channels, values)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return series.NewDataset(items)
}

// parseSamples parses cells up to the first empty one. Cells after an empty
// cell must be empty too.
func parseSamples(cells []string) ([]float64, error) {
	values := make([]float64, 0, len(cells))
	ended := false
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			ended = true
			continue
		}
		if ended {
			return nil, fmt.Errorf("gap before sample v%d: %w", i, errdefs.ErrInvalidInput)
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("sample v%d %q: %w", i, cell, errdefs.ErrInvalidInput)
		}
		values = append(values, v)
	}
	return values, nil
}
