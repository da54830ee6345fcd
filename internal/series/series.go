// Package series holds the read-only view over a labeled multivariate
// time-series dataset.
package series

import (
	"fmt"
	"math"
	"sort"

	"github.com/your-org/shapelet-transform/internal/errdefs"
)

// Series is one labeled multivariate time series. All channels share the same
// length. A Series is immutable once built; accessors never hand out the
// backing arrays for writing.
type Series struct {
	channels [][]float64
	label    string
}

// New copies channels and returns a Series carrying label.
func New(label string, channels [][]float64) (*Series, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("series %q has no channels: %w", label, errdefs.ErrInvalidInput)
	}
	n := len(channels[0])
	if n == 0 {
		return nil, fmt.Errorf("series %q has empty channels: %w", label, errdefs.ErrInvalidInput)
	}

	cp := make([][]float64, len(channels))
	for c, ch := range channels {
		if len(ch) != n {
			return nil, fmt.Errorf("series %q channel %d has length %d, want %d: %w",
				label, c, len(ch), n, errdefs.ErrInvalidInput)
		}
		for i, v := range ch {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("series %q channel %d sample %d is %v: %w",
					label, c, i, v, errdefs.ErrInvalidInput)
			}
		}
		cp[c] = append([]float64(nil), ch...)
	}

	return &Series{channels: cp, label: label}, nil
}

// Label returns the class label of the series.
func (s *Series) Label() string { return s.label }

// NumChannels returns the number of channels.
func (s *Series) NumChannels() int { return len(s.channels) }

// Len returns the number of samples per channel.
func (s *Series) Len() int { return len(s.channels[0]) }

// Channel returns channel c. The slice must be treated as read-only.
func (s *Series) Channel(c int) []float64 { return s.channels[c] }

// Values returns a deep copy of every channel.
func (s *Series) Values() [][]float64 {
	out := make([][]float64, len(s.channels))
	for c, ch := range s.channels {
		out[c] = append([]float64(nil), ch...)
	}
	return out
}

// Dataset is an ordered, immutable collection of series plus the class
// metadata derived from it.
type Dataset struct {
	series     []*Series
	classes    []string
	classIndex map[string]int
	counts     []int
	indexes    []int
	minLen     int
	maxLen     int
	channels   int
}

// NewDataset builds a Dataset over items. Every series must have the same
// number of channels.
func NewDataset(items []*Series) (*Dataset, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("dataset is empty: %w", errdefs.ErrInvalidInput)
	}
	for i, s := range items {
		if s == nil {
			return nil, fmt.Errorf("series %d is nil: %w", i, errdefs.ErrInvalidInput)
		}
	}

	d := &Dataset{
		series:     append([]*Series(nil), items...),
		classIndex: make(map[string]int),
		minLen:     items[0].Len(),
		maxLen:     items[0].Len(),
		channels:   items[0].NumChannels(),
	}

	seen := make(map[string]struct{})
	for i, s := range items {
		if s.NumChannels() != d.channels {
			return nil, fmt.Errorf("series %d has %d channels, want %d: %w",
				i, s.NumChannels(), d.channels, errdefs.ErrInvalidInput)
		}
		if s.Len() < d.minLen {
			d.minLen = s.Len()
		}
		if s.Len() > d.maxLen {
			d.maxLen = s.Len()
		}
		if _, ok := seen[s.label]; !ok {
			seen[s.label] = struct{}{}
			d.classes = append(d.classes, s.label)
		}
	}

	sort.Strings(d.classes)
	d.counts = make([]int, len(d.classes))
	for i, c := range d.classes {
		d.classIndex[c] = i
	}

	d.indexes = make([]int, len(items))
	for i, s := range items {
		idx := d.classIndex[s.label]
		d.indexes[i] = idx
		d.counts[idx]++
	}

	return d, nil
}

// Len returns the number of series.
func (d *Dataset) Len() int { return len(d.series) }

// At returns series i.
func (d *Dataset) At(i int) *Series { return d.series[i] }

// Label returns the label of series i.
func (d *Dataset) Label(i int) string { return d.series[i].label }

// ClassIndex returns the position of series i's label in Classes().
func (d *Dataset) ClassIndex(i int) int { return d.indexes[i] }

// Classes returns the sorted distinct labels.
func (d *Dataset) Classes() []string { return append([]string(nil), d.classes...) }

// NumClasses returns the number of distinct labels.
func (d *Dataset) NumClasses() int { return len(d.classes) }

// IndexOf returns the class index of label and whether it is known.
func (d *Dataset) IndexOf(label string) (int, bool) {
	idx, ok := d.classIndex[label]
	return idx, ok
}

// ClassCounts returns the number of series per class, aligned with Classes().
func (d *Dataset) ClassCounts() []int { return append([]int(nil), d.counts...) }

// ClassMembers returns the series indexes of every class, aligned with
// Classes(). Members keep dataset order.
func (d *Dataset) ClassMembers() [][]int {
	out := make([][]int, len(d.classes))
	for i, idx := range d.indexes {
		out[idx] = append(out[idx], i)
	}
	return out
}

// MinLength returns the length of the shortest series.
func (d *Dataset) MinLength() int { return d.minLen }

// MaxLength returns the length of the longest series.
func (d *Dataset) MaxLength() int { return d.maxLen }

// NumChannels returns the channel count shared by every series.
func (d *Dataset) NumChannels() int { return d.channels }
