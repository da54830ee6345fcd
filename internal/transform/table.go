package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/your-org/shapelet-transform/internal/errdefs"
)

// TargetColumn is the name of the last column of a FeatureTable.
const TargetColumn = "target"

// FeatureTable is the transformed dataset: one row per series, one distance
// column per shapelet and a final target column holding the class index.
type FeatureTable struct {
	data    *mat.Dense
	columns []string
	classes []string
}

func newFeatureTable(rows, shapelets int, classes []string) *FeatureTable {
	columns := make([]string, shapelets+1)
	for i := 0; i < shapelets; i++ {
		columns[i] = fmt.Sprintf("shapelet_%d", i)
	}
	columns[shapelets] = TargetColumn
	return &FeatureTable{
		data:    mat.NewDense(rows, shapelets+1, nil),
		columns: columns,
		classes: append([]string(nil), classes...),
	}
}

// NewFeatureTable assembles a table from a distance matrix and the class
// index of each row. features is copied.
func NewFeatureTable(features mat.Matrix, targets []int, classes []string) (*FeatureTable, error) {
	rows, shapelets := features.Dims()
	if shapelets == 0 {
		return nil, fmt.Errorf("feature table needs at least one shapelet column: %w", errdefs.ErrInvalidConfiguration)
	}
	if len(targets) != rows {
		return nil, fmt.Errorf("%d targets for %d rows: %w", len(targets), rows, errdefs.ErrInvalidInput)
	}
	t := newFeatureTable(rows, shapelets, classes)
	t.data.Slice(0, rows, 0, shapelets).(*mat.Dense).Copy(features)
	for i, c := range targets {
		if c < 0 || c >= len(classes) {
			return nil, fmt.Errorf("row %d target %d outside %d classes: %w", i, c, len(classes), errdefs.ErrInvalidInput)
		}
		t.data.Set(i, shapelets, float64(c))
	}
	return t, nil
}

// Dims returns the number of rows and columns, target included.
func (t *FeatureTable) Dims() (rows, cols int) { return t.data.Dims() }

// Columns returns the column names.
func (t *FeatureTable) Columns() []string { return append([]string(nil), t.columns...) }

// Classes returns the class names indexed by the target column.
func (t *FeatureTable) Classes() []string { return append([]string(nil), t.classes...) }

// Matrix returns a read-only view of the whole table.
func (t *FeatureTable) Matrix() mat.Matrix { return t.data }

// Features returns a copy of the distance columns.
func (t *FeatureTable) Features() *mat.Dense {
	r, c := t.data.Dims()
	out := mat.NewDense(r, c-1, nil)
	out.Copy(t.data.Slice(0, r, 0, c-1))
	return out
}

// Targets returns the class index of every row.
func (t *FeatureTable) Targets() []int {
	r, c := t.data.Dims()
	out := make([]int, r)
	for i := range out {
		out[i] = int(t.data.At(i, c-1))
	}
	return out
}

// Row returns a copy of row i, target included.
func (t *FeatureTable) Row(i int) []float64 {
	return mat.Row(nil, i, t.data)
}

// Label returns the class name of row i.
func (t *FeatureTable) Label(i int) string {
	_, c := t.data.Dims()
	return t.classes[int(t.data.At(i, c-1))]
}
