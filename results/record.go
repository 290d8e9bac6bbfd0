// Package results slices element result records with index selections and
// reduces the selected values.
package results

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/PlyIndex/utils"
)

// Record is the flat result record of one element: one row of NComponents
// values per point
type Record struct {
	ElementID   int
	Data        []float64
	NComponents int
}

// NewRecord checks that data holds whole rows
func NewRecord(elementID int, data []float64, nComponents int) (Record, error) {
	if nComponents < 1 || len(data)%nComponents != 0 {
		return Record{}, utils.NewDataInconsistency(elementID, "results",
			"%d values do not form rows of %d components", len(data), nComponents)
	}
	return Record{ElementID: elementID, Data: data, NComponents: nComponents}, nil
}

// Points is the number of rows of the record
func (r Record) Points() int { return len(r.Data) / r.NComponents }

// Matrix returns the record as a points x components matrix sharing Data
func (r Record) Matrix() *mat.Dense {
	if r.Points() == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(r.Points(), r.NComponents, r.Data)
}

// Select gathers the rows at indices, see Extract
func (r Record) Select(indices []int) (*mat.Dense, error) {
	return Extract(r.Data, r.NComponents, indices)
}

// Extract gathers the rows of a flat record at the given point indices into a
// new len(indices) x nComponents matrix. No indices give an empty matrix.
func Extract(record []float64, nComponents int, indices []int) (*mat.Dense, error) {
	if nComponents < 1 || len(record)%nComponents != 0 {
		return nil, utils.NewDataInconsistency(-1, "results",
			"%d values do not form rows of %d components", len(record), nComponents)
	}
	if len(indices) == 0 {
		return &mat.Dense{}, nil
	}
	points := len(record) / nComponents
	m := mat.NewDense(len(indices), nComponents, nil)
	for row, idx := range indices {
		if idx < 0 || idx >= points {
			return nil, &utils.IndexOutOfRangeError{Dimension: utils.Point, Index: idx, Limit: points}
		}
		m.SetRow(row, record[idx*nComponents:(idx+1)*nComponents])
	}
	return m, nil
}

// Reduction combines the values of a selection into one
type Reduction uint8

const (
	Max Reduction = iota
	Min
	Avg
)

func (r Reduction) String() string {
	switch r {
	case Max:
		return "max"
	case Min:
		return "min"
	case Avg:
		return "avg"
	}
	return fmt.Sprintf("Reduction(%d)", uint8(r))
}

// Reduce applies r to values
func Reduce(values []float64, r Reduction) (float64, error) {
	if len(values) == 0 {
		return 0, &utils.UnsupportedOperationError{Op: "Reduce", Detail: fmt.Sprintf("%v of no values", r)}
	}
	switch r {
	case Max:
		return floats.Max(values), nil
	case Min:
		return floats.Min(values), nil
	case Avg:
		return stat.Mean(values, nil), nil
	}
	return 0, &utils.UnsupportedOperationError{Op: "Reduce", Detail: fmt.Sprintf("unknown reduction %v", r)}
}

// ReduceColumns reduces each column of m
func ReduceColumns(m *mat.Dense, r Reduction) ([]float64, error) {
	rows, cols := m.Dims()
	out := make([]float64, cols)
	col := make([]float64, rows)
	for j := range cols {
		v, err := Reduce(mat.Col(col, j, m), r)
		if err != nil {
			return nil, err
		}
		out[j] = v
	}
	return out, nil
}
