package indexer

import (
	"github.com/notargets/PlyIndex/utils"
)

// ValueIndexer resolves an id to the single value a field holds for it
type ValueIndexer[T Scalar] interface {
	ByID(id int) (T, bool)
	ByIDAsArray(id int) ([]T, bool)
}

type valueData[T Scalar] struct {
	index  *EntityIndex
	data   []T
	stride int
}

func newValueData[T Scalar](f Field[T]) (valueData[T], error) {
	stride := f.components()
	if len(f.Data) != len(f.Scoping)*stride {
		return valueData[T]{}, utils.NewDataInconsistency(-1, "data",
			"length %d does not match %d ids with %d components", len(f.Data), len(f.Scoping), stride)
	}
	index, err := NewEntityIndex(f.Scoping)
	if err != nil {
		return valueData[T]{}, err
	}
	return valueData[T]{index: index, data: f.Data, stride: stride}, nil
}

// CheckedValueIndexer validates every id and reports misses with ok == false.
// For multi-component fields the first component is returned.
type CheckedValueIndexer[T Scalar] struct {
	valueData[T]
}

// NewCheckedValueIndexer builds a bounds-checked indexer over a single-valued field
func NewCheckedValueIndexer[T Scalar](f Field[T]) (*CheckedValueIndexer[T], error) {
	vd, err := newValueData(f)
	if err != nil {
		return nil, err
	}
	return &CheckedValueIndexer[T]{valueData: vd}, nil
}

func (vi *CheckedValueIndexer[T]) ByID(id int) (T, bool) {
	pos, ok := vi.index.Position(id)
	if !ok {
		var zero T
		return zero, false
	}
	return vi.data[pos*vi.stride], true
}

func (vi *CheckedValueIndexer[T]) ByIDAsArray(id int) ([]T, bool) {
	v, ok := vi.ByID(id)
	if !ok {
		return nil, false
	}
	return []T{v}, true
}

// UncheckedValueIndexer skips all id validation. The caller guarantees that
// every id is in the field's scoping; any other id panics or yields garbage.
type UncheckedValueIndexer[T Scalar] struct {
	mapping []int
	data    []T
	stride  int
}

// NewUncheckedValueIndexer builds an indexer without bounds checks
func NewUncheckedValueIndexer[T Scalar](f Field[T]) (*UncheckedValueIndexer[T], error) {
	vd, err := newValueData(f)
	if err != nil {
		return nil, err
	}
	return &UncheckedValueIndexer[T]{
		mapping: vd.index.mapping,
		data:    vd.data,
		stride:  vd.stride,
	}, nil
}

func (vi *UncheckedValueIndexer[T]) ByID(id int) (T, bool) {
	return vi.data[vi.mapping[id]*vi.stride], true
}

func (vi *UncheckedValueIndexer[T]) ByIDAsArray(id int) ([]T, bool) {
	return []T{vi.data[vi.mapping[id]*vi.stride]}, true
}

// NewValueIndexer returns the checked or unchecked variant
func NewValueIndexer[T Scalar](f Field[T], checks BoundsChecks) (ValueIndexer[T], error) {
	if checks {
		vi, err := NewCheckedValueIndexer(f)
		if err != nil {
			return nil, err
		}
		return vi, nil
	}
	vi, err := NewUncheckedValueIndexer(f)
	if err != nil {
		return nil, err
	}
	return vi, nil
}
