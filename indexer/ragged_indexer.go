package indexer

import (
	"fmt"

	"github.com/notargets/PlyIndex/utils"
)

// RaggedIndexer resolves an id to a variable-length record of a field stored
// with offsets
type RaggedIndexer[T Scalar] interface {
	// ByID returns the record's value when the record holds a single value
	ByID(id int) (T, bool, error)
	// ByIDAsArray returns the record's scalar components
	ByIDAsArray(id int) ([]T, bool)
	ComponentCount() int
}

type raggedData[T Scalar] struct {
	index   *EntityIndex
	data    []T
	offsets []int
	stride  int
}

func newRaggedData[T Scalar](f Field[T]) (raggedData[T], error) {
	offsets, err := f.closedOffsets()
	if err != nil {
		return raggedData[T]{}, err
	}
	index, err := NewEntityIndex(f.Scoping)
	if err != nil {
		return raggedData[T]{}, err
	}
	return raggedData[T]{
		index:   index,
		data:    f.Data,
		offsets: offsets,
		stride:  f.components(),
	}, nil
}

// record is capacity-limited so that appending to it never writes into the
// neighbouring record
func (rd *raggedData[T]) record(pos int) []T {
	start, end := rd.offsets[pos], rd.offsets[pos+1]
	return rd.data[start:end:end]
}

func (rd *raggedData[T]) ComponentCount() int { return rd.stride }

// singleValue reduces a record to one value.
// Some producers pad a single value with trailing zero components, so a
// record whose first entry is its only nonzero entry resolves to that entry.
// This cannot tell a padded value from a genuine multi-valued record whose
// trailing values happen to be zero; any other record is multi-valued.
func singleValue[T Scalar](id int, rec []T) (T, bool, error) {
	var zero T
	switch len(rec) {
	case 0:
		return zero, false, nil
	case 1:
		return rec[0], true, nil
	}
	multi := rec[0] == 0
	for _, v := range rec[1:] {
		multi = multi || v != 0
	}
	if multi {
		return zero, false, &utils.UnsupportedOperationError{
			Op:     "ByID",
			Detail: fmt.Sprintf("record of entity %d holds %d values", id, len(rec)),
		}
	}
	return rec[0], true, nil
}

// CheckedRaggedIndexer validates every id and reports misses with ok == false
type CheckedRaggedIndexer[T Scalar] struct {
	raggedData[T]
}

// NewCheckedRaggedIndexer builds a bounds-checked indexer over a ragged field
func NewCheckedRaggedIndexer[T Scalar](f Field[T]) (*CheckedRaggedIndexer[T], error) {
	rd, err := newRaggedData(f)
	if err != nil {
		return nil, err
	}
	return &CheckedRaggedIndexer[T]{raggedData: rd}, nil
}

func (ri *CheckedRaggedIndexer[T]) ByIDAsArray(id int) ([]T, bool) {
	pos, ok := ri.index.Position(id)
	if !ok {
		return nil, false
	}
	return ri.record(pos), true
}

func (ri *CheckedRaggedIndexer[T]) ByID(id int) (T, bool, error) {
	rec, ok := ri.ByIDAsArray(id)
	if !ok {
		var zero T
		return zero, false, nil
	}
	return singleValue(id, rec)
}

// UncheckedRaggedIndexer does not test ids against the tracked maximum; an
// id beyond it panics. Ids inside the mapping that the field does not hold
// still report ok == false, since ragged fields are sparse by nature.
type UncheckedRaggedIndexer[T Scalar] struct {
	mapping []int
	raggedData[T]
}

// NewUncheckedRaggedIndexer builds a ragged indexer without bounds checks
func NewUncheckedRaggedIndexer[T Scalar](f Field[T]) (*UncheckedRaggedIndexer[T], error) {
	rd, err := newRaggedData(f)
	if err != nil {
		return nil, err
	}
	return &UncheckedRaggedIndexer[T]{mapping: rd.index.mapping, raggedData: rd}, nil
}

func (ri *UncheckedRaggedIndexer[T]) ByIDAsArray(id int) ([]T, bool) {
	pos := ri.mapping[id]
	if pos < 0 {
		return nil, false
	}
	return ri.record(pos), true
}

func (ri *UncheckedRaggedIndexer[T]) ByID(id int) (T, bool, error) {
	rec, ok := ri.ByIDAsArray(id)
	if !ok {
		var zero T
		return zero, false, nil
	}
	return singleValue(id, rec)
}

// NewRaggedIndexer returns the checked or unchecked variant
func NewRaggedIndexer[T Scalar](f Field[T], checks BoundsChecks) (RaggedIndexer[T], error) {
	if checks {
		ri, err := NewCheckedRaggedIndexer(f)
		if err != nil {
			return nil, err
		}
		return ri, nil
	}
	ri, err := NewUncheckedRaggedIndexer(f)
	if err != nil {
		return nil, err
	}
	return ri, nil
}
