// Package indexer resolves entity ids to positions in sparse, flat arrays.
//
// A producer ships per-entity data as a Field: the scoping (the ids the field
// holds data for, in storage order), the flat scalar data and, for ragged
// fields, an offsets array in scalar-component units. The indexers are built
// once per materialized field and are immutable afterwards.
package indexer

import (
	"slices"

	"github.com/notargets/PlyIndex/utils"
)

// Scalar is the set of component types a Field can hold. Property fields
// (types, options, material ids) are int64, result fields are float64.
type Scalar interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// Field is a materialized per-entity array as delivered by the result store
type Field[T Scalar] struct {
	Scoping []int // Entity ids in storage order
	Data    []T   // Flat scalar components

	// Offsets locates each entity's record in Data, in scalar components.
	// Length len(Scoping)+1 with the last entry equal to len(Data). A producer
	// data pointer of length len(Scoping) is accepted and closed with len(Data).
	// Nil for single-valued fields.
	Offsets []int

	ComponentCount int // Stride per logical value; 0 is treated as 1
}

func (f Field[T]) components() int {
	if f.ComponentCount <= 0 {
		return 1
	}
	return f.ComponentCount
}

// closedOffsets returns the offsets array of length len(Scoping)+1, validated
// against Data
func (f Field[T]) closedOffsets() ([]int, error) {
	var offsets []int
	switch len(f.Offsets) {
	case len(f.Scoping) + 1:
		offsets = slices.Clone(f.Offsets)
	case len(f.Scoping):
		offsets = append(slices.Clone(f.Offsets), len(f.Data))
	default:
		return nil, utils.NewDataInconsistency(-1, "offsets",
			"length %d does not match scoping length %d", len(f.Offsets), len(f.Scoping))
	}
	if offsets[0] < 0 {
		return nil, utils.NewDataInconsistency(-1, "offsets", "negative first offset %d", offsets[0])
	}
	stride := f.components()
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, utils.NewDataInconsistency(-1, "offsets",
				"offsets decrease at position %d (%d < %d)", i, offsets[i], offsets[i-1])
		}
		if (offsets[i]-offsets[i-1])%stride != 0 {
			return nil, utils.NewDataInconsistency(f.Scoping[i-1], "offsets",
				"record length %d is not a multiple of %d components", offsets[i]-offsets[i-1], stride)
		}
	}
	if last := offsets[len(offsets)-1]; last != len(f.Data) {
		return nil, utils.NewDataInconsistency(-1, "offsets",
			"last offset %d does not match data length %d", last, len(f.Data))
	}
	return offsets, nil
}

// BoundsChecks selects between the checked and the unchecked indexer variants.
// The choice is made once, at construction.
type BoundsChecks bool

const (
	WithBoundsChecks BoundsChecks = true
	NoBoundsChecks   BoundsChecks = false
)
