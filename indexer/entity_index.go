package indexer

import (
	"slices"

	"github.com/notargets/PlyIndex/utils"
)

// EntityIndex maps an entity id to its rank in a scoping. The mapping array
// has length max(id)+1 and holds -1 for ids the scoping does not contain.
type EntityIndex struct {
	mapping []int
	n       int
}

// MaxEntityID bounds the ids of a scoping; the mapping is dense up to the
// largest id
const MaxEntityID = 1 << 28

// NewEntityIndex builds the id -> rank mapping for a scoping. Ids must be
// non-negative and unique.
func NewEntityIndex(ids []int) (*EntityIndex, error) {
	if len(ids) == 0 {
		return &EntityIndex{mapping: []int{}}, nil
	}

	maxID := -1
	for _, id := range ids {
		if id < 0 {
			return nil, utils.NewDataInconsistency(id, "scoping", "negative entity id")
		}
		if id > MaxEntityID {
			return nil, utils.NewDataInconsistency(id, "scoping", "entity id above %d", MaxEntityID)
		}
		if id > maxID {
			maxID = id
		}
	}

	mapping := make([]int, maxID+1)
	for i := range mapping {
		mapping[i] = -1
	}
	for rank, id := range ids {
		if mapping[id] != -1 {
			return nil, utils.NewDataInconsistency(id, "scoping",
				"duplicate entity id at positions %d and %d", mapping[id], rank)
		}
		mapping[id] = rank
	}

	return &EntityIndex{mapping: mapping, n: len(ids)}, nil
}

// Position returns the rank of id in the scoping
func (ei *EntityIndex) Position(id int) (int, bool) {
	if id < 0 || id >= len(ei.mapping) {
		return -1, false
	}
	pos := ei.mapping[id]
	return pos, pos >= 0
}

// MaxID is the largest id tracked by the mapping, -1 for an empty scoping
func (ei *EntityIndex) MaxID() int { return len(ei.mapping) - 1 }

// Len is the number of ids in the scoping
func (ei *EntityIndex) Len() int { return ei.n }

// Mapping returns a copy of the id -> rank array
func (ei *EntityIndex) Mapping() []int { return slices.Clone(ei.mapping) }
