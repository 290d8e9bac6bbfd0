package element

import (
	"maps"

	"github.com/notargets/PlyIndex/indexer"
	"github.com/notargets/PlyIndex/utils"
)

// MaterialTable maps solver material ids to normalized material ids. It is
// used for homogeneous (non-layered) elements, whose material comes from
// the element's native material assignment.
type MaterialTable struct {
	normalized map[int64]int64
}

// NewMaterialTable builds the table from the producer's ragged field: the
// scoping holds normalized ids and each record lists the solver ids that map
// to it
func NewMaterialTable(f indexer.Field[int64]) (*MaterialTable, error) {
	ri, err := indexer.NewCheckedRaggedIndexer(f)
	if err != nil {
		return nil, err
	}
	mt := &MaterialTable{normalized: make(map[int64]int64)}
	for _, normalizedID := range f.Scoping {
		solverIDs, _ := ri.ByIDAsArray(normalizedID)
		for _, solverID := range solverIDs {
			if prev, dup := mt.normalized[solverID]; dup && prev != int64(normalizedID) {
				return nil, utils.NewDataInconsistency(normalizedID, "solver_material_ids",
					"solver material %d already maps to %d", solverID, prev)
			}
			mt.normalized[solverID] = int64(normalizedID)
		}
	}
	return mt, nil
}

// MaterialTableFromMap builds the table from a solver id -> normalized id map
func MaterialTableFromMap(m map[int64]int64) *MaterialTable {
	return &MaterialTable{normalized: maps.Clone(m)}
}

// Normalized returns the normalized id of a solver material
func (mt *MaterialTable) Normalized(solverID int64) (int64, bool) {
	id, ok := mt.normalized[solverID]
	return id, ok
}

func (mt *MaterialTable) Len() int { return len(mt.normalized) }
