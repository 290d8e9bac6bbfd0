package element

import (
	"fmt"
	"slices"
	"strings"

	"github.com/notargets/PlyIndex/utils"
)

// Layout describes how an element's flat result record is organized:
// layers (bottom to top), spots per layer and corner nodes per spot.
// A Layout is a value; MaterialIDs is never shared with the caller.
type Layout struct {
	ID           int
	NLayers      int // 1 for non-layered elements
	NCornerNodes int // Corner nodes, without midside nodes
	NSpots       int // Through-thickness output points per layer
	IsLayered    bool
	IsShell      bool
	ElementType  int64 // Solver element type, e.g. 181 for a 4-node layered shell

	// NodesPerSpotPlane is NCornerNodes for shells and NCornerNodes/2 for
	// layered solids: a solid writes one plane per spot and the bottom plane of
	// a layer shares its nodes with the top plane of the layer below. -1 for
	// non-layered elements.
	NodesPerSpotPlane int

	materialIDs []int64 // Bottom to top, one per layer
}

// WithMaterials returns a copy of l with the given per-layer material ids
func (l Layout) WithMaterials(ids ...int64) Layout {
	l.materialIDs = slices.Clone(ids)
	return l
}

// MaterialIDs returns a copy of the per-layer material ids
func (l Layout) MaterialIDs() []int64 {
	return slices.Clone(l.materialIDs)
}

// MaterialID returns the material of a layer
func (l Layout) MaterialID(layer int) (int64, bool) {
	if layer < 0 || layer >= len(l.materialIDs) {
		return 0, false
	}
	return l.materialIDs[layer], true
}

// NumMaterials is the number of material ids carried by the layout
func (l Layout) NumMaterials() int { return len(l.materialIDs) }

// RecordLength is the number of entries per component in the element's
// layered result record
func (l Layout) RecordLength() int {
	return l.NLayers * l.NSpots * l.NCornerNodes
}

// Validate checks the structural invariants of the layout
func (l Layout) Validate() error {
	switch {
	case l.NLayers < 1:
		return utils.NewDataInconsistency(l.ID, "layout", "%d layers", l.NLayers)
	case l.NSpots < 0:
		return utils.NewDataInconsistency(l.ID, "layout", "%d spots", l.NSpots)
	case !l.IsLayered && (l.NLayers != 1 || l.NodesPerSpotPlane != -1):
		return utils.NewDataInconsistency(l.ID, "layout",
			"non-layered element with %d layers and %d nodes per spot plane", l.NLayers, l.NodesPerSpotPlane)
	case l.IsLayered && len(l.materialIDs) != l.NLayers:
		return utils.NewDataInconsistency(l.ID, "layout",
			"%d material ids for %d layers", len(l.materialIDs), l.NLayers)
	}
	return nil
}

func (l Layout) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Layout{ID: %d, Type: %d, Layers: %d, Spots: %d, CornerNodes: %d",
		l.ID, l.ElementType, l.NLayers, l.NSpots, l.NCornerNodes)
	fmt.Fprintf(&sb, ", Layered: %t, Shell: %t, NodesPerSpotPlane: %d, Materials: %v}",
		l.IsLayered, l.IsShell, l.NodesPerSpotPlane, l.materialIDs)
	return sb.String()
}
