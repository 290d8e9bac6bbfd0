// Package selection computes the positions inside an element's flat layered
// result record that belong to a subset of layers, corner nodes and spots.
//
// A layered record is stored layer by layer, bottom to top. Within a layer
// each spot holds one value per corner node:
//
//	flat = layer*(NCornerNodes*NSpots) + spot*NCornerNodes + node
package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/notargets/PlyIndex/element"
	"github.com/notargets/PlyIndex/utils"
)

// ErrPlyNotInElement is returned when an analysis ply does not cover the
// element being selected from
var ErrPlyNotInElement = errors.New("analysis ply is not part of element")

// Filter restricts a selection. A nil subset selects the full range of its
// dimension, an empty non-nil subset selects nothing. Subsets are enumerated
// in the order given.
type Filter struct {
	Layers []int
	Nodes  []int // Corner node indices within a spot plane
	Spots  []int // Spot indices in solver storage order, see SpotsOf
}

// SelectedIndices returns the flat indices of all (layer, spot, node)
// combinations of the filter, layer outermost and node innermost. It fails
// with an UnsupportedOperation error for non-layered layouts and for layouts
// without spots, and with an IndexOutOfRange error for any index outside its
// dimension.
func SelectedIndices(layout element.Layout, f Filter) ([]int, error) {
	if isEmpty(f.Layers) || isEmpty(f.Nodes) || isEmpty(f.Spots) {
		return []int{}, nil
	}
	if !layout.IsLayered {
		return nil, &utils.UnsupportedOperationError{
			Op:     "SelectedIndices",
			Detail: fmt.Sprintf("element %d is not layered", layout.ID),
		}
	}
	if layout.NSpots == 0 {
		// Only the bottom of the bottom layer and the top of the top layer
		// were written
		return nil, &utils.UnsupportedOperationError{
			Op:     "SelectedIndices",
			Detail: fmt.Sprintf("element %d has no spots", layout.ID),
		}
	}

	layers := orRange(f.Layers, layout.NLayers)
	nodes := orRange(f.Nodes, layout.NodesPerSpotPlane)
	spots := orRange(f.Spots, layout.NSpots)
	if err := checkRange(utils.Layer, layers, layout.NLayers); err != nil {
		return nil, err
	}
	if err := checkRange(utils.Node, nodes, layout.NodesPerSpotPlane); err != nil {
		return nil, err
	}
	if err := checkRange(utils.Spot, spots, layout.NSpots); err != nil {
		return nil, err
	}

	var (
		spotStride  = layout.NCornerNodes
		layerStride = layout.NCornerNodes * layout.NSpots
		indices     = make([]int, 0, len(layers)*len(spots)*len(nodes))
	)
	for _, layer := range layers {
		for _, spot := range spots {
			start := layer*layerStride + spot*spotStride
			for _, node := range nodes {
				indices = append(indices, start+node)
			}
		}
	}
	return indices, nil
}

// SelectByMaterial selects every node and spot of the layers whose material
// is one of materialIDs. No matching layer gives an empty selection; a
// non-layered layout is an UnsupportedOperation error either way.
func SelectByMaterial(layout element.Layout, materialIDs []int64) ([]int, error) {
	if !layout.IsLayered {
		return nil, &utils.UnsupportedOperationError{
			Op:     "SelectByMaterial",
			Detail: fmt.Sprintf("element %d is not layered", layout.ID),
		}
	}
	layers := make([]int, 0, layout.NumMaterials())
	for layer, id := range layout.MaterialIDs() {
		if slices.Contains(materialIDs, id) {
			layers = append(layers, layer)
		}
	}
	return SelectedIndices(layout, Filter{Layers: layers})
}

// AnalysisPlyLookup gives the layer an analysis ply occupies in each element
// it covers
type AnalysisPlyLookup interface {
	Name() string
	LayerIndex(elementID int) (int, bool)
}

// SelectByAnalysisPly selects every node and spot of the layer the ply
// occupies in the element
func SelectByAnalysisPly(ply AnalysisPlyLookup, layout element.Layout) ([]int, error) {
	layer, ok := ply.LayerIndex(layout.ID)
	if !ok {
		return nil, fmt.Errorf("%w: ply %q, element %d", ErrPlyNotInElement, ply.Name(), layout.ID)
	}
	return SelectedIndices(layout, Filter{Layers: []int{layer}})
}

func isEmpty(subset []int) bool { return subset != nil && len(subset) == 0 }

func orRange(subset []int, n int) []int {
	if subset != nil {
		return subset
	}
	all := make([]int, max(n, 0))
	for i := range all {
		all[i] = i
	}
	return all
}

func checkRange(dim utils.Dimension, indices []int, limit int) error {
	for _, i := range indices {
		if i < 0 || i >= limit {
			return &utils.IndexOutOfRangeError{Dimension: dim, Index: i, Limit: limit}
		}
	}
	return nil
}
