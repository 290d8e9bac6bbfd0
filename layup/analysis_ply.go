// Package layup gives access to the lay-up definition of layered elements:
// the layers analysis plies occupy and the per-layer lay-up properties.
package layup

import (
	"slices"

	"go.uber.org/zap"

	"github.com/notargets/PlyIndex/element"
	"github.com/notargets/PlyIndex/indexer"
	"github.com/notargets/PlyIndex/utils"
)

// AnalysisPlyProvider resolves the layer an analysis ply occupies in each of
// its elements
type AnalysisPlyProvider struct {
	name     string
	layers   indexer.ValueIndexer[int64]
	elements []int
}

// NewAnalysisPlyProvider indexes the ply's field: scoped on the elements the
// ply covers, holding the ply's layer index in each
func NewAnalysisPlyProvider(name string, f indexer.Field[int64]) (*AnalysisPlyProvider, error) {
	layers, err := indexer.NewCheckedValueIndexer(f)
	if err != nil {
		return nil, err
	}
	return &AnalysisPlyProvider{
		name:     name,
		layers:   layers,
		elements: slices.Clone(f.Scoping),
	}, nil
}

func (ap *AnalysisPlyProvider) Name() string { return ap.name }

// LayerIndex returns the layer of the ply in an element, ok is false if the
// ply does not cover the element
func (ap *AnalysisPlyProvider) LayerIndex(elementID int) (int, bool) {
	layer, ok := ap.layers.ByID(elementID)
	return int(layer), ok
}

// ElementIDs lists the elements covered by the ply
func (ap *AnalysisPlyProvider) ElementIDs() []int { return slices.Clone(ap.elements) }

// MaterialByAnalysisPly maps each ply name to its material, read from the
// layout of the first element of the ply that is in the mesh and supported.
// Plies whose elements were all removed from the mesh are left out.
func MaterialByAnalysisPly(provider *element.Provider, plies []*AnalysisPlyProvider,
	meshElementIDs []int, log *zap.Logger) (map[string]int64, error) {
	if log == nil {
		log = zap.NewNop()
	}
	inMesh := make(map[int]bool, len(meshElementIDs))
	for _, id := range meshElementIDs {
		inMesh[id] = true
	}

	materials := make(map[string]int64, len(plies))
	for _, ply := range plies {
		found := false
		for _, id := range ply.elements {
			if !inMesh[id] {
				continue
			}
			layout, ok, err := provider.Layout(id)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			layer, _ := ply.LayerIndex(id)
			material, ok := layout.MaterialID(layer)
			if !ok {
				return nil, utils.NewDataInconsistency(id, "analysis_ply",
					"ply %q in layer %d of an element with %d layers", ply.name, layer, layout.NLayers)
			}
			materials[ply.name] = material
			found = true
			break
		}
		if !found {
			log.Debug("analysis ply has no element in the mesh", zap.String("ply", ply.name))
		}
	}
	return materials, nil
}
