package layup

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/notargets/PlyIndex/indexer"
	"github.com/notargets/PlyIndex/utils"
)

// PropertiesFields are the lay-up property fields of the layered elements.
// Per-layer fields are ragged, bottom layer first.
type PropertiesFields struct {
	Angles          indexer.Field[float64]
	Thicknesses     indexer.Field[float64]
	ShearAngles     indexer.Field[float64]
	LaminateOffsets indexer.Field[float64] // One value per element
	AnalysisPlies   indexer.Field[int64]   // Analysis ply index of each layer
}

// PropertiesConfig holds configuration for creating a PropertiesProvider
type PropertiesConfig struct {
	PlyNames map[int64]string // Analysis ply index -> name
	Checks   indexer.BoundsChecks
	Logger   *zap.Logger // Defaults to a no-op logger
}

// PropertiesProvider gives the per-layer lay-up properties of an element
type PropertiesProvider struct {
	angles      indexer.RaggedIndexer[float64]
	thicknesses indexer.RaggedIndexer[float64]
	shearAngles indexer.RaggedIndexer[float64]
	offsets     indexer.ValueIndexer[float64]
	plies       indexer.RaggedIndexer[int64]
	plyNames    map[int64]string
}

// NewPropertiesProvider indexes the fields. Every analysis ply index must have
// a name.
func NewPropertiesProvider(fields PropertiesFields, cfg PropertiesConfig) (*PropertiesProvider, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, index := range fields.AnalysisPlies.Data {
		if _, ok := cfg.PlyNames[index]; !ok {
			return nil, utils.NewDataInconsistency(-1, "layer_to_analysis_ply",
				"analysis ply index %d has no name", index)
		}
	}

	var (
		pp  = &PropertiesProvider{plyNames: maps.Clone(cfg.PlyNames)}
		err error
	)
	if pp.angles, err = indexer.NewRaggedIndexer(fields.Angles, cfg.Checks); err != nil {
		return nil, err
	}
	if pp.thicknesses, err = indexer.NewRaggedIndexer(fields.Thicknesses, cfg.Checks); err != nil {
		return nil, err
	}
	if pp.shearAngles, err = indexer.NewRaggedIndexer(fields.ShearAngles, cfg.Checks); err != nil {
		return nil, err
	}
	if pp.offsets, err = indexer.NewValueIndexer(fields.LaminateOffsets, cfg.Checks); err != nil {
		return nil, err
	}
	if pp.plies, err = indexer.NewRaggedIndexer(fields.AnalysisPlies, cfg.Checks); err != nil {
		return nil, err
	}
	log.Debug("lay-up properties indexed",
		zap.Int("layered_elements", len(fields.Angles.Scoping)),
		zap.Int("analysis_plies", len(pp.plyNames)))
	return pp, nil
}

// LayerAngles returns the ply angle of each layer in degrees
func (pp *PropertiesProvider) LayerAngles(elementID int) ([]float64, bool) {
	return pp.angles.ByIDAsArray(elementID)
}

func (pp *PropertiesProvider) LayerThicknesses(elementID int) ([]float64, bool) {
	return pp.thicknesses.ByIDAsArray(elementID)
}

// LayerShearAngles returns the draping shear angle of each layer
func (pp *PropertiesProvider) LayerShearAngles(elementID int) ([]float64, bool) {
	return pp.shearAngles.ByIDAsArray(elementID)
}

// LaminateOffset returns the offset of the laminate from the element's
// reference surface
func (pp *PropertiesProvider) LaminateOffset(elementID int) (float64, bool) {
	return pp.offsets.ByID(elementID)
}

// AnalysisPlies returns the analysis ply name of each layer
func (pp *PropertiesProvider) AnalysisPlies(elementID int) ([]string, bool) {
	indices, ok := pp.plies.ByIDAsArray(elementID)
	if !ok {
		return nil, false
	}
	names := make([]string, len(indices))
	for i, index := range indices {
		names[i] = pp.plyNames[index]
	}
	return names, true
}

// PlyNames lists all analysis ply names in ascending order
func (pp *PropertiesProvider) PlyNames() []string {
	return slices.Sorted(maps.Values(pp.plyNames))
}
