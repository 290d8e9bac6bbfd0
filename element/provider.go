package element

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/notargets/PlyIndex/indexer"
	"github.com/notargets/PlyIndex/utils"
)

// Property names reported in data inconsistency errors
const (
	PropLayerCount     = "element_layer_indices"
	PropLayerMaterials = "element_layered_material_ids"
	PropSolverType     = "solver_element_type"
	PropShape          = "element_shape"
	PropOptionA        = "option_a"
	PropOptionB        = "option_b"
	PropSolverMaterial = "solver_material_id"
)

// Sources are the per-element metadata lookups a Provider reads from
type Sources struct {
	// LayerCounts holds [n_layers, layer indices...] for layered elements only
	LayerCounts    indexer.RaggedIndexer[int64]
	LayerMaterials indexer.RaggedIndexer[int64]

	SolverTypes indexer.ValueIndexer[int64] // Implicit family only
	Shapes      indexer.ValueIndexer[int64]

	// Option codes that select the spot count, implicit family only
	OptionA indexer.ValueIndexer[int64]
	OptionB indexer.ValueIndexer[int64]

	// SolverMaterials is the native material assignment, read for
	// non-layered elements when a MaterialTable is configured
	SolverMaterials indexer.ValueIndexer[int64]
}

// ProviderConfig holds configuration for creating a Provider
type ProviderConfig struct {
	Catalog   *Catalog       // Required
	Materials *MaterialTable // Optional; resolves materials of non-layered elements
	Logger    *zap.Logger    // Defaults to a no-op logger
	Metrics   *Metrics       // Optional
}

type cacheEntry struct {
	layout    Layout
	supported bool
}

// Provider derives the Layout of elements from their metadata and caches
// the result per id for its whole lifetime. A Provider is not safe for
// concurrent use.
type Provider struct {
	src       Sources
	catalog   *Catalog
	materials *MaterialTable
	log       *zap.Logger
	metrics   *Metrics
	cache     map[int]cacheEntry
}

// NewProvider creates a Provider over already materialized metadata
func NewProvider(src Sources, cfg ProviderConfig) (*Provider, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("provider config: catalog is required")
	}
	required := map[string]bool{
		PropLayerCount:     src.LayerCounts != nil,
		PropLayerMaterials: src.LayerMaterials != nil,
		PropShape:          src.Shapes != nil,
	}
	if cfg.Catalog.Family() == Implicit {
		required[PropSolverType] = src.SolverTypes != nil
		required[PropOptionA] = src.OptionA != nil
		required[PropOptionB] = src.OptionB != nil
	}
	if cfg.Materials != nil {
		required[PropSolverMaterial] = src.SolverMaterials != nil
	}
	var missing []string
	for name, ok := range required {
		if !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, utils.NewDataInconsistency(-1, "sources", "missing %v", missing)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		src:       src,
		catalog:   cfg.Catalog,
		materials: cfg.Materials,
		log:       log.With(zap.String("catalog", cfg.Catalog.Name())),
		metrics:   cfg.Metrics,
		cache:     make(map[int]cacheEntry),
	}, nil
}

// ElementFields are the raw metadata fields a Provider can be built from
type ElementFields struct {
	LayerCounts     indexer.Field[int64] // Ragged
	LayerMaterials  indexer.Field[int64] // Ragged
	SolverTypes     indexer.Field[int64]
	Shapes          indexer.Field[int64]
	OptionA         indexer.Field[int64]
	OptionB         indexer.Field[int64]
	SolverMaterials indexer.Field[int64]
}

// NewProviderFromFields builds the indexers over the fields and creates a
// Provider. The layer count indexer is always bounds checked: it only holds
// the layered elements.
func NewProviderFromFields(fields ElementFields, cfg ProviderConfig, checks indexer.BoundsChecks) (*Provider, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("provider config: catalog is required")
	}
	var (
		src Sources
		err error
	)
	if src.LayerCounts, err = indexer.NewRaggedIndexer(fields.LayerCounts, indexer.WithBoundsChecks); err != nil {
		return nil, wrapField(PropLayerCount, err)
	}
	if src.LayerMaterials, err = indexer.NewRaggedIndexer(fields.LayerMaterials, checks); err != nil {
		return nil, wrapField(PropLayerMaterials, err)
	}
	if src.Shapes, err = indexer.NewValueIndexer(fields.Shapes, checks); err != nil {
		return nil, wrapField(PropShape, err)
	}
	if cfg.Catalog.Family() == Implicit {
		if src.SolverTypes, err = indexer.NewValueIndexer(fields.SolverTypes, checks); err != nil {
			return nil, wrapField(PropSolverType, err)
		}
		if src.OptionA, err = indexer.NewValueIndexer(fields.OptionA, checks); err != nil {
			return nil, wrapField(PropOptionA, err)
		}
		if src.OptionB, err = indexer.NewValueIndexer(fields.OptionB, checks); err != nil {
			return nil, wrapField(PropOptionB, err)
		}
	}
	if cfg.Materials != nil {
		if src.SolverMaterials, err = indexer.NewValueIndexer(fields.SolverMaterials, checks); err != nil {
			return nil, wrapField(PropSolverMaterial, err)
		}
	}
	return NewProvider(src, cfg)
}

func wrapField(name string, err error) error {
	return fmt.Errorf("field %s: %w", name, err)
}

// Catalog returns the lookup tables the provider was built with
func (p *Provider) Catalog() *Catalog { return p.catalog }

// CacheLen is the number of element ids resolved so far
func (p *Provider) CacheLen() int { return len(p.cache) }

// Layout returns the layout of an element. ok is false, without error, when
// the element type is not supported. Missing or contradictory metadata for
// the element is a DataInconsistency error.
func (p *Provider) Layout(id int) (layout Layout, ok bool, err error) {
	if e, hit := p.cache[id]; hit {
		p.metrics.hit()
		return e.layout, e.supported, nil
	}
	p.metrics.miss()

	layout, ok, err = p.resolve(id)
	if err != nil {
		p.metrics.failed()
		p.log.Debug("layout resolution failed", zap.Int("element_id", id), zap.Error(err))
		return Layout{}, false, err
	}
	if !ok {
		p.metrics.unsupported()
		p.log.Debug("element type has no layout",
			zap.Int("element_id", id), zap.Int64("element_type", layout.ElementType))
		layout = Layout{}
	}
	p.cache[id] = cacheEntry{layout: layout, supported: ok}
	return layout, ok, nil
}

func (p *Provider) resolve(id int) (Layout, bool, error) {
	var (
		elementType int64
		shape       int64
		nSpots      int
		ok          bool
		err         error
	)
	switch p.catalog.Family() {
	case Explicit:
		if shape, ok = p.src.Shapes.ByID(id); !ok {
			return Layout{}, false, missingProperty(id, PropShape)
		}
		elementType = shape
		if !p.catalog.IsSupported(elementType) {
			return Layout{ID: id, ElementType: elementType}, false, nil
		}
		nSpots = p.catalog.ExplicitSpots()
	default:
		elementType, nSpots, err = p.implicitSpots(id)
		if err != nil || nSpots < 0 {
			return Layout{ID: id, ElementType: elementType}, false, err
		}
		if shape, ok = p.src.Shapes.ByID(id); !ok {
			return Layout{}, false, missingProperty(id, PropShape)
		}
	}

	layout := Layout{
		ID:                id,
		NLayers:           1,
		NSpots:            nSpots,
		ElementType:       elementType,
		NodesPerSpotPlane: -1,
	}

	if err = p.resolveLayers(id, &layout); err != nil {
		return Layout{}, false, err
	}

	layout.NCornerNodes, ok = p.catalog.CornerNodeCount(Shape(shape))
	if !ok {
		return Layout{}, false, utils.NewDataInconsistency(id, PropShape,
			"no corner node count for shape %v", Shape(shape))
	}
	layout.IsShell = p.catalog.IsShell(elementType)

	if layout.IsLayered {
		switch {
		case p.catalog.Family() == Explicit:
			// one value per spot plane
			layout.NodesPerSpotPlane = 1
		case layout.IsShell:
			layout.NodesPerSpotPlane = layout.NCornerNodes
		default:
			layout.NodesPerSpotPlane = layout.NCornerNodes / 2
		}
	}
	return layout, true, nil
}

// implicitSpots reads the solver type and option codes. It returns nSpots
// -1 for unsupported element types.
func (p *Provider) implicitSpots(id int) (elementType int64, nSpots int, err error) {
	optionA, okA := p.src.OptionA.ByID(id)
	optionB, okB := p.src.OptionB.ByID(id)
	elementType, okT := p.src.SolverTypes.ByID(id)
	switch {
	case !okT:
		return 0, -1, missingProperty(id, PropSolverType)
	case !okA:
		return 0, -1, missingProperty(id, PropOptionA)
	case !okB:
		return 0, -1, missingProperty(id, PropOptionB)
	}

	if !p.catalog.IsSupported(elementType) {
		return elementType, -1, nil
	}
	nSpots, ok := p.catalog.Spots(elementType, optionA, optionB)
	if !ok {
		return elementType, -1, utils.NewDataInconsistency(id, PropOptionA,
			"unsupported combination of element type %d with option a %d and option b %d",
			elementType, optionA, optionB)
	}
	return elementType, nSpots, nil
}

func (p *Provider) resolveLayers(id int, layout *Layout) error {
	layerData, layered := p.src.LayerCounts.ByIDAsArray(id)
	if layered {
		if len(layerData) == 0 || layerData[0] < 1 {
			return utils.NewDataInconsistency(id, PropLayerCount, "invalid layer record %v", layerData)
		}
		nLayers := int(layerData[0])
		if len(layerData) != 1 && len(layerData) != nLayers+1 {
			return utils.NewDataInconsistency(id, PropLayerCount,
				"layer record of length %d for %d layers", len(layerData), nLayers)
		}
		materials, ok := p.src.LayerMaterials.ByIDAsArray(id)
		if !ok {
			return missingProperty(id, PropLayerMaterials)
		}
		if len(materials) != nLayers {
			return utils.NewDataInconsistency(id, PropLayerMaterials,
				"%d material ids for %d layers", len(materials), nLayers)
		}
		layout.IsLayered = true
		layout.NLayers = nLayers
		layout.materialIDs = slices.Clone(materials)
		return nil
	}

	if p.materials == nil {
		return nil
	}
	// Solver material 0 means the element has no assignment
	solverMaterial, ok := p.src.SolverMaterials.ByID(id)
	if !ok || solverMaterial == 0 {
		return utils.NewDataInconsistency(id, PropSolverMaterial, "element has no material assignment")
	}
	normalized, ok := p.materials.Normalized(solverMaterial)
	if !ok {
		return utils.NewDataInconsistency(id, PropSolverMaterial,
			"solver material %d has no normalized id", solverMaterial)
	}
	layout.materialIDs = []int64{normalized}
	return nil
}

func missingProperty(id int, property string) error {
	return utils.NewDataInconsistency(id, property,
		"no value; the id is probably not part of the mesh")
}
