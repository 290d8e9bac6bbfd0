// Package builder assembles a Model, the lay-up view of one result set, from
// the raw metadata fields and a Config.
package builder

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/notargets/PlyIndex/element"
	"github.com/notargets/PlyIndex/indexer"
	"github.com/notargets/PlyIndex/layup"
	"github.com/notargets/PlyIndex/partitions"
	"github.com/notargets/PlyIndex/selection"
)

// Solver names accepted in Config.Solver
const (
	MAPDL  = "MAPDL"
	LSDyna = "LS-DYNA"
)

// Config holds configuration for creating a Model
type Config struct {
	Solver        string // Defaults to MAPDL
	CatalogYAML   []byte // Optional; replaces the solver's default tables
	BoundsChecks  indexer.BoundsChecks
	PartitionSize int                   // Elements per partition in Group, 0 for one partition
	Logger        *zap.Logger           // Defaults to a no-op logger
	Registerer    prometheus.Registerer // Optional; enables provider metrics
}

// Inputs are the materialized fields of one result set
type Inputs struct {
	Elements element.ElementFields

	// Materials is the normalized -> solver material field. Optional; without
	// it homogeneous elements carry no material.
	Materials *indexer.Field[int64]

	// Lay-up definition, optional
	Properties    *layup.PropertiesFields
	PlyNames      map[int64]string
	AnalysisPlies map[string]indexer.Field[int64] // Ply name -> layer index per element
}

// Model resolves layouts and lay-up data of the elements of one result set.
// A Model is not safe for concurrent use.
type Model struct {
	provider   *element.Provider
	properties *layup.PropertiesProvider
	plies      map[string]*layup.AnalysisPlyProvider
	partitions partitions.Builder
	log        *zap.Logger
}

// NewModel builds the indexers and providers over the inputs
func NewModel(in Inputs, cfg Config) (*Model, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	catalog, err := selectCatalog(cfg)
	if err != nil {
		return nil, err
	}

	pcfg := element.ProviderConfig{Catalog: catalog, Logger: log}
	if in.Materials != nil {
		if pcfg.Materials, err = element.NewMaterialTable(*in.Materials); err != nil {
			return nil, fmt.Errorf("material table: %w", err)
		}
	}
	if cfg.Registerer != nil {
		pcfg.Metrics = element.NewMetrics(cfg.Registerer)
	}
	provider, err := element.NewProviderFromFields(in.Elements, pcfg, cfg.BoundsChecks)
	if err != nil {
		return nil, err
	}

	m := &Model{
		provider: provider,
		plies:    make(map[string]*layup.AnalysisPlyProvider, len(in.AnalysisPlies)),
		partitions: partitions.Builder{
			Layouts:             provider,
			TargetPartitionSize: cfg.PartitionSize,
		},
		log: log,
	}
	if in.Properties != nil {
		m.properties, err = layup.NewPropertiesProvider(*in.Properties, layup.PropertiesConfig{
			PlyNames: in.PlyNames,
			Checks:   cfg.BoundsChecks,
			Logger:   log,
		})
		if err != nil {
			return nil, fmt.Errorf("lay-up properties: %w", err)
		}
	}
	for name, f := range in.AnalysisPlies {
		if m.plies[name], err = layup.NewAnalysisPlyProvider(name, f); err != nil {
			return nil, fmt.Errorf("analysis ply %q: %w", name, err)
		}
	}

	log.Info("model ready",
		zap.String("catalog", catalog.Name()),
		zap.Int("analysis_plies", len(m.plies)),
		zap.Bool("layup_properties", m.properties != nil))
	return m, nil
}

func selectCatalog(cfg Config) (*element.Catalog, error) {
	if len(cfg.CatalogYAML) > 0 {
		return element.LoadCatalog(bytes.NewReader(cfg.CatalogYAML))
	}
	switch strings.ToUpper(cfg.Solver) {
	case "", MAPDL:
		return element.DefaultMAPDLCatalog(), nil
	case LSDyna, "LSDYNA":
		return element.DefaultLSDynaCatalog(), nil
	}
	return nil, fmt.Errorf("unknown solver %q", cfg.Solver)
}

// Layout returns the layout of an element, see element.Provider.Layout
func (m *Model) Layout(id int) (element.Layout, bool, error) { return m.provider.Layout(id) }

// Provider exposes the layout provider
func (m *Model) Provider() *element.Provider { return m.provider }

// Properties returns the lay-up properties, nil if the inputs had none
func (m *Model) Properties() *layup.PropertiesProvider { return m.properties }

// AnalysisPlyNames lists the analysis plies in ascending order
func (m *Model) AnalysisPlyNames() []string {
	names := make([]string, 0, len(m.plies))
	for name := range m.plies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AnalysisPly returns the provider of a named ply
func (m *Model) AnalysisPly(name string) (*layup.AnalysisPlyProvider, bool) {
	ap, ok := m.plies[name]
	return ap, ok
}

// SelectByAnalysisPly selects the record indices of the ply in an element.
// ok is false if the element type has no layout.
func (m *Model) SelectByAnalysisPly(name string, elementID int) (indices []int, ok bool, err error) {
	ply, found := m.plies[name]
	if !found {
		return nil, false, fmt.Errorf("unknown analysis ply %q", name)
	}
	layout, ok, err := m.provider.Layout(elementID)
	if err != nil || !ok {
		return nil, ok, err
	}
	indices, err = selection.SelectByAnalysisPly(ply, layout)
	return indices, err == nil, err
}

// MaterialByAnalysisPly maps every analysis ply that has an element in the
// mesh to its material
func (m *Model) MaterialByAnalysisPly(meshElementIDs []int) (map[string]int64, error) {
	plies := make([]*layup.AnalysisPlyProvider, 0, len(m.plies))
	for _, name := range m.AnalysisPlyNames() {
		plies = append(plies, m.plies[name])
	}
	return layup.MaterialByAnalysisPly(m.provider, plies, meshElementIDs, m.log)
}

// Group decomposes a scope into partitions of elements with equal layout
// signatures
func (m *Model) Group(ids []int) (*partitions.ScopeLayout, error) {
	sl, err := m.partitions.Build(ids)
	if err != nil {
		return nil, err
	}
	if len(sl.Skipped) > 0 {
		m.log.Debug("elements without layout skipped", zap.Int("count", len(sl.Skipped)))
	}
	return sl, nil
}
