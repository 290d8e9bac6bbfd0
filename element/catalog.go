package element

import (
	"embed"
	"fmt"
	"io"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFiles embed.FS

// Family selects how a solver encodes element structure
type Family string

const (
	// Implicit solvers (MAPDL) type elements by a solver code and store the
	// spot count in element options
	Implicit Family = "implicit"
	// Explicit solvers (LS-DYNA) type elements by generic shape and write a
	// fixed number of spots
	Explicit Family = "explicit"
)

// TypeCode is an element type in a catalog document, given either as an
// integer solver code or as a shape name
type TypeCode int64

func (tc *TypeCode) UnmarshalYAML(n *yaml.Node) error {
	var code int64
	if err := n.Decode(&code); err == nil {
		*tc = TypeCode(code)
		return nil
	}
	var name string
	if err := n.Decode(&name); err != nil {
		return err
	}
	s, err := ParseShape(name)
	if err != nil {
		return err
	}
	*tc = TypeCode(s)
	return nil
}

func (s *Shape) UnmarshalYAML(n *yaml.Node) error {
	var tc TypeCode
	if err := n.Decode(&tc); err != nil {
		return err
	}
	*s = Shape(tc)
	return nil
}

// SpotRule maps an element type and its option codes to a spot count. A nil
// option matches any value.
type SpotRule struct {
	ElementType TypeCode `yaml:"element_type"`
	OptionA     *int64   `yaml:"option_a,omitempty"`
	OptionB     *int64   `yaml:"option_b,omitempty"`
	Spots       int      `yaml:"spots"`
}

func (r SpotRule) matches(elementType, optionA, optionB int64) bool {
	return int64(r.ElementType) == elementType &&
		(r.OptionA == nil || *r.OptionA == optionA) &&
		(r.OptionB == nil || *r.OptionB == optionB)
}

// CatalogSpec is the document form of a Catalog
type CatalogSpec struct {
	Name           string     `yaml:"name"`
	Family         Family     `yaml:"family"`
	SupportedTypes []TypeCode `yaml:"supported_types"`
	ShellTypes     []TypeCode `yaml:"shell_types"`
	SpotRules      []SpotRule `yaml:"spot_rules"` // First match wins
	ExplicitSpots  int        `yaml:"explicit_spots"`

	// CornerNodes overrides the corner node count derived from the shape topology
	CornerNodes map[Shape]int `yaml:"corner_nodes,omitempty"`
}

// Catalog holds the static per-solver lookup tables: supported element
// types, spot counts by type and options, corner nodes by shape and the
// shell classification. A Catalog is immutable once built.
type Catalog struct {
	name          string
	family        Family
	supported     map[int64]bool
	shell         map[int64]bool
	rules         []SpotRule
	cornerNodes   map[Shape]int
	explicitSpots int
}

// NewCatalog validates a spec and compiles it into a Catalog
func NewCatalog(spec CatalogSpec) (*Catalog, error) {
	if spec.Family != Implicit && spec.Family != Explicit {
		return nil, fmt.Errorf("catalog %q: unknown family %q", spec.Name, spec.Family)
	}
	c := &Catalog{
		name:          spec.Name,
		family:        spec.Family,
		supported:     make(map[int64]bool, len(spec.SupportedTypes)),
		shell:         make(map[int64]bool, len(spec.ShellTypes)),
		rules:         make([]SpotRule, 0, len(spec.SpotRules)),
		cornerNodes:   defaultCornerNodes(),
		explicitSpots: spec.ExplicitSpots,
	}
	for _, t := range spec.SupportedTypes {
		c.supported[int64(t)] = true
	}
	for _, t := range spec.ShellTypes {
		c.shell[int64(t)] = true
	}
	for i, r := range spec.SpotRules {
		if !c.supported[int64(r.ElementType)] {
			return nil, fmt.Errorf("catalog %q: spot rule %d: element type %d is not supported",
				spec.Name, i, r.ElementType)
		}
		if r.Spots < 0 {
			return nil, fmt.Errorf("catalog %q: spot rule %d: negative spot count %d", spec.Name, i, r.Spots)
		}
		c.rules = append(c.rules, cloneRule(r))
	}
	for s, n := range spec.CornerNodes {
		if n <= 0 {
			return nil, fmt.Errorf("catalog %q: shape %v: invalid corner node count %d", spec.Name, s, n)
		}
		c.cornerNodes[s] = n
	}
	if spec.Family == Explicit && spec.ExplicitSpots < 0 {
		return nil, fmt.Errorf("catalog %q: negative explicit spot count %d", spec.Name, spec.ExplicitSpots)
	}
	return c, nil
}

func cloneRule(r SpotRule) SpotRule {
	if r.OptionA != nil {
		a := *r.OptionA
		r.OptionA = &a
	}
	if r.OptionB != nil {
		b := *r.OptionB
		r.OptionB = &b
	}
	return r
}

// LoadCatalog decodes a YAML catalog document
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var spec CatalogSpec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(spec)
}

func mustLoadEmbedded(name string) *Catalog {
	f, err := catalogFiles.Open(name)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	c, err := LoadCatalog(f)
	if err != nil {
		panic(fmt.Errorf("embedded catalog %s: %w", name, err))
	}
	return c
}

var (
	mapdlCatalog  = sync.OnceValue(func() *Catalog { return mustLoadEmbedded("catalogs/mapdl.yaml") })
	lsdynaCatalog = sync.OnceValue(func() *Catalog { return mustLoadEmbedded("catalogs/lsdyna.yaml") })
)

// DefaultMAPDLCatalog returns the tables for MAPDL layered shells and solids
func DefaultMAPDLCatalog() *Catalog { return mapdlCatalog() }

// DefaultLSDynaCatalog returns the tables for LS-DYNA shells and solids
func DefaultLSDynaCatalog() *Catalog { return lsdynaCatalog() }

func (c *Catalog) Name() string { return c.name }

func (c *Catalog) Family() Family { return c.family }

// ExplicitSpots is the fixed spot count of the explicit family
func (c *Catalog) ExplicitSpots() int { return c.explicitSpots }

// IsSupported reports whether layouts can be derived for an element type
func (c *Catalog) IsSupported(elementType int64) bool { return c.supported[elementType] }

// IsShell reports whether an element type is a shell
func (c *Catalog) IsShell(elementType int64) bool { return c.shell[elementType] }

// Spots resolves the spot count of an element type with the given options
func (c *Catalog) Spots(elementType, optionA, optionB int64) (int, bool) {
	for _, r := range c.rules {
		if r.matches(elementType, optionA, optionB) {
			return r.Spots, true
		}
	}
	return 0, false
}

// CornerNodeCount returns the number of corner nodes of a shape
func (c *Catalog) CornerNodeCount(s Shape) (int, bool) {
	n, ok := c.cornerNodes[s]
	return n, ok
}

// SupportedTypes lists the supported element types in ascending order
func (c *Catalog) SupportedTypes() []int64 {
	types := make([]int64, 0, len(c.supported))
	for t := range c.supported {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
