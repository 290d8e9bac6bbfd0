package element

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMAPDLCatalog_Spots(t *testing.T) {
	c := DefaultMAPDLCatalog()
	require.Equal(t, Implicit, c.Family())
	assert.Equal(t, []int64{181, 185, 186, 187, 190, 281}, c.SupportedTypes())

	tests := []struct {
		name        string
		elementType int64
		optionA     int64
		optionB     int64
		spots       int
		ok          bool
	}{
		{"shell bottom and top", 181, 1, 0, 2, true},
		{"shell with middle", 181, 2, 0, 3, true},
		{"shell without layer data", 281, 0, 0, 0, true},
		{"homogeneous solid", 185, 1, 0, 0, true},
		{"layered solid", 185, 1, 1, 2, true},
		{"quadratic layered solid", 186, 1, 1, 2, true},
		{"tet", 187, 0, 0, 0, true},
		{"tet with layer data", 187, 1, 0, 0, false},
		{"solid shell", 190, 1, 0, 2, true},
		{"unknown option", 181, 5, 0, 0, false},
		{"unsupported type", 188, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spots, ok := c.Spots(tt.elementType, tt.optionA, tt.optionB)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.spots, spots)
		})
	}
}

func TestMAPDLCatalog_Shells(t *testing.T) {
	c := DefaultMAPDLCatalog()
	assert.True(t, c.IsShell(181))
	assert.True(t, c.IsShell(281))
	assert.False(t, c.IsShell(190))
	assert.False(t, c.IsShell(185))
	assert.False(t, c.IsSupported(188))

	n, ok := c.CornerNodeCount(QuadShell8)
	require.True(t, ok)
	assert.Equal(t, 4, n)
	n, ok = c.CornerNodeCount(Hex20)
	require.True(t, ok)
	assert.Equal(t, 8, n)
}

func TestLSDynaCatalog(t *testing.T) {
	c := DefaultLSDynaCatalog()
	assert.Equal(t, Explicit, c.Family())
	assert.Equal(t, 1, c.ExplicitSpots())
	assert.True(t, c.IsSupported(int64(QuadShell4)))
	assert.True(t, c.IsShell(int64(TriShell3)))
	assert.False(t, c.IsShell(int64(Hex8)))
	assert.False(t, c.IsSupported(int64(Line2)))
	assert.Same(t, c, DefaultLSDynaCatalog())
}

func TestLoadCatalog(t *testing.T) {
	doc := `
name: custom
family: implicit
supported_types: [181, QuadShell4]
shell_types: [181]
spot_rules:
  - {element_type: 181, spots: 2}
corner_nodes:
  QuadShell4: 3
`
	c, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "custom", c.Name())
	assert.True(t, c.IsSupported(int64(QuadShell4)))

	// a rule without options matches every option value
	spots, ok := c.Spots(181, 7, 9)
	assert.True(t, ok)
	assert.Equal(t, 2, spots)

	n, _ := c.CornerNodeCount(QuadShell4)
	assert.Equal(t, 3, n)
	n, _ = c.CornerNodeCount(Hex8)
	assert.Equal(t, 8, n)
}

func TestLoadCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown family", "name: x\nfamily: hybrid\n"},
		{"unknown field", "name: x\nfamily: implicit\nspots: 3\n"},
		{"unknown shape", "name: x\nfamily: explicit\nsupported_types: [Hexagon]\n"},
		{"rule for unsupported type", "name: x\nfamily: implicit\nspot_rules:\n  - {element_type: 181, spots: 2}\n"},
		{"negative spots", "name: x\nfamily: implicit\nsupported_types: [181]\nspot_rules:\n  - {element_type: 181, spots: -1}\n"},
		{"invalid corner nodes", "name: x\nfamily: explicit\ncorner_nodes:\n  Hex8: 0\n"},
		{"negative explicit spots", "name: x\nfamily: explicit\nexplicit_spots: -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestNewCatalog_CopiesRules(t *testing.T) {
	a := int64(1)
	spec := CatalogSpec{
		Name:           "x",
		Family:         Implicit,
		SupportedTypes: []TypeCode{181},
		SpotRules:      []SpotRule{{ElementType: 181, OptionA: &a, Spots: 2}},
	}
	c, err := NewCatalog(spec)
	require.NoError(t, err)
	a = 2
	spots, ok := c.Spots(181, 1, 0)
	assert.True(t, ok)
	assert.Equal(t, 2, spots)
	_, ok = c.Spots(181, 2, 0)
	assert.False(t, ok)
}

func TestShape(t *testing.T) {
	s, err := ParseShape("QuadShell4")
	require.NoError(t, err)
	assert.Equal(t, QuadShell4, s)
	assert.Equal(t, "QuadShell4", s.String())
	p, ok := s.Properties()
	require.True(t, ok)
	assert.Equal(t, ShapeProperties{Name: "QuadShell4", CornerNodes: 4, Nodes: 4, Shell: true}, p)

	assert.Equal(t, "Unknown", Unknown.String())
	assert.Equal(t, "Shape(42)", Shape(42).String())
	_, err = ParseShape("Hexagon")
	assert.Error(t, err)
}
