package builder

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/notargets/PlyIndex/element"
	"github.com/notargets/PlyIndex/indexer"
	"github.com/notargets/PlyIndex/layup"
	"github.com/notargets/PlyIndex/selection"
)

// Two layered shells (1, 2) with two layers, a homogeneous solid (3) with
// solver material 9 and a beam (4)
func testInputs() Inputs {
	scoping := []int{1, 2, 3, 4}
	qs4 := int64(element.QuadShell4)
	layered := []int{1, 2}
	return Inputs{
		Elements: element.ElementFields{
			LayerCounts:     indexer.Field[int64]{Scoping: layered, Data: []int64{2, 0, 1, 2, 0, 1}, Offsets: []int{0, 3, 6}},
			LayerMaterials:  indexer.Field[int64]{Scoping: layered, Data: []int64{1, 2, 1, 2}, Offsets: []int{0, 2, 4}},
			SolverTypes:     indexer.Field[int64]{Scoping: scoping, Data: []int64{181, 181, 185, 188}},
			Shapes:          indexer.Field[int64]{Scoping: scoping, Data: []int64{qs4, qs4, int64(element.Hex8), int64(element.Line2)}},
			OptionA:         indexer.Field[int64]{Scoping: scoping, Data: []int64{1, 1, 0, 0}},
			OptionB:         indexer.Field[int64]{Scoping: scoping, Data: []int64{0, 0, 0, 0}},
			SolverMaterials: indexer.Field[int64]{Scoping: scoping, Data: []int64{1, 2, 9, 9}},
		},
		Materials: &indexer.Field[int64]{
			Scoping: []int{1, 2, 3},
			Data:    []int64{1, 2, 9},
			Offsets: []int{0, 1, 2, 3},
		},
		Properties: &layup.PropertiesFields{
			Angles:          indexer.Field[float64]{Scoping: layered, Data: []float64{0, 90, 0, 90}, Offsets: []int{0, 2, 4}},
			Thicknesses:     indexer.Field[float64]{Scoping: layered, Data: []float64{0.2, 0.2, 0.2, 0.2}, Offsets: []int{0, 2, 4}},
			ShearAngles:     indexer.Field[float64]{Scoping: layered, Data: []float64{0, 0, 0, 0}, Offsets: []int{0, 2, 4}},
			LaminateOffsets: indexer.Field[float64]{Scoping: layered, Data: []float64{0, 0}},
			AnalysisPlies:   indexer.Field[int64]{Scoping: layered, Data: []int64{0, 1, 0, 1}, Offsets: []int{0, 2, 4}},
		},
		PlyNames: map[int64]string{0: "P1L1__UD", 1: "P1L1__Woven"},
		AnalysisPlies: map[string]indexer.Field[int64]{
			"P1L1__UD":    {Scoping: layered, Data: []int64{0, 0}},
			"P1L1__Woven": {Scoping: layered, Data: []int64{1, 1}},
		},
	}
}

func TestNewModel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewModel(testInputs(), Config{
		BoundsChecks: indexer.WithBoundsChecks,
		Logger:       zaptest.NewLogger(t),
		Registerer:   reg,
	})
	require.NoError(t, err)

	layout, ok, err := m.Layout(3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int64{3}, layout.MaterialIDs())

	_, ok, err = m.Layout(4)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"P1L1__UD", "P1L1__Woven"}, m.AnalysisPlyNames())
	require.NotNil(t, m.Properties())
	names, ok := m.Properties().AnalysisPlies(2)
	require.True(t, ok)
	assert.Equal(t, []string{"P1L1__UD", "P1L1__Woven"}, names)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	expected := `
# HELP plyindex_layout_cache_misses_total Layout lookups that resolved element metadata
# TYPE plyindex_layout_cache_misses_total counter
plyindex_layout_cache_misses_total 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"plyindex_layout_cache_misses_total"))
}

func TestModel_AnalysisPlies(t *testing.T) {
	m, err := NewModel(testInputs(), Config{BoundsChecks: indexer.NoBoundsChecks})
	require.NoError(t, err)

	materials, err := m.MaterialByAnalysisPly([]int{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"P1L1__UD": 1, "P1L1__Woven": 2}, materials)

	indices, ok, err := m.SelectByAnalysisPly("P1L1__Woven", 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{8, 9, 10, 11, 12, 13, 14, 15}, indices)

	_, ok, err = m.SelectByAnalysisPly("P1L1__Woven", 3)
	assert.ErrorIs(t, err, selection.ErrPlyNotInElement)
	assert.False(t, ok)

	_, ok, err = m.SelectByAnalysisPly("P1L1__Woven", 4)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = m.SelectByAnalysisPly("missing", 1)
	assert.Error(t, err)

	ply, ok := m.AnalysisPly("P1L1__UD")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, ply.ElementIDs())
}

func TestModel_Group(t *testing.T) {
	m, err := NewModel(testInputs(), Config{PartitionSize: 1})
	require.NoError(t, err)

	sl, err := m.Group([]int{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 3, sl.NumPartitions)
	assert.Equal(t, []int{4}, sl.Skipped)
	assert.Equal(t, 1, sl.GetPartition(2))
}

func TestSelectCatalog(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default", Config{}, "MAPDL"},
		{"mapdl", Config{Solver: "mapdl"}, "MAPDL"},
		{"ls-dyna", Config{Solver: LSDyna}, "LS-DYNA"},
		{"yaml", Config{Solver: LSDyna, CatalogYAML: []byte("name: mine\nfamily: explicit\nexplicit_spots: 1\n")}, "mine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := selectCatalog(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}

	_, err := selectCatalog(Config{Solver: "abaqus"})
	assert.Error(t, err)
	_, err = NewModel(testInputs(), Config{Solver: "abaqus"})
	assert.Error(t, err)
}

func TestNewModel_InvalidInputs(t *testing.T) {
	in := testInputs()
	in.PlyNames = map[int64]string{0: "P1L1__UD"}
	_, err := NewModel(in, Config{})
	assert.ErrorContains(t, err, "lay-up properties")

	in = testInputs()
	in.AnalysisPlies["broken"] = indexer.Field[int64]{Scoping: []int{1}, Data: nil}
	_, err = NewModel(in, Config{})
	assert.ErrorContains(t, err, `analysis ply "broken"`)

	in = testInputs()
	in.Materials = &indexer.Field[int64]{Scoping: []int{1, 2}, Data: []int64{9, 9}, Offsets: []int{0, 1, 2}}
	_, err = NewModel(in, Config{})
	assert.ErrorContains(t, err, "material table")
}
