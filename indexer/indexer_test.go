package indexer

import (
	"testing"

	"github.com/notargets/PlyIndex/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIndex(t *testing.T) {
	ei, err := NewEntityIndex([]int{5, 9, 2})
	require.NoError(t, err)

	assert.Equal(t, 9, ei.MaxID())
	assert.Equal(t, 3, ei.Len())

	mapping := ei.Mapping()
	require.Len(t, mapping, 10)
	assert.Equal(t, 1, mapping[9])
	assert.Equal(t, 0, mapping[5])
	assert.Equal(t, 2, mapping[2])
	for _, absent := range []int{0, 1, 3, 4, 6, 7, 8} {
		assert.Equal(t, -1, mapping[absent], "id %d", absent)
	}

	pos, ok := ei.Position(9)
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
	for _, id := range []int{-1, 3, 10, 1000} {
		_, ok = ei.Position(id)
		assert.False(t, ok, "id %d", id)
	}

	// Mapping hands out a copy
	mapping[9] = 42
	pos, _ = ei.Position(9)
	assert.Equal(t, 1, pos)
}

func TestEntityIndex_Empty(t *testing.T) {
	ei, err := NewEntityIndex(nil)
	require.NoError(t, err)
	assert.Empty(t, ei.Mapping())
	assert.Equal(t, -1, ei.MaxID())
	_, ok := ei.Position(0)
	assert.False(t, ok)
}

func TestEntityIndex_InvalidScoping(t *testing.T) {
	_, err := NewEntityIndex([]int{1, -2})
	assert.ErrorIs(t, err, utils.ErrDataInconsistency)

	_, err = NewEntityIndex([]int{4, 1, 4})
	assert.ErrorIs(t, err, utils.ErrDataInconsistency)

	// a corrupted id must not size the mapping
	_, err = NewEntityIndex([]int{3, MaxEntityID + 1})
	var di *utils.DataInconsistencyError
	require.ErrorAs(t, err, &di)
	assert.Equal(t, MaxEntityID+1, di.ID)
	assert.Equal(t, "scoping", di.Property)
}

func TestValueIndexer(t *testing.T) {
	f := Field[float64]{Scoping: []int{5, 9, 2}, Data: []float64{10, 20, 30}}

	for _, checks := range []BoundsChecks{WithBoundsChecks, NoBoundsChecks} {
		vi, err := NewValueIndexer(f, checks)
		require.NoError(t, err)

		v, ok := vi.ByID(9)
		assert.True(t, ok)
		assert.Equal(t, 20.0, v)

		arr, ok := vi.ByIDAsArray(2)
		assert.True(t, ok)
		assert.Equal(t, []float64{30}, arr)
	}

	checked, err := NewCheckedValueIndexer(f)
	require.NoError(t, err)
	for _, id := range []int{3, -1, 10, 100} {
		_, ok := checked.ByID(id)
		assert.False(t, ok, "id %d", id)
		arr, ok := checked.ByIDAsArray(id)
		assert.False(t, ok)
		assert.Nil(t, arr)
	}
}

func TestUncheckedValueIndexer_InvalidIDPanics(t *testing.T) {
	vi, err := NewUncheckedValueIndexer(Field[int64]{Scoping: []int{1, 2}, Data: []int64{7, 8}})
	require.NoError(t, err)
	assert.Panics(t, func() { vi.ByID(50) })
}

func TestValueIndexer_Components(t *testing.T) {
	f := Field[int64]{Scoping: []int{3, 1}, Data: []int64{30, 31, 10, 11}, ComponentCount: 2}
	vi, err := NewCheckedValueIndexer(f)
	require.NoError(t, err)
	v, ok := vi.ByID(1)
	assert.True(t, ok)
	assert.Equal(t, int64(10), v)

	_, err = NewCheckedValueIndexer(Field[int64]{Scoping: []int{3, 1}, Data: []int64{1, 2, 3}})
	assert.ErrorIs(t, err, utils.ErrDataInconsistency)
}

func raggedField() Field[int64] {
	return Field[int64]{
		Scoping: []int{1, 2},
		Data:    []int64{1, 2, 3, 4, 5},
		Offsets: []int{0, 3, 5},
	}
}

func TestRaggedIndexer(t *testing.T) {
	for _, checks := range []BoundsChecks{WithBoundsChecks, NoBoundsChecks} {
		ri, err := NewRaggedIndexer(raggedField(), checks)
		require.NoError(t, err)

		rec, ok := ri.ByIDAsArray(1)
		assert.True(t, ok)
		assert.Equal(t, []int64{1, 2, 3}, rec)

		rec, ok = ri.ByIDAsArray(2)
		assert.True(t, ok)
		assert.Equal(t, []int64{4, 5}, rec)

		_, ok, err = ri.ByID(2)
		assert.False(t, ok)
		assert.ErrorIs(t, err, utils.ErrUnsupportedOperation)

		// Inside the mapping but not held by the field
		_, ok = ri.ByIDAsArray(0)
		assert.False(t, ok)
	}
}

func TestRaggedIndexer_RecordsDoNotAlias(t *testing.T) {
	ri, err := NewCheckedRaggedIndexer(raggedField())
	require.NoError(t, err)
	rec, _ := ri.ByIDAsArray(1)
	_ = append(rec, 99)
	next, _ := ri.ByIDAsArray(2)
	assert.Equal(t, []int64{4, 5}, next)
}

func TestRaggedIndexer_SingleValue(t *testing.T) {
	f := Field[int64]{
		Scoping: []int{1, 2, 3, 4, 5},
		Data:    []int64{1, 2, 3, 4, 0, 7, 0, 0, 0, 5},
		Offsets: []int{0, 3, 5, 6, 8, 10},
	}
	ri, err := NewCheckedRaggedIndexer(f)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      int
		want    int64
		wantOK  bool
		wantErr error
	}{
		{name: "zero padded", id: 2, want: 4, wantOK: true},
		{name: "single entry", id: 3, want: 7, wantOK: true},
		{name: "all zero", id: 4, wantErr: utils.ErrUnsupportedOperation},
		{name: "zero first entry", id: 5, wantErr: utils.ErrUnsupportedOperation},
		{name: "multi valued", id: 1, wantErr: utils.ErrUnsupportedOperation},
		{name: "absent", id: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok, err := ri.ByID(tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestRaggedIndexer_EmptyRecord(t *testing.T) {
	f := Field[float64]{Scoping: []int{4, 6}, Data: []float64{1.5}, Offsets: []int{0, 0}}
	ri, err := NewCheckedRaggedIndexer(f)
	require.NoError(t, err)

	rec, ok := ri.ByIDAsArray(4)
	assert.True(t, ok)
	assert.Empty(t, rec)

	_, ok, err = ri.ByID(4)
	assert.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := ri.ByID(6)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
}

func TestRaggedIndexer_Components(t *testing.T) {
	// two entities with 2 and 1 logical values of 3 components
	f := Field[float64]{
		Scoping:        []int{8, 3},
		Data:           []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Offsets:        []int{0, 6},
		ComponentCount: 3,
	}
	ri, err := NewCheckedRaggedIndexer(f)
	require.NoError(t, err)
	assert.Equal(t, 3, ri.ComponentCount())

	rec, ok := ri.ByIDAsArray(3)
	assert.True(t, ok)
	assert.Equal(t, []float64{7, 8, 9}, rec)
}

func TestRaggedIndexer_InvalidOffsets(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		cc      int
	}{
		{name: "too short", offsets: []int{0}},
		{name: "too long", offsets: []int{0, 3, 5, 5}},
		{name: "decreasing", offsets: []int{0, 4, 3}},
		{name: "negative", offsets: []int{-1, 3, 5}},
		{name: "wrong total", offsets: []int{0, 3, 4}},
		{name: "partial value", offsets: []int{0, 3, 5}, cc: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := raggedField()
			f.Offsets = tt.offsets
			f.ComponentCount = tt.cc
			_, err := NewRaggedIndexer(f, WithBoundsChecks)
			assert.ErrorIs(t, err, utils.ErrDataInconsistency)
		})
	}
}

func TestUncheckedAgreesWithChecked(t *testing.T) {
	f := Field[int64]{
		Scoping: []int{12, 4, 7, 30},
		Data:    []int64{3, 0, 0, 0, 2, 2, 5},
		Offsets: []int{0, 4, 5, 6},
	}
	checked, err := NewCheckedRaggedIndexer(f)
	require.NoError(t, err)
	unchecked, err := NewUncheckedRaggedIndexer(f)
	require.NoError(t, err)

	for _, id := range f.Scoping {
		want, wantOK := checked.ByIDAsArray(id)
		got, gotOK := unchecked.ByIDAsArray(id)
		assert.Equal(t, wantOK, gotOK)
		assert.Equal(t, want, got)
	}
}
