package results

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/PlyIndex/element"
	"github.com/notargets/PlyIndex/indexer"
	"github.com/notargets/PlyIndex/selection"
	"github.com/notargets/PlyIndex/utils"
)

// LayoutSource resolves element layouts; *element.Provider is one
type LayoutSource interface {
	Layout(id int) (element.Layout, bool, error)
}

// SolidStack is a column of solid elements through the laminate thickness.
// Each level is either one layered solid or the homogeneous elements that
// replace it, e.g. at a drop-off.
type SolidStack struct {
	Levels    [][]int     // Element ids per level, bottom to top
	PlyCounts map[int]int // Number of analysis plies per element
}

// Plies is the number of plies through the stack
func (s SolidStack) Plies() int {
	n := 0
	for _, level := range s.Levels {
		if len(level) > 0 {
			n += s.PlyCounts[level[0]]
		}
	}
	return n
}

var solidSpots = selection.SpotsOf(selection.Bottom, selection.Top)

// ThroughThickness averages the selected components of the field over the
// bottom and the top of each ply in the stack. Row 2*p holds the bottom and
// row 2*p+1 the top of ply p, counted from the bottom of the stack. The
// elements of a homogeneous level share one average over all their points,
// repeated for each ply of the level.
func ThroughThickness(stack SolidStack, layouts LayoutSource, field indexer.RaggedIndexer[float64],
	components []int) (*mat.Dense, error) {
	nComponents := field.ComponentCount()
	for _, c := range components {
		if c < 0 || c >= nComponents {
			return nil, &utils.IndexOutOfRangeError{Dimension: utils.Component, Index: c, Limit: nComponents}
		}
	}
	if len(components) == 0 || stack.Plies() == 0 {
		return &mat.Dense{}, nil
	}

	out := mat.NewDense(2*stack.Plies(), len(components), nil)
	row := 0
	for level, ids := range stack.Levels {
		if len(ids) == 0 {
			continue
		}
		layered := false
		if len(ids) == 1 {
			layout, err := stackLayout(layouts, ids[0])
			if err != nil {
				return nil, err
			}
			layered = layout.IsLayered
			if layered {
				if row, err = layeredLevel(out, row, layout, stack.PlyCounts[ids[0]], field, components); err != nil {
					return nil, err
				}
			}
		}
		if !layered {
			var err error
			if row, err = homogeneousLevel(out, row, level, ids, stack.PlyCounts, field, components); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func stackLayout(layouts LayoutSource, id int) (element.Layout, error) {
	layout, ok, err := layouts.Layout(id)
	if err != nil {
		return element.Layout{}, err
	}
	if !ok {
		return element.Layout{}, utils.NewDataInconsistency(id, "solid_stack", "element type has no layout")
	}
	return layout, nil
}

func elementRecord(field indexer.RaggedIndexer[float64], id int) (Record, error) {
	data, ok := field.ByIDAsArray(id)
	if !ok || len(data) == 0 {
		return Record{}, utils.NewDataInconsistency(id, "results", "no result record")
	}
	return NewRecord(id, data, field.ComponentCount())
}

func layeredLevel(out *mat.Dense, row int, layout element.Layout, plies int,
	field indexer.RaggedIndexer[float64], components []int) (int, error) {
	rec, err := elementRecord(field, layout.ID)
	if err != nil {
		return row, err
	}
	for ply := range plies {
		for _, spot := range solidSpots {
			indices, err := selection.SelectedIndices(layout, selection.Filter{
				Layers: []int{ply},
				Spots:  []int{spot},
			})
			if err != nil {
				return row, fmt.Errorf("element %d: %w", layout.ID, err)
			}
			values, err := rec.Select(indices)
			if err != nil {
				return row, fmt.Errorf("element %d: %w", layout.ID, err)
			}
			avg, err := ReduceColumns(values, Avg)
			if err != nil {
				return row, fmt.Errorf("element %d: %w", layout.ID, err)
			}
			for j, c := range components {
				out.Set(row, j, avg[c])
			}
			row++
		}
	}
	return row, nil
}

func homogeneousLevel(out *mat.Dense, row, level int, ids []int, plyCounts map[int]int,
	field indexer.RaggedIndexer[float64], components []int) (int, error) {
	plies := plyCounts[ids[0]]
	for _, id := range ids[1:] {
		if plyCounts[id] != plies {
			return row, utils.NewDataInconsistency(id, "solid_stack",
				"%d plies in level %d, other elements of the level have %d", plyCounts[id], level, plies)
		}
	}

	perElement := make([][]float64, len(components))
	for _, id := range ids {
		rec, err := elementRecord(field, id)
		if err != nil {
			return row, err
		}
		avg, err := ReduceColumns(rec.Matrix(), Avg)
		if err != nil {
			return row, fmt.Errorf("element %d: %w", id, err)
		}
		for j, c := range components {
			perElement[j] = append(perElement[j], avg[c])
		}
	}

	// No spots: bottom and top hold the same value
	for range 2 * plies {
		for j := range components {
			out.Set(row, j, stat.Mean(perElement[j], nil))
		}
		row++
	}
	return row, nil
}
