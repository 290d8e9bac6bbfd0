// Package partitions decomposes an element scope into batches of elements
// whose result records share one structure, so an index selection is
// computed once per group instead of once per element.
package partitions

import (
	"fmt"

	"github.com/notargets/PlyIndex/element"
	"github.com/notargets/PlyIndex/selection"
)

// Signature is the part of a layout that determines how an element's result
// record is indexed
type Signature struct {
	ElementType       int64
	NLayers           int
	NCornerNodes      int
	NSpots            int
	IsLayered         bool
	IsShell           bool
	NodesPerSpotPlane int
}

// SignatureOf returns the signature of a layout
func SignatureOf(l element.Layout) Signature {
	return Signature{
		ElementType:       l.ElementType,
		NLayers:           l.NLayers,
		NCornerNodes:      l.NCornerNodes,
		NSpots:            l.NSpots,
		IsLayered:         l.IsLayered,
		IsShell:           l.IsShell,
		NodesPerSpotPlane: l.NodesPerSpotPlane,
	}
}

// Layout returns a layout with the signature's structure and no materials
func (s Signature) Layout() element.Layout {
	return element.Layout{
		ID:                -1,
		NLayers:           s.NLayers,
		NCornerNodes:      s.NCornerNodes,
		NSpots:            s.NSpots,
		IsLayered:         s.IsLayered,
		IsShell:           s.IsShell,
		ElementType:       s.ElementType,
		NodesPerSpotPlane: s.NodesPerSpotPlane,
	}
}

// ElementGroup represents elements of the same signature within a partition
type ElementGroup struct {
	Signature  Signature
	StartIndex int   // Starting position in partition's element array
	Count      int   // Number of elements with this signature
	Elements   []int // Element ids, in scope order
}

// SelectedIndices computes the index selection shared by all elements of the group
func (g ElementGroup) SelectedIndices(f selection.Filter) ([]int, error) {
	return selection.SelectedIndices(g.Signature.Layout(), f)
}

// Partition is a batch of elements processed together
type Partition struct {
	ID int

	// Element membership, contiguous per group
	Elements    []int
	NumElements int

	Groups []ElementGroup
}

// ScopeLayout manages the decomposition of an element scope
type ScopeLayout struct {
	Partitions []Partition

	MaxElements   int // max(NumElements) across all partitions
	TotalElements int // Sum of all elements across partitions
	NumPartitions int

	// Skipped lists the ids whose element type has no layout, in scope order
	Skipped []int

	// Element id to partition mapping
	EToP map[int]int
}

// GetPartition returns the partition containing the element, -1 if none does
func (sl *ScopeLayout) GetPartition(elementID int) int {
	if p, ok := sl.EToP[elementID]; ok {
		return p
	}
	return -1
}

// Validate checks partition consistency
func (sl *ScopeLayout) Validate() error {
	if len(sl.Partitions) != sl.NumPartitions {
		return fmt.Errorf("%d partitions != NumPartitions %d", len(sl.Partitions), sl.NumPartitions)
	}
	actualMax, total := 0, 0
	for i, p := range sl.Partitions {
		if p.ID != i {
			return fmt.Errorf("partition at %d has ID %d", i, p.ID)
		}
		if p.NumElements != len(p.Elements) {
			return fmt.Errorf("partition %d: NumElements %d != %d elements",
				p.ID, p.NumElements, len(p.Elements))
		}
		start := 0
		for _, g := range p.Groups {
			if g.StartIndex != start || g.Count != len(g.Elements) {
				return fmt.Errorf("partition %d: group %+v is not contiguous", p.ID, g.Signature)
			}
			for j, id := range g.Elements {
				if p.Elements[start+j] != id {
					return fmt.Errorf("partition %d: element %d out of group order", p.ID, id)
				}
			}
			start += g.Count
		}
		if start != p.NumElements {
			return fmt.Errorf("partition %d: groups hold %d of %d elements", p.ID, start, p.NumElements)
		}
		for _, id := range p.Elements {
			if sl.EToP[id] != p.ID {
				return fmt.Errorf("element %d: EToP %d != partition %d", id, sl.EToP[id], p.ID)
			}
		}
		actualMax = max(actualMax, p.NumElements)
		total += p.NumElements
	}
	if actualMax != sl.MaxElements {
		return fmt.Errorf("computed MaxElements %d != stored MaxElements %d", actualMax, sl.MaxElements)
	}
	if total != sl.TotalElements || len(sl.EToP) != total {
		return fmt.Errorf("TotalElements %d, %d elements in partitions, %d mapped",
			sl.TotalElements, total, len(sl.EToP))
	}
	return nil
}

// Statistics computes load balance metrics
func (sl *ScopeLayout) Statistics() Stats {
	stats := Stats{NumPartitions: sl.NumPartitions}
	if sl.NumPartitions == 0 {
		return stats
	}
	stats.MinElements = sl.Partitions[0].NumElements
	stats.AvgElements = float64(sl.TotalElements) / float64(sl.NumPartitions)
	for _, p := range sl.Partitions {
		stats.MinElements = min(stats.MinElements, p.NumElements)
		stats.MaxElements = max(stats.MaxElements, p.NumElements)
		stats.NumGroups += len(p.Groups)
	}
	if stats.AvgElements > 0 {
		stats.Imbalance = float64(stats.MaxElements) / stats.AvgElements
	}
	return stats
}

type Stats struct {
	NumPartitions int
	NumGroups     int
	MinElements   int
	MaxElements   int
	AvgElements   float64
	Imbalance     float64 // MaxElements / AvgElements
}
