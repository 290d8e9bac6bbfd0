package partitions

import (
	"fmt"
	"math"

	"github.com/notargets/PlyIndex/element"
)

// LayoutSource resolves element layouts; *element.Provider is one
type LayoutSource interface {
	Layout(id int) (element.Layout, bool, error)
}

// Strategy defines how elements are assigned to partitions
type Strategy int

const (
	BlockPartition Strategy = iota // Consecutive elements
	RoundRobin                     // Distribute cyclically
)

// Builder constructs a ScopeLayout from an element scope
type Builder struct {
	Layouts LayoutSource

	// TargetPartitionSize is the desired number of elements per partition,
	// 0 puts all elements in one partition
	TargetPartitionSize int
	Strategy            Strategy
}

// Group decomposes the scope into a single partition grouped by signature
func Group(layouts LayoutSource, ids []int) (*ScopeLayout, error) {
	b := &Builder{Layouts: layouts}
	return b.Build(ids)
}

// Build resolves the layout of every id and creates the partitions. Ids
// without a layout are recorded in Skipped; any other failure aborts.
func (b *Builder) Build(ids []int) (*ScopeLayout, error) {
	var (
		elements   = make([]int, 0, len(ids))
		signatures = make(map[int]Signature, len(ids))
		seen       = make(map[int]bool, len(ids))
		skipped    []int
	)
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("element %d appears twice in the scope", id)
		}
		seen[id] = true
		layout, ok, err := b.Layouts.Layout(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			skipped = append(skipped, id)
			continue
		}
		elements = append(elements, id)
		signatures[id] = SignatureOf(layout)
	}

	numPartitions := b.calculateNumPartitions(len(elements))
	eToP := b.partitionElements(elements, numPartitions)
	partitions := createPartitions(elements, eToP, signatures, numPartitions)

	layout := &ScopeLayout{
		Partitions:    partitions,
		MaxElements:   calculateMaxElements(partitions),
		TotalElements: len(elements),
		NumPartitions: numPartitions,
		Skipped:       skipped,
		EToP:          eToP,
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scope layout: %w", err)
	}
	return layout, nil
}

// calculateNumPartitions determines the partition count
func (b *Builder) calculateNumPartitions(numElements int) int {
	if numElements == 0 {
		return 0
	}
	if b.TargetPartitionSize <= 0 {
		return 1
	}
	return int(math.Ceil(float64(numElements) / float64(b.TargetPartitionSize)))
}

// partitionElements assigns elements to partitions
func (b *Builder) partitionElements(elements []int, numPartitions int) map[int]int {
	eToP := make(map[int]int, len(elements))
	if numPartitions == 0 {
		return eToP
	}
	switch b.Strategy {
	case RoundRobin:
		for i, id := range elements {
			eToP[id] = i % numPartitions
		}
	default:
		elementsPerPartition := int(math.Ceil(float64(len(elements)) / float64(numPartitions)))
		for i, id := range elements {
			eToP[id] = min(i/elementsPerPartition, numPartitions-1)
		}
	}
	return eToP
}

// createPartitions builds the partitions from element assignments, with the
// elements of each partition ordered by group
func createPartitions(elements []int, eToP map[int]int, signatures map[int]Signature,
	numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	members := make([][]int, numPartitions)
	for _, id := range elements {
		members[eToP[id]] = append(members[eToP[id]], id)
	}

	for i := range partitions {
		groups := createElementGroups(members[i], signatures)
		p := Partition{
			ID:          i,
			Elements:    make([]int, 0, len(members[i])),
			NumElements: len(members[i]),
			Groups:      groups,
		}
		for _, g := range groups {
			p.Elements = append(p.Elements, g.Elements...)
		}
		partitions[i] = p
	}
	return partitions
}

// createElementGroups organizes elements by signature, groups in order of
// first appearance
func createElementGroups(members []int, signatures map[int]Signature) []ElementGroup {
	var (
		groups  []ElementGroup
		indexOf = make(map[Signature]int)
	)
	for _, id := range members {
		sig := signatures[id]
		gi, ok := indexOf[sig]
		if !ok {
			gi = len(groups)
			indexOf[sig] = gi
			groups = append(groups, ElementGroup{Signature: sig})
		}
		groups[gi].Elements = append(groups[gi].Elements, id)
		groups[gi].Count++
	}

	start := 0
	for i := range groups {
		groups[i].StartIndex = start
		start += groups[i].Count
	}
	return groups
}

// calculateMaxElements finds maximum elements across all partitions
func calculateMaxElements(partitions []Partition) int {
	maxElements := 0
	for _, p := range partitions {
		maxElements = max(maxElements, p.NumElements)
	}
	return maxElements
}
