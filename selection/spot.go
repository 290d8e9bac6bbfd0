package selection

import "fmt"

// Spot is a through-thickness output point of a layer
type Spot uint8

const (
	Bottom Spot = iota + 1
	Middle
	Top
)

func (s Spot) String() string {
	switch s {
	case Bottom:
		return "bottom"
	case Middle:
		return "middle"
	case Top:
		return "top"
	}
	return fmt.Sprintf("Spot(%d)", uint8(s))
}

// The solver stores the spots of a layer as bottom, top, then middle when
// three spots are written
var solverSpotOrder = [...]int{-1, 0, 2, 1}

// SolverSpotIndex returns the position of s within a layer's spot block, or
// -1 if s is not a valid spot
func SolverSpotIndex(s Spot) int {
	if int(s) >= len(solverSpotOrder) {
		return -1
	}
	return solverSpotOrder[s]
}

// SpotsOf converts spots to solver spot indices for use in Filter.Spots
func SpotsOf(spots ...Spot) []int {
	idx := make([]int, len(spots))
	for i, s := range spots {
		idx[i] = SolverSpotIndex(s)
	}
	return idx
}
