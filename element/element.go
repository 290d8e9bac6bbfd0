package element

import (
	"fmt"
)

// Shape is the solver independent element type code used by the result store
type Shape int64

const (
	Unknown    Shape = -1
	Tet10      Shape = 0
	Hex20      Shape = 1
	Wedge15    Shape = 2
	Pyramid13  Shape = 3
	Tri6       Shape = 4
	TriShell6  Shape = 5
	Quad8      Shape = 6
	QuadShell8 Shape = 7
	Line3      Shape = 8
	Point1     Shape = 9
	Tet4       Shape = 10
	Hex8       Shape = 11
	Wedge6     Shape = 12
	Pyramid5   Shape = 13
	Tri3       Shape = 14
	TriShell3  Shape = 15
	Quad4      Shape = 16
	QuadShell4 Shape = 17
	Line2      Shape = 18
)

// ShapeProperties describes the topology of a generic element type
type ShapeProperties struct {
	Name        string
	CornerNodes int  // Vertex nodes, without midside nodes
	Nodes       int  // All nodes including midside nodes
	Shell       bool // Shell variant of a 2D shape
}

var shapeProperties = map[Shape]ShapeProperties{
	Tet10:      {Name: "Tet10", CornerNodes: 4, Nodes: 10},
	Hex20:      {Name: "Hex20", CornerNodes: 8, Nodes: 20},
	Wedge15:    {Name: "Wedge15", CornerNodes: 6, Nodes: 15},
	Pyramid13:  {Name: "Pyramid13", CornerNodes: 5, Nodes: 13},
	Tri6:       {Name: "Tri6", CornerNodes: 3, Nodes: 6},
	TriShell6:  {Name: "TriShell6", CornerNodes: 3, Nodes: 6, Shell: true},
	Quad8:      {Name: "Quad8", CornerNodes: 4, Nodes: 8},
	QuadShell8: {Name: "QuadShell8", CornerNodes: 4, Nodes: 8, Shell: true},
	Line3:      {Name: "Line3", CornerNodes: 2, Nodes: 3},
	Point1:     {Name: "Point1", CornerNodes: 1, Nodes: 1},
	Tet4:       {Name: "Tet4", CornerNodes: 4, Nodes: 4},
	Hex8:       {Name: "Hex8", CornerNodes: 8, Nodes: 8},
	Wedge6:     {Name: "Wedge6", CornerNodes: 6, Nodes: 6},
	Pyramid5:   {Name: "Pyramid5", CornerNodes: 5, Nodes: 5},
	Tri3:       {Name: "Tri3", CornerNodes: 3, Nodes: 3},
	TriShell3:  {Name: "TriShell3", CornerNodes: 3, Nodes: 3, Shell: true},
	Quad4:      {Name: "Quad4", CornerNodes: 4, Nodes: 4},
	QuadShell4: {Name: "QuadShell4", CornerNodes: 4, Nodes: 4, Shell: true},
	Line2:      {Name: "Line2", CornerNodes: 2, Nodes: 2},
}

// Properties returns the topology of s
func (s Shape) Properties() (ShapeProperties, bool) {
	p, ok := shapeProperties[s]
	return p, ok
}

func (s Shape) String() string {
	if p, ok := shapeProperties[s]; ok {
		return p.Name
	}
	if s == Unknown {
		return "Unknown"
	}
	return fmt.Sprintf("Shape(%d)", int64(s))
}

// ParseShape looks a shape up by name, e.g. "QuadShell4"
func ParseShape(name string) (Shape, error) {
	for s, p := range shapeProperties {
		if p.Name == name {
			return s, nil
		}
	}
	return Unknown, fmt.Errorf("unknown element shape %q", name)
}

// defaultCornerNodes is the corner node table derived from the shape topology
func defaultCornerNodes() map[Shape]int {
	cn := make(map[Shape]int, len(shapeProperties))
	for s, p := range shapeProperties {
		cn[s] = p.CornerNodes
	}
	return cn
}
