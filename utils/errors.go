package utils

import (
	"errors"
	"fmt"
)

// Error classes shared by all packages. Match them with errors.Is; the typed
// errors below carry the context and unwrap to one of these.
var (
	ErrDataInconsistency    = errors.New("data inconsistency")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Dimension names the axis of an element record an index refers to
type Dimension uint8

const (
	Layer Dimension = iota
	Node
	Spot
	Point     // row of an element result record
	Component // column of an element result record
)

func (d Dimension) String() string {
	switch d {
	case Layer:
		return "layer"
	case Node:
		return "node"
	case Spot:
		return "spot"
	case Point:
		return "point"
	case Component:
		return "component"
	}
	return fmt.Sprintf("Dimension(%d)", uint8(d))
}

// DataInconsistencyError reports metadata that contradicts itself or is
// missing for an entity that is known to be in scope
type DataInconsistencyError struct {
	ID       int    // Entity id, -1 when the problem is not tied to one entity
	Property string // Name of the offending property
	Detail   string
}

func (e *DataInconsistencyError) Error() string {
	if e.ID < 0 {
		return fmt.Sprintf("data inconsistency in %s: %s", e.Property, e.Detail)
	}
	return fmt.Sprintf("data inconsistency for id %d in %s: %s", e.ID, e.Property, e.Detail)
}

func (e *DataInconsistencyError) Unwrap() error { return ErrDataInconsistency }

// NewDataInconsistency builds a DataInconsistencyError with a formatted detail
func NewDataInconsistency(id int, property, format string, args ...any) error {
	return &DataInconsistencyError{
		ID:       id,
		Property: property,
		Detail:   fmt.Sprintf(format, args...),
	}
}

// IndexOutOfRangeError reports an index outside [0, Limit) along Dimension
type IndexOutOfRangeError struct {
	Dimension Dimension
	Index     int
	Limit     int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Dimension, e.Index, e.Limit)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

// UnsupportedOperationError reports an operation that is undefined for the
// given data, e.g. single value access on a multi-valued record
type UnsupportedOperationError struct {
	Op     string
	Detail string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: unsupported operation: %s", e.Op, e.Detail)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

// IndexOutOfRangeIn returns the dimension of an IndexOutOfRangeError anywhere
// in err's chain
func IndexOutOfRangeIn(err error) (Dimension, bool) {
	var oor *IndexOutOfRangeError
	if errors.As(err, &oor) {
		return oor.Dimension, true
	}
	return 0, false
}
