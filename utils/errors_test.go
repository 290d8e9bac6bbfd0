package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		msg    string
	}{
		{
			name:   "data inconsistency",
			err:    NewDataInconsistency(7, "keyopt_8", "no value"),
			target: ErrDataInconsistency,
			msg:    "data inconsistency for id 7 in keyopt_8: no value",
		},
		{
			name:   "data inconsistency without id",
			err:    NewDataInconsistency(-1, "offsets", "length %d", 3),
			target: ErrDataInconsistency,
			msg:    "data inconsistency in offsets: length 3",
		},
		{
			name:   "index out of range",
			err:    &IndexOutOfRangeError{Dimension: Spot, Index: 3, Limit: 3},
			target: ErrIndexOutOfRange,
			msg:    "spot index 3 out of range [0, 3)",
		},
		{
			name:   "unsupported operation",
			err:    &UnsupportedOperationError{Op: "ByID", Detail: "record has 2 values"},
			target: ErrUnsupportedOperation,
			msg:    "ByID: unsupported operation: record has 2 values",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.target)
			assert.EqualError(t, tt.err, tt.msg)

			wrapped := fmt.Errorf("element 7: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
		})
	}
}

func TestIndexOutOfRangeIn(t *testing.T) {
	err := fmt.Errorf("select: %w", &IndexOutOfRangeError{Dimension: Node, Index: 9, Limit: 4})
	dim, ok := IndexOutOfRangeIn(err)
	assert.True(t, ok)
	assert.Equal(t, Node, dim)

	_, ok = IndexOutOfRangeIn(errors.New("other"))
	assert.False(t, ok)
}

func TestDimensionString(t *testing.T) {
	assert.Equal(t, "layer", Layer.String())
	assert.Equal(t, "point", Point.String())
	assert.Equal(t, "component", Component.String())
	assert.Equal(t, "Dimension(42)", Dimension(42).String())
}
