package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape represents the dimensions of a tensor.
//
// Image batches use the NCHW layout: [batch, channels, height, width].
type Shape []int

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that the shape has at least one dimension and that every
// dimension is positive.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("empty shape")
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// stride[i] is the product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String renders the shape as "[2, 3, 32, 32]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Infer resolves a single -1 entry in dims so that the result has
// numElements elements.
func Infer(dims []int, numElements int) (Shape, error) {
	out := make(Shape, len(dims))
	unknown := -1
	known := 1
	for i, d := range dims {
		switch {
		case d == -1:
			if unknown >= 0 {
				return nil, fmt.Errorf("only one dimension can be inferred, got %v", dims)
			}
			unknown = i
		case d <= 0:
			return nil, fmt.Errorf("invalid dimension at index %d: %d", i, d)
		default:
			known *= d
		}
		out[i] = d
	}
	if unknown >= 0 {
		if known == 0 || numElements%known != 0 {
			return nil, fmt.Errorf("cannot infer dimension of %v for %d elements", dims, numElements)
		}
		out[unknown] = numElements / known
	}
	if out.NumElements() != numElements {
		return nil, fmt.Errorf("shape %v requires %d elements, but tensor has %d", out, out.NumElements(), numElements)
	}
	return out, nil
}
