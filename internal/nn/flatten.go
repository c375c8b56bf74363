package nn

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Flatten reshapes [N, d1, d2, ...] into [N, d1*d2*...].
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

// Forward returns a flattened view of the input.
func (f *Flatten[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	out := mustShape(f.OutputShape(input.Shape()))
	return input.Reshape(out...)
}

// OutputShape returns [N, prod(rest)].
func (f *Flatten[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	if len(in) < 2 {
		return nil, fmt.Errorf("flatten: expected at least 2D input, got %v", in)
	}
	features := 1
	for _, d := range in[1:] {
		features *= d
	}
	return tensor.Shape{in[0], features}, nil
}

// Parameters returns nil.
func (f *Flatten[B]) Parameters() []*Parameter[B] { return nil }

// String returns a human-readable representation.
func (f *Flatten[B]) String() string { return "Flatten()" }
