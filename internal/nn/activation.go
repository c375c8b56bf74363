package nn

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// DefaultNegativeSlope is the LeakyReLU slope used when none is configured.
const DefaultNegativeSlope = 0.01

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	backend := input.Backend()
	return tensor.New(backend.ReLU(input.Raw()), backend)
}

// OutputShape returns in unchanged.
func (r *ReLU[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	return in.Clone(), nil
}

// Parameters returns nil (ReLU has no learnable parameters).
func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// String returns a human-readable representation.
func (r *ReLU[B]) String() string { return "ReLU()" }

// LeakyReLU applies f(x) = x for x > 0 and slope*x otherwise.
//
// Example:
//
//	act := nn.NewLeakyReLU[Backend](0.01)
type LeakyReLU[B tensor.Backend] struct {
	slope float32
}

// NewLeakyReLU creates a LeakyReLU with the given negative slope.
func NewLeakyReLU[B tensor.Backend](slope float32) *LeakyReLU[B] {
	return &LeakyReLU[B]{slope: slope}
}

// Forward applies LeakyReLU activation.
func (l *LeakyReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	backend := input.Backend()
	return tensor.New(backend.LeakyReLU(input.Raw(), l.slope), backend)
}

// OutputShape returns in unchanged.
func (l *LeakyReLU[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	return in.Clone(), nil
}

// Parameters returns nil.
func (l *LeakyReLU[B]) Parameters() []*Parameter[B] { return nil }

// NegativeSlope returns the slope applied to negative inputs.
func (l *LeakyReLU[B]) NegativeSlope() float32 { return l.slope }

// String returns a human-readable representation.
func (l *LeakyReLU[B]) String() string {
	return fmt.Sprintf("LeakyReLU(negative_slope=%g)", l.slope)
}
