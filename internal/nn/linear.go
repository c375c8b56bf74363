package nn

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Linear is a fully connected layer: y = x @ W.T + b.
//
// Input shape:  [batch, in_features]
// Output shape: [batch, out_features]
//
// Example:
//
//	fc := nn.NewLinear(8192, 100, backend)
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int

	weight *Parameter[B] // [out_features, in_features]
	bias   *Parameter[B] // [out_features]

	backend B
}

// NewLinear creates a linear layer with Xavier weights and zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend)
	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend)),
		backend:     backend,
	}
}

// Forward computes x @ W.T + b.
func (l *Linear[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	mustShape(l.OutputShape(input.Shape()))
	out := l.backend.Linear(input.Raw(), l.weight.Tensor().Raw(), l.bias.Tensor().Raw())
	return tensor.New(out, l.backend)
}

// OutputShape returns [N, out_features] for an [N, in_features] input.
func (l *Linear[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	if len(in) != 2 {
		return nil, fmt.Errorf("linear: expected 2D input [N, features], got %v", in)
	}
	if in[1] != l.inFeatures {
		return nil, fmt.Errorf("linear: input has %d features, expected %d", in[1], l.inFeatures)
	}
	return tensor.Shape{in[0], l.outFeatures}, nil
}

// Parameters returns the weight and bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// InFeatures returns the input dimensionality.
func (l *Linear[B]) InFeatures() int { return l.inFeatures }

// OutFeatures returns the output dimensionality.
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] { return l.weight }

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] { return l.bias }

// String returns a human-readable representation.
func (l *Linear[B]) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d, bias=true)", l.inFeatures, l.outFeatures)
}
