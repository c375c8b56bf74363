package nn

import (
	"fmt"
	"strings"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(128, 10, backend),
//	)
//
//	output := model.Forward(input)
type Sequential[B tensor.Backend] struct {
	modules  []Module[B]
	training bool
}

// NewSequential creates a new Sequential container in training mode.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules:  modules,
		training: true,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// OutputShape threads in through every module's OutputShape.
// The error names the index of the first module that rejects its input.
func (s *Sequential[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	shape := in
	for i, module := range s.modules {
		out, err := module.OutputShape(shape)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, module, err)
		}
		shape = out
	}
	return shape.Clone(), nil
}

// Parameters returns all parameters from all modules.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[B]) Module(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// Children returns the contained modules.
func (s *Sequential[B]) Children() []Module[B] {
	return s.modules
}

// SetTraining propagates the mode to every contained module.
func (s *Sequential[B]) SetTraining(training bool) {
	s.training = training
	for _, module := range s.modules {
		SetTraining(module, training)
	}
}

// Training reports the last mode set on the container.
func (s *Sequential[B]) Training() bool {
	return s.training
}

// String lists the contained modules one per line, nested modules indented.
func (s *Sequential[B]) String() string {
	var sb strings.Builder
	sb.WriteString("Sequential(\n")
	for i, module := range s.modules {
		child := strings.ReplaceAll(module.String(), "\n", "\n  ")
		fmt.Fprintf(&sb, "  (%d): %s\n", i, child)
	}
	sb.WriteString(")")
	return sb.String()
}
