// Package nn implements the layer catalogue used to assemble convolutional
// classifiers.
//
// This package provides building blocks for constructing networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named learnable tensors
//   - Conv2D, Linear: Learnable layers
//   - MaxPool2D, AvgPool2D: Spatial pooling
//   - BatchNorm2D, Dropout2D: Mode-dependent regularisation
//   - ReLU, LeakyReLU, Flatten
//   - Sequential: Container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(128, 10, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// Forward panics if the input shape violates the module's contract;
	// OutputShape reports the same conditions as errors.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all learnable parameters of this module, including
	// those of nested modules. Stateless modules return nil.
	Parameters() []*Parameter[B]

	// OutputShape returns the shape Forward would produce for an input of
	// shape in, without touching any data.
	OutputShape(in tensor.Shape) (tensor.Shape, error)

	// String describes the module and its hyper-parameters.
	String() string
}

// Trainer is implemented by modules whose behaviour differs between
// training and evaluation (batch-norm, dropout, containers holding them).
type Trainer interface {
	SetTraining(training bool)
	Training() bool
}

// Container is implemented by modules that hold sub-modules.
type Container[B tensor.Backend] interface {
	Children() []Module[B]
}

// SetTraining switches m and every module below it to training or
// evaluation mode.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	if t, ok := m.(Trainer); ok {
		t.SetTraining(training)
		return
	}
	if c, ok := m.(Container[B]); ok {
		for _, child := range c.Children() {
			SetTraining(child, training)
		}
	}
}

// CountParameters returns the total number of learnable scalars in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	total := 0
	for _, p := range params {
		total += p.NumElements()
	}
	return total
}
