// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Trainer is implemented by modules with train/eval dependent behaviour.
type Trainer = nn.Trainer

// Container is implemented by modules holding sub-modules.
type Container[B tensor.Backend] = nn.Container[B]

// Parameter represents a learnable tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Conv2D represents a 2D convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer with square kernels.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(3, 32, 3, 1, 1, 1, true, backend)  // in=3, out=32, kernel=3, stride=1, padding=1, dilation=1, bias
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernel, stride, padding, dilation int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernel, stride, padding, dilation, useBias, backend)
}

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D[B tensor.Backend](w tensor.Window) *MaxPool2D[B] {
	return nn.NewMaxPool2D[B](w)
}

// AvgPool2D represents a 2D average pooling layer.
type AvgPool2D[B tensor.Backend] = nn.AvgPool2D[B]

// NewAvgPool2D creates a new 2D average pooling layer.
func NewAvgPool2D[B tensor.Backend](w tensor.Window) *AvgPool2D[B] {
	return nn.NewAvgPool2D[B](w)
}

// BatchNorm2D represents per-channel batch normalization.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a batch-norm layer with eps 1e-5 and momentum 0.1.
func NewBatchNorm2D[B tensor.Backend](channels int, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(channels, backend)
}

// Dropout2D represents channel-wise dropout.
type Dropout2D[B tensor.Backend] = nn.Dropout2D[B]

// NewDropout2D creates a channel dropout layer.
func NewDropout2D[B tensor.Backend](p float32) *Dropout2D[B] {
	return nn.NewDropout2D[B](p)
}

// Flatten reshapes [N, ...] into [N, features].
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// LeakyReLU represents the leaky rectifier.
type LeakyReLU[B tensor.Backend] = nn.LeakyReLU[B]

// NewLeakyReLU creates a LeakyReLU with the given negative slope.
func NewLeakyReLU[B tensor.Backend](slope float32) *LeakyReLU[B] {
	return nn.NewLeakyReLU[B](slope)
}

// Containers

// Sequential represents a sequential container of modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// SetTraining switches m and every module below it to training or evaluation mode.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	nn.SetTraining(m, training)
}

// Initialization

// Seed makes weight initialization and dropout masks reproducible.
func Seed(seed int64) {
	nn.Seed(seed)
}

// Xavier returns a tensor drawn from the Glorot uniform distribution.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return nn.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return nn.Ones(shape, backend)
}

// CountParameters returns the number of learnable scalars in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	return nn.CountParameters(params)
}
