// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Conv2D, Linear, MaxPool2D, AvgPool2D, BatchNorm2D, Dropout2D, Flatten
//   - Activations: ReLU, LeakyReLU
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: Xavier, Zeros, Ones, Seed
//
// # Basic Usage
//
//	import (
//	    "github.com/TrellixVulnTeam/DL-PJIE/nn"
//	    "github.com/TrellixVulnTeam/DL-PJIE/backend/cpu"
//	    "github.com/TrellixVulnTeam/DL-PJIE/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    model := nn.NewSequential[*cpu.Backend](
//	        nn.NewConv2D(3, 16, 3, 1, 1, 1, true, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewMaxPool2D[*cpu.Backend](tensor.Window{Kernel: 2, Stride: 2, Dilation: 1}),
//	        nn.NewFlatten[*cpu.Backend](),
//	        nn.NewLinear(16*16*16, 10, backend),
//	    )
//
//	    shape, err := model.OutputShape(tensor.Shape{1, 3, 32, 32}) // [1, 10]
//	    output := model.Forward(input)
//	}
//
// # Training and Evaluation
//
// BatchNorm2D and Dropout2D behave differently in training mode, which is
// the default. Switch a whole model with SetTraining:
//
//	nn.SetTraining[*cpu.Backend](model, false)
package nn
