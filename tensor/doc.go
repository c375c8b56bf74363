// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides float32 tensors bound to a compute backend.
//
// # Overview
//
// This package provides:
//   - Generic tensors (Tensor[B]) in NCHW layout for images
//   - Shape arithmetic and the Window geometry shared by convolution and pooling
//   - The Backend interface implemented by backend/cpu
//
// # Basic Usage
//
//	import (
//	    "github.com/TrellixVulnTeam/DL-PJIE/tensor"
//	    "github.com/TrellixVulnTeam/DL-PJIE/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros(tensor.Shape{8, 3, 32, 32}, backend)
//	    flat := x.Reshape(8, -1) // [8, 3072]
//	}
//
// # Window Arithmetic
//
// Window.OutputSize applies
//
//	out = floor((in + 2*padding - dilation*(kernel-1) - 1) / stride) + 1
//
// and reports an error when the window does not fit the padded input.
package tensor
