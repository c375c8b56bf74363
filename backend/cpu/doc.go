// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col convolutions with dilation, multiplied through gonum's blas32 GEMM
//   - Max and average pooling with padding
//   - Per-channel affine and moment kernels for batch-norm and channel dropout
//   - Batch items processed concurrently
//
// # Basic Usage
//
//	import (
//	    "github.com/TrellixVulnTeam/DL-PJIE/backend/cpu"
//	    "github.com/TrellixVulnTeam/DL-PJIE/nn"
//	    "github.com/TrellixVulnTeam/DL-PJIE/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    conv := nn.NewConv2D(3, 32, 3, 1, 1, 1, true, backend)
//	    y := conv.Forward(tensor.Zeros(tensor.Shape{8, 3, 32, 32}, backend))
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
