// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/TrellixVulnTeam/DL-PJIE/internal/backend/cpu"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/parallel"
	"github.com/TrellixVulnTeam/DL-PJIE/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend that spreads batch items across all cores.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that runs every kernel on the calling goroutine.
func NewSequential() *Backend {
	return internalcpu.NewWithConfig(parallel.Config{})
}

// NewWithWorkers creates a CPU backend limited to n concurrent workers.
func NewWithWorkers(n int) *Backend {
	cfg := parallel.HeavyConfig()
	cfg.NumWorkers = n
	cfg.Enabled = n > 1
	return internalcpu.NewWithConfig(cfg)
}
