// Package cpu implements the pure Go CPU backend. Dense products go through
// gonum's blas32 GEMM; batch items are spread across cores.
package cpu

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/parallel"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.HeavyConfig(),
	}
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition of two tensors with equal shapes.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("add: shape mismatch %v vs %v", a.Shape(), b.Shape()))
	}

	result := cpu.alloc("add", a.Shape())
	aData, bData, out := a.Data(), b.Data(), result.Data()
	for i := range out {
		out[i] = aData[i] + bData[i]
	}
	return result
}

// Reshape returns a view of t with a new shape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	view, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// alloc creates a zeroed output tensor, panicking with the operation name on failure.
func (cpu *CPUBackend) alloc(op string, shape tensor.Shape) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}
