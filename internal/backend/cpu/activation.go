package cpu

import "github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("relu", x.Shape())
	src, dst := x.Data(), result.Data()
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
	return result
}

// LeakyReLU computes x for x > 0 and slope*x otherwise.
func (cpu *CPUBackend) LeakyReLU(x *tensor.RawTensor, slope float32) *tensor.RawTensor {
	result := cpu.alloc("leaky_relu", x.Shape())
	src, dst := x.Data(), result.Data()
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		} else {
			dst[i] = slope * v
		}
	}
	return result
}
