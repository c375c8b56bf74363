package cpu

import (
	"fmt"
	"math"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/parallel"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// MaxPool2D performs 2D max pooling over each channel.
//
// Input shape:  [N, C, H, W]
// Output shape: [N, C, H_out, W_out]
//
// Padded positions behave as -Inf, so they never win.
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, w tensor.Window) *tensor.RawTensor {
	negInf := float32(math.Inf(-1))
	return cpu.pool("maxpool2d", input, w, func(window func(yield func(v float32))) float32 {
		best := negInf
		window(func(v float32) {
			if v > best {
				best = v
			}
		})
		return best
	})
}

// AvgPool2D performs 2D average pooling over each channel.
//
// Padded positions count as zeros in the divisor (count_include_pad).
// Dilation must be 1.
func (cpu *CPUBackend) AvgPool2D(input *tensor.RawTensor, w tensor.Window) *tensor.RawTensor {
	if w.Dilation != 1 {
		panic(fmt.Sprintf("avgpool2d: dilation must be 1, got %d", w.Dilation))
	}
	divisor := float32(w.Kernel * w.Kernel)
	return cpu.pool("avgpool2d", input, w, func(window func(yield func(v float32))) float32 {
		var sum float32
		window(func(v float32) {
			sum += v
		})
		return sum / divisor
	})
}

// pool drives a reduction over every output window of every (batch, channel) plane.
// reduce receives an iterator over the in-bounds window values.
func (cpu *CPUBackend) pool(
	op string,
	input *tensor.RawTensor,
	w tensor.Window,
	reduce func(window func(yield func(v float32))) float32,
) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: input must be 4D [N, C, H, W], got %v", op, shape))
	}
	n, c, h, width := shape[0], shape[1], shape[2], shape[3]
	outH, outW, err := w.OutputHW(h, width)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result := cpu.alloc(op, tensor.Shape{n, c, outH, outW})
	inData, outData := input.Data(), result.Data()

	parallel.ForBatch(n, c, func(b, ch int) {
		planeIdx := b*c + ch
		plane := inData[planeIdx*h*width : (planeIdx+1)*h*width]
		out := outData[planeIdx*outH*outW : (planeIdx+1)*outH*outW]

		for oh := 0; oh < outH; oh++ {
			for ow := 0; ow < outW; ow++ {
				hStart := oh*w.Stride - w.Padding
				wStart := ow*w.Stride - w.Padding
				out[oh*outW+ow] = reduce(func(yield func(v float32)) {
					for kh := 0; kh < w.Kernel; kh++ {
						ih := hStart + kh*w.Dilation
						if ih < 0 || ih >= h {
							continue
						}
						for kw := 0; kw < w.Kernel; kw++ {
							iw := wStart + kw*w.Dilation
							if iw >= 0 && iw < width {
								yield(plane[ih*width+iw])
							}
						}
					}
				})
			}
		}
	}, cpu.parallel)

	return result
}
