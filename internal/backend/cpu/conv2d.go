package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/parallel"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in, K, K]
// Output shape: [N, C_out, H_out, W_out]
//
// Each image is unfolded into a [C_in*K*K, H_out*W_out] column matrix and
// multiplied by the kernel viewed as [C_out, C_in*K*K]. The product is laid
// out exactly as the image's slice of the NCHW output, so no transpose is
// needed. Images run concurrently.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, w tensor.Window) *tensor.RawTensor {
	inShape, kShape := input.Shape(), kernel.Shape()
	if len(inShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N, C, H, W], got %v", inShape))
	}
	if len(kShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out, C_in, K, K], got %v", kShape))
	}
	n, cIn, h, width := inShape[0], inShape[1], inShape[2], inShape[3]
	cOut := kShape[0]
	if kShape[1] != cIn {
		panic(fmt.Sprintf("conv2d: channel mismatch: input has %d, kernel expects %d", cIn, kShape[1]))
	}
	if kShape[2] != w.Kernel || kShape[3] != w.Kernel {
		panic(fmt.Sprintf("conv2d: kernel shape %v does not match window %s", kShape, w))
	}
	outH, outW, err := w.OutputHW(h, width)
	if err != nil {
		panic(fmt.Sprintf("conv2d: %v", err))
	}

	result := cpu.alloc("conv2d", tensor.Shape{n, cOut, outH, outW})

	colRows := cIn * w.Kernel * w.Kernel
	colCols := outH * outW
	inPlane := cIn * h * width
	outPlane := cOut * colCols

	weights := general(cOut, colRows, kernel.Data())
	inData, outData := input.Data(), result.Data()

	parallel.For(n, func(b int) {
		col := make([]float32, colRows*colCols)
		im2col(inData[b*inPlane:(b+1)*inPlane], col, cIn, h, width, outH, outW, w)
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
			weights,
			general(colRows, colCols, col),
			0, general(cOut, colCols, outData[b*outPlane:(b+1)*outPlane]))
	}, cpu.parallel)

	return result
}

// im2col unfolds one [C, H, W] image into col, a row-major
// [C*K*K, outH*outW] matrix. Row index is (c*K+kh)*K+kw; padded positions stay zero.
func im2col(img, col []float32, channels, h, width, outH, outW int, w tensor.Window) {
	k := w.Kernel
	cols := outH * outW
	for c := 0; c < channels; c++ {
		plane := img[c*h*width : (c+1)*h*width]
		for kh := 0; kh < k; kh++ {
			for kw := 0; kw < k; kw++ {
				row := col[((c*k+kh)*k+kw)*cols:][:cols]
				for oh := 0; oh < outH; oh++ {
					ih := oh*w.Stride - w.Padding + kh*w.Dilation
					if ih < 0 || ih >= h {
						continue
					}
					src := plane[ih*width : (ih+1)*width]
					dst := row[oh*outW : (oh+1)*outW]
					for ow := range dst {
						iw := ow*w.Stride - w.Padding + kw*w.Dilation
						if iw >= 0 && iw < width {
							dst[ow] = src[iw]
						}
					}
				}
			}
		}
	}
}
