package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// general wraps row-major float32 storage as a blas32 matrix.
func general(rows, cols int, data []float32) blas32.General {
	return blas32.General{Rows: rows, Cols: cols, Stride: cols, Data: data}
}

// Linear computes x @ weight.T + bias.
//
// Shapes:
//
//	x:      [N, in]
//	weight: [out, in]
//	bias:   [out] or nil
//	result: [N, out]
func (cpu *CPUBackend) Linear(x, weight, bias *tensor.RawTensor) *tensor.RawTensor {
	xShape, wShape := x.Shape(), weight.Shape()
	if len(xShape) != 2 || len(wShape) != 2 {
		panic(fmt.Sprintf("linear: expected 2D input and weight, got %v and %v", xShape, wShape))
	}
	n, in := xShape[0], xShape[1]
	out := wShape[0]
	if wShape[1] != in {
		panic(fmt.Sprintf("linear: input features %d != weight features %d", in, wShape[1]))
	}
	if bias != nil && bias.NumElements() != out {
		panic(fmt.Sprintf("linear: bias has %d elements, expected %d", bias.NumElements(), out))
	}

	result := cpu.alloc("linear", tensor.Shape{n, out})
	blas32.Gemm(blas.NoTrans, blas.Trans, 1,
		general(n, in, x.Data()),
		general(out, in, weight.Data()),
		0, general(n, out, result.Data()))

	if bias != nil {
		b := bias.Data()
		data := result.Data()
		for row := 0; row < n; row++ {
			r := data[row*out : (row+1)*out]
			for j := range r {
				r[j] += b[j]
			}
		}
	}
	return result
}
