package cpu

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// channelLayout returns batch, channels and the number of elements per
// channel for a [N, C, ...] tensor.
func channelLayout(op string, x *tensor.RawTensor) (n, c, inner int) {
	shape := x.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("%s: expected at least [N, C], got %v", op, shape))
	}
	n, c = shape[0], shape[1]
	inner = 1
	for _, d := range shape[2:] {
		inner *= d
	}
	return n, c, inner
}

// ChannelAffine computes x*scale[c] + shift[c] for every element of channel c.
// A nil scale means 1, a nil shift means 0.
func (cpu *CPUBackend) ChannelAffine(x, scale, shift *tensor.RawTensor) *tensor.RawTensor {
	n, c, inner := channelLayout("channel_affine", x)
	var scaleData, shiftData []float32
	if scale != nil {
		if scale.NumElements() != c {
			panic(fmt.Sprintf("channel_affine: scale has %d elements, expected %d", scale.NumElements(), c))
		}
		scaleData = scale.Data()
	}
	if shift != nil {
		if shift.NumElements() != c {
			panic(fmt.Sprintf("channel_affine: shift has %d elements, expected %d", shift.NumElements(), c))
		}
		shiftData = shift.Data()
	}

	result := cpu.alloc("channel_affine", x.Shape())
	src, dst := x.Data(), result.Data()
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			a, s := float32(1), float32(0)
			if scaleData != nil {
				a = scaleData[ch]
			}
			if shiftData != nil {
				s = shiftData[ch]
			}
			off := (b*c + ch) * inner
			for i := off; i < off+inner; i++ {
				dst[i] = src[i]*a + s
			}
		}
	}
	return result
}

// ChannelMoments returns per-channel mean and biased variance over the batch
// and all trailing axes. Accumulation is done in float64.
func (cpu *CPUBackend) ChannelMoments(x *tensor.RawTensor) (mean, variance *tensor.RawTensor) {
	n, c, inner := channelLayout("channel_moments", x)
	mean = cpu.alloc("channel_moments", tensor.Shape{c})
	variance = cpu.alloc("channel_moments", tensor.Shape{c})

	src := x.Data()
	count := float64(n * inner)
	meanData, varData := mean.Data(), variance.Data()
	for ch := 0; ch < c; ch++ {
		var sum float64
		for b := 0; b < n; b++ {
			off := (b*c + ch) * inner
			for _, v := range src[off : off+inner] {
				sum += float64(v)
			}
		}
		mu := sum / count

		var sq float64
		for b := 0; b < n; b++ {
			off := (b*c + ch) * inner
			for _, v := range src[off : off+inner] {
				d := float64(v) - mu
				sq += d * d
			}
		}
		meanData[ch] = float32(mu)
		varData[ch] = float32(sq / count)
	}
	return mean, variance
}
