package nn

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Conv2D is a 2D convolutional layer with square kernels.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel, kernel]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - dilation*(kernel-1) - 1) / stride + 1
//
// Example:
//
//	conv := nn.NewConv2D(3, 32, 3, 1, 1, 1, true, backend)
//	output := conv.Forward(input) // [N, 3, 32, 32] -> [N, 32, 32, 32]
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	window      tensor.Window

	weight *Parameter[B] // [out_channels, in_channels, kernel, kernel]
	bias   *Parameter[B] // [out_channels] or nil

	backend B
}

// NewConv2D creates a new 2D convolutional layer.
//
// Initialization:
//   - Weights: Xavier/Glorot uniform initialization
//   - Bias: Zeros
//
// Panics on non-positive channels or an invalid window.
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernel, stride, padding, dilation int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	w := tensor.Window{Kernel: kernel, Stride: stride, Padding: padding, Dilation: dilation}
	if err := w.Validate(); err != nil {
		panic(fmt.Sprintf("conv2d: %v", err))
	}

	// fan_in = in_channels * k * k, fan_out = out_channels * k * k
	fanIn := inChannels * kernel * kernel
	fanOut := outChannels * kernel * kernel
	weight := Xavier(fanIn, fanOut, tensor.Shape{outChannels, inChannels, kernel, kernel}, backend)

	var bias *Parameter[B]
	if useBias {
		bias = NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend))
	}

	return &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		window:      w,
		weight:      NewParameter("weight", weight),
		bias:        bias,
		backend:     backend,
	}
}

// Forward performs the convolution.
func (c *Conv2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	mustShape(c.OutputShape(input.Shape()))

	out := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.window)
	if c.bias != nil {
		out = c.backend.ChannelAffine(out, nil, c.bias.Tensor().Raw())
	}
	return tensor.New(out, c.backend)
}

// OutputShape returns [N, out_channels, out_h, out_w] for an [N, in_channels, H, W] input.
func (c *Conv2D[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	if err := expectNCHW("conv2d", in, c.inChannels); err != nil {
		return nil, err
	}
	outH, outW, err := c.window.OutputHW(in[2], in[3])
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	return tensor.Shape{in[0], c.outChannels, outH, outW}, nil
}

// Parameters returns the weight and, if present, the bias.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int { return c.inChannels }

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int { return c.outChannels }

// Window returns the convolution geometry.
func (c *Conv2D[B]) Window() tensor.Window { return c.window }

// Weight returns the kernel parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] { return c.weight }

// Bias returns the bias parameter, or nil when the layer has none.
func (c *Conv2D[B]) Bias() *Parameter[B] { return c.bias }

// String returns a human-readable representation.
func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2d(%d, %d, %s, bias=%t)", c.inChannels, c.outChannels, c.window, c.bias != nil)
}
