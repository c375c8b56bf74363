package nn

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// MaxPool2D is a 2D max pooling layer.
//
// Example:
//
//	pool := nn.NewMaxPool2D[Backend](tensor.Window{Kernel: 2, Stride: 2, Dilation: 1})
//	output := pool.Forward(input) // [N, C, 28, 28] -> [N, C, 14, 14]
type MaxPool2D[B tensor.Backend] struct {
	window tensor.Window
}

// NewMaxPool2D creates a max pooling layer. Panics on an invalid window.
func NewMaxPool2D[B tensor.Backend](w tensor.Window) *MaxPool2D[B] {
	if err := validatePool(w); err != nil {
		panic(fmt.Sprintf("maxpool2d: %v", err))
	}
	return &MaxPool2D[B]{window: w}
}

// Forward applies max pooling.
func (p *MaxPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	mustShape(p.OutputShape(input.Shape()))
	backend := input.Backend()
	return tensor.New(backend.MaxPool2D(input.Raw(), p.window), backend)
}

// OutputShape returns the pooled shape.
func (p *MaxPool2D[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	return poolShape("maxpool2d", p.window, in)
}

// Parameters returns nil (pooling has no learnable parameters).
func (p *MaxPool2D[B]) Parameters() []*Parameter[B] { return nil }

// Window returns the pooling geometry.
func (p *MaxPool2D[B]) Window() tensor.Window { return p.window }

// String returns a human-readable representation.
func (p *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2d(%s)", p.window)
}

// AvgPool2D is a 2D average pooling layer. Zero padding is counted in the
// divisor and dilation must be 1.
type AvgPool2D[B tensor.Backend] struct {
	window tensor.Window
}

// NewAvgPool2D creates an average pooling layer. Panics on an invalid window.
func NewAvgPool2D[B tensor.Backend](w tensor.Window) *AvgPool2D[B] {
	if err := validatePool(w); err != nil {
		panic(fmt.Sprintf("avgpool2d: %v", err))
	}
	if w.Dilation != 1 {
		panic(fmt.Sprintf("avgpool2d: dilation must be 1, got %d", w.Dilation))
	}
	return &AvgPool2D[B]{window: w}
}

// Forward applies average pooling.
func (p *AvgPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	mustShape(p.OutputShape(input.Shape()))
	backend := input.Backend()
	return tensor.New(backend.AvgPool2D(input.Raw(), p.window), backend)
}

// OutputShape returns the pooled shape.
func (p *AvgPool2D[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	return poolShape("avgpool2d", p.window, in)
}

// Parameters returns nil (pooling has no learnable parameters).
func (p *AvgPool2D[B]) Parameters() []*Parameter[B] { return nil }

// Window returns the pooling geometry.
func (p *AvgPool2D[B]) Window() tensor.Window { return p.window }

// String returns a human-readable representation.
func (p *AvgPool2D[B]) String() string {
	w := p.window
	return fmt.Sprintf("AvgPool2d(kernel_size=%d, stride=%d, padding=%d)", w.Kernel, w.Stride, w.Padding)
}

// validatePool checks the window and that padding stays within half the
// dilated kernel, so every window touches at least one real input.
func validatePool(w tensor.Window) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if 2*w.Padding > w.Extent() {
		return fmt.Errorf("padding %d exceeds half of window extent %d", w.Padding, w.Extent())
	}
	return nil
}

func poolShape(layer string, w tensor.Window, in tensor.Shape) (tensor.Shape, error) {
	if err := expectNCHW(layer, in, -1); err != nil {
		return nil, err
	}
	outH, outW, err := w.OutputHW(in[2], in[3])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", layer, err)
	}
	return tensor.Shape{in[0], in[1], outH, outW}, nil
}
