package tensor

import "fmt"

// Window describes a square sliding window shared by convolution and pooling.
//
// The output extent along one spatial axis follows the usual formula:
//
//	out = floor((in + 2*padding - dilation*(kernel-1) - 1) / stride) + 1
//
// Example:
//
//	w := tensor.Window{Kernel: 3, Stride: 1, Padding: 1, Dilation: 1}
//	out, _ := w.OutputSize(32) // 32
type Window struct {
	Kernel   int
	Stride   int
	Padding  int
	Dilation int
}

// Validate checks the window hyper-parameters.
func (w Window) Validate() error {
	switch {
	case w.Kernel < 1:
		return fmt.Errorf("invalid kernel size %d", w.Kernel)
	case w.Stride < 1:
		return fmt.Errorf("invalid stride %d", w.Stride)
	case w.Padding < 0:
		return fmt.Errorf("invalid padding %d", w.Padding)
	case w.Dilation < 1:
		return fmt.Errorf("invalid dilation %d", w.Dilation)
	}
	return nil
}

// Extent returns the number of input positions covered by one dilated window.
func (w Window) Extent() int {
	return w.Dilation*(w.Kernel-1) + 1
}

// OutputSize returns the output extent along one axis of length in.
func (w Window) OutputSize(in int) (int, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}
	if in < 1 {
		return 0, fmt.Errorf("invalid input size %d", in)
	}
	span := in + 2*w.Padding - w.Extent()
	if span < 0 {
		return 0, fmt.Errorf("window extent %d exceeds padded input %d", w.Extent(), in+2*w.Padding)
	}
	return span/w.Stride + 1, nil
}

// OutputHW applies OutputSize to both spatial axes.
func (w Window) OutputHW(h, wd int) (int, int, error) {
	outH, err := w.OutputSize(h)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	outW, err := w.OutputSize(wd)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	return outH, outW, nil
}

// String returns a compact description of the window.
func (w Window) String() string {
	return fmt.Sprintf("kernel_size=%d, stride=%d, padding=%d, dilation=%d",
		w.Kernel, w.Stride, w.Padding, w.Dilation)
}
