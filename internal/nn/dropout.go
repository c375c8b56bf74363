package nn

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Dropout2D zeroes entire channels of an NCHW tensor with probability p
// during training and scales the surviving channels by 1/(1-p).
// In evaluation mode it is the identity.
type Dropout2D[B tensor.Backend] struct {
	p        float32
	training bool
}

// NewDropout2D creates a channel dropout layer in training mode.
// Panics unless 0 <= p <= 1.
func NewDropout2D[B tensor.Backend](p float32) *Dropout2D[B] {
	if p < 0 || p > 1 {
		panic(fmt.Sprintf("dropout2d: probability must be in [0, 1], got %g", p))
	}
	return &Dropout2D[B]{p: p, training: true}
}

// Forward applies channel dropout.
func (d *Dropout2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := mustShape(d.OutputShape(input.Shape()))
	if !d.training || d.p == 0 {
		return input
	}

	// View [N, C, H, W] as [1, N*C, H*W] so every (sample, channel) pair
	// gets its own scale.
	backend := input.Backend()
	planes := shape[0] * shape[1]
	flat := backend.Reshape(input.Raw(), tensor.Shape{1, planes, shape[2] * shape[3]})

	keep := float32(0)
	if d.p < 1 {
		keep = 1 / (1 - d.p)
	}
	mask := tensor.MustRaw(tensor.Shape{planes}, backend.Device())
	for i := range mask.Data() {
		if float32(uniform()) >= d.p {
			mask.Data()[i] = keep
		}
	}

	out := backend.ChannelAffine(flat, mask, nil)
	return tensor.New(backend.Reshape(out, shape), backend)
}

// OutputShape returns in unchanged.
func (d *Dropout2D[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	if err := expectNCHW("dropout2d", in, -1); err != nil {
		return nil, err
	}
	return in.Clone(), nil
}

// Parameters returns nil.
func (d *Dropout2D[B]) Parameters() []*Parameter[B] { return nil }

// P returns the drop probability.
func (d *Dropout2D[B]) P() float32 { return d.p }

// SetTraining enables or disables dropout.
func (d *Dropout2D[B]) SetTraining(training bool) { d.training = training }

// Training reports whether dropout is active.
func (d *Dropout2D[B]) Training() bool { return d.training }

// String returns a human-readable representation.
func (d *Dropout2D[B]) String() string {
	return fmt.Sprintf("Dropout2d(p=%g)", d.p)
}
