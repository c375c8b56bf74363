package nn

import (
	"fmt"
	"math"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Default BatchNorm2D hyper-parameters.
const (
	DefaultBatchNormEps      = 1e-5
	DefaultBatchNormMomentum = 0.1
)

// BatchNorm2D normalizes each channel of an NCHW tensor.
//
//	y = (x - mean) / sqrt(var + eps) * gamma + beta
//
// In training mode mean and variance come from the current batch and the
// running statistics are updated with momentum:
//
//	running = (1 - momentum) * running + momentum * batch
//
// The running variance uses the unbiased batch estimate. In evaluation mode
// the running statistics are used instead.
type BatchNorm2D[B tensor.Backend] struct {
	channels int
	eps      float32
	momentum float32
	training bool

	gamma *Parameter[B] // [channels], initialized to 1
	beta  *Parameter[B] // [channels], initialized to 0

	runningMean *tensor.Tensor[B]
	runningVar  *tensor.Tensor[B]

	backend B
}

// NewBatchNorm2D creates a batch-norm layer with eps 1e-5 and momentum 0.1.
// The layer starts in training mode.
func NewBatchNorm2D[B tensor.Backend](channels int, backend B) *BatchNorm2D[B] {
	return NewBatchNorm2DWithOptions(channels, DefaultBatchNormEps, DefaultBatchNormMomentum, backend)
}

// NewBatchNorm2DWithOptions creates a batch-norm layer with explicit eps and momentum.
func NewBatchNorm2DWithOptions[B tensor.Backend](channels int, eps, momentum float32, backend B) *BatchNorm2D[B] {
	if channels <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid channels %d", channels))
	}
	if eps <= 0 || momentum < 0 || momentum > 1 {
		panic(fmt.Sprintf("batchnorm2d: invalid eps=%g or momentum=%g", eps, momentum))
	}
	shape := tensor.Shape{channels}
	return &BatchNorm2D[B]{
		channels:    channels,
		eps:         eps,
		momentum:    momentum,
		training:    true,
		gamma:       NewParameter("weight", Ones(shape, backend)),
		beta:        NewParameter("bias", Zeros(shape, backend)),
		runningMean: Zeros(shape, backend),
		runningVar:  Ones(shape, backend),
		backend:     backend,
	}
}

// Forward normalizes the input.
func (bn *BatchNorm2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	mustShape(bn.OutputShape(input.Shape()))

	var mean, variance []float32
	if bn.training {
		m, v := bn.backend.ChannelMoments(input.Raw())
		mean, variance = m.Data(), v.Data()
		bn.updateRunning(mean, variance, input.NumElements()/bn.channels)
	} else {
		mean, variance = bn.runningMean.Data(), bn.runningVar.Data()
	}

	scale := tensor.MustRaw(tensor.Shape{bn.channels}, bn.backend.Device())
	shift := tensor.MustRaw(tensor.Shape{bn.channels}, bn.backend.Device())
	gamma, beta := bn.gamma.Tensor().Data(), bn.beta.Tensor().Data()
	for c := 0; c < bn.channels; c++ {
		s := gamma[c] / float32(math.Sqrt(float64(variance[c]+bn.eps)))
		scale.Data()[c] = s
		shift.Data()[c] = beta[c] - mean[c]*s
	}

	return tensor.New(bn.backend.ChannelAffine(input.Raw(), scale, shift), bn.backend)
}

func (bn *BatchNorm2D[B]) updateRunning(mean, variance []float32, count int) {
	correction := float32(1)
	if count > 1 {
		correction = float32(count) / float32(count-1)
	}
	rm, rv := bn.runningMean.Data(), bn.runningVar.Data()
	for c := range rm {
		rm[c] = (1-bn.momentum)*rm[c] + bn.momentum*mean[c]
		rv[c] = (1-bn.momentum)*rv[c] + bn.momentum*variance[c]*correction
	}
}

// OutputShape returns in unchanged after checking the channel count.
func (bn *BatchNorm2D[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	if err := expectNCHW("batchnorm2d", in, bn.channels); err != nil {
		return nil, err
	}
	return in.Clone(), nil
}

// Parameters returns gamma and beta.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// RunningMean returns the running mean buffer.
func (bn *BatchNorm2D[B]) RunningMean() *tensor.Tensor[B] { return bn.runningMean }

// RunningVar returns the running variance buffer.
func (bn *BatchNorm2D[B]) RunningVar() *tensor.Tensor[B] { return bn.runningVar }

// SetTraining switches between batch statistics and running statistics.
func (bn *BatchNorm2D[B]) SetTraining(training bool) { bn.training = training }

// Training reports whether the layer uses batch statistics.
func (bn *BatchNorm2D[B]) Training() bool { return bn.training }

// String returns a human-readable representation.
func (bn *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2d(%d, eps=%g, momentum=%g)", bn.channels, bn.eps, bn.momentum)
}
