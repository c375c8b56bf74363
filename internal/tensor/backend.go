package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Kernels panic when their shape contract is violated. Callers validate
// user-supplied configuration before reaching a backend.
//
// Implementations:
//   - CPU: pure Go, GEMM via gonum (internal/backend/cpu)
type Backend interface {
	// Element-wise operations.
	Add(a, b *RawTensor) *RawTensor // a + b, equal shapes.

	// Dense operations.
	//
	// Linear computes x @ weight.T + bias for x [N, in], weight [out, in],
	// bias [out] (bias may be nil).
	Linear(x, weight, bias *RawTensor) *RawTensor

	// Spatial operations on NCHW tensors.
	Conv2D(input, kernel *RawTensor, w Window) *RawTensor // kernel [C_out, C_in, K, K].
	MaxPool2D(input *RawTensor, w Window) *RawTensor
	AvgPool2D(input *RawTensor, w Window) *RawTensor

	// Activations.
	ReLU(x *RawTensor) *RawTensor
	LeakyReLU(x *RawTensor, slope float32) *RawTensor

	// Per-channel operations on [N, C, ...] tensors.
	//
	// ChannelAffine computes x*scale[c] + shift[c]; scale or shift may be nil.
	ChannelAffine(x, scale, shift *RawTensor) *RawTensor
	// ChannelMoments returns per-channel mean and biased variance over all
	// non-channel axes, each with shape [C].
	ChannelMoments(x *RawTensor) (mean, variance *RawTensor)

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
