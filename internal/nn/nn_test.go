package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/backend/cpu"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

type backend = *cpu.CPUBackend

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.Tensor[backend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, cpu.New())
	require.NoError(t, err)
	return x
}

func TestParameter(t *testing.T) {
	data := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	param := nn.NewParameter("test_param", data)

	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, data, param.Tensor())
	assert.Equal(t, 3, param.NumElements())
}

func TestXavier_Bounds(t *testing.T) {
	nn.Seed(1)
	w := nn.Xavier(4, 2, tensor.Shape{2, 4}, cpu.New())
	bound := float32(1.0) // sqrt(6 / 6)
	for _, v := range w.Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}

func TestSeed_Reproducible(t *testing.T) {
	nn.Seed(42)
	a := nn.NewConv2D(3, 4, 3, 1, 1, 1, true, cpu.New())
	nn.Seed(42)
	b := nn.NewConv2D(3, 4, 3, 1, 1, 1, true, cpu.New())
	assert.Equal(t, a.Weight().Tensor().Data(), b.Weight().Tensor().Data())
}

func TestConv2D(t *testing.T) {
	b := cpu.New()
	conv := nn.NewConv2D(3, 32, 3, 1, 1, 1, true, b)

	assert.Equal(t, 3, conv.InChannels())
	assert.Equal(t, 32, conv.OutChannels())
	assert.Len(t, conv.Parameters(), 2)
	assert.Equal(t, 32*3*3*3+32, nn.CountParameters(conv.Parameters()))
	assert.Equal(t, "Conv2d(3, 32, kernel_size=3, stride=1, padding=1, dilation=1, bias=true)", conv.String())

	out := conv.Forward(tensor.Zeros(tensor.Shape{2, 3, 8, 8}, b))
	assert.Equal(t, tensor.Shape{2, 32, 8, 8}, out.Shape())

	noBias := nn.NewConv2D(3, 8, 1, 1, 0, 1, false, b)
	assert.Nil(t, noBias.Bias())
	assert.Len(t, noBias.Parameters(), 1)
}

func TestConv2D_BiasAdded(t *testing.T) {
	b := cpu.New()
	conv := nn.NewConv2D(1, 1, 1, 1, 0, 1, true, b)
	conv.Weight().Tensor().Data()[0] = 2
	conv.Bias().Tensor().Data()[0] = 0.5

	out := conv.Forward(fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2}))
	assert.Equal(t, []float32{2.5, 4.5, 6.5, 8.5}, out.Data())
}

func TestConv2D_OutputShape(t *testing.T) {
	conv := nn.NewConv2D(3, 16, 5, 2, 2, 1, true, cpu.New())

	out, err := conv.OutputShape(tensor.Shape{1, 3, 28, 28})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 16, 14, 14}, out)

	_, err = conv.OutputShape(tensor.Shape{1, 4, 28, 28})
	assert.ErrorContains(t, err, "channels")

	_, err = conv.OutputShape(tensor.Shape{3, 28, 28})
	assert.ErrorContains(t, err, "4D")

	small := nn.NewConv2D(3, 16, 5, 1, 0, 1, true, cpu.New())
	_, err = small.OutputShape(tensor.Shape{1, 3, 3, 3})
	assert.Error(t, err)

	assert.Panics(t, func() { conv.Forward(tensor.Zeros(tensor.Shape{1, 4, 8, 8}, cpu.New())) })
}

func TestConv2D_InvalidHyperParameters(t *testing.T) {
	b := cpu.New()
	assert.Panics(t, func() { nn.NewConv2D(0, 1, 3, 1, 0, 1, true, b) })
	assert.Panics(t, func() { nn.NewConv2D(1, 1, 0, 1, 0, 1, true, b) })
	assert.Panics(t, func() { nn.NewConv2D(1, 1, 3, 0, 0, 1, true, b) })
	assert.Panics(t, func() { nn.NewConv2D(1, 1, 3, 1, -1, 1, true, b) })
	assert.Panics(t, func() { nn.NewConv2D(1, 1, 3, 1, 0, 0, true, b) })
}

func TestPooling(t *testing.T) {
	w := tensor.Window{Kernel: 2, Stride: 2, Dilation: 1}
	input := fromSlice(t, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 1, 4, 4})

	maxPool := nn.NewMaxPool2D[backend](w)
	assert.Equal(t, []float32{6, 8, 14, 16}, maxPool.Forward(input).Data())
	assert.Empty(t, maxPool.Parameters())
	assert.Equal(t, "MaxPool2d(kernel_size=2, stride=2, padding=0, dilation=1)", maxPool.String())

	avgPool := nn.NewAvgPool2D[backend](w)
	assert.Equal(t, []float32{3.5, 5.5, 11.5, 13.5}, avgPool.Forward(input).Data())
	assert.Equal(t, "AvgPool2d(kernel_size=2, stride=2, padding=0)", avgPool.String())

	out, err := maxPool.OutputShape(tensor.Shape{2, 3, 28, 28})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 14, 14}, out)
}

func TestPooling_InvalidWindow(t *testing.T) {
	assert.Panics(t, func() {
		nn.NewMaxPool2D[backend](tensor.Window{Kernel: 2, Stride: 2, Padding: 2, Dilation: 1})
	}, "padding larger than half the kernel")
	assert.Panics(t, func() {
		nn.NewAvgPool2D[backend](tensor.Window{Kernel: 2, Stride: 2, Dilation: 2})
	}, "dilated average pooling")
	assert.NotPanics(t, func() {
		nn.NewMaxPool2D[backend](tensor.Window{Kernel: 3, Stride: 2, Padding: 1, Dilation: 1})
	})
}

func TestActivations(t *testing.T) {
	x := fromSlice(t, []float32{-2, -1, 0, 1}, tensor.Shape{1, 4})

	relu := nn.NewReLU[backend]()
	assert.Equal(t, []float32{0, 0, 0, 1}, relu.Forward(x).Data())
	assert.Equal(t, "ReLU()", relu.String())

	lrelu := nn.NewLeakyReLU[backend](0.5)
	assert.Equal(t, []float32{-1, -0.5, 0, 1}, lrelu.Forward(x).Data())
	assert.Equal(t, float32(0.5), lrelu.NegativeSlope())
	assert.Equal(t, "LeakyReLU(negative_slope=0.5)", lrelu.String())
}

func TestLinear(t *testing.T) {
	b := cpu.New()
	fc := nn.NewLinear(3, 2, b)
	copy(fc.Weight().Tensor().Data(), []float32{1, 0, 0, 0, 1, 1})
	copy(fc.Bias().Tensor().Data(), []float32{1, -1})

	out := fc.Forward(fromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 3}))
	assert.Equal(t, tensor.Shape{1, 2}, out.Shape())
	assert.Equal(t, []float32{2, 4}, out.Data())
	assert.Equal(t, 8, nn.CountParameters(fc.Parameters()))

	_, err := fc.OutputShape(tensor.Shape{1, 4})
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	b := cpu.New()
	flat := nn.NewFlatten[backend]()
	out := flat.Forward(tensor.Zeros(tensor.Shape{2, 3, 4, 5}, b))
	assert.Equal(t, tensor.Shape{2, 60}, out.Shape())

	_, err := flat.OutputShape(tensor.Shape{5})
	assert.Error(t, err)
}

func TestBatchNorm2D_Training(t *testing.T) {
	b := cpu.New()
	bn := nn.NewBatchNorm2D(2, b)
	assert.True(t, bn.Training())
	assert.Equal(t, "BatchNorm2d(2, eps=1e-05, momentum=0.1)", bn.String())

	// Channel 0: 1,2,5,6 (mean 3.5); channel 1: 3,4,7,8 (mean 5.5).
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 1, 2})
	out := bn.Forward(x)

	m, v := b.ChannelMoments(out.Raw())
	assert.InDeltaSlice(t, []float32{0, 0}, m.Data(), 1e-5)
	assert.InDeltaSlice(t, []float32{1, 1}, v.Data(), 1e-3)

	// running = 0.9*init + 0.1*batch, variance unbiased (4.25 * 4/3).
	assert.InDeltaSlice(t, []float32{0.35, 0.55}, bn.RunningMean().Data(), 1e-6)
	wantVar := float32(0.9 + 0.1*4.25*4/3)
	assert.InDeltaSlice(t, []float32{wantVar, wantVar}, bn.RunningVar().Data(), 1e-5)
}

func TestBatchNorm2D_Eval(t *testing.T) {
	b := cpu.New()
	bn := nn.NewBatchNorm2D(1, b)
	bn.SetTraining(false)

	// Running stats start at mean 0, variance 1, so eval is nearly identity.
	x := fromSlice(t, []float32{1, -2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	out := bn.Forward(x)
	assert.InDeltaSlice(t, x.Data(), out.Data(), 1e-4)
	assert.Equal(t, []float32{0}, bn.RunningMean().Data())

	_, err := bn.OutputShape(tensor.Shape{1, 2, 2, 2})
	assert.Error(t, err)
}

func TestDropout2D(t *testing.T) {
	b := cpu.New()
	x := tensor.Ones(tensor.Shape{4, 8, 3, 3}, b)

	eval := nn.NewDropout2D[backend](0.5)
	eval.SetTraining(false)
	assert.Equal(t, x.Data(), eval.Forward(x).Data())

	all := nn.NewDropout2D[backend](1)
	for _, v := range all.Forward(x).Data() {
		assert.Zero(t, v)
	}

	none := nn.NewDropout2D[backend](0)
	assert.Equal(t, x.Data(), none.Forward(x).Data())

	nn.Seed(7)
	half := nn.NewDropout2D[backend](0.5)
	out := half.Forward(x)
	require.Equal(t, x.Shape(), out.Shape())
	// Every channel plane is either all zeros or all scaled by 2.
	data := out.Data()
	for plane := 0; plane < 4*8; plane++ {
		first := data[plane*9]
		assert.Contains(t, []float32{0, 2}, first)
		for i := 1; i < 9; i++ {
			assert.Equal(t, first, data[plane*9+i])
		}
	}

	assert.Panics(t, func() { nn.NewDropout2D[backend](1.5) })
	assert.Equal(t, "Dropout2d(p=0.5)", half.String())
}

func TestSequential(t *testing.T) {
	b := cpu.New()
	model := nn.NewSequential[backend](
		nn.NewConv2D(3, 8, 3, 1, 1, 1, true, b),
		nn.NewBatchNorm2D(8, b),
		nn.NewReLU[backend](),
		nn.NewMaxPool2D[backend](tensor.Window{Kernel: 2, Stride: 2, Dilation: 1}),
		nn.NewDropout2D[backend](0.1),
		nn.NewFlatten[backend](),
	)
	model.Add(nn.NewLinear(8*4*4, 10, b))

	assert.Equal(t, 7, model.Len())
	assert.Len(t, model.Children(), 7)

	shape, err := model.OutputShape(tensor.Shape{2, 3, 8, 8})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 10}, shape)

	out := model.Forward(tensor.Ones(tensor.Shape{2, 3, 8, 8}, b))
	assert.Equal(t, tensor.Shape{2, 10}, out.Shape())

	// conv(8*27+8) + bn(16) + fc(128*10+10)
	assert.Equal(t, 224+16+1290, nn.CountParameters(model.Parameters()))

	_, err = model.OutputShape(tensor.Shape{2, 3, 6, 6})
	assert.ErrorContains(t, err, "layer 6")

	assert.Panics(t, func() { model.Module(7) })
}

func TestSetTraining_Propagates(t *testing.T) {
	b := cpu.New()
	bn := nn.NewBatchNorm2D(4, b)
	drop := nn.NewDropout2D[backend](0.2)
	inner := nn.NewSequential[backend](drop)
	model := nn.NewSequential[backend](bn, inner, nn.NewReLU[backend]())

	nn.SetTraining[backend](model, false)
	assert.False(t, model.Training())
	assert.False(t, bn.Training())
	assert.False(t, drop.Training())

	nn.SetTraining[backend](model, true)
	assert.True(t, drop.Training())
}

func TestSequential_String(t *testing.T) {
	b := cpu.New()
	inner := nn.NewSequential[backend](nn.NewReLU[backend]())
	model := nn.NewSequential[backend](nn.NewLinear(2, 2, b), inner)

	want := "Sequential(\n" +
		"  (0): Linear(in_features=2, out_features=2, bias=true)\n" +
		"  (1): Sequential(\n" +
		"    (0): ReLU()\n" +
		"  )\n" +
		")"
	assert.Equal(t, want, model.String())
}
