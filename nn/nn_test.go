package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/DL-PJIE/backend/cpu"
	"github.com/TrellixVulnTeam/DL-PJIE/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/tensor"
)

func TestPublicAPI_SmallCNN(t *testing.T) {
	backend := cpu.New()
	nn.Seed(3)

	model := nn.NewSequential[*cpu.Backend](
		nn.NewConv2D(3, 16, 3, 1, 1, 1, true, backend),
		nn.NewBatchNorm2D(16, backend),
		nn.NewLeakyReLU[*cpu.Backend](0.01),
		nn.NewAvgPool2D[*cpu.Backend](tensor.Window{Kernel: 2, Stride: 2, Dilation: 1}),
		nn.NewDropout2D[*cpu.Backend](0.25),
		nn.NewFlatten[*cpu.Backend](),
		nn.NewLinear(16*16*16, 10, backend),
	)

	shape, err := model.OutputShape(tensor.Shape{4, 3, 32, 32})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4, 10}, shape)

	nn.SetTraining[*cpu.Backend](model, false)
	out := model.Forward(tensor.Rand(tensor.Shape{4, 3, 32, 32}, nil, backend))
	assert.Equal(t, shape, out.Shape())

	want := (16*27 + 16) + 2*16 + (4096*10 + 10)
	assert.Equal(t, want, nn.CountParameters(model.Parameters()))
}

func TestPublicAPI_SequentialBackendMatches(t *testing.T) {
	par, seq := cpu.New(), cpu.NewSequential()
	x, err := tensor.FromSlice(make([]float32, 2*3*6*6), tensor.Shape{2, 3, 6, 6}, par)
	require.NoError(t, err)
	for i := range x.Data() {
		x.Data()[i] = float32(i%7) - 3
	}
	kernel := nn.Ones(tensor.Shape{4, 3, 3, 3}, par)
	w := tensor.Window{Kernel: 3, Stride: 1, Padding: 1, Dilation: 1}

	assert.Equal(t,
		par.Conv2D(x.Raw(), kernel.Raw(), w).Data(),
		seq.Conv2D(x.Raw(), kernel.Raw(), w).Data())
}
