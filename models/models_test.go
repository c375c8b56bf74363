package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/backend/cpu"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
	"github.com/TrellixVulnTeam/DL-PJIE/models"
)

type backend = *cpu.CPUBackend

func layerNames(seq *nn.Sequential[backend]) []string {
	names := make([]string, 0, seq.Len())
	for _, m := range seq.Children() {
		names = append(names, models.LayerName(m))
	}
	return names
}

func slope(v float32) *float32 { return &v }

func baseConfig() models.ClassifierConfig {
	return models.ClassifierConfig{
		InSize:        []int{3, 100, 100},
		OutClasses:    10,
		Channels:      []int{32, 32, 64, 64, 64},
		PoolEvery:     2,
		HiddenDims:    []int{100},
		ConvParams:    models.ConvParams{KernelSize: 3},
		PoolingParams: models.PoolParams{KernelSize: 2},
	}
}

func TestConvClassifier_Layers(t *testing.T) {
	model, err := models.NewConvClassifier(baseConfig(), cpu.New())
	require.NoError(t, err)

	want := []string{
		"Conv2d", "ReLU", "Conv2d", "ReLU", "MaxPool2d",
		"Conv2d", "ReLU", "Conv2d", "ReLU", "MaxPool2d",
		"Conv2d", "ReLU",
	}
	assert.Equal(t, want, layerNames(model.FeatureExtractor()))
	assert.Equal(t, []string{"Linear", "ReLU", "Linear"}, layerNames(model.Head()))

	// 100 -> 98 -> 96 -> 48 -> 46 -> 44 -> 22 -> 20
	assert.Equal(t, 64*20*20, model.NumFeatures())
	assert.Equal(t, 2, model.NumPools())
	assert.Equal(t, "ConvClassifier", model.Name())

	fc := model.Head().Module(0).(*nn.Linear[backend])
	assert.Equal(t, 64*20*20, fc.InFeatures())
	out := model.Head().Module(2).(*nn.Linear[backend])
	assert.Equal(t, 10, out.OutFeatures())
}

func TestConvClassifier_ConvChannels(t *testing.T) {
	model, err := models.NewConvClassifier(baseConfig(), cpu.New())
	require.NoError(t, err)

	var convs []*nn.Conv2D[backend]
	for _, m := range model.FeatureExtractor().Children() {
		if c, ok := m.(*nn.Conv2D[backend]); ok {
			convs = append(convs, c)
		}
	}
	require.Len(t, convs, 5)
	in := []int{3, 32, 32, 64, 64}
	for i, c := range convs {
		assert.Equal(t, in[i], c.InChannels(), "conv %d", i)
		assert.Equal(t, baseConfig().Channels[i], c.OutChannels(), "conv %d", i)
		assert.NotNil(t, c.Bias())
	}
}

func TestConvClassifier_NumFeatures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ClassifierConfig)
		want   int
		pools  int
	}{
		{
			name: "same padding pool every conv",
			mutate: func(c *models.ClassifierConfig) {
				c.InSize = []int{3, 32, 32}
				c.Channels = []int{32, 64}
				c.PoolEvery = 1
				c.ConvParams.Padding = 1
			},
			want:  64 * 8 * 8,
			pools: 2,
		},
		{
			name: "strided dilated conv",
			mutate: func(c *models.ClassifierConfig) {
				c.InSize = []int{1, 28, 28}
				c.Channels = []int{8}
				c.PoolEvery = 2
				c.ConvParams = models.ConvParams{KernelSize: 3, Stride: 2, Padding: 1, Dilation: 2}
			},
			// (28 + 2 - 4 - 1) / 2 + 1 = 13, no pool since N < P
			want:  8 * 13 * 13,
			pools: 0,
		},
		{
			name: "pool with explicit stride and padding",
			mutate: func(c *models.ClassifierConfig) {
				c.InSize = []int{3, 15, 15}
				c.Channels = []int{4}
				c.PoolEvery = 1
				c.ConvParams.Padding = 1
				c.PoolingParams = models.PoolParams{KernelSize: 3, Stride: 2, Padding: 1}
			},
			// (15 + 2 - 3) / 2 + 1 = 8
			want:  4 * 8 * 8,
			pools: 1,
		},
		{
			name: "non-square input",
			mutate: func(c *models.ClassifierConfig) {
				c.InSize = []int{3, 20, 40}
				c.Channels = []int{6, 6}
				c.PoolEvery = 2
				c.ConvParams.Padding = 1
			},
			want:  6 * 10 * 20,
			pools: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			model, err := models.NewConvClassifier(cfg, cpu.New())
			require.NoError(t, err)
			assert.Equal(t, tt.want, model.NumFeatures())
			assert.Equal(t, tt.pools, model.NumPools())

			out, err := model.FeatureExtractor().OutputShape(tensor.Shape{1, cfg.InSize[0], cfg.InSize[1], cfg.InSize[2]})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.NumElements(), "geometry must agree with the layer shapes")
		})
	}
}

func TestConvClassifier_Activations(t *testing.T) {
	cfg := baseConfig()
	cfg.ActivationType = models.ActivationLeakyReLU
	cfg.ActivationParams = models.ActivationParams{NegativeSlope: slope(0.05)}

	model, err := models.NewConvClassifier(cfg, cpu.New())
	require.NoError(t, err)
	act := model.FeatureExtractor().Module(1).(*nn.LeakyReLU[backend])
	assert.Equal(t, float32(0.05), act.NegativeSlope())
	headAct := model.Head().Module(1).(*nn.LeakyReLU[backend])
	assert.Equal(t, float32(0.05), headAct.NegativeSlope())

	cfg.ActivationParams = models.ActivationParams{}
	model, err = models.NewConvClassifier(cfg, cpu.New())
	require.NoError(t, err)
	act = model.FeatureExtractor().Module(1).(*nn.LeakyReLU[backend])
	assert.Equal(t, float32(nn.DefaultNegativeSlope), act.NegativeSlope())
}

func TestConvClassifier_AvgPooling(t *testing.T) {
	cfg := baseConfig()
	cfg.PoolingType = models.PoolingAvg
	model, err := models.NewConvClassifier(cfg, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, "AvgPool2d", models.LayerName(model.FeatureExtractor().Module(4)))

	cfg.PoolingParams.Dilation = 2
	_, err = models.NewConvClassifier(cfg, cpu.New())
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
}

func TestConvClassifier_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ClassifierConfig)
		target error
		field  string
	}{
		{"unsupported activation", func(c *models.ClassifierConfig) { c.ActivationType = "tanh" }, models.ErrUnsupportedActivation, ""},
		{"unsupported pooling", func(c *models.ClassifierConfig) { c.PoolingType = "min" }, models.ErrUnsupportedPooling, ""},
		{"empty channels", func(c *models.ClassifierConfig) { c.Channels = nil }, models.ErrInvalidConfig, "channels"},
		{"empty hidden dims", func(c *models.ClassifierConfig) { c.HiddenDims = nil }, models.ErrInvalidConfig, "hidden_dims"},
		{"zero pool every", func(c *models.ClassifierConfig) { c.PoolEvery = 0 }, models.ErrInvalidConfig, "pool_every"},
		{"bad in size", func(c *models.ClassifierConfig) { c.InSize = []int{3, 32} }, models.ErrInvalidConfig, "in_size"},
		{"no classes", func(c *models.ClassifierConfig) { c.OutClasses = 0 }, models.ErrInvalidConfig, "out_classes"},
		{"missing conv kernel", func(c *models.ClassifierConfig) { c.ConvParams = models.ConvParams{} }, models.ErrInvalidConfig, "conv_params.kernel_size"},
		{"missing pool kernel", func(c *models.ClassifierConfig) { c.PoolingParams = models.PoolParams{} }, models.ErrInvalidConfig, "pooling_params.kernel_size"},
		{"pool padding too large", func(c *models.ClassifierConfig) { c.PoolingParams.Padding = 2 }, models.ErrInvalidConfig, "pooling_params.padding"},
		{
			"input too small",
			func(c *models.ClassifierConfig) {
				c.InSize = []int{1, 4, 4}
				c.Channels = []int{8, 8, 8}
				c.PoolEvery = 1
			},
			models.ErrInvalidConfig, "conv[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			model, err := models.NewConvClassifier(cfg, cpu.New())
			require.Error(t, err)
			assert.Nil(t, model)
			assert.ErrorIs(t, err, tt.target)
			if tt.field != "" {
				var cfgErr *models.ConfigError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, tt.field, cfgErr.Field)
			}
		})
	}
}

func TestConvClassifier_PoolKernelOptionalWithoutPools(t *testing.T) {
	cfg := baseConfig()
	cfg.Channels = []int{8}
	cfg.PoolEvery = 2
	cfg.PoolingParams = models.PoolParams{}

	model, err := models.NewConvClassifier(cfg, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, 0, model.NumPools())
	assert.Equal(t, 8*98*98, model.NumFeatures())
}

func TestConvClassifier_Forward(t *testing.T) {
	b := cpu.New()
	cfg := models.ClassifierConfig{
		InSize:        []int{3, 16, 16},
		OutClasses:    5,
		Channels:      []int{4, 8},
		PoolEvery:     1,
		HiddenDims:    []int{10},
		ConvParams:    models.ConvParams{KernelSize: 3, Padding: 1},
		PoolingParams: models.PoolParams{KernelSize: 2},
	}
	model, err := models.NewConvClassifier(cfg, b)
	require.NoError(t, err)

	x := tensor.Randn(tensor.Shape{2, 3, 16, 16}, nil, b)
	out := model.Forward(x)
	assert.Equal(t, tensor.Shape{2, 5}, out.Shape())

	shape, err := model.OutputShape(x.Shape())
	require.NoError(t, err)
	assert.Equal(t, out.Shape(), shape)

	_, err = model.OutputShape(tensor.Shape{2, 3, 8, 8})
	assert.Error(t, err, "head was sized for 16x16 inputs")
}

func TestConvClassifier_TrainingMode(t *testing.T) {
	cfg := baseConfig()
	cfg.InSize = []int{3, 32, 32}
	model, err := models.NewTunedClassifier(cfg, cpu.New())
	require.NoError(t, err)
	assert.True(t, model.Training())

	nn.SetTraining[backend](model, false)
	assert.False(t, model.Training())
	block := model.FeatureExtractor().Module(0).(*models.ResidualBlock[backend])
	bn := block.MainPath().Module(1).(*nn.BatchNorm2D[backend])
	assert.False(t, bn.Training())
}
