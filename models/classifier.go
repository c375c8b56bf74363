// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// ConvClassifier is a feature extractor followed by a fully connected head.
//
// Every classifier kind (plain, ResNet, tuned) shares this type; they differ
// only in how the feature extractor is assembled.
//
// Example:
//
//	backend := cpu.New()
//	model, err := models.NewConvClassifier(models.ClassifierConfig{
//	    InSize:        []int{3, 32, 32},
//	    OutClasses:    10,
//	    Channels:      []int{32, 64},
//	    PoolEvery:     2,
//	    HiddenDims:    []int{100},
//	    ConvParams:    models.ConvParams{KernelSize: 3, Padding: 1},
//	    PoolingParams: models.PoolParams{KernelSize: 2},
//	}, backend)
//	logits := model.Forward(images) // [N, 10]
type ConvClassifier[B tensor.Backend] struct {
	name        string
	inSize      tensor.Shape // (C, H, W)
	outClasses  int
	numFeatures int
	numPools    int

	featureExtractor *nn.Sequential[B]
	flatten          *nn.Flatten[B]
	classifier       *nn.Sequential[B]
}

// geometry tracks the spatial extent of the feature map while layers are
// appended, so the feature count is known without a forward pass.
type geometry struct {
	channels, h, w int
}

func (g *geometry) apply(layer string, win tensor.Window) error {
	h, w, err := win.OutputHW(g.h, g.w)
	if err != nil {
		return &ConfigError{
			Field:   layer,
			Details: fmt.Sprintf("input %dx%d is too small for %s", g.h, g.w, win),
			Err:     err,
		}
	}
	g.h, g.w = h, w
	return nil
}

func (g *geometry) features() int {
	return g.channels * g.h * g.w
}

// NewConvClassifier builds the plain architecture
//
//	[(CONV -> ACT)*P -> POOL]*(N/P) -> (FC -> ACT)*M -> FC
//
// When N is not divisible by P, the last N mod P CONV -> ACT pairs are not
// followed by a pool.
func NewConvClassifier[B tensor.Backend](cfg ClassifierConfig, backend B) (*ConvClassifier[B], error) {
	if err := cfg.validateBase(); err != nil {
		return nil, fmt.Errorf("conv classifier: %w", err)
	}
	if err := cfg.ConvParams.validate(); err != nil {
		return nil, fmt.Errorf("conv classifier: %w", err)
	}
	if cfg.numPoolGroups() > 0 {
		if err := cfg.PoolingParams.validate(cfg.PoolingType); err != nil {
			return nil, fmt.Errorf("conv classifier: %w", err)
		}
	}

	convWin := cfg.ConvParams.Window()
	poolWin := cfg.PoolingParams.Window()
	geo := geometry{channels: cfg.InSize[0], h: cfg.InSize[1], w: cfg.InSize[2]}

	features := nn.NewSequential[B]()
	pools := 0
	for i, ch := range cfg.Channels {
		features.Add(nn.NewConv2D(geo.channels, ch, convWin.Kernel, convWin.Stride, convWin.Padding, convWin.Dilation, true, backend))
		if err := geo.apply(fmt.Sprintf("conv[%d]", i), convWin); err != nil {
			return nil, fmt.Errorf("conv classifier: %w", err)
		}
		geo.channels = ch
		features.Add(newActivation[B](cfg.ActivationType, cfg.ActivationParams))

		if (i+1)%cfg.PoolEvery == 0 {
			features.Add(newPool[B](cfg.PoolingType, poolWin))
			if err := geo.apply(fmt.Sprintf("pool[%d]", pools), poolWin); err != nil {
				return nil, fmt.Errorf("conv classifier: %w", err)
			}
			pools++
		}
	}

	return newClassifier("ConvClassifier", cfg, features, geo, pools, backend), nil
}

// newClassifier attaches the fully connected head to a feature extractor.
func newClassifier[B tensor.Backend](
	name string,
	cfg ClassifierConfig,
	features *nn.Sequential[B],
	geo geometry,
	pools int,
	backend B,
) *ConvClassifier[B] {
	head := nn.NewSequential[B]()
	in := geo.features()
	for _, hidden := range cfg.HiddenDims {
		head.Add(nn.NewLinear(in, hidden, backend))
		head.Add(newActivation[B](cfg.ActivationType, cfg.ActivationParams))
		in = hidden
	}
	head.Add(nn.NewLinear(in, cfg.OutClasses, backend))

	slog.Debug("built classifier",
		"kind", name,
		"in_size", cfg.InSize,
		"channels", cfg.Channels,
		"pool_every", cfg.PoolEvery,
		"pools", pools,
		"feature_map", fmt.Sprintf("%dx%dx%d", geo.channels, geo.h, geo.w),
		"features", geo.features(),
		"hidden_dims", cfg.HiddenDims,
		"out_classes", cfg.OutClasses)

	return &ConvClassifier[B]{
		name:             name,
		inSize:           tensor.Shape(cfg.InSize).Clone(),
		outClasses:       cfg.OutClasses,
		numFeatures:      geo.features(),
		numPools:         pools,
		featureExtractor: features,
		flatten:          nn.NewFlatten[B](),
		classifier:       head,
	}
}

// Forward extracts features, flattens them and returns class scores [N, out_classes].
func (c *ConvClassifier[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	features := c.featureExtractor.Forward(input)
	return c.classifier.Forward(c.flatten.Forward(features))
}

// OutputShape returns [N, out_classes] for an [N, C, H, W] input.
func (c *ConvClassifier[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	shape, err := c.featureExtractor.OutputShape(in)
	if err != nil {
		return nil, fmt.Errorf("feature extractor: %w", err)
	}
	if shape, err = c.flatten.OutputShape(shape); err != nil {
		return nil, err
	}
	if shape, err = c.classifier.OutputShape(shape); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return shape, nil
}

// Parameters returns the parameters of the extractor and the head.
func (c *ConvClassifier[B]) Parameters() []*nn.Parameter[B] {
	return append(c.featureExtractor.Parameters(), c.classifier.Parameters()...)
}

// Children returns the feature extractor and the head.
func (c *ConvClassifier[B]) Children() []nn.Module[B] {
	return []nn.Module[B]{c.featureExtractor, c.classifier}
}

// SetTraining switches every contained layer between training and evaluation.
func (c *ConvClassifier[B]) SetTraining(training bool) {
	c.featureExtractor.SetTraining(training)
	c.classifier.SetTraining(training)
}

// Training reports the mode of the feature extractor.
func (c *ConvClassifier[B]) Training() bool {
	return c.featureExtractor.Training()
}

// NumFeatures returns the flattened feature count entering the head.
func (c *ConvClassifier[B]) NumFeatures() int { return c.numFeatures }

// NumPools returns the number of pooling layers in the feature extractor.
func (c *ConvClassifier[B]) NumPools() int { return c.numPools }

// InSize returns the configured (C, H, W) input size.
func (c *ConvClassifier[B]) InSize() tensor.Shape { return c.inSize.Clone() }

// OutClasses returns the number of class scores produced.
func (c *ConvClassifier[B]) OutClasses() int { return c.outClasses }

// FeatureExtractor returns the convolutional part.
func (c *ConvClassifier[B]) FeatureExtractor() *nn.Sequential[B] { return c.featureExtractor }

// Head returns the fully connected part.
func (c *ConvClassifier[B]) Head() *nn.Sequential[B] { return c.classifier }

// Name returns the architecture name, e.g. "ResNetClassifier".
func (c *ConvClassifier[B]) Name() string { return c.name }

// String returns a human-readable representation.
func (c *ConvClassifier[B]) String() string {
	return fmt.Sprintf("%s(\n  (feature_extractor): %s\n  (classifier): %s\n)", c.name,
		indent(c.featureExtractor.String()), indent(c.classifier.String()))
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
