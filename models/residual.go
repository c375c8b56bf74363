// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"log/slog"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// ResidualBlock computes relu(main(x) + shortcut(x)).
//
// The main path holds one spatially preserving convolution per configured
// channel count. Between consecutive convolutions it places, in order,
// Dropout2D (when dropout > 0), BatchNorm2D (when enabled) and the activation.
// The shortcut is a bias-free 1x1 convolution when the channel count changes
// and the identity otherwise.
type ResidualBlock[B tensor.Backend] struct {
	inChannels  int
	outChannels int

	mainPath     *nn.Sequential[B]
	shortcutPath *nn.Sequential[B]

	backend B
}

// NewResidualBlock builds a residual block.
func NewResidualBlock[B tensor.Backend](cfg ResidualBlockConfig, backend B) (*ResidualBlock[B], error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("residual block: %w", err)
	}

	main := nn.NewSequential[B]()
	in := cfg.InChannels
	last := len(cfg.Channels) - 1
	for i, ch := range cfg.Channels {
		k := cfg.KernelSizes[i]
		main.Add(nn.NewConv2D(in, ch, k, 1, k/2, 1, true, backend))
		in = ch
		if i == last {
			break
		}
		if cfg.Dropout > 0 {
			main.Add(nn.NewDropout2D[B](cfg.Dropout))
		}
		if cfg.BatchNorm {
			main.Add(nn.NewBatchNorm2D(ch, backend))
		}
		main.Add(newActivation[B](cfg.ActivationType, cfg.ActivationParams))
	}

	shortcut := nn.NewSequential[B]()
	if in != cfg.InChannels {
		shortcut.Add(nn.NewConv2D(cfg.InChannels, in, 1, 1, 0, 1, false, backend))
	}

	slog.Debug("built residual block",
		"in_channels", cfg.InChannels,
		"channels", cfg.Channels,
		"kernel_sizes", cfg.KernelSizes,
		"batchnorm", cfg.BatchNorm,
		"dropout", cfg.Dropout,
		"projection", shortcut.Len() > 0)

	return &ResidualBlock[B]{
		inChannels:   cfg.InChannels,
		outChannels:  in,
		mainPath:     main,
		shortcutPath: shortcut,
		backend:      backend,
	}, nil
}

// Forward computes relu(main(x) + shortcut(x)).
func (r *ResidualBlock[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	out := r.mainPath.Forward(input).Add(r.shortcutPath.Forward(input))
	return tensor.New(r.backend.ReLU(out.Raw()), r.backend)
}

// OutputShape returns the block output shape. Main and shortcut paths must agree.
func (r *ResidualBlock[B]) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	mainShape, err := r.mainPath.OutputShape(in)
	if err != nil {
		return nil, fmt.Errorf("main path: %w", err)
	}
	shortcutShape, err := r.shortcutPath.OutputShape(in)
	if err != nil {
		return nil, fmt.Errorf("shortcut path: %w", err)
	}
	if !mainShape.Equal(shortcutShape) {
		return nil, fmt.Errorf("main path shape %v does not match shortcut shape %v", mainShape, shortcutShape)
	}
	return mainShape, nil
}

// Parameters returns the parameters of both paths.
func (r *ResidualBlock[B]) Parameters() []*nn.Parameter[B] {
	return append(r.mainPath.Parameters(), r.shortcutPath.Parameters()...)
}

// Children returns the main and shortcut paths.
func (r *ResidualBlock[B]) Children() []nn.Module[B] {
	return []nn.Module[B]{r.mainPath, r.shortcutPath}
}

// SetTraining switches both paths between training and evaluation.
func (r *ResidualBlock[B]) SetTraining(training bool) {
	r.mainPath.SetTraining(training)
	r.shortcutPath.SetTraining(training)
}

// Training reports the mode of the main path.
func (r *ResidualBlock[B]) Training() bool {
	return r.mainPath.Training()
}

// MainPath returns the convolutional path.
func (r *ResidualBlock[B]) MainPath() *nn.Sequential[B] { return r.mainPath }

// ShortcutPath returns the skip connection; it is empty for the identity.
func (r *ResidualBlock[B]) ShortcutPath() *nn.Sequential[B] { return r.shortcutPath }

// InChannels returns the expected input channel count.
func (r *ResidualBlock[B]) InChannels() int { return r.inChannels }

// OutChannels returns the produced channel count.
func (r *ResidualBlock[B]) OutChannels() int { return r.outChannels }

// String returns a human-readable representation.
func (r *ResidualBlock[B]) String() string {
	return r.describe("ResidualBlock")
}

func (r *ResidualBlock[B]) describe(name string) string {
	return fmt.Sprintf("%s(\n  (main_path): %s\n  (shortcut_path): %s\n)", name,
		indent(r.mainPath.String()), indent(r.shortcutPath.String()))
}

// ResidualBottleneckBlock is a residual block that projects InOutChannels
// down to the first inner channel count with a 1x1 convolution, applies the
// inner convolutions, and projects back with another 1x1 convolution. Input
// and output channel counts are equal, so the shortcut is the identity.
type ResidualBottleneckBlock[B tensor.Backend] struct {
	*ResidualBlock[B]
}

// NewResidualBottleneckBlock builds a bottleneck block.
func NewResidualBottleneckBlock[B tensor.Backend](cfg BottleneckConfig, backend B) (*ResidualBottleneckBlock[B], error) {
	rc, err := cfg.residualConfig()
	if err != nil {
		return nil, fmt.Errorf("bottleneck block: %w", err)
	}
	block, err := NewResidualBlock(rc, backend)
	if err != nil {
		return nil, fmt.Errorf("bottleneck block: %w", err)
	}
	return &ResidualBottleneckBlock[B]{ResidualBlock: block}, nil
}

// String returns a human-readable representation.
func (r *ResidualBottleneckBlock[B]) String() string {
	return r.describe("ResidualBottleneckBlock")
}
