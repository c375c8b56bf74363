// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Fixed settings of the tuned classifier.
const (
	tunedPoolKernel = 2
	tunedDropout    = 0.1
)

// NewTunedClassifier builds the CIFAR-10 oriented variant of the ResNet
// classifier: residual groups of 3x3 convolutions with batch-norm always on
// and no dropout inside the blocks. A single 2x2 stride-2 max-pool followed
// by Dropout2D(0.1) comes after the last full group only; the N mod P
// remainder block follows without pooling. PoolingType, PoolingParams and
// ConvParams are ignored.
func NewTunedClassifier[B tensor.Backend](cfg ClassifierConfig, backend B) (*ConvClassifier[B], error) {
	if err := cfg.validateBase(); err != nil {
		return nil, fmt.Errorf("tuned classifier: %w", err)
	}

	poolWin := tensor.Window{Kernel: tunedPoolKernel, Stride: tunedPoolKernel, Dilation: 1}
	geo := geometry{channels: cfg.InSize[0], h: cfg.InSize[1], w: cfg.InSize[2]}
	features := nn.NewSequential[B]()
	lastGroupEnd := cfg.numPoolGroups() * cfg.PoolEvery
	pools := 0

	err := forEachGroup(cfg, func(start, end int, full bool) error {
		block, err := NewResidualBlock(ResidualBlockConfig{
			InChannels:       geo.channels,
			Channels:         cfg.Channels[start:end],
			KernelSizes:      repeat(residualKernel, end-start),
			BatchNorm:        true,
			ActivationType:   cfg.ActivationType,
			ActivationParams: cfg.ActivationParams,
		}, backend)
		if err != nil {
			return err
		}
		features.Add(block)
		geo.channels = block.OutChannels()

		if full && end == lastGroupEnd {
			features.Add(nn.NewMaxPool2D[B](poolWin))
			features.Add(nn.NewDropout2D[B](tunedDropout))
			if err := geo.apply("pool[0]", poolWin); err != nil {
				return err
			}
			pools++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tuned classifier: %w", err)
	}

	return newClassifier("TunedClassifier", cfg, features, geo, pools, backend), nil
}
