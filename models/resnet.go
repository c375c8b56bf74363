// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// residualKernel is the kernel size of every convolution in ResNet groups.
const residualKernel = 3

// NewResNetClassifier builds
//
//	[-> (CONV -> ACT)*P -> POOL]*(N/P) -> (FC -> ACT)*M -> FC
//	 \------- SKIP ------/
//
// Each group of P convolutions is one ResidualBlock of 3x3 convolutions.
// When N is not divisible by P, a final residual block of the remaining
// N mod P convolutions is appended without a pool. Residual blocks preserve
// the spatial extent, so only pooling changes it. ConvParams is ignored.
func NewResNetClassifier[B tensor.Backend](cfg ResNetConfig, backend B) (*ConvClassifier[B], error) {
	if err := cfg.validateBase(); err != nil {
		return nil, fmt.Errorf("resnet classifier: %w", err)
	}
	if err := validateDropout(cfg.Dropout); err != nil {
		return nil, fmt.Errorf("resnet classifier: %w", err)
	}
	if cfg.numPoolGroups() > 0 {
		if err := cfg.PoolingParams.validate(cfg.PoolingType); err != nil {
			return nil, fmt.Errorf("resnet classifier: %w", err)
		}
	}

	poolWin := cfg.PoolingParams.Window()
	geo := geometry{channels: cfg.InSize[0], h: cfg.InSize[1], w: cfg.InSize[2]}
	features := nn.NewSequential[B]()
	pools := 0

	err := forEachGroup(cfg.ClassifierConfig, func(start, end int, full bool) error {
		block, err := NewResidualBlock(ResidualBlockConfig{
			InChannels:       geo.channels,
			Channels:         cfg.Channels[start:end],
			KernelSizes:      repeat(residualKernel, end-start),
			BatchNorm:        cfg.BatchNorm,
			Dropout:          cfg.Dropout,
			ActivationType:   cfg.ActivationType,
			ActivationParams: cfg.ActivationParams,
		}, backend)
		if err != nil {
			return err
		}
		features.Add(block)
		geo.channels = block.OutChannels()

		if full {
			features.Add(newPool[B](cfg.PoolingType, poolWin))
			if err := geo.apply(fmt.Sprintf("pool[%d]", pools), poolWin); err != nil {
				return err
			}
			pools++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resnet classifier: %w", err)
	}

	return newClassifier("ResNetClassifier", cfg.ClassifierConfig, features, geo, pools, backend), nil
}

// forEachGroup calls fn for every full group of PoolEvery channels and then,
// if N mod P != 0, once for the remainder with full set to false.
func forEachGroup(cfg ClassifierConfig, fn func(start, end int, full bool) error) error {
	n, p := len(cfg.Channels), cfg.PoolEvery
	groups := n / p
	for g := 0; g < groups; g++ {
		if err := fn(g*p, (g+1)*p, true); err != nil {
			return err
		}
	}
	if rem := n % p; rem != 0 {
		return fn(n-rem, n, false)
	}
	return nil
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
