// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Kind names an architecture that Build can assemble.
type Kind string

// Supported kinds.
const (
	KindCNN             Kind = "cnn"
	KindResNet          Kind = "resnet"
	KindTuned           Kind = "tuned"
	KindResidualBlock   Kind = "residual_block"
	KindBottleneckBlock Kind = "bottleneck_block"
)

// Kinds returns every kind accepted by Build.
func Kinds() []Kind {
	return []Kind{KindCNN, KindResNet, KindTuned, KindResidualBlock, KindBottleneckBlock}
}

// IsClassifier reports whether the kind builds a full classifier rather
// than a standalone block.
func (k Kind) IsClassifier() bool {
	switch k {
	case KindCNN, KindResNet, KindTuned:
		return true
	}
	return false
}

// Build decodes params for the given kind and assembles the module.
//
// Example:
//
//	model, err := models.Build(models.KindResNet, map[string]any{
//	    "in_size":        []int{3, 32, 32},
//	    "out_classes":    10,
//	    "channels":       []int{32, 64, 128},
//	    "pool_every":     2,
//	    "hidden_dims":    []int{100},
//	    "batchnorm":      true,
//	    "pooling_params": map[string]any{"kernel_size": 2},
//	}, cpu.New())
func Build[B tensor.Backend](kind Kind, params map[string]any, backend B) (nn.Module[B], error) {
	switch kind {
	case KindCNN:
		cfg, err := DecodeClassifierConfig(params)
		if err != nil {
			return nil, err
		}
		m, err := NewConvClassifier(cfg, backend)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindResNet:
		cfg, err := DecodeResNetConfig(params)
		if err != nil {
			return nil, err
		}
		m, err := NewResNetClassifier(cfg, backend)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindTuned:
		cfg, err := DecodeClassifierConfig(params)
		if err != nil {
			return nil, err
		}
		m, err := NewTunedClassifier(cfg, backend)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindResidualBlock:
		cfg, err := DecodeResidualBlockConfig(params)
		if err != nil {
			return nil, err
		}
		m, err := NewResidualBlock(cfg, backend)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindBottleneckBlock:
		cfg, err := DecodeBottleneckConfig(params)
		if err != nil {
			return nil, err
		}
		m, err := NewResidualBottleneckBlock(cfg, backend)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownKind, string(kind), Kinds())
}
