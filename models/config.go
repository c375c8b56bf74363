// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ClassifierConfig describes a convolutional classifier:
//
//	[(CONV -> ACT)*P -> POOL]*(N/P) -> (FC -> ACT)*M -> FC
//
// where N = len(Channels), P = PoolEvery and M = len(HiddenDims).
type ClassifierConfig struct {
	InSize           []int            `mapstructure:"in_size" yaml:"in_size"` // (C, H, W)
	OutClasses       int              `mapstructure:"out_classes" yaml:"out_classes"`
	Channels         []int            `mapstructure:"channels" yaml:"channels"`
	PoolEvery        int              `mapstructure:"pool_every" yaml:"pool_every"`
	HiddenDims       []int            `mapstructure:"hidden_dims" yaml:"hidden_dims"`
	ConvParams       ConvParams       `mapstructure:"conv_params" yaml:"conv_params"`
	ActivationType   ActivationType   `mapstructure:"activation_type" yaml:"activation_type,omitempty"`
	ActivationParams ActivationParams `mapstructure:"activation_params" yaml:"activation_params,omitempty"`
	PoolingType      PoolingType      `mapstructure:"pooling_type" yaml:"pooling_type,omitempty"`
	PoolingParams    PoolParams       `mapstructure:"pooling_params" yaml:"pooling_params"`
}

// ResNetConfig extends ClassifierConfig with the settings forwarded to
// every residual block.
type ResNetConfig struct {
	ClassifierConfig `mapstructure:",squash" yaml:",inline"`

	BatchNorm bool    `mapstructure:"batchnorm" yaml:"batchnorm,omitempty"`
	Dropout   float32 `mapstructure:"dropout" yaml:"dropout,omitempty"`
}

// ResidualBlockConfig describes a general residual block.
type ResidualBlockConfig struct {
	InChannels       int              `mapstructure:"in_channels" yaml:"in_channels"`
	Channels         []int            `mapstructure:"channels" yaml:"channels"`
	KernelSizes      []int            `mapstructure:"kernel_sizes" yaml:"kernel_sizes"`
	BatchNorm        bool             `mapstructure:"batchnorm" yaml:"batchnorm,omitempty"`
	Dropout          float32          `mapstructure:"dropout" yaml:"dropout,omitempty"`
	ActivationType   ActivationType   `mapstructure:"activation_type" yaml:"activation_type,omitempty"`
	ActivationParams ActivationParams `mapstructure:"activation_params" yaml:"activation_params,omitempty"`
}

// BottleneckConfig describes a residual bottleneck block. The outer 1x1
// convolutions project from and back to InOutChannels.
type BottleneckConfig struct {
	InOutChannels    int              `mapstructure:"in_out_channels" yaml:"in_out_channels"`
	InnerChannels    []int            `mapstructure:"inner_channels" yaml:"inner_channels"`
	InnerKernelSizes []int            `mapstructure:"inner_kernel_sizes" yaml:"inner_kernel_sizes"`
	BatchNorm        bool             `mapstructure:"batchnorm" yaml:"batchnorm,omitempty"`
	Dropout          float32          `mapstructure:"dropout" yaml:"dropout,omitempty"`
	ActivationType   ActivationType   `mapstructure:"activation_type" yaml:"activation_type,omitempty"`
	ActivationParams ActivationParams `mapstructure:"activation_params" yaml:"activation_params,omitempty"`
}

// validateBase checks the fields every classifier kind shares.
// Conv and pooling parameters are checked by the builders that use them.
func (c ClassifierConfig) validateBase() error {
	if len(c.InSize) != 3 {
		return configErrorf("in_size", "expected (C, H, W), got %v", c.InSize)
	}
	for _, d := range c.InSize {
		if d <= 0 {
			return configErrorf("in_size", "dimensions must be positive, got %v", c.InSize)
		}
	}
	if c.OutClasses < 1 {
		return configErrorf("out_classes", "must be at least 1, got %d", c.OutClasses)
	}
	if len(c.Channels) == 0 {
		return configErrorf("channels", "must not be empty")
	}
	for i, ch := range c.Channels {
		if ch <= 0 {
			return configErrorf(fmt.Sprintf("channels[%d]", i), "must be positive, got %d", ch)
		}
	}
	if c.PoolEvery < 1 {
		return configErrorf("pool_every", "must be at least 1, got %d", c.PoolEvery)
	}
	if len(c.HiddenDims) == 0 {
		return configErrorf("hidden_dims", "must not be empty")
	}
	for i, d := range c.HiddenDims {
		if d <= 0 {
			return configErrorf(fmt.Sprintf("hidden_dims[%d]", i), "must be positive, got %d", d)
		}
	}
	if err := c.ActivationType.validate(); err != nil {
		return err
	}
	return c.PoolingType.validate()
}

// numPoolGroups returns N/P, the number of full conv groups followed by a pool.
func (c ClassifierConfig) numPoolGroups() int {
	return len(c.Channels) / c.PoolEvery
}

func validateDropout(p float32) error {
	if p < 0 || p >= 1 {
		return configErrorf("dropout", "must be in [0, 1), got %g", p)
	}
	return nil
}

func (c ResidualBlockConfig) validate() error {
	if c.InChannels <= 0 {
		return configErrorf("in_channels", "must be positive, got %d", c.InChannels)
	}
	if len(c.Channels) == 0 || len(c.KernelSizes) == 0 {
		return configErrorf("channels", "channels and kernel_sizes must not be empty")
	}
	if len(c.Channels) != len(c.KernelSizes) {
		return configErrorf("kernel_sizes", "length %d does not match channels length %d",
			len(c.KernelSizes), len(c.Channels))
	}
	for i, ch := range c.Channels {
		if ch <= 0 {
			return configErrorf(fmt.Sprintf("channels[%d]", i), "must be positive, got %d", ch)
		}
	}
	for i, k := range c.KernelSizes {
		if k <= 0 || k%2 == 0 {
			return configErrorf(fmt.Sprintf("kernel_sizes[%d]", i), "must be a positive odd number, got %d", k)
		}
	}
	if err := validateDropout(c.Dropout); err != nil {
		return err
	}
	return c.ActivationType.validate()
}

// residualConfig expands a bottleneck into the equivalent residual block:
// channels [inner[0]] + inner + [inOut], kernels [1] + innerKernels + [1].
func (c BottleneckConfig) residualConfig() (ResidualBlockConfig, error) {
	if c.InOutChannels <= 0 {
		return ResidualBlockConfig{}, configErrorf("in_out_channels", "must be positive, got %d", c.InOutChannels)
	}
	if len(c.InnerChannels) == 0 || len(c.InnerKernelSizes) == 0 {
		return ResidualBlockConfig{}, configErrorf("inner_channels", "inner_channels and inner_kernel_sizes must not be empty")
	}
	if len(c.InnerChannels) != len(c.InnerKernelSizes) {
		return ResidualBlockConfig{}, configErrorf("inner_kernel_sizes",
			"length %d does not match inner_channels length %d", len(c.InnerKernelSizes), len(c.InnerChannels))
	}

	channels := make([]int, 0, len(c.InnerChannels)+2)
	channels = append(channels, c.InnerChannels[0])
	channels = append(channels, c.InnerChannels...)
	channels = append(channels, c.InOutChannels)

	kernels := make([]int, 0, len(c.InnerKernelSizes)+2)
	kernels = append(kernels, 1)
	kernels = append(kernels, c.InnerKernelSizes...)
	kernels = append(kernels, 1)

	return ResidualBlockConfig{
		InChannels:       c.InOutChannels,
		Channels:         channels,
		KernelSizes:      kernels,
		BatchNorm:        c.BatchNorm,
		Dropout:          c.Dropout,
		ActivationType:   c.ActivationType,
		ActivationParams: c.ActivationParams,
	}, nil
}

// DecodeClassifierConfig decodes a loosely typed parameter map, as read from
// YAML or JSON, into a ClassifierConfig. Unknown keys are rejected.
func DecodeClassifierConfig(params map[string]any) (ClassifierConfig, error) {
	var cfg ClassifierConfig
	err := decode(params, &cfg)
	return cfg, err
}

// DecodeResNetConfig decodes a parameter map into a ResNetConfig.
func DecodeResNetConfig(params map[string]any) (ResNetConfig, error) {
	var cfg ResNetConfig
	err := decode(params, &cfg)
	return cfg, err
}

// DecodeResidualBlockConfig decodes a parameter map into a ResidualBlockConfig.
func DecodeResidualBlockConfig(params map[string]any) (ResidualBlockConfig, error) {
	var cfg ResidualBlockConfig
	err := decode(params, &cfg)
	return cfg, err
}

// DecodeBottleneckConfig decodes a parameter map into a BottleneckConfig.
func DecodeBottleneckConfig(params map[string]any) (BottleneckConfig, error) {
	var cfg BottleneckConfig
	err := decode(params, &cfg)
	return cfg, err
}

func decode(params map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(params); err != nil {
		return &ConfigError{Field: "model", Details: "cannot decode parameters", Err: err}
	}
	return nil
}
