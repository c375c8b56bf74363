// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// ActivationType selects the non-linearity placed after convolutions and
// hidden linear layers.
type ActivationType string

// Supported activations.
const (
	ActivationReLU      ActivationType = "relu"
	ActivationLeakyReLU ActivationType = "lrelu"
)

// ActivationParams holds activation hyper-parameters.
type ActivationParams struct {
	// NegativeSlope applies to lrelu only; nil means nn.DefaultNegativeSlope.
	NegativeSlope *float32 `mapstructure:"negative_slope" yaml:"negative_slope,omitempty"`
}

// PoolingType selects the spatial pooling operator.
type PoolingType string

// Supported pooling operators.
const (
	PoolingMax PoolingType = "max"
	PoolingAvg PoolingType = "avg"
)

// ConvParams configures every convolution of a plain classifier.
// Zero Stride and Dilation mean 1.
type ConvParams struct {
	KernelSize int `mapstructure:"kernel_size" yaml:"kernel_size"`
	Stride     int `mapstructure:"stride" yaml:"stride,omitempty"`
	Padding    int `mapstructure:"padding" yaml:"padding,omitempty"`
	Dilation   int `mapstructure:"dilation" yaml:"dilation,omitempty"`
}

// PoolParams configures the pooling layers.
// Zero Stride means KernelSize and zero Dilation means 1.
type PoolParams struct {
	KernelSize int `mapstructure:"kernel_size" yaml:"kernel_size"`
	Stride     int `mapstructure:"stride" yaml:"stride,omitempty"`
	Padding    int `mapstructure:"padding" yaml:"padding,omitempty"`
	Dilation   int `mapstructure:"dilation" yaml:"dilation,omitempty"`
}

func (a ActivationType) orDefault() ActivationType {
	if a == "" {
		return ActivationReLU
	}
	return a
}

func (a ActivationType) validate() error {
	switch a.orDefault() {
	case ActivationReLU, ActivationLeakyReLU:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedActivation, string(a))
}

func (p PoolingType) orDefault() PoolingType {
	if p == "" {
		return PoolingMax
	}
	return p
}

func (p PoolingType) validate() error {
	switch p.orDefault() {
	case PoolingMax, PoolingAvg:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedPooling, string(p))
}

// Slope returns the configured negative slope or the default.
func (p ActivationParams) Slope() float32 {
	if p.NegativeSlope == nil {
		return nn.DefaultNegativeSlope
	}
	return *p.NegativeSlope
}

// Window returns the convolution geometry with defaults applied.
func (c ConvParams) Window() tensor.Window {
	return tensor.Window{
		Kernel:   c.KernelSize,
		Stride:   orOne(c.Stride),
		Padding:  c.Padding,
		Dilation: orOne(c.Dilation),
	}
}

func (c ConvParams) validate() error {
	if c.KernelSize == 0 {
		return configErrorf("conv_params.kernel_size", "is required")
	}
	if c.Stride < 0 || c.Dilation < 0 {
		return configErrorf("conv_params", "stride and dilation must be positive")
	}
	if err := c.Window().Validate(); err != nil {
		return &ConfigError{Field: "conv_params", Details: "invalid window", Err: err}
	}
	return nil
}

// Window returns the pooling geometry with defaults applied.
func (p PoolParams) Window() tensor.Window {
	stride := p.Stride
	if stride == 0 {
		stride = p.KernelSize
	}
	return tensor.Window{
		Kernel:   p.KernelSize,
		Stride:   stride,
		Padding:  p.Padding,
		Dilation: orOne(p.Dilation),
	}
}

func (p PoolParams) validate(kind PoolingType) error {
	if p.KernelSize == 0 {
		return configErrorf("pooling_params.kernel_size", "is required when pooling is applied")
	}
	if p.Stride < 0 || p.Dilation < 0 {
		return configErrorf("pooling_params", "stride and dilation must be positive")
	}
	w := p.Window()
	if err := w.Validate(); err != nil {
		return &ConfigError{Field: "pooling_params", Details: "invalid window", Err: err}
	}
	if 2*w.Padding > w.Extent() {
		return configErrorf("pooling_params.padding", "%d exceeds half of the window extent %d", w.Padding, w.Extent())
	}
	if kind.orDefault() == PoolingAvg && w.Dilation != 1 {
		return configErrorf("pooling_params.dilation", "average pooling does not support dilation %d", w.Dilation)
	}
	return nil
}

func orOne(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

// newActivation returns the activation module for a validated type.
func newActivation[B tensor.Backend](kind ActivationType, params ActivationParams) nn.Module[B] {
	if kind.orDefault() == ActivationLeakyReLU {
		return nn.NewLeakyReLU[B](params.Slope())
	}
	return nn.NewReLU[B]()
}

// newPool returns the pooling module for a validated type and window.
func newPool[B tensor.Backend](kind PoolingType, w tensor.Window) nn.Module[B] {
	if kind.orDefault() == PoolingAvg {
		return nn.NewAvgPool2D[B](w)
	}
	return nn.NewMaxPool2D[B](w)
}
