// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnsupportedActivation = errors.New("unsupported activation type")
	ErrUnsupportedPooling    = errors.New("unsupported pooling type")
	ErrUnknownKind           = errors.New("unknown model kind")
	ErrInvalidConfig         = errors.New("invalid model configuration")
)

// ConfigError reports a configuration field that failed validation.
// It matches ErrInvalidConfig with errors.Is.
type ConfigError struct {
	Field   string // Offending field (e.g., "channels", "conv_params.kernel_size")
	Details string // What is wrong with it
	Err     error  // Optional underlying error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Details)
}

// Unwrap exposes ErrInvalidConfig and the underlying error, if any.
func (e *ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidConfig, e.Err}
	}
	return []error{ErrInvalidConfig}
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Details: fmt.Sprintf(format, args...)}
}
