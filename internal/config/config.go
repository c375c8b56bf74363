// Package config loads model description files.
//
// A model file names the architecture kind and carries its parameters as a
// loose map, decoded later by the models package:
//
//	kind: resnet
//	seed: 42
//	model:
//	  in_size: [3, 32, 32]
//	  out_classes: 10
//	  channels: [32, 64, 128]
//	  pool_every: 2
//	  hidden_dims: [100]
//	  batchnorm: true
//	  pooling_params: {kernel_size: 2}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvFile names the environment variable consulted when no file is given.
const EnvFile = "CNNARCH_CONFIG"

// Errors returned by Load and Parse.
var (
	ErrNoFile       = errors.New("no model file given")
	ErrMissingKind  = errors.New("model file has no kind")
	ErrMissingModel = errors.New("model file has no model parameters")
)

// File is a parsed model description.
type File struct {
	Kind  string `yaml:"kind"`
	Seed  int64  `yaml:"seed,omitempty"`
	Input []int  `yaml:"input,omitempty"` // (C, H, W); required for standalone blocks

	Model map[string]any `yaml:"model"`
}

// Resolve returns path, or the value of EnvFile when path is empty.
func Resolve(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv(EnvFile); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("%w: pass --file or set %s", ErrNoFile, EnvFile)
}

// Load reads and parses a model file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a model file. Unknown top-level keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse model file: %w", err)
	}
	if f.Kind == "" {
		return nil, ErrMissingKind
	}
	if len(f.Model) == 0 {
		return nil, ErrMissingModel
	}
	if f.Input != nil && len(f.Input) != 3 {
		return nil, fmt.Errorf("input must be (C, H, W), got %v", f.Input)
	}
	return &f, nil
}
