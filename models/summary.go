// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/nn"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// SummaryRow describes one module of a model tree.
type SummaryRow struct {
	Path   string       // Dotted position, e.g. "feature_extractor.0.main_path.2"; empty for the root
	Depth  int          // Nesting level, 0 for the root
	Layer  string       // Module type, e.g. "Conv2d"
	Output tensor.Shape // Output shape for the summarized input
	Params int          // Learnable scalars, including nested modules
}

// Summarize walks m depth-first and reports the output shape and parameter
// count of every module for an input of shape in. Nothing is executed; shapes
// come from OutputShape.
func Summarize[B tensor.Backend](m nn.Module[B], in tensor.Shape) ([]SummaryRow, error) {
	var rows []SummaryRow
	if _, err := summarize(m, "", 0, in, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func summarize[B tensor.Backend](m nn.Module[B], path string, depth int, in tensor.Shape, rows *[]SummaryRow) (tensor.Shape, error) {
	out, err := m.OutputShape(in)
	if err != nil {
		if path == "" {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	*rows = append(*rows, SummaryRow{
		Path:   path,
		Depth:  depth,
		Layer:  LayerName(m),
		Output: out,
		Params: nn.CountParameters(m.Parameters()),
	})

	switch v := m.(type) {
	case *nn.Sequential[B]:
		shape := in
		for i, child := range v.Children() {
			if shape, err = summarize(child, join(path, strconv.Itoa(i)), depth+1, shape, rows); err != nil {
				return nil, err
			}
		}
	case *ResidualBlock[B]:
		err = summarizeResidual(v, path, depth, in, rows)
	case *ResidualBottleneckBlock[B]:
		err = summarizeResidual(v.ResidualBlock, path, depth, in, rows)
	case *ConvClassifier[B]:
		features, err := summarize[B](v.featureExtractor, join(path, "feature_extractor"), depth+1, in, rows)
		if err != nil {
			return nil, err
		}
		flat, err := v.flatten.OutputShape(features)
		if err != nil {
			return nil, err
		}
		if _, err := summarize[B](v.classifier, join(path, "classifier"), depth+1, flat, rows); err != nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func summarizeResidual[B tensor.Backend](r *ResidualBlock[B], path string, depth int, in tensor.Shape, rows *[]SummaryRow) error {
	if _, err := summarize[B](r.mainPath, join(path, "main_path"), depth+1, in, rows); err != nil {
		return err
	}
	_, err := summarize[B](r.shortcutPath, join(path, "shortcut_path"), depth+1, in, rows)
	return err
}

// LayerName returns the type label of a module, e.g. "Conv2d" or "ResNetClassifier".
func LayerName(m fmt.Stringer) string {
	s := m.String()
	if i := strings.IndexByte(s, '('); i >= 0 {
		return s[:i]
	}
	return s
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
