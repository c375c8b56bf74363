// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package models assembles configurable convolutional image classifiers.
//
// # Architectures
//
//   - ConvClassifier: [(CONV -> ACT)*P -> POOL]*(N/P) -> (FC -> ACT)*M -> FC
//   - ResidualBlock: relu(main(x) + shortcut(x)) with a 1x1 projection when
//     the channel count changes
//   - ResidualBottleneckBlock: 1x1 down-projection, inner convolutions,
//     1x1 up-projection, identity shortcut
//   - ResNetClassifier: groups of P 3x3 convolutions wrapped in residual
//     blocks, each followed by a pool
//   - TunedClassifier: batch-normalized residual groups with a single pool
//     and channel dropout after the last group
//
// Builders compute the flattened feature count from the convolution and
// pooling geometry while they assemble the layers, so no forward pass is
// needed to size the fully connected head. Invalid configurations are
// reported as errors at construction time.
//
// # Basic Usage
//
//	import (
//	    "github.com/TrellixVulnTeam/DL-PJIE/backend/cpu"
//	    "github.com/TrellixVulnTeam/DL-PJIE/models"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    model, err := models.NewResNetClassifier(models.ResNetConfig{
//	        ClassifierConfig: models.ClassifierConfig{
//	            InSize:        []int{3, 32, 32},
//	            OutClasses:    10,
//	            Channels:      []int{32, 64, 128},
//	            PoolEvery:     2,
//	            HiddenDims:    []int{100},
//	            PoolingParams: models.PoolParams{KernelSize: 2},
//	        },
//	        BatchNorm: true,
//	    }, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(model.NumFeatures()) // 128 * 16 * 16
//	}
package models
