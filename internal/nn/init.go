package nn

import (
	"math"
	"math/rand"
	"sync"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// Package-wide random source for weight initialization and dropout masks.
var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // G404: ML uses math/rand intentionally
)

// Seed resets the random source used by initializers and dropout, making
// model construction reproducible.
func Seed(seed int64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng = rand.New(rand.NewSource(seed)) //nolint:gosec // G404: ML uses math/rand intentionally
}

func uniform() float64 {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Float64()
}

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = float32((uniform()*2.0 - 1.0) * bound)
	}
	return t
}

// Zeros creates a tensor filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Ones(shape, backend)
}
