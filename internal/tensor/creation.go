package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros(Shape{3, 4}, backend)
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	raw, err := NewRaw(shape, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return New(raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return Full(shape, 1, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full(Shape{3, 3}, 3.14, backend)
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	t := Zeros(shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1).
//
// rng makes the draw reproducible; a nil rng uses the global math/rand source.
func Randn[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	t := Zeros(shape, b)
	data := t.Data()
	for i := range data {
		if rng != nil {
			data[i] = float32(rng.NormFloat64())
		} else {
			data[i] = float32(rand.NormFloat64()) //nolint:gosec // G404: ML uses math/rand intentionally
		}
	}
	return t
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
//
// rng makes the draw reproducible; a nil rng uses the global math/rand source.
func Rand[B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[B] {
	t := Zeros(shape, b)
	data := t.Data()
	for i := range data {
		if rng != nil {
			data[i] = rng.Float32()
		} else {
			data[i] = rand.Float32() //nolint:gosec // G404: ML uses math/rand intentionally
		}
	}
	return t
}
