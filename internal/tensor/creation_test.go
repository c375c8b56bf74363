package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/backend/cpu"
	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

func TestCreation(t *testing.T) {
	b := cpu.New()

	z := tensor.Zeros(tensor.Shape{2, 3}, b)
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, z.Data())

	o := tensor.Ones(tensor.Shape{4}, b)
	assert.Equal(t, []float32{1, 1, 1, 1}, o.Data())

	f := tensor.Full(tensor.Shape{2}, 2.5, b)
	assert.Equal(t, []float32{2.5, 2.5}, f.Data())
	assert.Equal(t, tensor.CPU, f.Device())
}

func TestRandn_Seeded(t *testing.T) {
	b := cpu.New()
	x := tensor.Randn(tensor.Shape{64}, rand.New(rand.NewSource(7)), b)
	y := tensor.Randn(tensor.Shape{64}, rand.New(rand.NewSource(7)), b)
	assert.Equal(t, x.Data(), y.Data())

	u := tensor.Rand(tensor.Shape{256}, rand.New(rand.NewSource(1)), b)
	for _, v := range u.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}
}

func TestFromSlice(t *testing.T) {
	b := cpu.New()
	src := []float32{1, 2, 3, 4, 5, 6}

	x, err := tensor.FromSlice(src, tensor.Shape{2, 3}, b)
	require.NoError(t, err)
	src[0] = 100
	assert.Equal(t, float32(1), x.At(0, 0), "data must be copied")
	assert.Equal(t, float32(6), x.At(1, 2))

	_, err = tensor.FromSlice(src, tensor.Shape{4, 2}, b)
	assert.Error(t, err)
}

func TestTensor_Methods(t *testing.T) {
	b := cpu.New()
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3}, b)
	require.NoError(t, err)

	x.Set(10, 0, 1, 0)
	assert.Equal(t, float32(10), x.At(0, 1, 0))
	assert.Panics(t, func() { x.At(0, 2, 0) })
	assert.Panics(t, func() { x.At(0, 1) })

	flat := x.Reshape(1, -1)
	assert.Equal(t, tensor.Shape{1, 6}, flat.Shape())
	assert.Equal(t, float32(10), flat.At(0, 3))
	assert.Panics(t, func() { x.Reshape(4, -1) })

	c := x.Clone()
	c.Set(0, 0, 0, 0)
	assert.Equal(t, float32(1), x.At(0, 0, 0))

	sum := x.Add(x)
	assert.Equal(t, []float32{2, 4, 6, 20, 10, 12}, sum.Data())
	assert.Equal(t, 6, sum.NumElements())
	assert.Equal(t, "Tensor[float32][1, 2, 3] on CPU", x.String())
}
