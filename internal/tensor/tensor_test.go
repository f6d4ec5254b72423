package tensor_test

import (
	"math/rand/v2"
	"testing"

	"github.com/born-ml/seq2seq/internal/backend/cpu"
	"github.com/born-ml/seq2seq/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, x.Shape())
	assert.Equal(t, float32(6), x.At(1, 2))

	_, err = tensor.FromSlice([]float32{1, 2}, tensor.Shape{2, 3}, backend)
	require.Error(t, err)
}

func TestTensor_SetAt(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	x.Set(3, 1, 0)
	assert.Equal(t, float32(3), x.At(1, 0))
	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	assert.Equal(t, []float32{1, 1, 1}, tensor.Ones[float32](tensor.Shape{3}, backend).Data())
	assert.Equal(t, []int32{7, 7}, tensor.Full[int32](tensor.Shape{2}, 7, backend).Data())
	assert.Equal(t, []int32{2, 3, 4}, tensor.Arange(2, 5, backend).Data())

	a := tensor.Randn(tensor.Shape{8}, rand.NewPCG(1, 2), backend)
	b := tensor.Randn(tensor.Shape{8}, rand.NewPCG(1, 2), backend)
	assert.Equal(t, a.Data(), b.Data(), "same source must give same values")
}

func TestTensor_Unsqueeze(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
	assert.Equal(t, tensor.Shape{1, 2, 3}, x.Unsqueeze(0).Shape())
	assert.Equal(t, tensor.Shape{2, 3, 1}, x.Unsqueeze(-1).Shape())
	assert.Equal(t, tensor.Shape{2, 1, 3}, x.Unsqueeze(1).Shape())
}

func TestTensor_OpsDoNotMutateInputs(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{10, 20, 30, 40}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	sum := a.Add(b)
	_ = a.Mul(b).MulScalar(2).Exp()

	assert.Equal(t, []float32{11, 22, 33, 44}, sum.Data())
	assert.Equal(t, []float32{1, 2, 3, 4}, a.Data())
	assert.Equal(t, []float32{10, 20, 30, 40}, b.Data())
}

func TestEmbedding(t *testing.T) {
	backend := cpu.New()

	weight, err := tensor.FromSlice([]float32{0, 0, 1, 1, 2, 2}, tensor.Shape{3, 2}, backend)
	require.NoError(t, err)
	ids, err := tensor.FromSlice([]int32{2, 0}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	out := tensor.Embedding(weight, ids)
	assert.Equal(t, tensor.Shape{1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{2, 2, 0, 0}, out.Data())
}
