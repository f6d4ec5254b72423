package cpu

import (
	"testing"

	"github.com/born-ml/seq2seq/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestSumDim_1D(t *testing.T) {
	backend := New()
	x := raw(t, tensor.Shape{4}, 1, 2, 3, 4)

	result := backend.SumDim(x, 0, true)
	assert.Equal(t, tensor.Shape{1}, result.Shape())
	assert.Equal(t, float32(10), result.AsFloat32()[0])

	result = backend.SumDim(x, 0, false)
	assert.Empty(t, result.Shape())
	assert.Equal(t, float32(10), result.AsFloat32()[0])
}

func TestSumDim_2D(t *testing.T) {
	backend := New()
	// [[1, 2, 3], [4, 5, 6]]
	x := raw(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	rows := backend.SumDim(x, -1, false)
	assert.Equal(t, tensor.Shape{2}, rows.Shape())
	assert.Equal(t, []float32{6, 15}, rows.AsFloat32())

	cols := backend.SumDim(x, 0, true)
	assert.Equal(t, tensor.Shape{1, 3}, cols.Shape())
	assert.Equal(t, []float32{5, 7, 9}, cols.AsFloat32())
}

func TestMeanDim(t *testing.T) {
	backend := New()
	x := raw(t, tensor.Shape{2, 2, 2}, 1, 2, 3, 4, 5, 6, 7, 8)

	mid := backend.MeanDim(x, 1, true)
	assert.Equal(t, tensor.Shape{2, 1, 2}, mid.Shape())
	assert.Equal(t, []float32{2, 3, 6, 7}, mid.AsFloat32())

	last := backend.MeanDim(x, -1, false)
	assert.Equal(t, tensor.Shape{2, 2}, last.Shape())
	assert.Equal(t, []float32{1.5, 3.5, 5.5, 7.5}, last.AsFloat32())
}

func TestReduce_InvalidDimPanics(t *testing.T) {
	backend := New()
	x := raw(t, tensor.Shape{2}, 1, 2)
	assert.Panics(t, func() { backend.SumDim(x, 1, false) })
}
