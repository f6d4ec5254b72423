// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"math/rand/v2"
	"testing"

	"github.com/born-ml/seq2seq/backend/cpu"
	"github.com/born-ml/seq2seq/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBackendInterface verifies that the CPU backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = cpu.New()
}

func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 3}, raw.Shape())
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 24, raw.ByteSize())

	clone := raw.Clone()
	clone.AsFloat32()[0] = 1
	assert.Equal(t, float32(0), raw.AsFloat32()[0])

	_, err = tensor.NewRaw(tensor.Shape{2, 0}, tensor.Float32, tensor.CPU)
	assert.Error(t, err)
}

func TestCreationFunctions(t *testing.T) {
	backend := cpu.New()

	assert.Equal(t, []float32{0, 0}, tensor.Zeros[float32](tensor.Shape{2}, backend).Data())
	assert.Equal(t, []float32{1, 1}, tensor.Ones[float32](tensor.Shape{2}, backend).Data())
	assert.Equal(t, []int32{4, 4}, tensor.Full[int32](tensor.Shape{2}, 4, backend).Data())
	assert.Equal(t, []int32{0, 1, 2}, tensor.Arange(0, 3, backend).Data())
	assert.Equal(t, tensor.Shape{3, 4}, tensor.Randn(tensor.Shape{3, 4}, rand.NewPCG(1, 1), backend).Shape())

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	assert.Equal(t, float32(3), x.At(1, 0))
}

func TestTensorOperations(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{2, 4, 6, 8, 10, 12}, x.Add(x).Data())
	assert.Equal(t, tensor.Shape{2, 2}, x.MatMul(x.T()).Shape())
	assert.Equal(t, []float32{6, 15}, x.SumDim(-1, false).Data())
	assert.Equal(t, tensor.Shape{3, 2}, x.Reshape(3, 2).Shape())

	weight, err := tensor.FromSlice([]float32{0, 0, 1, 1, 2, 2}, tensor.Shape{3, 2}, backend)
	require.NoError(t, err)
	ids, err := tensor.FromSlice([]int32{2, 1}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 2, 1, 1}, tensor.Embedding(weight, ids).Data())
}

func TestBroadcastShapes(t *testing.T) {
	shape, needs, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 4}, shape)
	assert.True(t, needs)

	_, _, err = tensor.BroadcastShapes(tensor.Shape{3, 2}, tensor.Shape{3, 4})
	assert.Error(t, err)
}
