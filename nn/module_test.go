// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/seq2seq/backend/cpu"
	"github.com/born-ml/seq2seq/nn"
	"github.com/born-ml/seq2seq/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModuleInterface verifies that the public layers implement Module.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()
	cfg := nn.BlockConfig{DModel: 8, NumHeads: 2, DFF: 16, NormEps: nn.DefaultNormEps}

	mha, err := nn.NewMultiHeadAttention("attn", 8, 2, 0, backend)
	require.NoError(t, err)
	enc, err := nn.NewEncoder("encoder", 2, cfg, backend)
	require.NoError(t, err)
	dec, err := nn.NewDecoder("decoder", 1, cfg, backend)
	require.NoError(t, err)
	proj, err := nn.NewProjection("projection", 8, 5, backend)
	require.NoError(t, err)

	tests := []struct {
		name   string
		module nn.Module[*cpu.Backend]
		params int
	}{
		{name: "Linear", module: nn.NewLinear("l", 4, 3, true, backend), params: 2},
		{name: "Embedding", module: nn.NewEmbedding("e", 10, 4, backend), params: 1},
		{name: "LayerNorm", module: nn.NewLayerNorm("n", 4, nn.DefaultNormEps, backend), params: 2},
		{name: "MultiHeadAttention", module: mha, params: 4},
		{name: "Encoder", module: enc, params: 2*12 + 2},
		{name: "Decoder", module: dec, params: 18 + 2},
		{name: "Projection", module: proj, params: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.module.Parameters()
			assert.Len(t, params, tt.params)

			seen := make(map[string]bool)
			for _, p := range params {
				assert.NotEmpty(t, p.Name())
				assert.False(t, seen[p.Name()], "duplicate parameter %s", p.Name())
				seen[p.Name()] = true
			}
		})
	}
}

// TestParameterInterface verifies the parameter accessors.
func TestParameterInterface(t *testing.T) {
	backend := cpu.New()
	data := tensor.Randn(tensor.Shape{3, 3}, rand.NewPCG(1, 1), backend)
	param := nn.NewParameter("test_param", data)

	assert.Equal(t, "test_param", param.Name())
	assert.Equal(t, tensor.Shape{3, 3}, param.Shape())
	assert.Equal(t, 9, param.NumElements())
	assert.Same(t, data, param.Tensor())

	require.NoError(t, nn.XavierInit(param, rand.NewPCG(2, 2)))
	bound := float32(1.0) // sqrt(6 / (3 + 3))
	for _, v := range param.Tensor().Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}

	bias := nn.NewParameter("bias", tensor.Zeros[float32](tensor.Shape{3}, backend))
	assert.True(t, errors.Is(nn.XavierInit(bias, nil), nn.ErrShapeMismatch))
}

func TestEncoderDecoderPipeline(t *testing.T) {
	backend := cpu.New()
	cfg := nn.BlockConfig{DModel: 8, NumHeads: 2, DFF: 16, Dropout: 0.1, NormEps: nn.DefaultNormEps}

	enc, err := nn.NewEncoder("encoder", 1, cfg, backend)
	require.NoError(t, err)
	dec, err := nn.NewDecoder("decoder", 1, cfg, backend)
	require.NoError(t, err)
	proj, err := nn.NewProjection("projection", 8, 6, backend)
	require.NoError(t, err)

	srcIDs, err := tensor.FromSlice([]int32{3, 4, 5, 0}, tensor.Shape{1, 4}, backend)
	require.NoError(t, err)
	tgtIDs, err := tensor.FromSlice([]int32{1, 2, 0}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)

	srcMask, err := nn.PaddingMask(srcIDs, 0)
	require.NoError(t, err)
	tgtMask, err := nn.DecoderMask(tgtIDs, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 1, 4}, srcMask.Shape())
	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, tgtMask.Shape())

	x := tensor.Randn(tensor.Shape{1, 4, 8}, rand.NewPCG(3, 3), backend)
	y := tensor.Randn(tensor.Shape{1, 3, 8}, rand.NewPCG(4, 4), backend)

	trace := nn.NewAttentionTrace()
	exec := nn.Inference().WithTrace(trace)

	memory, err := enc.Forward(x, srcMask, exec)
	require.NoError(t, err)
	out, err := dec.Forward(y, memory, srcMask, tgtMask, exec)
	require.NoError(t, err)
	logProbs, err := proj.Forward(out)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3, 6}, logProbs.Shape())

	weights, ok := trace.Weights("encoder.0.self_attention")
	require.True(t, ok)
	// The padded source position receives no attention.
	w := weights.AsFloat32()
	for row := 0; row < 2*4; row++ {
		assert.InDelta(t, 0, w[row*4+3], 1e-6)
	}
	assert.Len(t, trace.Paths(), 3)
}

func TestDropoutModes(t *testing.T) {
	backend := cpu.New()
	drop, err := nn.NewDropout[*cpu.Backend](0.5)
	require.NoError(t, err)

	x := tensor.Ones[float32](tensor.Shape{4, 16}, backend)
	assert.Same(t, x, drop.Forward(x, nn.Inference()))

	out := drop.Forward(x, nn.Training(rand.NewPCG(7, 7)))
	for _, v := range out.Data() {
		assert.True(t, v == 0 || v == 2, "unexpected value %v", v)
	}

	_, err = nn.NewDropout[*cpu.Backend](1)
	assert.ErrorIs(t, err, nn.ErrConfiguration)
}
