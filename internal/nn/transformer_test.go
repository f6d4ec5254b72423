package nn

import (
	"math"
	"testing"

	"github.com/born-ml/seq2seq/internal/backend/cpu"
	"github.com/born-ml/seq2seq/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tinyBlock = BlockConfig{DModel: 8, NumHeads: 2, DFF: 16, Dropout: 0.1, NormEps: DefaultNormEps}

func TestBlockConfig_Validate(t *testing.T) {
	require.NoError(t, tinyBlock.Validate())

	tests := []struct {
		name string
		mod  func(*BlockConfig)
	}{
		{"indivisible heads", func(c *BlockConfig) { c.NumHeads = 3 }},
		{"zero d_ff", func(c *BlockConfig) { c.DFF = 0 }},
		{"dropout one", func(c *BlockConfig) { c.Dropout = 1 }},
		{"negative eps", func(c *BlockConfig) { c.NormEps = -1 }},
		{"zero eps", func(c *BlockConfig) { c.NormEps = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tinyBlock
			tt.mod(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)
		})
	}
}

func TestEncoder_PreservesShape(t *testing.T) {
	backend := cpu.New()
	enc, err := NewEncoder("encoder", 2, tinyBlock, backend)
	require.NoError(t, err)

	x := randn(tensor.Shape{2, 4, 8}, 1, backend)
	mask := tensor.Ones[float32](tensor.Shape{2, 1, 1, 4}, backend)

	out, err := enc.Forward(x, mask, Inference())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 4, 8}, out.Shape())
	for _, v := range out.Data() {
		assert.False(t, math.IsNaN(float64(v)))
	}
}

func TestDecoder_PreservesShape(t *testing.T) {
	backend := cpu.New()
	dec, err := NewDecoder("decoder", 2, tinyBlock, backend)
	require.NoError(t, err)

	y := randn(tensor.Shape{2, 3, 8}, 1, backend)
	mem := randn(tensor.Shape{2, 5, 8}, 2, backend)
	srcMask := tensor.Ones[float32](tensor.Shape{2, 1, 1, 5}, backend)

	out, err := dec.Forward(y, mem, srcMask, CausalMask(3, backend), Inference())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 8}, out.Shape())
}

func TestDecoder_TraceCoversEveryAttention(t *testing.T) {
	backend := cpu.New()
	dec, err := NewDecoder("decoder", 2, tinyBlock, backend)
	require.NoError(t, err)

	trace := NewAttentionTrace()
	y := randn(tensor.Shape{1, 3, 8}, 1, backend)
	mem := randn(tensor.Shape{1, 4, 8}, 2, backend)

	_, err = dec.Forward(y, mem, nil, CausalMask(3, backend), Inference().WithTrace(trace))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"decoder.0.cross_attention",
		"decoder.0.self_attention",
		"decoder.1.cross_attention",
		"decoder.1.self_attention",
	}, trace.Paths())

	cross, ok := trace.Weights("decoder.1.cross_attention")
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{1, 2, 3, 4}, cross.Shape())
}

func TestDecoder_ErrorNamesBlock(t *testing.T) {
	backend := cpu.New()
	dec, err := NewDecoder("decoder", 1, tinyBlock, backend)
	require.NoError(t, err)

	y := randn(tensor.Shape{1, 3, 8}, 1, backend)
	mem := randn(tensor.Shape{1, 4, 6}, 2, backend)

	_, err = dec.Forward(y, mem, nil, nil, Inference())
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "decoder block 0")
}

func TestEncoderDecoder_ParameterNames(t *testing.T) {
	backend := cpu.New()
	enc, err := NewEncoder("encoder", 1, tinyBlock, backend)
	require.NoError(t, err)
	dec, err := NewDecoder("decoder", 1, tinyBlock, backend)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, p := range append(enc.Parameters(), dec.Parameters()...) {
		assert.False(t, names[p.Name()], "duplicate %s", p.Name())
		names[p.Name()] = true
	}

	for _, want := range []string{
		"encoder.0.self_attention.w_q.weight",
		"encoder.0.feed_forward.linear1.bias",
		"encoder.0.residual.1.norm.alpha",
		"encoder.norm.bias",
		"decoder.0.cross_attention.w_o.weight",
		"decoder.0.residual.2.norm.bias",
		"decoder.norm.alpha",
	} {
		assert.True(t, names[want], want)
	}

	// Encoder block: 4 attention + 4 ffn + 4 norm; final norm 2.
	assert.Len(t, enc.Parameters(), 14)
	// Decoder block: 8 attention + 4 ffn + 6 norm; final norm 2.
	assert.Len(t, dec.Parameters(), 20)
}

func TestProjection_LogProbabilities(t *testing.T) {
	backend := cpu.New()
	proj, err := NewProjection("projection", 8, 11, backend)
	require.NoError(t, err)

	out, err := proj.Forward(randn(tensor.Shape{2, 3, 8}, 1, backend))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 11}, out.Shape())

	for i, row := range rows(out.Exp().Data(), 11) {
		sum := 0.0
		for _, p := range row {
			sum += float64(p)
		}
		assert.InDelta(t, 1.0, sum, 1e-5, "row %d", i)
	}

	_, err = NewProjection("", 8, 0, backend)
	assert.ErrorIs(t, err, ErrConfiguration)
}
