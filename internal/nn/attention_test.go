package nn

import (
	"testing"

	"github.com/born-ml/seq2seq/internal/backend/cpu"
	"github.com/born-ml/seq2seq/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestScaledDotProductAttention_RowsSumToOne(t *testing.T) {
	backend := cpu.New()

	q := randn(tensor.Shape{2, 3, 5, 4}, 1, backend)
	k := randn(tensor.Shape{2, 3, 7, 4}, 2, backend)
	v := randn(tensor.Shape{2, 3, 7, 6}, 3, backend)

	out, weights, err := ScaledDotProductAttention(q, k, v, nil, nil, Inference())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 5, 6}, out.Shape())
	assert.Equal(t, tensor.Shape{2, 3, 5, 7}, weights.Shape())

	for i, row := range rows(weights.Data(), 7) {
		r := toFloat64(row)
		assert.InDelta(t, 1.0, floats.Sum(r), 1e-5, "row %d", i)
		assert.GreaterOrEqual(t, floats.Min(r), 0.0)
	}
}

func TestScaledDotProductAttention_MaskedWeightsVanish(t *testing.T) {
	backend := cpu.New()
	const seq = 6

	q := randn(tensor.Shape{1, 2, seq, 4}, 4, backend)
	k := randn(tensor.Shape{1, 2, seq, 4}, 5, backend)
	v := randn(tensor.Shape{1, 2, seq, 4}, 6, backend)

	_, weights, err := ScaledDotProductAttention(q, k, v, CausalMask(seq, backend), nil, Inference())
	require.NoError(t, err)

	for h := 0; h < 2; h++ {
		for i := 0; i < seq; i++ {
			for j := i + 1; j < seq; j++ {
				assert.LessOrEqual(t, weights.At(0, h, i, j), float32(1e-6))
			}
		}
	}
}

func TestScaledDotProductAttention_FullyMaskedRowIsUniform(t *testing.T) {
	backend := cpu.New()

	q := randn(tensor.Shape{1, 1, 2, 4}, 7, backend)
	k := randn(tensor.Shape{1, 1, 4, 4}, 8, backend)
	v := randn(tensor.Shape{1, 1, 4, 4}, 9, backend)
	mask := tensor.Zeros[float32](tensor.Shape{1, 1, 1, 4}, backend)

	_, weights, err := ScaledDotProductAttention(q, k, v, mask, nil, Inference())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25}, weights.Data(), 1e-6)
}

func TestScaledDotProductAttention_ShapeErrors(t *testing.T) {
	backend := cpu.New()
	x := randn(tensor.Shape{1, 2, 3, 4}, 1, backend)

	tests := []struct {
		name    string
		q, k, v *tensor.Tensor[float32, testBackend]
		mask    *tensor.Tensor[float32, testBackend]
	}{
		{"3D query", randn(tensor.Shape{2, 3, 4}, 1, backend), x, x, nil},
		{"d_k differs", randn(tensor.Shape{1, 2, 3, 5}, 1, backend), x, x, nil},
		{"value length", x, x, randn(tensor.Shape{1, 2, 4, 4}, 1, backend), nil},
		{"heads differ", randn(tensor.Shape{1, 3, 3, 4}, 1, backend), x, x, nil},
		{"mask too wide", x, x, x, tensor.Ones[float32](tensor.Shape{1, 1, 1, 5}, backend)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ScaledDotProductAttention(tt.q, tt.k, tt.v, tt.mask, nil, Inference())
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestCausalMask(t *testing.T) {
	backend := cpu.New()
	mask := CausalMask(3, backend)

	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, mask.Shape())
	assert.Equal(t, []float32{
		1, 0, 0,
		1, 1, 0,
		1, 1, 1,
	}, mask.Data())
}

func TestPaddingMask(t *testing.T) {
	backend := cpu.New()
	ids := idsFrom(t, []int32{5, 6, 0, 0, 7, 0}, tensor.Shape{2, 3}, backend)

	mask, err := PaddingMask(ids, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 1, 1, 3}, mask.Shape())
	assert.Equal(t, []float32{1, 1, 0, 0, 1, 0}, mask.Data())

	_, err = PaddingMask(idsFrom(t, []int32{1}, tensor.Shape{1}, backend), 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDecoderMask(t *testing.T) {
	backend := cpu.New()
	ids := idsFrom(t, []int32{1, 2, 0}, tensor.Shape{1, 3}, backend)

	mask, err := DecoderMask(ids, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, mask.Shape())
	assert.Equal(t, []float32{
		1, 0, 0,
		1, 1, 0,
		1, 1, 0,
	}, mask.Data())
}
