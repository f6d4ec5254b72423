package nn

import (
	"testing"

	"github.com/born-ml/seq2seq/internal/backend/cpu"
	"github.com/born-ml/seq2seq/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear("proj", 3, 2, true, backend)

	// W = [[1, 0, 1], [0, 2, 0]], b = [0.5, -1]
	copy(layer.Weight().Tensor().Data(), []float32{1, 0, 1, 0, 2, 0})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, -1})

	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3}, backend)
	out, err := layer.Forward(x)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{4.5, 3, 10.5, 9}, out.Data())
}

func TestLinear_NoBias(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear("w_q", 4, 4, false, backend)

	assert.Nil(t, layer.Bias())
	require.Len(t, layer.Parameters(), 1)
	assert.Equal(t, "w_q.weight", layer.Parameters()[0].Name())
	assert.Equal(t, tensor.Shape{4, 4}, layer.Weight().Shape())
}

func TestLinear_ShapeMismatch(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear("", 3, 2, true, backend)

	_, err := layer.Forward(tensor.Zeros[float32](tensor.Shape{2, 4}, backend))
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, "weight", layer.Weight().Name())
}
