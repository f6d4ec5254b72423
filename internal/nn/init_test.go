package nn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/seq2seq/internal/backend/cpu"
	"github.com/born-ml/seq2seq/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestXavier_Bounds(t *testing.T) {
	backend := cpu.New()

	w := Xavier(64, 32, tensor.Shape{32, 64}, rand.NewPCG(1, 2), backend)
	bound := math.Sqrt(6.0 / 96.0)

	data := toFloat64(w.Data())
	assert.LessOrEqual(t, floats.Max(data), bound)
	assert.GreaterOrEqual(t, floats.Min(data), -bound)
	assert.InDelta(t, 0, floats.Sum(data)/float64(len(data)), 0.02)
}

func TestXavierInit_Deterministic(t *testing.T) {
	backend := cpu.New()

	a := NewParameter("a", tensor.Zeros[float32](tensor.Shape{4, 5}, backend))
	b := NewParameter("b", tensor.Zeros[float32](tensor.Shape{4, 5}, backend))

	require.NoError(t, XavierInit(a, rand.NewPCG(7, 7)))
	require.NoError(t, XavierInit(b, rand.NewPCG(7, 7)))
	assert.Equal(t, a.Tensor().Data(), b.Tensor().Data())
	assert.NotEqual(t, make([]float32, 20), a.Tensor().Data())
}

func TestXavierInit_RejectsVectors(t *testing.T) {
	backend := cpu.New()
	p := NewParameter("bias", tensor.Zeros[float32](tensor.Shape{4}, backend))

	err := XavierInit(p, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
}
