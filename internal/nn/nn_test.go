package nn

import (
	"math/rand/v2"
	"testing"

	"github.com/born-ml/seq2seq/internal/backend/cpu"
	"github.com/born-ml/seq2seq/internal/tensor"
	"github.com/stretchr/testify/require"
)

type testBackend = *cpu.CPUBackend

func randn(shape tensor.Shape, seed uint64, backend testBackend) *tensor.Tensor[float32, testBackend] {
	return tensor.Randn(shape, rand.NewPCG(seed, seed+1), backend)
}

func fromSlice(t *testing.T, data []float32, shape tensor.Shape, backend testBackend) *tensor.Tensor[float32, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	require.NoError(t, err)
	return x
}

func idsFrom(t *testing.T, data []int32, shape tensor.Shape, backend testBackend) *tensor.Tensor[int32, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	require.NoError(t, err)
	return x
}

func toFloat64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

// rows splits a flat slice into consecutive rows of width n.
func rows(data []float32, n int) [][]float32 {
	out := make([][]float32, 0, len(data)/n)
	for i := 0; i+n <= len(data); i += n {
		out = append(out, data[i:i+n])
	}
	return out
}
