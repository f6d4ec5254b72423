package generate_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/seq2seq/backend/cpu"
	"github.com/born-ml/seq2seq/generate"
	"github.com/born-ml/seq2seq/model"
	"github.com/born-ml/seq2seq/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) (*model.Model[*cpu.Backend], *cpu.Backend) {
	t.Helper()
	backend := cpu.New()
	cfg := model.DefaultConfig(10, 10, 6, 6)
	cfg.DModel = 8
	cfg.NumHeads = 2
	cfg.DFF = 16
	cfg.NumLayers = 2

	m, err := model.New(cfg, backend, model.WithInitSource(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	return m, backend
}

func TestGreedy(t *testing.T) {
	m, backend := newModel(t)
	src, err := tensor.FromSlice([]int32{1, 4, 7, 2, 0, 0}, tensor.Shape{1, 6}, backend)
	require.NoError(t, err)

	opts := generate.Options{SOS: 1, EOS: 2}
	ids, err := generate.Greedy(context.Background(), m, src, nil, opts)
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	assert.Equal(t, int32(1), ids[0])
	assert.LessOrEqual(t, len(ids), 6)
	for i, id := range ids {
		assert.GreaterOrEqual(t, id, int32(0))
		assert.Less(t, id, int32(10))
		if id == 2 {
			assert.Equal(t, len(ids)-1, i, "decoding continued past EOS")
		}
	}

	again, err := generate.Greedy(context.Background(), m, src, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, ids, again)
}

func TestGreedyMaxLen(t *testing.T) {
	m, backend := newModel(t)
	src, err := tensor.FromSlice([]int32{1, 4, 7, 2}, tensor.Shape{1, 4}, backend)
	require.NoError(t, err)

	// An EOS outside the vocabulary is never produced.
	ids, err := generate.Greedy(context.Background(), m, src, nil, generate.Options{SOS: 1, EOS: -1, MaxLen: 3})
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	_, err = generate.Greedy(context.Background(), m, src, nil, generate.Options{SOS: 1, EOS: 2, MaxLen: 7})
	assert.True(t, errors.Is(err, model.ErrSequenceTooLong))
}

func TestGreedyCanceled(t *testing.T) {
	m, backend := newModel(t)
	src, err := tensor.FromSlice([]int32{1, 4, 7, 2}, tensor.Shape{1, 4}, backend)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = generate.Greedy(ctx, m, src, nil, generate.Options{SOS: 1, EOS: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
