package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedyDecode_StopsAtMaxLen(t *testing.T) {
	m := newTiny(t, 1)
	src := ids(t, m.Backend(), 2, 3, 4)

	out, err := GreedyDecode(context.Background(), m, src, nil, GreedyOptions{SOS: 1, EOS: -1, Pad: 0})
	require.NoError(t, err)
	assert.Len(t, out, 4)
	assert.Equal(t, int32(1), out[0])
	for _, id := range out {
		assert.GreaterOrEqual(t, id, int32(0))
		assert.Less(t, id, int32(10))
	}
}

func TestGreedyDecode_StopsAtEOS(t *testing.T) {
	m := newTiny(t, 2)

	// Force the projection to prefer token 2 everywhere.
	bias := m.NamedParameters()["projection.bias"].Tensor()
	bias.Set(100, 2)

	out, err := GreedyDecode(context.Background(), m, ids(t, m.Backend(), 5, 6), nil,
		GreedyOptions{SOS: 1, EOS: 2, Pad: 0, MaxLen: 4})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, out)
}

func TestGreedyDecode_Errors(t *testing.T) {
	m := newTiny(t, 3)
	backend := m.Backend()

	_, err := GreedyDecode(context.Background(), m, ids(t, backend, 1), nil, GreedyOptions{MaxLen: 5})
	assert.ErrorIs(t, err, ErrSequenceTooLong)

	_, err = GreedyDecode(context.Background(), m, ids(t, backend, 1), nil, GreedyOptions{MaxLen: -1})
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrSequenceTooLong)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = GreedyDecode(ctx, m, ids(t, backend, 1), nil, GreedyOptions{SOS: 1, EOS: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
