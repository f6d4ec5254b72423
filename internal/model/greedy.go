package model

import (
	"context"
	"fmt"

	"github.com/born-ml/seq2seq/internal/nn"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// GreedyOptions configures GreedyDecode.
type GreedyOptions struct {
	SOS int32 // Start-of-sequence id fed as the first target token
	EOS int32 // End-of-sequence id; decoding stops after emitting it
	Pad int32 // Padding id, used to mask the source
	// MaxLen bounds the returned sequence, SOS included. Zero means the
	// model's TgtSeqLen.
	MaxLen int
}

// GreedyDecode translates a single source sequence src [1, src_seq] by
// repeatedly appending the most probable next token.
//
// The source is encoded once. When srcMask is nil it is derived from
// opts.Pad. The returned ids start with SOS and end with EOS unless MaxLen
// is reached first. ctx is checked before every decoding step.
func GreedyDecode[B tensor.Backend](
	ctx context.Context,
	m *Model[B],
	src *tensor.Tensor[int32, B],
	srcMask *tensor.Tensor[float32, B],
	opts GreedyOptions,
) ([]int32, error) {
	maxLen := opts.MaxLen
	if maxLen < 0 {
		return nil, fmt.Errorf("greedy decode: negative max length %d: %w", maxLen, ErrConfiguration)
	}
	if maxLen == 0 {
		maxLen = m.cfg.TgtSeqLen
	}
	if maxLen < 1 || maxLen > m.cfg.TgtSeqLen {
		return nil, fmt.Errorf("greedy decode: max length %d, target limit %d: %w",
			maxLen, m.cfg.TgtSeqLen, ErrSequenceTooLong)
	}
	if shape := src.Shape(); len(shape) != 2 || shape[0] != 1 {
		return nil, fmt.Errorf("greedy decode: expected source [1, seq], got %v: %w", shape, ErrShapeMismatch)
	}

	if srcMask == nil {
		var err error
		if srcMask, err = nn.PaddingMask(src, opts.Pad); err != nil {
			return nil, fmt.Errorf("greedy decode: %w", err)
		}
	}

	exec := nn.Inference()
	encOut, err := m.Encode(src, srcMask, exec)
	if err != nil {
		return nil, fmt.Errorf("greedy decode: %w", err)
	}

	ids := []int32{opts.SOS}
	for len(ids) < maxLen {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("greedy decode: %w", err)
		}

		tgt, err := tensor.FromSlice(ids, tensor.Shape{1, len(ids)}, m.backend)
		if err != nil {
			return nil, fmt.Errorf("greedy decode: %w", err)
		}

		decOut, err := m.Decode(encOut, srcMask, tgt, nn.CausalMask(len(ids), m.backend), exec)
		if err != nil {
			return nil, fmt.Errorf("greedy decode: %w", err)
		}
		logProbs, err := m.Project(decOut)
		if err != nil {
			return nil, fmt.Errorf("greedy decode: %w", err)
		}

		vocab := m.cfg.TgtVocabSize
		next := argmax(logProbs.Data()[(len(ids)-1)*vocab:])
		ids = append(ids, next)
		if next == opts.EOS {
			break
		}
	}

	return ids, nil
}

// argmax returns the index of the largest value, the first on ties.
func argmax(values []float32) int32 {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return int32(best) //nolint:gosec // G115: bounded by vocabulary size.
}
