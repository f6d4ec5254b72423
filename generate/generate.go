// Package generate provides autoregressive decoding for seq2seq models.
//
// This package wraps the internal decoding loop and provides a clean public
// API for turning a source sequence into target token ids.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/seq2seq/generate"
//	    "github.com/born-ml/seq2seq/model"
//	)
//
//	m, _ := model.New(cfg, backend)
//	ids, err := generate.Greedy(ctx, m, src, nil, generate.Options{
//	    SOS: 1,
//	    EOS: 2,
//	    Pad: 0,
//	})
package generate

import (
	"context"

	"github.com/born-ml/seq2seq/internal/model"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// Options configures greedy decoding.
//
// Parameters:
//   - SOS: Start-of-sequence id fed as the first target token
//   - EOS: End-of-sequence id; decoding stops after emitting it
//   - Pad: Padding id used to mask the source when no mask is given
//   - MaxLen: Maximum length of the result, SOS included (0 = TgtSeqLen)
type Options = model.GreedyOptions

// Greedy translates a single source sequence src [1, src_seq].
//
// The source is encoded once. Each step decodes the ids produced so far under
// a causal mask and appends the most probable next token. The result starts
// with SOS and ends with EOS unless MaxLen is reached first. ctx is checked
// before every step.
//
// Example:
//
//	src, _ := tensor.FromSlice([]int32{1, 5, 6, 2}, tensor.Shape{1, 4}, backend)
//	ids, err := generate.Greedy(ctx, m, src, nil, generate.Options{SOS: 1, EOS: 2})
func Greedy[B tensor.Backend](
	ctx context.Context,
	m *model.Model[B],
	src *tensor.Tensor[int32, B],
	srcMask *tensor.Tensor[float32, B],
	opts Options,
) ([]int32, error) {
	return model.GreedyDecode(ctx, m, src, srcMask, opts)
}
