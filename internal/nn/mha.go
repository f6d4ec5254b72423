package nn

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// MultiHeadAttention implements the multi-head attention mechanism.
//
// Architecture:
//
//	MHA(Q, K, V) = Concat(head_1, ..., head_h) W_O
//	head_i = SDPA(Q W_Q_i, K W_K_i, V W_V_i)
//
// The four projections are d_model x d_model without bias. The module keeps no
// per-call state: attention weights are returned by ForwardWithWeights or
// recorded into Exec.Trace under the module's path.
//
// Example:
//
//	mha, err := nn.NewMultiHeadAttention("encoder.0.self_attention", 512, 8, 0.1, backend)
//	out, err := mha.Forward(x, x, x, srcMask, nn.Inference())   // self-attention
//	out, err := mha.Forward(y, enc, enc, srcMask, nn.Inference()) // cross-attention
type MultiHeadAttention[B tensor.Backend] struct {
	WQ       *Linear[B]
	WK       *Linear[B]
	WV       *Linear[B]
	WO       *Linear[B]
	NumHeads int
	HeadDim  int
	DModel   int
	path     string
	dropout  *Dropout[B]
}

// NewMultiHeadAttention creates an attention module whose parameters live
// under path.
//
// Returns ErrConfiguration if dModel is not divisible by numHeads, either is
// not positive, or the dropout rate is outside [0, 1).
func NewMultiHeadAttention[B tensor.Backend](
	path string,
	dModel, numHeads int,
	dropout float64,
	backend B,
) (*MultiHeadAttention[B], error) {
	if dModel <= 0 || numHeads <= 0 {
		return nil, fmt.Errorf("multi-head attention: d_model %d and heads %d must be positive: %w",
			dModel, numHeads, ErrConfiguration)
	}
	if dModel%numHeads != 0 {
		return nil, fmt.Errorf("multi-head attention: d_model %d not divisible by %d heads: %w",
			dModel, numHeads, ErrConfiguration)
	}
	drop, err := NewDropout[B](dropout)
	if err != nil {
		return nil, fmt.Errorf("multi-head attention: %w", err)
	}

	return &MultiHeadAttention[B]{
		WQ:       NewLinear(join(path, "w_q"), dModel, dModel, false, backend),
		WK:       NewLinear(join(path, "w_k"), dModel, dModel, false, backend),
		WV:       NewLinear(join(path, "w_v"), dModel, dModel, false, backend),
		WO:       NewLinear(join(path, "w_o"), dModel, dModel, false, backend),
		NumHeads: numHeads,
		HeadDim:  dModel / numHeads,
		DModel:   dModel,
		path:     path,
		dropout:  drop,
	}, nil
}

// Forward computes multi-head attention.
//
// Args:
//   - query: [batch, seq_q, d_model]
//   - key, value: [batch, seq_k, d_model]
//   - mask: nil or 0/1 values broadcastable to [batch, heads, seq_q, seq_k]
//
// Returns [batch, seq_q, d_model].
func (m *MultiHeadAttention[B]) Forward(
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
	exec Exec,
) (*tensor.Tensor[float32, B], error) {
	out, _, err := m.ForwardWithWeights(query, key, value, mask, exec)
	return out, err
}

// ForwardWithWeights is Forward that also returns the post-softmax attention
// weights [batch, heads, seq_q, seq_k].
func (m *MultiHeadAttention[B]) ForwardWithWeights(
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
	exec Exec,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B], error) {
	if err := m.validate(query, key, value); err != nil {
		return nil, nil, err
	}

	q, err := m.splitHeads(query, m.WQ)
	if err != nil {
		return nil, nil, err
	}
	k, err := m.splitHeads(key, m.WK)
	if err != nil {
		return nil, nil, err
	}
	v, err := m.splitHeads(value, m.WV)
	if err != nil {
		return nil, nil, err
	}

	attn, weights, err := ScaledDotProductAttention(q, k, v, mask, m.dropout, exec)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", m.path, err)
	}
	if exec.Trace != nil {
		exec.Trace.record(m.path, weights.Raw())
	}

	// [batch, heads, seq_q, d_k] -> [batch, seq_q, d_model]
	batch, seqQ := query.Shape()[0], query.Shape()[1]
	concat := attn.Transpose(0, 2, 1, 3).Reshape(batch, seqQ, m.DModel)

	out, err := m.WO.Forward(concat)
	if err != nil {
		return nil, nil, err
	}
	return out, weights, nil
}

// splitHeads projects [batch, seq, d_model] and reshapes it to
// [batch, heads, seq, d_k].
func (m *MultiHeadAttention[B]) splitHeads(
	input *tensor.Tensor[float32, B],
	proj *Linear[B],
) (*tensor.Tensor[float32, B], error) {
	projected, err := proj.Forward(input)
	if err != nil {
		return nil, err
	}
	batch, seq := input.Shape()[0], input.Shape()[1]
	return projected.Reshape(batch, seq, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3), nil
}

func (m *MultiHeadAttention[B]) validate(query, key, value *tensor.Tensor[float32, B]) error {
	q, k, v := query.Shape(), key.Shape(), value.Shape()
	for _, s := range []tensor.Shape{q, k, v} {
		if len(s) != 3 || s[2] != m.DModel {
			return fmt.Errorf("%s: expected [batch, seq, %d] inputs, got q%v k%v v%v: %w",
				m.path, m.DModel, q, k, v, ErrShapeMismatch)
		}
	}
	if q[0] != k[0] || k[0] != v[0] {
		return fmt.Errorf("%s: batch sizes differ, got q%v k%v v%v: %w", m.path, q, k, v, ErrShapeMismatch)
	}
	if k[1] != v[1] {
		return fmt.Errorf("%s: key length %d != value length %d: %w", m.path, k[1], v[1], ErrShapeMismatch)
	}
	return nil
}

// Path returns the module's parameter prefix, also used as its trace key.
func (m *MultiHeadAttention[B]) Path() string {
	return m.path
}

// Parameters returns the WQ, WK, WV and WO weights.
func (m *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	return collect[B](m.WQ, m.WK, m.WV, m.WO)
}
