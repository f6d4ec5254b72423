package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// MaskedScore is written into attention scores at forbidden positions before
// the softmax. It is finite so that a fully masked row degrades to a uniform
// distribution instead of NaN.
const MaskedScore float32 = -1e9

// ScaledDotProductAttention computes attention with the scaled dot-product
// mechanism:
//
//	Attention(Q, K, V) = softmax(mask(QK^T / sqrt(d_k))) V
//
// Parameters:
//   - query: [batch, heads, seq_q, d_k]
//   - key: [batch, heads, seq_k, d_k]
//   - value: [batch, heads, seq_k, d_v]
//   - mask: nil or 0/1 values broadcastable to [batch, heads, seq_q, seq_k];
//     scores where the mask is 0 are replaced by MaskedScore
//   - dropout: applied to the weights before they multiply V
//
// Returns:
//   - output: [batch, heads, seq_q, d_v]
//   - weights: post-softmax, pre-dropout [batch, heads, seq_q, seq_k]
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
	dropout *Dropout[B],
	exec Exec,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B], error) {
	if err := validateAttentionInputs(query, key, value, mask); err != nil {
		return nil, nil, err
	}

	dk := query.Shape()[3]
	scale := float32(1.0 / math.Sqrt(float64(dk)))

	// [batch, heads, seq_q, d_k] @ [batch, heads, d_k, seq_k]
	scores := query.BatchMatMul(key.Transpose(0, 1, 3, 2)).MulScalar(scale)
	if mask != nil {
		scores = scores.MaskedFill(mask, MaskedScore)
	}

	weights := scores.Softmax(-1)

	attended := weights
	if dropout != nil {
		attended = dropout.Forward(weights, exec)
	}

	return attended.BatchMatMul(value), weights, nil
}

func validateAttentionInputs[B tensor.Backend](query, key, value, mask *tensor.Tensor[float32, B]) error {
	q, k, v := query.Shape(), key.Shape(), value.Shape()
	if len(q) != 4 || len(k) != 4 || len(v) != 4 {
		return fmt.Errorf("attention: expected 4D [batch, heads, seq, d_k] inputs, got q%v k%v v%v: %w",
			q, k, v, ErrShapeMismatch)
	}
	if q[0] != k[0] || k[0] != v[0] || q[1] != k[1] || k[1] != v[1] {
		return fmt.Errorf("attention: batch/heads differ, got q%v k%v v%v: %w", q, k, v, ErrShapeMismatch)
	}
	if q[3] != k[3] {
		return fmt.Errorf("attention: query d_k %d != key d_k %d: %w", q[3], k[3], ErrShapeMismatch)
	}
	if k[2] != v[2] {
		return fmt.Errorf("attention: key length %d != value length %d: %w", k[2], v[2], ErrShapeMismatch)
	}
	if mask != nil {
		scores := tensor.Shape{q[0], q[1], q[2], k[2]}
		if !mask.Shape().BroadcastsTo(scores) {
			return fmt.Errorf("attention: mask %v does not broadcast to scores %v: %w",
				mask.Shape(), scores, ErrShapeMismatch)
		}
	}
	return nil
}

// PaddingMask marks every non-pad token of ids [batch, seq] as attendable.
//
// Returns a 0/1 mask of shape [batch, 1, 1, seq], broadcastable over heads and
// query positions.
func PaddingMask[B tensor.Backend](ids *tensor.Tensor[int32, B], padID int32) (*tensor.Tensor[float32, B], error) {
	shape := ids.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("padding mask: expected ids [batch, seq], got %v: %w", shape, ErrShapeMismatch)
	}

	mask := tensor.Zeros[float32](tensor.Shape{shape[0], 1, 1, shape[1]}, ids.Backend())
	data := mask.Data()
	for i, id := range ids.Data() {
		if id != padID {
			data[i] = 1
		}
	}
	return mask, nil
}

// CausalMask creates a lower-triangular attention mask.
//
// Each query position may attend to itself and earlier positions:
//
//	// For seq_len=4:
//	// [[1, 0, 0, 0],
//	//  [1, 1, 0, 0],
//	//  [1, 1, 1, 0],
//	//  [1, 1, 1, 1]]
//
// Shape: [1, 1, seq_len, seq_len] (broadcastable to [batch, heads, seq, seq]).
func CausalMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	mask := tensor.Zeros[float32](tensor.Shape{1, 1, seqLen, seqLen}, backend)
	data := mask.Data()
	for i := 0; i < seqLen; i++ {
		for j := 0; j <= i; j++ {
			data[i*seqLen+j] = 1
		}
	}
	return mask
}

// DecoderMask combines padding and causal masking for target ids
// [batch, seq]. Returns [batch, 1, seq, seq].
func DecoderMask[B tensor.Backend](ids *tensor.Tensor[int32, B], padID int32) (*tensor.Tensor[float32, B], error) {
	padding, err := PaddingMask(ids, padID)
	if err != nil {
		return nil, fmt.Errorf("decoder mask: %w", err)
	}
	return padding.Mul(CausalMask(ids.Shape()[1], ids.Backend())), nil
}
