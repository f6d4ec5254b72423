// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/seq2seq/internal/nn"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// Attention

// MaskedScore is written into attention scores where the mask is 0.
const MaskedScore = nn.MaskedScore

// ScaledDotProductAttention computes softmax(Q @ K.T / sqrt(d_k)) @ V.
//
// Shapes:
//   - query: [batch, heads, seq_q, d_k]
//   - key, value: [batch, heads, seq_k, d_k]
//   - mask: nil or broadcastable to [batch, heads, seq_q, seq_k]
//
// It returns the attended values and the attention weights before dropout.
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value, mask *tensor.Tensor[float32, B],
	dropout *Dropout[B],
	exec Exec,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B], error) {
	return nn.ScaledDotProductAttention(query, key, value, mask, dropout, exec)
}

// PaddingMask returns a [batch, 1, 1, seq] mask that is 0 where ids equal padID.
func PaddingMask[B tensor.Backend](ids *tensor.Tensor[int32, B], padID int32) (*tensor.Tensor[float32, B], error) {
	return nn.PaddingMask(ids, padID)
}

// CausalMask returns a [1, 1, seqLen, seqLen] lower-triangular mask.
func CausalMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	return nn.CausalMask(seqLen, backend)
}

// DecoderMask combines the padding and causal masks into [batch, 1, seq, seq].
func DecoderMask[B tensor.Backend](ids *tensor.Tensor[int32, B], padID int32) (*tensor.Tensor[float32, B], error) {
	return nn.DecoderMask(ids, padID)
}

// MultiHeadAttention projects query, key, and value into NumHeads heads,
// attends in each head, and merges the heads through an output projection.
// None of the four projections has a bias.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// NewMultiHeadAttention creates a multi-head attention module. dModel must be
// divisible by numHeads.
//
// Example:
//
//	mha, err := nn.NewMultiHeadAttention("self_attention", 512, 8, 0.1, backend)
//	out, err := mha.Forward(x, x, x, mask, nn.Inference())
func NewMultiHeadAttention[B tensor.Backend](path string, dModel, numHeads int, dropout float64, backend B) (*MultiHeadAttention[B], error) {
	return nn.NewMultiHeadAttention(path, dModel, numHeads, dropout, backend)
}

// Blocks

// BlockConfig holds the hyperparameters shared by encoder and decoder blocks.
//
// Example:
//
//	cfg := nn.BlockConfig{
//	    DModel:   512,
//	    NumHeads: 8,
//	    DFF:      2048,
//	    Dropout:  0.1,
//	    NormEps:  nn.DefaultNormEps,
//	}
type BlockConfig = nn.BlockConfig

// Sublayer is the function wrapped by a Residual connection.
type Sublayer[B tensor.Backend] = nn.Sublayer[B]

// Residual computes x + dropout(sublayer(norm(x))).
type Residual[B tensor.Backend] = nn.Residual[B]

// NewResidual creates a pre-norm residual connection.
func NewResidual[B tensor.Backend](path string, features int, eps float32, dropout float64, backend B) (*Residual[B], error) {
	return nn.NewResidual(path, features, eps, dropout, backend)
}

// EncoderBlock is self-attention followed by a feed-forward network, each
// wrapped in a residual connection.
//
// Architecture (Pre-Norm):
//
//	x = x + SelfAttention(Norm(x), srcMask)
//	x = x + FeedForward(Norm(x))
type EncoderBlock[B tensor.Backend] = nn.EncoderBlock[B]

// NewEncoderBlock creates an encoder block.
func NewEncoderBlock[B tensor.Backend](path string, cfg BlockConfig, backend B) (*EncoderBlock[B], error) {
	return nn.NewEncoderBlock(path, cfg, backend)
}

// Encoder stacks encoder blocks and applies a final layer norm.
type Encoder[B tensor.Backend] = nn.Encoder[B]

// NewEncoder creates an encoder of numLayers blocks.
func NewEncoder[B tensor.Backend](path string, numLayers int, cfg BlockConfig, backend B) (*Encoder[B], error) {
	return nn.NewEncoder(path, numLayers, cfg, backend)
}

// DecoderBlock is masked self-attention, cross-attention over the encoder
// output, and a feed-forward network, each wrapped in a residual connection.
type DecoderBlock[B tensor.Backend] = nn.DecoderBlock[B]

// NewDecoderBlock creates a decoder block.
func NewDecoderBlock[B tensor.Backend](path string, cfg BlockConfig, backend B) (*DecoderBlock[B], error) {
	return nn.NewDecoderBlock(path, cfg, backend)
}

// Decoder stacks decoder blocks and applies a final layer norm.
type Decoder[B tensor.Backend] = nn.Decoder[B]

// NewDecoder creates a decoder of numLayers blocks.
func NewDecoder[B tensor.Backend](path string, numLayers int, cfg BlockConfig, backend B) (*Decoder[B], error) {
	return nn.NewDecoder(path, numLayers, cfg, backend)
}
