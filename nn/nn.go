// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/seq2seq/internal/nn"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// Execution

// Mode selects inference or training behavior for a forward pass.
type Mode = nn.Mode

// Execution modes.
const (
	ModeInference = nn.ModeInference
	ModeTraining  = nn.ModeTraining
)

// Exec carries per-call execution state: the mode, the dropout randomness
// source, and an optional attention trace.
type Exec = nn.Exec

// Inference returns an Exec with dropout disabled.
func Inference() Exec {
	return nn.Inference()
}

// Training returns an Exec that applies dropout with masks drawn from src.
//
// Example:
//
//	exec := nn.Training(rand.NewPCG(42, 0))
func Training(src rand.Source) Exec {
	return nn.Training(src)
}

// AttentionTrace collects the attention weights of every attention module
// reached during a forward pass, keyed by the module path.
//
// Example:
//
//	trace := nn.NewAttentionTrace()
//	_, err := encoder.Forward(x, mask, nn.Inference().WithTrace(trace))
//	w, ok := trace.Weights("encoder.0.self_attention") // [batch, heads, seq, seq]
type AttentionTrace = nn.AttentionTrace

// NewAttentionTrace creates an empty trace.
func NewAttentionTrace() *AttentionTrace {
	return nn.NewAttentionTrace()
}

// Dropout zeroes elements with probability Rate in training mode and scales
// survivors by 1/(1-Rate). It is the identity in inference mode.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer. Rate must be in [0, 1).
func NewDropout[B tensor.Backend](rate float64) (*Dropout[B], error) {
	return nn.NewDropout[B](rate)
}

// Layers

// Linear represents a fully connected (dense) layer: y = x @ W.T + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
// When bias is false the layer has no bias parameter.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear("proj", 512, 2048, true, backend)
func NewLinear[B tensor.Backend](name string, inFeatures, outFeatures int, bias bool, backend B) *Linear[B] {
	return nn.NewLinear(name, inFeatures, outFeatures, bias, backend)
}

// Embedding maps token ids to vectors scaled by sqrt(EmbedDim).
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates a token embedding table of shape [numEmbeddings, embeddingDim].
//
// Example:
//
//	embed := nn.NewEmbedding("src_embed", 32000, 512, backend)
//	x, err := embed.Forward(ids) // ids: [batch, seq] int32
func NewEmbedding[B tensor.Backend](name string, numEmbeddings, embeddingDim int, backend B) *Embedding[B] {
	return nn.NewEmbedding(name, numEmbeddings, embeddingDim, backend)
}

// LayerNorm normalizes over the last dimension with a learnable gain (alpha)
// and bias, using the unbiased standard deviation.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// DefaultNormEps is the epsilon added to the standard deviation.
const DefaultNormEps = nn.DefaultNormEps

// NewLayerNorm creates a layer norm over features.
func NewLayerNorm[B tensor.Backend](path string, features int, epsilon float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(path, features, epsilon, backend)
}

// FeedForward is the position-wise network linear2(dropout(relu(linear1(x)))).
type FeedForward[B tensor.Backend] = nn.FeedForward[B]

// NewFeedForward creates a feed-forward network with hidden width dFF.
func NewFeedForward[B tensor.Backend](path string, dModel, dFF int, dropout float64, backend B) (*FeedForward[B], error) {
	return nn.NewFeedForward(path, dModel, dFF, dropout, backend)
}

// Projection maps decoder states to log-probabilities over the vocabulary.
type Projection[B tensor.Backend] = nn.Projection[B]

// NewProjection creates the output projection.
func NewProjection[B tensor.Backend](path string, dModel, vocabSize int, backend B) (*Projection[B], error) {
	return nn.NewProjection(path, dModel, vocabSize, backend)
}
