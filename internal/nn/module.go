// Package nn implements the layers of the encoder-decoder transformer.
//
// This package provides:
//   - Module and Parameter: named, trainable tensors owned by one layer
//   - Linear, Embedding, PositionalEncoding, LayerNorm, Dropout
//   - MultiHeadAttention and ScaledDotProductAttention
//   - FeedForward, Residual, encoder and decoder stacks, Projection
//   - PaddingMask, CausalMask, DecoderMask
//
// Layers validate their inputs and return errors wrapping the sentinels in
// errors.go. Forward passes never mutate parameters, so one set of layers can
// serve concurrent inference calls.
package nn

import (
	"github.com/born-ml/seq2seq/internal/tensor"
)

// Module is the base interface for all layers.
//
// Parameters returns every trainable tensor of the module, including those of
// nested modules, in a stable order. Modules without parameters return an
// empty slice.
type Module[B tensor.Backend] interface {
	Parameters() []*Parameter[B]
}

// collect concatenates the parameters of several modules in order.
func collect[B tensor.Backend](modules ...Module[B]) []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// join builds a dotted parameter path, skipping an empty prefix.
func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
