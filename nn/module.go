// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/seq2seq/internal/nn"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// Module is implemented by every layer that owns parameters.
//
// Parameters returns the layer's parameters in a stable order, including
// those of nested layers. Stateless layers return nil.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named, learnable tensor.
//
// Names are dotted paths such as "decoder.0.cross_attention.w_o.weight".
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Xavier creates a tensor drawn from the Xavier (Glorot) uniform distribution
// U(-a, a) with a = sqrt(6 / (fanIn + fanOut)). A nil src uses the global
// math/rand/v2 source.
//
// Example:
//
//	w := nn.Xavier(512, 2048, tensor.Shape{2048, 512}, rand.NewPCG(1, 2), backend)
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, src, backend)
}

// XavierInit refills a parameter of rank 2 or more in place with Xavier
// uniform values. Lower-rank parameters yield ErrShapeMismatch.
func XavierInit[B tensor.Backend](p *Parameter[B], src rand.Source) error {
	return nn.XavierInit(p, src)
}

// Errors returned by layer constructors and forward passes. Use errors.Is to
// test for them.
var (
	ErrConfiguration   = nn.ErrConfiguration
	ErrSequenceTooLong = nn.ErrSequenceTooLong
	ErrShapeMismatch   = nn.ErrShapeMismatch
	ErrIndexRange      = nn.ErrIndexRange
)
