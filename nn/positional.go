// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/seq2seq/internal/nn"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// PositionalEncoding adds fixed sinusoidal position vectors to its input.
//
// The table is computed once:
//
//	PE(pos, 2i)   = sin(pos / 10000^(2i/dim))
//	PE(pos, 2i+1) = cos(pos / 10000^(2i/dim))
//
// Forward adds the first seq rows and applies dropout. The table is not a
// learnable parameter.
//
// Example:
//
//	pe, err := nn.NewPositionalEncoding(512, 350, 0.1, backend)
//	x, err = pe.Forward(x, nn.Inference()) // x: [batch, seq, 512]
type PositionalEncoding[B tensor.Backend] = nn.PositionalEncoding[B]

// NewPositionalEncoding creates a positional encoding for sequences up to maxLen.
func NewPositionalEncoding[B tensor.Backend](dim, maxLen int, dropout float64, backend B) (*PositionalEncoding[B], error) {
	return nn.NewPositionalEncoding(dim, maxLen, dropout, backend)
}
