// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers of an encoder-decoder transformer.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Embedding, LayerNorm, FeedForward, Projection
//   - Attention: ScaledDotProductAttention, MultiHeadAttention, masks
//   - Blocks: EncoderBlock, DecoderBlock, Encoder, Decoder, Residual
//   - Execution: Exec (inference or training mode), Dropout, AttentionTrace
//   - Initialization: Xavier, XavierInit
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/seq2seq/backend/cpu"
//	    "github.com/born-ml/seq2seq/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    cfg := nn.BlockConfig{DModel: 512, NumHeads: 8, DFF: 2048, Dropout: 0.1}
//	    encoder, err := nn.NewEncoder("encoder", 6, cfg, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    mask, _ := nn.PaddingMask(srcIDs, 0)
//	    out, err := encoder.Forward(x, mask, nn.Inference())
//	}
//
// # Masks
//
// Masks are float32 tensors of 0 and 1 that broadcast against attention
// scores of shape [batch, heads, query, key]. Positions where the mask is 0
// receive MaskedScore before the softmax.
//
// # Execution Mode
//
// Every forward call takes an Exec. Inference() disables dropout. Training
// draws dropout masks from the supplied rand.Source, so a fixed source
// reproduces the same masks. Layers hold no per-call state and are safe for
// concurrent forward passes.
//
// # Parameter Names
//
// Constructors take a dotted path that prefixes every parameter they own,
// for example "encoder.0.self_attention.w_q.weight".
package nn
