// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model assembles a complete encoder-decoder transformer.
//
// # Overview
//
// A Model wires together:
//   - Source and target token embeddings scaled by sqrt(d_model)
//   - Sinusoidal positional encodings
//   - An encoder and a decoder of NumLayers pre-norm blocks each
//   - A projection to log-probabilities over the target vocabulary
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/seq2seq/backend/cpu"
//	    "github.com/born-ml/seq2seq/model"
//	    "github.com/born-ml/seq2seq/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    cfg := model.DefaultConfig(32000, 32000, 350, 350)
//
//	    m, err := model.New(cfg, backend, model.WithLogger(slog.Default()))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    exec := nn.Inference()
//	    memory, err := m.Encode(src, srcMask, exec)
//	    out, err := m.Decode(memory, srcMask, tgt, tgtMask, exec)
//	    logProbs, err := m.Project(out) // [batch, tgt_seq, tgt_vocab]
//	}
//
// # Decoding
//
// Package generate runs the autoregressive loop on top of a Model.
package model
