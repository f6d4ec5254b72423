// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model

import (
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/seq2seq/internal/model"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// Defaults of the base model.
const (
	DefaultDModel    = model.DefaultDModel
	DefaultNumLayers = model.DefaultNumLayers
	DefaultNumHeads  = model.DefaultNumHeads
	DefaultDFF       = model.DefaultDFF
	DefaultDropout   = model.DefaultDropout
	DefaultNormEps   = model.DefaultNormEps
)

// Config holds the hyperparameters of the transformer.
//
// Example:
//
//	cfg := model.Config{
//	    DModel:       512,
//	    NumHeads:     8,
//	    DFF:          2048,
//	    NumLayers:    6,
//	    SrcVocabSize: 32000,
//	    TgtVocabSize: 32000,
//	    SrcSeqLen:    350,
//	    TgtSeqLen:    350,
//	    Dropout:      0.1,
//	    NormEps:      model.DefaultNormEps,
//	}
type Config = model.Config

// DefaultConfig returns the base configuration for the given vocabularies and
// sequence lengths.
func DefaultConfig(srcVocab, tgtVocab, srcSeqLen, tgtSeqLen int) Config {
	return model.DefaultConfig(srcVocab, tgtVocab, srcSeqLen, tgtSeqLen)
}

// Settings is the minimal construction record: one sequence length shared by
// source and target plus the model dimension.
//
// Example:
//
//	cfg := model.Settings{SeqLen: 350, DModel: 512}.Config(srcVocab, tgtVocab)
type Settings = model.Settings

// Model is an assembled encoder-decoder transformer.
type Model[B tensor.Backend] = model.Model[B]

// Option configures New.
type Option = model.Option

// WithLogger sets the logger that receives construction diagnostics.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return model.WithLogger(logger)
}

// WithInitSource re-draws every weight matrix from src with Xavier uniform
// initialization, making construction reproducible.
//
// Example:
//
//	m, err := model.New(cfg, backend, model.WithInitSource(rand.NewPCG(1, 2)))
func WithInitSource(src rand.Source) Option {
	return model.WithInitSource(src)
}

// New validates cfg and builds a model on backend.
func New[B tensor.Backend](cfg Config, backend B, opts ...Option) (*Model[B], error) {
	return model.New(cfg, backend, opts...)
}

// Errors returned by construction and forward passes. Use errors.Is to test
// for them.
var (
	ErrConfiguration   = model.ErrConfiguration
	ErrSequenceTooLong = model.ErrSequenceTooLong
	ErrShapeMismatch   = model.ErrShapeMismatch
	ErrIndexRange      = model.ErrIndexRange
)
