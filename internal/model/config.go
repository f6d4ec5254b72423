package model

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/nn"
)

// Defaults from "Attention Is All You Need" (base model).
const (
	DefaultDModel    = 512
	DefaultNumLayers = 6
	DefaultNumHeads  = 8
	DefaultDFF       = 2048
	DefaultDropout   = 0.1
	DefaultNormEps   = nn.DefaultNormEps
)

// Config holds the hyperparameters of the transformer.
//
// The same NumLayers, NumHeads and DFF apply to encoder and decoder blocks.
// SrcSeqLen and TgtSeqLen size the positional tables and bound the length of
// the sequences each side accepts.
type Config struct {
	DModel       int     // Model (embedding) dimension
	NumHeads     int     // Attention heads h; DModel must be divisible by h
	DFF          int     // Feed-forward hidden dimension
	NumLayers    int     // Blocks per stack N
	SrcVocabSize int     // Source vocabulary size
	TgtVocabSize int     // Target vocabulary size
	SrcSeqLen    int     // Maximum source sequence length
	TgtSeqLen    int     // Maximum target sequence length
	Dropout      float64 // Dropout rate in [0, 1)
	NormEps      float32 // LayerNorm stabilizer
}

// DefaultConfig returns the base configuration for the given vocabularies and
// sequence lengths.
func DefaultConfig(srcVocab, tgtVocab, srcSeqLen, tgtSeqLen int) Config {
	return Config{
		DModel:       DefaultDModel,
		NumHeads:     DefaultNumHeads,
		DFF:          DefaultDFF,
		NumLayers:    DefaultNumLayers,
		SrcVocabSize: srcVocab,
		TgtVocabSize: tgtVocab,
		SrcSeqLen:    srcSeqLen,
		TgtSeqLen:    tgtSeqLen,
		Dropout:      DefaultDropout,
		NormEps:      DefaultNormEps,
	}
}

// Settings is the minimal construction record: one sequence length shared by
// source and target, and the model dimension.
type Settings struct {
	SeqLen int
	DModel int
}

// Config expands the settings into a full Config with default heads, layers,
// feed-forward width, dropout and epsilon.
func (s Settings) Config(srcVocab, tgtVocab int) Config {
	cfg := DefaultConfig(srcVocab, tgtVocab, s.SeqLen, s.SeqLen)
	cfg.DModel = s.DModel
	return cfg
}

// Validate reports inconsistent hyperparameters. The returned error wraps
// ErrConfiguration.
func (c Config) Validate() error {
	switch {
	case c.NumLayers <= 0:
		return fmt.Errorf("layer count %d must be positive: %w", c.NumLayers, ErrConfiguration)
	case c.SrcVocabSize <= 0 || c.TgtVocabSize <= 0:
		return fmt.Errorf("vocabulary sizes %d/%d must be positive: %w", c.SrcVocabSize, c.TgtVocabSize, ErrConfiguration)
	case c.SrcSeqLen <= 0 || c.TgtSeqLen <= 0:
		return fmt.Errorf("sequence lengths %d/%d must be positive: %w", c.SrcSeqLen, c.TgtSeqLen, ErrConfiguration)
	}
	return c.block().Validate()
}

func (c Config) block() nn.BlockConfig {
	return nn.BlockConfig{
		DModel:   c.DModel,
		NumHeads: c.NumHeads,
		DFF:      c.DFF,
		Dropout:  c.Dropout,
		NormEps:  c.NormEps,
	}
}
