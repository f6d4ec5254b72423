// Package model assembles the encoder-decoder transformer and exposes its
// three entry points: Encode, Decode and Project.
package model

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/seq2seq/internal/nn"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// Model is an assembled encoder-decoder transformer.
//
// Parameters are read-only during forward passes, so one Model serves
// concurrent inference calls. Training-mode calls each need their own
// nn.Exec.
type Model[B tensor.Backend] struct {
	SrcEmbed   *nn.Embedding[B]
	TgtEmbed   *nn.Embedding[B]
	SrcPos     *nn.PositionalEncoding[B]
	TgtPos     *nn.PositionalEncoding[B]
	Encoder    *nn.Encoder[B]
	Decoder    *nn.Decoder[B]
	Projection *nn.Projection[B]

	cfg     Config
	backend B
}

// Option configures model assembly.
type Option func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
	src    rand.Source
}

// WithLogger sets the logger that receives the assembly record.
func WithLogger(logger *slog.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithInitSource draws the Xavier initialization from src, making weights
// reproducible.
func WithInitSource(src rand.Source) Option {
	return func(o *buildOptions) {
		o.src = src
	}
}

// New validates cfg and assembles the model on backend.
//
// Every parameter of rank > 1 (embeddings and linear weights) is drawn from
// Xavier uniform. Biases start at 0, norm scales at 1.
func New[B tensor.Backend](cfg Config, backend B, opts ...Option) (*Model[B], error) {
	options := &buildOptions{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("model config: %w", err)
	}

	m := &Model[B]{
		SrcEmbed: nn.NewEmbedding("src_embed", cfg.SrcVocabSize, cfg.DModel, backend),
		TgtEmbed: nn.NewEmbedding("tgt_embed", cfg.TgtVocabSize, cfg.DModel, backend),
		cfg:      cfg,
		backend:  backend,
	}

	var err error
	if m.SrcPos, err = nn.NewPositionalEncoding(cfg.DModel, cfg.SrcSeqLen, cfg.Dropout, backend); err != nil {
		return nil, err
	}
	if m.TgtPos, err = nn.NewPositionalEncoding(cfg.DModel, cfg.TgtSeqLen, cfg.Dropout, backend); err != nil {
		return nil, err
	}
	if m.Encoder, err = nn.NewEncoder("encoder", cfg.NumLayers, cfg.block(), backend); err != nil {
		return nil, err
	}
	if m.Decoder, err = nn.NewDecoder("decoder", cfg.NumLayers, cfg.block(), backend); err != nil {
		return nil, err
	}
	if m.Projection, err = nn.NewProjection("projection", cfg.DModel, cfg.TgtVocabSize, backend); err != nil {
		return nil, err
	}

	// Constructors already draw Xavier weights from the global source.
	if options.src != nil {
		for _, p := range m.Parameters() {
			if len(p.Shape()) < 2 {
				continue
			}
			if err := nn.XavierInit(p, options.src); err != nil {
				return nil, err
			}
		}
	}

	options.logger.Debug("assembled transformer",
		"d_model", cfg.DModel,
		"heads", cfg.NumHeads,
		"d_ff", cfg.DFF,
		"layers", cfg.NumLayers,
		"src_vocab", cfg.SrcVocabSize,
		"tgt_vocab", cfg.TgtVocabSize,
		"parameters", m.NumParameters(),
		"backend", backend.Name(),
	)

	return m, nil
}

// Encode maps source ids [batch, src_seq] to encoder states
// [batch, src_seq, d_model].
//
// srcMask is nil or a 0/1 mask broadcastable to [batch, heads, src_seq, src_seq],
// typically nn.PaddingMask.
func (m *Model[B]) Encode(
	src *tensor.Tensor[int32, B],
	srcMask *tensor.Tensor[float32, B],
	exec nn.Exec,
) (*tensor.Tensor[float32, B], error) {
	x, err := m.SrcEmbed.Forward(src)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if x, err = m.SrcPos.Forward(x, exec); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	out, err := m.Encoder.Forward(x, srcMask, exec)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}

// Decode maps target ids [batch, tgt_seq] to decoder states
// [batch, tgt_seq, d_model], attending over encOut.
//
// tgtMask is typically nn.DecoderMask or nn.CausalMask; srcMask is the mask
// used for Encode.
func (m *Model[B]) Decode(
	encOut *tensor.Tensor[float32, B],
	srcMask *tensor.Tensor[float32, B],
	tgt *tensor.Tensor[int32, B],
	tgtMask *tensor.Tensor[float32, B],
	exec nn.Exec,
) (*tensor.Tensor[float32, B], error) {
	y, err := m.TgtEmbed.Forward(tgt)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if y, err = m.TgtPos.Forward(y, exec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out, err := m.Decoder.Forward(y, encOut, srcMask, tgtMask, exec)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

// Project maps decoder states [batch, tgt_seq, d_model] to log-probabilities
// [batch, tgt_seq, tgt_vocab].
func (m *Model[B]) Project(decOut *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return m.Projection.Forward(decOut)
}

// Parameters returns every parameter in a stable order: embeddings, encoder,
// decoder, projection.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, mod := range []nn.Module[B]{m.SrcEmbed, m.TgtEmbed, m.Encoder, m.Decoder, m.Projection} {
		params = append(params, mod.Parameters()...)
	}
	return params
}

// NamedParameters returns the parameters keyed by their dotted path.
func (m *Model[B]) NamedParameters() map[string]*nn.Parameter[B] {
	named := make(map[string]*nn.Parameter[B])
	for _, p := range m.Parameters() {
		named[p.Name()] = p
	}
	return named
}

// NumParameters returns the total number of scalar parameters.
func (m *Model[B]) NumParameters() int {
	n := 0
	for _, p := range m.Parameters() {
		n += p.NumElements()
	}
	return n
}

// Config returns the configuration the model was assembled with.
func (m *Model[B]) Config() Config {
	return m.cfg
}

// Backend returns the compute backend.
func (m *Model[B]) Backend() B {
	return m.backend
}
