package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// BlockConfig holds the hyperparameters shared by encoder and decoder blocks.
type BlockConfig struct {
	DModel   int     // Model dimension
	NumHeads int     // Attention heads, must divide DModel
	DFF      int     // Feed-forward hidden dimension
	Dropout  float64 // Dropout rate in [0, 1)
	NormEps  float32 // LayerNorm stabilizer
}

// Validate reports inconsistent hyperparameters as ErrConfiguration.
func (c BlockConfig) Validate() error {
	switch {
	case c.DModel <= 0 || c.NumHeads <= 0 || c.DFF <= 0:
		return fmt.Errorf("d_model %d, heads %d, d_ff %d must be positive: %w", c.DModel, c.NumHeads, c.DFF, ErrConfiguration)
	case c.DModel%c.NumHeads != 0:
		return fmt.Errorf("d_model %d not divisible by %d heads: %w", c.DModel, c.NumHeads, ErrConfiguration)
	case c.Dropout < 0 || c.Dropout >= 1:
		return fmt.Errorf("dropout %v outside [0, 1): %w", c.Dropout, ErrConfiguration)
	case c.NormEps <= 0:
		return fmt.Errorf("norm epsilon %v must be positive: %w", c.NormEps, ErrConfiguration)
	}
	return nil
}

// EncoderBlock is one encoder layer:
//
//	x = x + SelfAttention(Norm(x), srcMask)
//	x = x + FeedForward(Norm(x))
type EncoderBlock[B tensor.Backend] struct {
	SelfAttention *MultiHeadAttention[B]
	FeedForward   *FeedForward[B]
	Residuals     [2]*Residual[B]
}

// NewEncoderBlock creates an encoder block under path.
func NewEncoderBlock[B tensor.Backend](path string, cfg BlockConfig, backend B) (*EncoderBlock[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("encoder block %s: %w", path, err)
	}

	attn, err := NewMultiHeadAttention(join(path, "self_attention"), cfg.DModel, cfg.NumHeads, cfg.Dropout, backend)
	if err != nil {
		return nil, err
	}
	ffn, err := NewFeedForward(join(path, "feed_forward"), cfg.DModel, cfg.DFF, cfg.Dropout, backend)
	if err != nil {
		return nil, err
	}

	block := &EncoderBlock[B]{SelfAttention: attn, FeedForward: ffn}
	for i := range block.Residuals {
		block.Residuals[i], err = NewResidual(join(path, "residual."+strconv.Itoa(i)), cfg.DModel, cfg.NormEps, cfg.Dropout, backend)
		if err != nil {
			return nil, err
		}
	}
	return block, nil
}

// Forward maps x [batch, seq, d_model] to the same shape.
func (e *EncoderBlock[B]) Forward(
	x, srcMask *tensor.Tensor[float32, B],
	exec Exec,
) (*tensor.Tensor[float32, B], error) {
	x, err := e.Residuals[0].Forward(x, func(h *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
		return e.SelfAttention.Forward(h, h, h, srcMask, exec)
	}, exec)
	if err != nil {
		return nil, err
	}

	return e.Residuals[1].Forward(x, func(h *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
		return e.FeedForward.Forward(h, exec)
	}, exec)
}

// Parameters returns attention, feed-forward and norm parameters.
func (e *EncoderBlock[B]) Parameters() []*Parameter[B] {
	return collect[B](e.SelfAttention, e.FeedForward, e.Residuals[0], e.Residuals[1])
}

// Encoder is a stack of encoder blocks followed by a final LayerNorm.
type Encoder[B tensor.Backend] struct {
	Blocks []*EncoderBlock[B]
	Norm   *LayerNorm[B]
}

// NewEncoder creates numLayers blocks named path.0, path.1, ... and a final
// norm named path.norm.
func NewEncoder[B tensor.Backend](path string, numLayers int, cfg BlockConfig, backend B) (*Encoder[B], error) {
	if numLayers <= 0 {
		return nil, fmt.Errorf("encoder: layer count %d must be positive: %w", numLayers, ErrConfiguration)
	}

	blocks := make([]*EncoderBlock[B], numLayers)
	for i := range blocks {
		block, err := NewEncoderBlock(join(path, strconv.Itoa(i)), cfg, backend)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}

	return &Encoder[B]{
		Blocks: blocks,
		Norm:   NewLayerNorm(join(path, "norm"), cfg.DModel, cfg.NormEps, backend),
	}, nil
}

// Forward runs x [batch, seq, d_model] through every block and the final norm.
func (e *Encoder[B]) Forward(
	x, srcMask *tensor.Tensor[float32, B],
	exec Exec,
) (*tensor.Tensor[float32, B], error) {
	var err error
	for i, block := range e.Blocks {
		if x, err = block.Forward(x, srcMask, exec); err != nil {
			return nil, fmt.Errorf("encoder block %d: %w", i, err)
		}
	}
	return e.Norm.Forward(x)
}

// Parameters returns the parameters of all blocks and the final norm.
func (e *Encoder[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, block := range e.Blocks {
		params = append(params, block.Parameters()...)
	}
	return append(params, e.Norm.Parameters()...)
}
