package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// DecoderBlock is one decoder layer:
//
//	y = y + SelfAttention(Norm(y), tgtMask)
//	y = y + CrossAttention(Norm(y), encOut, encOut, srcMask)
//	y = y + FeedForward(Norm(y))
//
// Cross-attention keys and values come from the encoder output unnormalized
// by this block.
type DecoderBlock[B tensor.Backend] struct {
	SelfAttention  *MultiHeadAttention[B]
	CrossAttention *MultiHeadAttention[B]
	FeedForward    *FeedForward[B]
	Residuals      [3]*Residual[B]
}

// NewDecoderBlock creates a decoder block under path.
func NewDecoderBlock[B tensor.Backend](path string, cfg BlockConfig, backend B) (*DecoderBlock[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("decoder block %s: %w", path, err)
	}

	selfAttn, err := NewMultiHeadAttention(join(path, "self_attention"), cfg.DModel, cfg.NumHeads, cfg.Dropout, backend)
	if err != nil {
		return nil, err
	}
	cross, err := NewMultiHeadAttention(join(path, "cross_attention"), cfg.DModel, cfg.NumHeads, cfg.Dropout, backend)
	if err != nil {
		return nil, err
	}
	ffn, err := NewFeedForward(join(path, "feed_forward"), cfg.DModel, cfg.DFF, cfg.Dropout, backend)
	if err != nil {
		return nil, err
	}

	block := &DecoderBlock[B]{SelfAttention: selfAttn, CrossAttention: cross, FeedForward: ffn}
	for i := range block.Residuals {
		block.Residuals[i], err = NewResidual(join(path, "residual."+strconv.Itoa(i)), cfg.DModel, cfg.NormEps, cfg.Dropout, backend)
		if err != nil {
			return nil, err
		}
	}
	return block, nil
}

// Forward maps y [batch, seq_t, d_model] to the same shape, attending over
// encOut [batch, seq_s, d_model].
func (d *DecoderBlock[B]) Forward(
	y, encOut, srcMask, tgtMask *tensor.Tensor[float32, B],
	exec Exec,
) (*tensor.Tensor[float32, B], error) {
	y, err := d.Residuals[0].Forward(y, func(h *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
		return d.SelfAttention.Forward(h, h, h, tgtMask, exec)
	}, exec)
	if err != nil {
		return nil, err
	}

	y, err = d.Residuals[1].Forward(y, func(h *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
		return d.CrossAttention.Forward(h, encOut, encOut, srcMask, exec)
	}, exec)
	if err != nil {
		return nil, err
	}

	return d.Residuals[2].Forward(y, func(h *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
		return d.FeedForward.Forward(h, exec)
	}, exec)
}

// Parameters returns self-attention, cross-attention, feed-forward and norm
// parameters.
func (d *DecoderBlock[B]) Parameters() []*Parameter[B] {
	return collect[B](d.SelfAttention, d.CrossAttention, d.FeedForward,
		d.Residuals[0], d.Residuals[1], d.Residuals[2])
}

// Decoder is a stack of decoder blocks followed by a final LayerNorm.
type Decoder[B tensor.Backend] struct {
	Blocks []*DecoderBlock[B]
	Norm   *LayerNorm[B]
}

// NewDecoder creates numLayers blocks named path.0, path.1, ... and a final
// norm named path.norm.
func NewDecoder[B tensor.Backend](path string, numLayers int, cfg BlockConfig, backend B) (*Decoder[B], error) {
	if numLayers <= 0 {
		return nil, fmt.Errorf("decoder: layer count %d must be positive: %w", numLayers, ErrConfiguration)
	}

	blocks := make([]*DecoderBlock[B], numLayers)
	for i := range blocks {
		block, err := NewDecoderBlock(join(path, strconv.Itoa(i)), cfg, backend)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}

	return &Decoder[B]{
		Blocks: blocks,
		Norm:   NewLayerNorm(join(path, "norm"), cfg.DModel, cfg.NormEps, backend),
	}, nil
}

// Forward runs y through every block and the final norm.
func (d *Decoder[B]) Forward(
	y, encOut, srcMask, tgtMask *tensor.Tensor[float32, B],
	exec Exec,
) (*tensor.Tensor[float32, B], error) {
	var err error
	for i, block := range d.Blocks {
		if y, err = block.Forward(y, encOut, srcMask, tgtMask, exec); err != nil {
			return nil, fmt.Errorf("decoder block %d: %w", i, err)
		}
	}
	return d.Norm.Forward(y)
}

// Parameters returns the parameters of all blocks and the final norm.
func (d *Decoder[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, block := range d.Blocks {
		params = append(params, block.Parameters()...)
	}
	return append(params, d.Norm.Parameters()...)
}
