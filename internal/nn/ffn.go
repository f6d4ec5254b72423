package nn

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// FeedForward implements the position-wise feed-forward network.
//
// Architecture:
//
//	FFN(x) = Linear2(Dropout(ReLU(Linear1(x))))
//
// Where Linear1: d_model -> d_ff and Linear2: d_ff -> d_model, both with bias.
// Every position is transformed independently with the same weights.
type FeedForward[B tensor.Backend] struct {
	Linear1 *Linear[B]
	Linear2 *Linear[B]
	dropout *Dropout[B]
}

// NewFeedForward creates a feed-forward network under path.
func NewFeedForward[B tensor.Backend](path string, dModel, dFF int, dropout float64, backend B) (*FeedForward[B], error) {
	if dModel <= 0 || dFF <= 0 {
		return nil, fmt.Errorf("feed-forward: d_model %d and d_ff %d must be positive: %w", dModel, dFF, ErrConfiguration)
	}
	drop, err := NewDropout[B](dropout)
	if err != nil {
		return nil, fmt.Errorf("feed-forward: %w", err)
	}

	return &FeedForward[B]{
		Linear1: NewLinear(join(path, "linear1"), dModel, dFF, true, backend),
		Linear2: NewLinear(join(path, "linear2"), dFF, dModel, true, backend),
		dropout: drop,
	}, nil
}

// Forward maps [..., d_model] to [..., d_model].
func (f *FeedForward[B]) Forward(x *tensor.Tensor[float32, B], exec Exec) (*tensor.Tensor[float32, B], error) {
	h, err := f.Linear1.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("feed-forward: %w", err)
	}
	return f.Linear2.Forward(f.dropout.Forward(h.ReLU(), exec))
}

// Parameters returns the parameters of both linear layers.
func (f *FeedForward[B]) Parameters() []*Parameter[B] {
	return collect[B](f.Linear1, f.Linear2)
}
