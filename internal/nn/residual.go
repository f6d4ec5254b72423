package nn

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// Sublayer is a shape-preserving transformation wrapped by Residual.
type Sublayer[B tensor.Backend] func(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error)

// Residual wraps a sublayer with pre-normalization and a skip connection:
//
//	out = x + Dropout(sublayer(LayerNorm(x)))
type Residual[B tensor.Backend] struct {
	Norm    *LayerNorm[B]
	dropout *Dropout[B]
}

// NewResidual creates a residual wrapper whose norm lives under path.norm.
func NewResidual[B tensor.Backend](path string, features int, eps float32, dropout float64, backend B) (*Residual[B], error) {
	if features <= 0 {
		return nil, fmt.Errorf("residual: features must be positive, got %d: %w", features, ErrConfiguration)
	}
	drop, err := NewDropout[B](dropout)
	if err != nil {
		return nil, fmt.Errorf("residual: %w", err)
	}
	return &Residual[B]{
		Norm:    NewLayerNorm(join(path, "norm"), features, eps, backend),
		dropout: drop,
	}, nil
}

// Forward returns x + dropout(sublayer(norm(x))).
//
// Returns ErrShapeMismatch if the sublayer changes the shape of its input.
func (r *Residual[B]) Forward(x *tensor.Tensor[float32, B], sublayer Sublayer[B], exec Exec) (*tensor.Tensor[float32, B], error) {
	normed, err := r.Norm.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("residual: %w", err)
	}

	y, err := sublayer(normed)
	if err != nil {
		return nil, err
	}
	if !y.Shape().Equal(x.Shape()) {
		return nil, fmt.Errorf("residual: sublayer changed shape %v to %v: %w", x.Shape(), y.Shape(), ErrShapeMismatch)
	}

	return x.Add(r.dropout.Forward(y, exec)), nil
}

// Parameters returns the norm parameters.
func (r *Residual[B]) Parameters() []*Parameter[B] {
	return r.Norm.Parameters()
}
