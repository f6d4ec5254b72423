package nn

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// Projection maps decoder states to log-probabilities over the target
// vocabulary: LogSoftmax(x W^T + b).
type Projection[B tensor.Backend] struct {
	Linear *Linear[B]
}

// NewProjection creates the output projection with parameters path.weight
// and path.bias.
func NewProjection[B tensor.Backend](path string, dModel, vocabSize int, backend B) (*Projection[B], error) {
	if dModel <= 0 || vocabSize <= 0 {
		return nil, fmt.Errorf("projection: d_model %d and vocabulary %d must be positive: %w",
			dModel, vocabSize, ErrConfiguration)
	}
	return &Projection[B]{Linear: NewLinear(path, dModel, vocabSize, true, backend)}, nil
}

// Forward maps [batch, seq, d_model] to [batch, seq, vocab] log-probabilities.
func (p *Projection[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	logits, err := p.Linear.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	return logits.LogSoftmax(-1), nil
}

// Parameters returns the projection weight and bias.
func (p *Projection[B]) Parameters() []*Parameter[B] {
	return p.Linear.Parameters()
}
