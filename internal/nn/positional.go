package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// PositionalEncoding adds fixed sinusoidal position signals to embeddings.
//
//	PE(pos, 2i)   = sin(pos * exp(2i * -ln(10000) / d))
//	PE(pos, 2i+1) = cos(pos * exp(2i * -ln(10000) / d))
//
// With an odd d the last column has no cosine partner and holds the sine.
// The table is computed once, is not a parameter, and is never written after
// construction.
type PositionalEncoding[B tensor.Backend] struct {
	MaxLen  int
	Dim     int
	table   *tensor.Tensor[float32, B] // [max_len, dim]
	dropout *Dropout[B]
}

// NewPositionalEncoding precomputes encodings for positions [0, maxLen).
func NewPositionalEncoding[B tensor.Backend](dim, maxLen int, dropout float64, backend B) (*PositionalEncoding[B], error) {
	if dim <= 0 || maxLen <= 0 {
		return nil, fmt.Errorf("positional encoding: dim %d and max length %d must be positive: %w",
			dim, maxLen, ErrConfiguration)
	}
	drop, err := NewDropout[B](dropout)
	if err != nil {
		return nil, fmt.Errorf("positional encoding: %w", err)
	}

	data := make([]float32, maxLen*dim)
	for i := 0; i < dim; i += 2 {
		freq := math.Exp(float64(i) * -math.Log(10000.0) / float64(dim))
		for pos := 0; pos < maxLen; pos++ {
			angle := float64(pos) * freq
			data[pos*dim+i] = float32(math.Sin(angle))
			if i+1 < dim {
				data[pos*dim+i+1] = float32(math.Cos(angle))
			}
		}
	}

	table, err := tensor.FromSlice(data, tensor.Shape{maxLen, dim}, backend)
	if err != nil {
		return nil, fmt.Errorf("positional encoding: %w", err)
	}

	return &PositionalEncoding[B]{
		MaxLen:  maxLen,
		Dim:     dim,
		table:   table,
		dropout: drop,
	}, nil
}

// Forward adds the first seq rows of the table to x [batch, seq, dim] and
// applies dropout.
func (p *PositionalEncoding[B]) Forward(x *tensor.Tensor[float32, B], exec Exec) (*tensor.Tensor[float32, B], error) {
	shape := x.Shape()
	if len(shape) != 3 || shape[2] != p.Dim {
		return nil, fmt.Errorf("positional encoding: expected [batch, seq, %d], got %v: %w", p.Dim, shape, ErrShapeMismatch)
	}
	seq := shape[1]
	if seq > p.MaxLen {
		return nil, fmt.Errorf("positional encoding: sequence length %d, maximum %d: %w", seq, p.MaxLen, ErrSequenceTooLong)
	}

	rows, err := tensor.FromSlice(p.table.Data()[:seq*p.Dim], tensor.Shape{seq, p.Dim}, x.Backend())
	if err != nil {
		return nil, fmt.Errorf("positional encoding: %w", err)
	}

	// [seq, dim] -> [1, seq, dim], broadcast over the batch.
	return p.dropout.Forward(x.Add(rows.Unsqueeze(0)), exec), nil
}

// Table returns a copy of the [max_len, dim] encoding table.
func (p *PositionalEncoding[B]) Table() *tensor.Tensor[float32, B] {
	return p.table.Clone()
}

// Parameters returns nil; the table is fixed.
func (p *PositionalEncoding[B]) Parameters() []*Parameter[B] {
	return nil
}
