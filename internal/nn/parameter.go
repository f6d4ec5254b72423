package nn

import (
	"github.com/born-ml/seq2seq/internal/tensor"
)

// Parameter is a named tensor owned by exactly one module.
//
// The name is the full dotted path assigned at construction, for example
// "encoder.0.self_attention.w_q.weight". Training and persistence
// collaborators address parameters by this name.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter wraps an initialized tensor as a parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter path.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Shape returns the parameter shape.
func (p *Parameter[B]) Shape() tensor.Shape {
	return p.tensor.Shape()
}

// NumElements returns the number of scalars held by the parameter.
func (p *Parameter[B]) NumElements() int {
	return p.tensor.NumElements()
}
