package nn

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// Linear implements a fully connected layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x has shape [..., in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the optional bias vector with shape [out_features]
//   - y has shape [..., out_features]
//
// Weights start from Xavier/Glorot uniform, biases from zeros.
//
// Example:
//
//	layer := nn.NewLinear("w_q", 512, 512, false, backend)
//	out, err := layer.Forward(x) // [batch, seq, 512] -> [batch, seq, 512]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features], nil without bias
}

// NewLinear creates a Linear layer whose parameters are named name.weight and
// name.bias.
//
// Panics if either dimension is not positive.
func NewLinear[B tensor.Backend](name string, inFeatures, outFeatures int, bias bool, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("Linear: dimensions must be positive, got %d -> %d", inFeatures, outFeatures))
	}

	l := &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight: NewParameter(join(name, "weight"),
			Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, nil, backend)),
	}
	if bias {
		l.bias = NewParameter(join(name, "bias"), tensor.Zeros[float32](tensor.Shape{outFeatures}, backend))
	}
	return l
}

// Forward applies the layer to the trailing dimension of input.
//
// Leading dimensions are flattened into rows for a single matrix product and
// restored afterwards.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	shape := input.Shape()
	if len(shape) == 0 || shape.Last() != l.inFeatures {
		return nil, fmt.Errorf("linear: expected input [..., %d], got %v: %w", l.inFeatures, shape, ErrShapeMismatch)
	}

	rows := shape.NumElements() / l.inFeatures
	output := input.Reshape(rows, l.inFeatures).MatMul(l.weight.Tensor().T())

	if l.bias != nil {
		output = output.Add(l.bias.Tensor())
	}

	outShape := shape.Clone()
	outShape[len(outShape)-1] = l.outFeatures
	return output.Reshape(outShape...), nil
}

// Parameters returns [weight, bias], or [weight] without bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.bias != nil {
		return []*Parameter[B]{l.weight, l.bias}
	}
	return []*Parameter[B]{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter, or nil.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}
