package nn

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// DefaultNormEps is the stabilizer added to the standard deviation.
const DefaultNormEps float32 = 1e-6

// LayerNorm normalizes each vector along the last dimension.
//
// Formula: Y = alpha * (X - mean(X)) / (std(X) + eps) + bias
//
// Where std is the Bessel-corrected (n-1) standard deviation, taken as 0 when
// the feature width is 1. Alpha starts at ones and bias at zeros.
//
// Example:
//
//	norm := nn.NewLayerNorm("encoder.norm", 512, nn.DefaultNormEps, backend)
//	out, err := norm.Forward(x) // [..., 512] -> [..., 512]
type LayerNorm[B tensor.Backend] struct {
	Alpha    *Parameter[B] // scale [features]
	Bias     *Parameter[B] // shift [features]
	Features int
	Epsilon  float32
}

// NewLayerNorm creates a LayerNorm whose parameters are path.alpha and
// path.bias.
//
// Panics if features is not positive.
func NewLayerNorm[B tensor.Backend](path string, features int, epsilon float32, backend B) *LayerNorm[B] {
	if features <= 0 {
		panic(fmt.Sprintf("LayerNorm: features must be positive, got %d", features))
	}

	return &LayerNorm[B]{
		Alpha:    NewParameter(join(path, "alpha"), tensor.Ones[float32](tensor.Shape{features}, backend)),
		Bias:     NewParameter(join(path, "bias"), tensor.Zeros[float32](tensor.Shape{features}, backend)),
		Features: features,
		Epsilon:  epsilon,
	}
}

// Forward applies normalization followed by the learned affine transform.
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	norm, err := l.Normalize(x)
	if err != nil {
		return nil, err
	}
	return norm.Mul(l.Alpha.Tensor()).Add(l.Bias.Tensor()), nil
}

// Normalize returns (x - mean) / (std + eps) without the affine transform.
func (l *LayerNorm[B]) Normalize(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	shape := x.Shape()
	if len(shape) == 0 || shape.Last() != l.Features {
		return nil, fmt.Errorf("layer norm: expected [..., %d], got %v: %w", l.Features, shape, ErrShapeMismatch)
	}

	centered := x.Sub(x.MeanDim(-1, true))

	var std *tensor.Tensor[float32, B]
	if l.Features > 1 {
		std = centered.Mul(centered).SumDim(-1, true).DivScalar(float32(l.Features - 1)).Sqrt()
	} else {
		std = tensor.Zeros[float32](reducedLast(shape), x.Backend())
	}

	return centered.Div(std.AddScalar(l.Epsilon)), nil
}

// Parameters returns [alpha, bias].
func (l *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.Alpha, l.Bias}
}

func reducedLast(shape tensor.Shape) tensor.Shape {
	out := shape.Clone()
	out[len(out)-1] = 1
	return out
}
