package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/seq2seq/internal/parallel"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Softmax normalizes x along dim: exp(x - max) / sum(exp(x - max)).
// Each slice along dim sums to 1.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.alongDim("softmax", x, dim, func(in func(k int) float32, out func(k int, v float32), size int) {
		maxVal := in(0)
		for k := 1; k < size; k++ {
			maxVal = max(maxVal, in(k))
		}

		exps := make([]float64, size)
		sum := 0.0
		for k := 0; k < size; k++ {
			exps[k] = math.Exp(float64(in(k) - maxVal))
			sum += exps[k]
		}

		for k := 0; k < size; k++ {
			out(k, float32(exps[k]/sum))
		}
	})
}

// LogSoftmax computes x - max - log(sum(exp(x - max))) along dim.
func (cpu *CPUBackend) LogSoftmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.alongDim("log_softmax", x, dim, func(in func(k int) float32, out func(k int, v float32), size int) {
		maxVal := in(0)
		for k := 1; k < size; k++ {
			maxVal = max(maxVal, in(k))
		}

		sum := 0.0
		for k := 0; k < size; k++ {
			sum += math.Exp(float64(in(k) - maxVal))
		}
		logSum := math.Log(sum)

		for k := 0; k < size; k++ {
			out(k, float32(float64(in(k)-maxVal)-logSum))
		}
	})
}

// alongDim runs fn once per 1D lane of x along dim. Lanes are independent and
// processed in parallel.
func (cpu *CPUBackend) alongDim(
	name string,
	x *tensor.RawTensor,
	dim int,
	fn func(in func(k int) float32, out func(k int, v float32), size int),
) *tensor.RawTensor {
	requireFloat32(name, x)

	shape := x.Shape()
	d, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	outer, size, inner := splitAt(shape, d)
	result := cpu.alloc(name, shape, tensor.Float32)
	src, dst := x.AsFloat32(), result.AsFloat32()

	parallel.For(outer*inner, func(lane int) {
		base := (lane/inner)*size*inner + lane%inner
		fn(
			func(k int) float32 { return src[base+k*inner] },
			func(k int, v float32) { dst[base+k*inner] = v },
			size,
		)
	}, cpu.par)

	return result
}

// splitAt returns the products of dimensions before d, at d, and after d.
func splitAt(shape tensor.Shape, d int) (outer, size, inner int) {
	outer, inner = 1, 1
	for i := 0; i < d; i++ {
		outer *= shape[i]
	}
	for i := d + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[d], inner
}
