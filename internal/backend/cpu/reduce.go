package cpu

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// SumDim sums along dim. With keepDim the reduced dimension stays with size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("SumDim", x, dim, keepDim, func(sum float64, _ int) float64 { return sum })
}

// MeanDim averages along dim. With keepDim the reduced dimension stays with size 1.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("MeanDim", x, dim, keepDim, func(sum float64, n int) float64 { return sum / float64(n) })
}

// reduce accumulates in float64 along dim and maps each sum through finish.
func (cpu *CPUBackend) reduce(
	name string,
	x *tensor.RawTensor,
	dim int,
	keepDim bool,
	finish func(sum float64, n int) float64,
) *tensor.RawTensor {
	requireFloat32(name, x)

	shape := x.Shape()
	d, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	outer, size, inner := splitAt(shape, d)
	result := cpu.alloc(name, reducedShape(shape, d, keepDim), tensor.Float32)
	src, dst := x.AsFloat32(), result.AsFloat32()

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			sum := 0.0
			base := o*size*inner + i
			for k := 0; k < size; k++ {
				sum += float64(src[base+k*inner])
			}
			dst[o*inner+i] = float32(finish(sum, size))
		}
	}

	return result
}

// reducedShape drops (or collapses to 1) dimension d.
func reducedShape(shape tensor.Shape, d int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for i, s := range shape {
		switch {
		case i != d:
			out = append(out, s)
		case keepDim:
			out = append(out, 1)
		}
	}
	return out
}
