package cpu

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// Reshape returns a tensor with the same data but different shape.
// The result is a zero-copy view; kernels never write into inputs, so
// sharing storage is safe.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	view, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// Transpose transposes the tensor by permuting its dimensions.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	srcStrides := shape.ComputeStrides()
	permStrides := make([]int, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
		permStrides[i] = srcStrides[ax]
	}

	result := cpu.alloc("transpose", newShape, t.DType())

	switch t.DType() {
	case tensor.Float32:
		transposeData(result.AsFloat32(), t.AsFloat32(), newShape, permStrides)
	case tensor.Int32:
		transposeData(result.AsInt32(), t.AsInt32(), newShape, permStrides)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}

// transposeData gathers src into dst in dst's row-major order, reading src
// through the permuted strides.
func transposeData[T float32 | int32](dst, src []T, dstShape tensor.Shape, srcStrides []int) {
	noBroadcast := make([]int, len(dstShape))
	forEachBroadcast(dstShape, srcStrides, noBroadcast, func(o, si, _ int) {
		dst[o] = src[si]
	})
}
