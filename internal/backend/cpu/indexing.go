package cpu

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// Embedding looks up rows of weight [vocab, dim] for every index.
// Output shape is indices.Shape() + [dim].
// Panics on an index outside [0, vocab).
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D, got shape %v", wShape))
	}
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("embedding: indices must be int32, got %s", indices.DType()))
	}
	requireFloat32("embedding", weight)

	vocab, dim := wShape[0], wShape[1]

	outShape := make(tensor.Shape, 0, len(indices.Shape())+1)
	outShape = append(outShape, indices.Shape()...)
	outShape = append(outShape, dim)

	result := cpu.alloc("embedding", outShape, tensor.Float32)
	out, table := result.AsFloat32(), weight.AsFloat32()

	for i, id := range indices.AsInt32() {
		row := int(id)
		if row < 0 || row >= vocab {
			panic(fmt.Sprintf("embedding: index %d out of range [0, %d)", row, vocab))
		}
		copy(out[i*dim:(i+1)*dim], table[row*dim:(row+1)*dim])
	}

	return result
}

// MaskedFill returns x with value written wherever the broadcast mask is 0.
// The mask must broadcast to x's shape without enlarging it.
func (cpu *CPUBackend) MaskedFill(x, mask *tensor.RawTensor, value float32) *tensor.RawTensor {
	requireFloat32("MaskedFill", x, mask)

	shape := x.Shape()
	if !mask.Shape().BroadcastsTo(shape) {
		panic(fmt.Sprintf("MaskedFill: mask shape %v does not broadcast to %v", mask.Shape(), shape))
	}

	result := cpu.alloc("MaskedFill", shape, tensor.Float32)
	out, src, m := result.AsFloat32(), x.AsFloat32(), mask.AsFloat32()

	xStrides := shape.ComputeStrides()
	mStrides := broadcastStrides(mask.Shape(), shape)
	forEachBroadcast(shape, xStrides, mStrides, func(o, xi, mi int) {
		if m[mi] == 0 {
			out[o] = value
		} else {
			out[o] = src[xi]
		}
	})

	return result
}
