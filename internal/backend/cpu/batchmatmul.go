package cpu

import (
	"fmt"

	"github.com/born-ml/seq2seq/internal/parallel"
	"github.com/born-ml/seq2seq/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication.
// Supports 3D and 4D tensors with batch dimensions.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// The last two dimensions are treated as matrix dimensions.
// All leading dimensions must match (batch dimensions). Each matrix product is
// an independent SGEMM call, fanned out across batch and heads.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	if ndim < 3 {
		panic(fmt.Sprintf("BatchMatMul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("BatchMatMul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}

	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("BatchMatMul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
	}

	m := aShape[ndim-2]
	k1 := aShape[ndim-1]
	k2 := bShape[ndim-2]
	n := bShape[ndim-1]

	if k1 != k2 {
		panic(fmt.Sprintf("BatchMatMul: inner dimension mismatch: %d vs %d", k1, k2))
	}
	requireFloat32("BatchMatMul", a, b)

	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= aShape[i]
	}

	outShape := make(tensor.Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	result := cpu.alloc("BatchMatMul", outShape, tensor.Float32)
	cpu.batchSgemm(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batchSize, m, k1, n)

	return result
}

// batchSgemm runs one SGEMM per matrix in the batch.
func (cpu *CPUBackend) batchSgemm(c, a, b []float32, batchSize, m, k, n int) {
	sizeA := m * k
	sizeB := k * n
	sizeC := m * n

	parallel.For(batchSize, func(i int) {
		sgemm(
			c[i*sizeC:(i+1)*sizeC],
			a[i*sizeA:(i+1)*sizeA],
			b[i*sizeB:(i+1)*sizeB],
			m, k, n,
		)
	}, cpu.par.WithMinChunk(1))
}
