package cpu

import "github.com/born-ml/seq2seq/internal/tensor"

// broadcastStrides returns strides of in aligned to out's rank, with 0 for
// every dimension that is broadcast.
func broadcastStrides(in, out tensor.Shape) []int {
	strides := make([]int, len(out))
	inStrides := in.ComputeStrides()
	offset := len(out) - len(in)
	for i := range in {
		if in[i] != 1 {
			strides[offset+i] = inStrides[i]
		}
	}
	return strides
}

// forEachBroadcast walks every flat index of out in row-major order together
// with the matching offsets into two broadcast inputs.
func forEachBroadcast(out tensor.Shape, aStrides, bStrides []int, f func(o, ai, bi int)) {
	n := out.NumElements()
	idx := make([]int, len(out))
	ai, bi := 0, 0

	for o := 0; o < n; o++ {
		f(o, ai, bi)

		for d := len(out) - 1; d >= 0; d-- {
			idx[d]++
			ai += aStrides[d]
			bi += bStrides[d]
			if idx[d] < out[d] {
				break
			}
			ai -= aStrides[d] * out[d]
			bi -= bStrides[d] * out[d]
			idx[d] = 0
		}
	}
}
