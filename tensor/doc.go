// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensors for the seq2seq transformer.
//
// # Overview
//
// Tensors are the data structure every layer consumes and produces:
//   - Generic type-safe tensors (Tensor[T, B]) over float32 and int32
//   - NumPy-style broadcasting for element-wise operations
//   - Zero-copy reshapes
//   - A Backend interface that performs the actual computation
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/seq2seq/backend/cpu"
//	    "github.com/born-ml/seq2seq/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    ids, _ := tensor.FromSlice([]int32{1, 5, 7}, tensor.Shape{1, 3}, backend)
//	    x := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    y := x.MatMul(x.T()) // [2, 2]
//	}
//
// # Data Types
//
// float32 carries activations, parameters, and masks. int32 carries token ids.
//
// # Immutability
//
// Operations never modify their inputs; each returns a new tensor. Data()
// exposes the underlying storage for direct reads and writes.
package tensor
