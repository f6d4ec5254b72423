// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go kernels (no CGO)
//   - gonum BLAS (SGEMM) for matrix and batched matrix products
//   - NumPy-compatible broadcasting
//   - Parallel fan-out over batch × heads and over softmax rows
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
//	    a := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    b := a.MatMul(a.T()) // [2, 2]
//	}
//
// # Concurrency
//
// A Backend holds no mutable state after construction and is safe for
// concurrent use. Use WithParallel(Sequential()) to keep all work on the
// calling goroutine.
package cpu
