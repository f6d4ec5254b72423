// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/seq2seq/internal/backend/cpu"
	"github.com/born-ml/seq2seq/internal/parallel"
	"github.com/born-ml/seq2seq/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend runs element-wise kernels in pure Go and matrix products
// through gonum's SGEMM, fanning batched products and row-wise softmax out
// over goroutines.
type Backend = internalcpu.CPUBackend

// Option configures a Backend.
type Option = internalcpu.Option

// ParallelConfig controls how kernels split work across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/seq2seq/backend/cpu"
//	    "github.com/born-ml/seq2seq/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}

// WithParallel sets the goroutine fan-out policy.
//
// Example:
//
//	backend := cpu.New(cpu.WithParallel(cpu.Sequential()))
func WithParallel(cfg ParallelConfig) Option {
	return internalcpu.WithParallel(cfg)
}

// DefaultParallel uses one worker per CPU.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// Sequential disables goroutine fan-out.
func Sequential() ParallelConfig {
	return parallel.Sequential()
}
