package model

import "github.com/born-ml/seq2seq/internal/nn"

// Errors returned by model construction and forward passes.
var (
	ErrConfiguration   = nn.ErrConfiguration
	ErrSequenceTooLong = nn.ErrSequenceTooLong
	ErrShapeMismatch   = nn.ErrShapeMismatch
	ErrIndexRange      = nn.ErrIndexRange
)
