package nn

import "errors"

// Sentinel errors returned by module constructors and forward passes.
// Callers match them with errors.Is; the wrapped message carries the detail.
var (
	// ErrConfiguration indicates inconsistent hyperparameters, e.g. d_model
	// not divisible by the number of heads.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrSequenceTooLong indicates a sequence longer than the positional table.
	ErrSequenceTooLong = errors.New("sequence exceeds maximum length")

	// ErrShapeMismatch indicates operands with incompatible shapes.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrIndexRange indicates a token id outside [0, vocab_size).
	ErrIndexRange = errors.New("token id out of range")
)
