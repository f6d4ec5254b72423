package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// Mode selects between deterministic inference and stochastic training.
type Mode int

// Execution modes.
const (
	// ModeInference disables dropout. Outputs are a pure function of
	// parameters and inputs.
	ModeInference Mode = iota

	// ModeTraining applies inverted dropout drawn from Exec.Src.
	ModeTraining
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeInference:
		return "inference"
	case ModeTraining:
		return "training"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Exec carries per-call execution state through a forward pass.
//
// An inference Exec holds no mutable state and may be shared between
// goroutines. A training Exec draws from Src, which is not safe for
// concurrent use, so build one per call.
type Exec struct {
	Mode Mode

	// Src feeds dropout masks in training mode. Nil uses the global source.
	Src rand.Source

	// Trace, when non-nil, receives the post-softmax attention weights of
	// every attention layer the pass goes through.
	Trace *AttentionTrace
}

// Inference returns a deterministic execution context.
func Inference() Exec {
	return Exec{Mode: ModeInference}
}

// Training returns an execution context that applies dropout using src.
func Training(src rand.Source) Exec {
	return Exec{Mode: ModeTraining, Src: src}
}

// WithTrace returns a copy of e that records attention weights into trace.
func (e Exec) WithTrace(trace *AttentionTrace) Exec {
	e.Trace = trace
	return e
}

func (e Exec) uniform() func() float64 {
	if e.Src == nil {
		return rand.Float64
	}
	return rand.New(e.Src).Float64
}

// Dropout zeroes elements with probability Rate during training and scales
// the survivors by 1/(1-Rate). In inference mode it is the identity.
type Dropout[B tensor.Backend] struct {
	Rate float64
}

// NewDropout creates a dropout layer. The rate must lie in [0, 1).
func NewDropout[B tensor.Backend](rate float64) (*Dropout[B], error) {
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("dropout rate %v outside [0, 1): %w", rate, ErrConfiguration)
	}
	return &Dropout[B]{Rate: rate}, nil
}

// Forward applies dropout to x according to exec.
func (d *Dropout[B]) Forward(x *tensor.Tensor[float32, B], exec Exec) *tensor.Tensor[float32, B] {
	if exec.Mode != ModeTraining || d.Rate == 0 {
		return x
	}

	draw := exec.uniform()
	scale := float32(1 / (1 - d.Rate))
	keep := make([]float32, x.NumElements())
	for i := range keep {
		if draw() >= d.Rate {
			keep[i] = scale
		}
	}

	mask, err := tensor.FromSlice(keep, x.Shape(), x.Backend())
	if err != nil {
		panic(fmt.Sprintf("dropout: %v", err))
	}
	return x.Mul(mask)
}

// Parameters returns nil; dropout has no trainable state.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
