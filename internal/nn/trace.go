package nn

import (
	"slices"
	"sync"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// AttentionTrace collects attention weights produced during forward passes.
//
// Weights are stored under the attention layer's path, for example
// "decoder.1.cross_attention", with shape [batch, heads, seq_q, seq_k].
// A later pass through the same layer replaces the earlier entry.
// AttentionTrace is safe for concurrent use.
type AttentionTrace struct {
	mu      sync.Mutex
	weights map[string]*tensor.RawTensor
}

// NewAttentionTrace creates an empty trace.
func NewAttentionTrace() *AttentionTrace {
	return &AttentionTrace{weights: make(map[string]*tensor.RawTensor)}
}

func (t *AttentionTrace) record(path string, weights *tensor.RawTensor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.weights[path] = weights
}

// Weights returns the weights recorded for path.
func (t *AttentionTrace) Weights(path string) (*tensor.RawTensor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.weights[path]
	return w, ok
}

// Paths returns the recorded layer paths in sorted order.
func (t *AttentionTrace) Paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	paths := make([]string, 0, len(t.weights))
	for p := range t.weights {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
