package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// Embedding maps token ids to dense vectors scaled by sqrt(d_model).
//
// Architecture:
//   - Weight: [NumEmbed, EmbedDim] parameter
//   - Forward: ids [batch, seq] -> [batch, seq, EmbedDim], each row multiplied
//     by sqrt(EmbedDim)
//
// Example:
//
//	embed := nn.NewEmbedding("src_embed", 10000, 512, backend)
//	x, err := embed.Forward(ids) // [2, 5] -> [2, 5, 512]
type Embedding[B tensor.Backend] struct {
	Weight   *Parameter[B]
	NumEmbed int
	EmbedDim int
	scale    float32
}

// NewEmbedding creates an embedding table named name.weight, initialized with
// Xavier uniform.
//
// Panics if either dimension is not positive.
func NewEmbedding[B tensor.Backend](name string, numEmbeddings, embeddingDim int, backend B) *Embedding[B] {
	if numEmbeddings <= 0 || embeddingDim <= 0 {
		panic(fmt.Sprintf("Embedding: dimensions must be positive, got %dx%d", numEmbeddings, embeddingDim))
	}

	weight := Xavier(embeddingDim, numEmbeddings, tensor.Shape{numEmbeddings, embeddingDim}, nil, backend)
	return &Embedding[B]{
		Weight:   NewParameter(join(name, "weight"), weight),
		NumEmbed: numEmbeddings,
		EmbedDim: embeddingDim,
		scale:    float32(math.Sqrt(float64(embeddingDim))),
	}
}

// Forward looks up ids of shape [batch, seq].
//
// Returns ErrShapeMismatch for ids of any other rank and ErrIndexRange when an
// id falls outside [0, NumEmbed).
func (e *Embedding[B]) Forward(ids *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error) {
	if len(ids.Shape()) != 2 {
		return nil, fmt.Errorf("embedding: expected ids [batch, seq], got %v: %w", ids.Shape(), ErrShapeMismatch)
	}
	for i, id := range ids.Data() {
		if id < 0 || int(id) >= e.NumEmbed {
			return nil, fmt.Errorf("embedding: id %d at flat position %d, vocabulary size %d: %w",
				id, i, e.NumEmbed, ErrIndexRange)
		}
	}

	return tensor.Embedding(e.Weight.Tensor(), ids).MulScalar(e.scale), nil
}

// Parameters returns the embedding weight.
func (e *Embedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.Weight}
}
