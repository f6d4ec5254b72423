package nn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/born-ml/seq2seq/internal/tensor"
	"gonum.org/v1/gonum/stat/distuv"
)

// Xavier (Glorot) initialization for weights.
//
// Draws values from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
// A nil src uses the global math/rand/v2 source.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, backend)
	fillXavier(t.Data(), fanIn, fanOut, src)
	return t
}

// XavierInit re-initializes a parameter of rank >= 2 in place.
//
// Fans follow the [out, in, ...] convention: fan_in is the product of all
// dimensions after the first, fan_out is the first dimension times the
// receptive field.
func XavierInit[B tensor.Backend](p *Parameter[B], src rand.Source) error {
	shape := p.Shape()
	if len(shape) < 2 {
		return fmt.Errorf("xavier init of %s: need rank >= 2, got shape %v: %w", p.Name(), shape, ErrShapeMismatch)
	}

	receptive := 1
	for _, d := range shape[2:] {
		receptive *= d
	}
	fanIn := shape[1] * receptive
	fanOut := shape[0] * receptive

	fillXavier(p.Tensor().Data(), fanIn, fanOut, src)
	return nil
}

func fillXavier(data []float32, fanIn, fanOut int, src rand.Source) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: src}
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}
