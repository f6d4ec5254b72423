package cpu

import (
	"math"

	"github.com/born-ml/seq2seq/internal/tensor"
)

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary("AddScalar", x, func(v float32) float32 { return v + scalar })
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary("MulScalar", x, func(v float32) float32 { return v * scalar })
}

// DivScalar divides every element by a scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return cpu.unary("DivScalar", x, func(v float32) float32 { return v / scalar })
}

// Exp computes e^x element-wise.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Sqrt computes the square root element-wise.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sqrt", x, func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

// unary applies op to every element of a float32 tensor.
func (cpu *CPUBackend) unary(name string, x *tensor.RawTensor, op func(float32) float32) *tensor.RawTensor {
	requireFloat32(name, x)

	result := cpu.alloc(name, x.Shape(), tensor.Float32)
	out, in := result.AsFloat32(), x.AsFloat32()
	for i, v := range in {
		out[i] = op(v)
	}
	return result
}
