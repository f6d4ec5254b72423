package tensor

import (
	"math/rand/v2"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
//
// Example:
//
//	t := tensor.Ones[float32](Shape{2, 3}, backend)
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float32 tensor with values from a standard normal distribution.
// A nil src uses the global math/rand/v2 source.
//
// Example:
//
//	t := tensor.Randn(Shape{100, 100}, rand.NewPCG(1, 2), backend)
func Randn[B Backend](shape Shape, src rand.Source, b B) *Tensor[float32, B] {
	t := Zeros[float32, B](shape, b)
	data := t.Data()

	norm := rand.NormFloat64
	if src != nil {
		norm = rand.New(src).NormFloat64
	}
	for i := range data {
		data[i] = float32(norm())
	}
	return t
}

// Arange creates a 1D int32 tensor holding [start, end).
//
// Example:
//
//	t := tensor.Arange(0, 4, backend) // [0, 1, 2, 3]
func Arange[B Backend](start, end int32, b B) *Tensor[int32, B] {
	if end <= start {
		panic("Arange: end must be greater than start")
	}
	t := Zeros[int32, B](Shape{int(end - start)}, b)
	data := t.Data()
	for i := range data {
		data[i] = start + int32(i) //nolint:gosec // G115: bounded by end-start.
	}
	return t
}
