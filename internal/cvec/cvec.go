// Package cvec provides the complex vector kernels used by the correlation
// engine: element-wise spectrum products, dot products and power.
//
// Element-wise products, complex dot products and scaling go through
// github.com/tphakala/simd/c128; power uses
// the de-interleaved float64 kernels of github.com/cwbudde/algo-vecmath.
// The complex-by-real dot product has no SIMD kernel and stays a loop.
package cvec

import (
	"github.com/cwbudde/algo-vecmath"
	"github.com/tphakala/simd/c128"
)

// Mul computes dst[i] = a[i] * b[i] for the first len(dst) elements.
// a and b must be at least as long as dst.
func Mul(dst, a, b []complex128) {
	n := len(dst)
	c128.Mul(dst, a[:n], b[:n])
}

// Dot returns sum(a[i] * b[i]) over the shorter of the two slices.
// Neither operand is conjugated.
func Dot(a, b []complex128) complex128 {
	return c128.DotProduct(a, b)
}

// DotReal returns sum(a[i] * b[i]) for a complex vector and a real one.
func DotReal(a []complex128, b []float64) complex128 {
	n := min(len(a), len(b))
	var re, im float64
	for i := range n {
		re += real(a[i]) * b[i]
		im += imag(a[i]) * b[i]
	}
	return complex(re, im)
}

// Scale multiplies every element of dst by s in place.
func Scale(dst []complex128, s float64) {
	if s == 1 {
		return
	}
	c128.Scale(dst, dst, complex(s, 0))
}

// Split de-interleaves x into its real and imaginary parts.
// re and im must be at least len(x) long.
func Split(re, im []float64, x []complex128) {
	for i, v := range x {
		re[i] = real(v)
		im[i] = imag(v)
	}
}

// Power writes |x[i]|^2 into dst using re and im as de-interleave scratch.
// dst, re and im must be at least len(x) long.
func Power(dst []float64, x []complex128, re, im []float64) {
	n := len(x)
	Split(re[:n], im[:n], x)
	vecmath.Power(dst[:n], re[:n], im[:n])
}
