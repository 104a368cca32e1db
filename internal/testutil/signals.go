package testutil

import (
	"math"
	"math/rand"
)

// DeterministicTone generates a complex exponential of the given amplitude
// at the given normalized frequency (cycles per sample).
func DeterministicTone(freq, amplitude float64, length int) []complex128 {
	out := make([]complex128, length)
	step := 2 * math.Pi * freq
	for i := range out {
		s, c := math.Sincos(step * float64(i))
		out[i] = complex(amplitude*c, amplitude*s)
	}
	return out
}

// DeterministicNoise generates complex white noise with a fixed seed for
// reproducibility. Each component is uniform in [-amplitude, amplitude).
func DeterministicNoise(seed int64, amplitude float64, length int) []complex128 {
	out := make([]complex128, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		re := (rng.Float64()*2 - 1) * amplitude
		im := (rng.Float64()*2 - 1) * amplitude
		out[i] = complex(re, im)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []complex128 {
	out := make([]complex128, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value complex128, length int) []complex128 {
	out := make([]complex128, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp generates start, start+step, start+2*step, ...
func Ramp(start, step complex128, length int) []complex128 {
	out := make([]complex128, length)
	for i := range out {
		out[i] = start + step*complex(float64(i), 0)
	}
	return out
}

// NaiveConvolve computes the full linear convolution of a and b with the
// textbook double loop. It is the reference the fast paths are checked
// against.
func NaiveConvolve(a, b []complex128) []complex128 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]complex128, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}
