package conv

import (
	"fmt"

	"github.com/cwbudde/algo-phy/internal/cvec"
)

// EdgePolicy selects how centered convolution treats samples that fall
// outside the input.
type EdgePolicy int

const (
	// EdgeExtrapolate synthesizes out-of-range samples by linear
	// extrapolation through the two samples nearest each boundary, so every
	// output uses the full filter length.
	EdgeExtrapolate EdgePolicy = iota

	// EdgeTruncate drops the filter taps that fall outside the input.
	EdgeTruncate
)

// String returns a human-readable name for the policy.
func (p EdgePolicy) String() string {
	switch p {
	case EdgeExtrapolate:
		return "extrapolate"
	case EdgeTruncate:
		return "truncate"
	default:
		return fmt.Sprintf("EdgePolicy(%d)", int(p))
	}
}

// SameComplex computes centered convolution with output length len(input):
//
//	y[n] = sum_k x[n+k-M/2] * h[k]
//
// Filter taps that would read outside the input are dropped.
func SameComplex(input, filter []complex128) ([]complex128, error) {
	if err := checkLengths(input, filter); err != nil {
		return nil, err
	}

	result := make([]complex128, len(input))
	sameComplex(result, input, filter)
	return result, nil
}

// SameComplexTo is SameComplex writing into dst. It returns len(input).
func SameComplexTo(dst, input, filter []complex128) (int, error) {
	if err := checkLengths(input, filter); err != nil {
		return 0, err
	}
	if len(dst) < len(input) {
		return 0, fmt.Errorf("%w: dst needs %d samples, got %d", ErrLengthMismatch, len(input), len(dst))
	}

	sameComplex(dst, input, filter)
	return len(input), nil
}

func sameComplex(dst, input, filter []complex128) {
	n, m := len(input), len(filter)
	half := m / 2

	// Leading edge starts the filter at tap half-i, trailing edge stops it
	// early; interior outputs use all M taps.
	for i := range n {
		lo := max(0, half-i)
		hi := min(m, n-i+half)
		dst[i] = cvec.Dot(input[i+lo-half:i+hi-half], filter[lo:hi])
	}
}

// SameReal computes centered convolution of a complex input with a real
// filter. Output length is len(input). edge selects the boundary policy;
// the zero value extrapolates.
func SameReal(input []complex128, filter []float64, edge EdgePolicy) ([]complex128, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}
	if len(filter) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]complex128, len(input))
	sameReal(result, input, filter, edge)
	return result, nil
}

// SameRealTo is SameReal writing into dst. It returns len(input).
func SameRealTo(dst, input []complex128, filter []float64, edge EdgePolicy) (int, error) {
	if len(input) == 0 {
		return 0, ErrEmptyInput
	}
	if len(filter) == 0 {
		return 0, ErrEmptyKernel
	}
	if len(dst) < len(input) {
		return 0, fmt.Errorf("%w: dst needs %d samples, got %d", ErrLengthMismatch, len(input), len(dst))
	}

	sameReal(dst, input, filter, edge)
	return len(input), nil
}

func sameReal(dst, input []complex128, filter []float64, edge EdgePolicy) {
	n, m := len(input), len(filter)
	half := m / 2

	if edge == EdgeTruncate {
		for i := range n {
			lo := max(0, half-i)
			hi := min(m, n-i+half)
			dst[i] = cvec.DotReal(input[i+lo-half:i+hi-half], filter[lo:hi])
		}
		return
	}

	// head holds positions [-M/2, M), tail holds [N-M+1, N-M+1+M+M/2).
	margin := m + half
	scratch := make([]complex128, 2*margin)
	head, tail := scratch[:margin], scratch[margin:]
	tailStart := n - m + 1
	for j := range margin {
		head[j] = extrapolatedAt(input, j-half)
		tail[j] = extrapolatedAt(input, tailStart+j)
	}

	for i := range n {
		start := i - half
		switch {
		case start < 0:
			dst[i] = cvec.DotReal(head[i:i+m], filter)
		case start+m > n:
			off := start - tailStart
			dst[i] = cvec.DotReal(tail[off:off+m], filter)
		default:
			dst[i] = cvec.DotReal(input[start:start+m], filter)
		}
	}
}

// extrapolatedAt returns x[p], extending the signal linearly beyond either
// end. A single-sample input extends as a constant.
func extrapolatedAt(x []complex128, p int) complex128 {
	n := len(x)
	switch {
	case p >= 0 && p < n:
		return x[p]
	case n == 1:
		return x[0]
	case p < 0:
		return x[0] + complex(float64(p), 0)*(x[1]-x[0])
	default:
		return x[n-1] + complex(float64(p-n+1), 0)*(x[n-1]-x[n-2])
	}
}
