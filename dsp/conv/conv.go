package conv

import (
	"errors"
	"fmt"
)

// Errors returned by convolution functions and engines.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
	ErrAllocation     = errors.New("conv: buffer allocation failed")

	// ErrPrecondition is wrapped by every error caused by calling an engine
	// outside its valid state or with an invalid bank index.
	ErrPrecondition   = errors.New("conv: precondition violation")
	ErrNotInitialized = fmt.Errorf("%w: engine not initialized", ErrPrecondition)
	ErrEngineClosed   = fmt.Errorf("%w: engine closed", ErrPrecondition)
	ErrBankIndex      = fmt.Errorf("%w: bank index out of range", ErrPrecondition)
)

// DirectComplex performs direct time-domain linear convolution of input and
// filter. Returns a new slice of length len(input) + len(filter) - 1.
//
// This is an O(N*M) algorithm suitable for short filters and as a reference
// for the transform-based [Engine].
func DirectComplex(input, filter []complex128) ([]complex128, error) {
	if err := checkLengths(input, filter); err != nil {
		return nil, err
	}

	result := make([]complex128, len(input)+len(filter)-1)
	directComplex(result, input, filter)
	return result, nil
}

// DirectComplexTo performs direct convolution into a pre-allocated
// destination and returns the number of samples written,
// len(input) + len(filter) - 1. dst may be longer; extra samples are left
// untouched.
func DirectComplexTo(dst, input, filter []complex128) (int, error) {
	if err := checkLengths(input, filter); err != nil {
		return 0, err
	}

	n := len(input) + len(filter) - 1
	if len(dst) < n {
		return 0, fmt.Errorf("%w: dst needs %d samples, got %d", ErrLengthMismatch, n, len(dst))
	}

	directComplex(dst[:n], input, filter)
	return n, nil
}

// directComplex accumulates y[i+j] += x[i]*h[j]. Output sample i therefore
// collects min(i+1, M) products during ramp-up and M once the filter fully
// overlaps the input.
func directComplex(dst, input, filter []complex128) {
	clear(dst)
	for i, x := range input {
		out := dst[i : i+len(filter)]
		for j, h := range filter {
			out[j] += x * h
		}
	}
}

func checkLengths(input, filter []complex128) error {
	if len(input) == 0 {
		return ErrEmptyInput
	}
	if len(filter) == 0 {
		return ErrEmptyKernel
	}
	return nil
}
