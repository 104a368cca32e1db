package conv

import (
	"slices"

	"github.com/tphakala/simd/c128"
)

// MatchedFilter returns the time-reversed complex conjugate of seq.
// Convolving a signal with MatchedFilter(seq) cross-correlates it with seq:
// a copy of seq starting at sample s produces a peak at output index
// s + len(seq) - 1.
func MatchedFilter(seq []complex128) []complex128 {
	h := make([]complex128, len(seq))
	c128.Conj(h, seq)
	slices.Reverse(h)
	return h
}

// FindPeak returns the index and power |corr[i]|^2 of the strongest sample.
// Returns -1, 0 for an empty slice.
func FindPeak(corr []complex128) (index int, power float64) {
	return FindPeakRange(corr, 0, len(corr))
}

// FindPeakRange is FindPeak restricted to corr[start:end]. The bounds are
// clamped to the slice; the returned index is relative to corr.
func FindPeakRange(corr []complex128, start, end int) (index int, power float64) {
	start = max(start, 0)
	end = min(end, len(corr))
	if start >= end {
		return -1, 0
	}

	index = start
	power = -1
	for i := start; i < end; i++ {
		v := corr[i]
		p := real(v)*real(v) + imag(v)*imag(v)
		if p > power {
			index = i
			power = p
		}
	}

	return index, power
}

// LagFromIndex converts a correlation output index to the start sample of
// the matched sequence, for a matched filter of length filterLen.
func LagFromIndex(index, filterLen int) int {
	return index - (filterLen - 1)
}

// IndexFromLag converts a sequence start sample to the correlation output
// index at which its peak appears.
func IndexFromLag(lag, filterLen int) int {
	return lag + (filterLen - 1)
}
