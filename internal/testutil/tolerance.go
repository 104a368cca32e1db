package testutil

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"
)

// RequireComplexNearlyEqual fails t if got and want differ in length or if
// any element pair is further apart than eps (absolute tolerance).
func RequireComplexNearlyEqual(t *testing.T, got, want []complex128, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := cmplx.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireZero fails t if any element has magnitude above eps.
func RequireZero(t *testing.T, data []complex128, eps float64) {
	t.Helper()
	for i, v := range data {
		if cmplx.Abs(v) > eps {
			t.Fatalf("index %d: got %v, want 0 (eps %v)", i, v, eps)
		}
	}
}

// RequireFinite fails t if any element has a NaN or Inf component.
func RequireFinite(t *testing.T, data []complex128) {
	t.Helper()
	for i, v := range data {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the largest |a[i]-b[i]|.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []complex128) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		maxDiff = math.Max(maxDiff, cmplx.Abs(a[i]-b[i]))
	}
	return maxDiff, nil
}

// Scaled returns x multiplied by s.
func Scaled(x []complex128, s float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = v * complex(s, 0)
	}
	return out
}
