package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-phy/internal/testutil"
)

// naiveSame evaluates y[n] = sum_k x̃[n+k-M/2] h[k] where x̃ is supplied by at.
func naiveSame(n int, filter []float64, at func(p int) (complex128, bool)) []complex128 {
	half := len(filter) / 2
	out := make([]complex128, n)
	for i := range out {
		for k, h := range filter {
			if v, ok := at(i + k - half); ok {
				out[i] += v * complex(h, 0)
			}
		}
	}
	return out
}

func truncatedAt(x []complex128) func(int) (complex128, bool) {
	return func(p int) (complex128, bool) {
		if p < 0 || p >= len(x) {
			return 0, false
		}
		return x[p], true
	}
}

func toComplex(h []float64) []complex128 {
	out := make([]complex128, len(h))
	for i, v := range h {
		out[i] = complex(v, 0)
	}
	return out
}

func TestSameComplexLengthAndValues(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16, 33} {
		for _, m := range []int{1, 2, 3, 4, 7, 8} {
			input := testutil.DeterministicNoise(int64(n*10+m), 1, n)
			filter := []float64{}
			for k := range m {
				filter = append(filter, float64(k+1)/float64(m))
			}

			got, err := SameComplex(input, toComplex(filter))
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != n {
				t.Fatalf("N=%d M=%d: len = %d, want %d", n, m, len(got), n)
			}

			want := naiveSame(n, filter, truncatedAt(input))
			testutil.RequireComplexNearlyEqual(t, got, want, 1e-12)
		}
	}
}

func TestSameComplexMatchesCenteredFull(t *testing.T) {
	// For a symmetric filter the centered window is the middle of the full
	// convolution.
	input := testutil.DeterministicNoise(4, 1, 20)
	filter := []complex128{0.25, 0.5, 0.25}

	full, err := DirectComplex(input, filter)
	if err != nil {
		t.Fatal(err)
	}
	same, err := SameComplex(input, filter)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireComplexNearlyEqual(t, same, full[1:21], 1e-12)
}

func TestSameRealTruncateMatchesSameComplex(t *testing.T) {
	input := testutil.DeterministicNoise(5, 1, 24)
	filter := []float64{0.1, 0.2, 0.4, 0.2, 0.1}

	want, err := SameComplex(input, toComplex(filter))
	if err != nil {
		t.Fatal(err)
	}

	got := make([]complex128, len(input))
	n, err := SameRealTo(got, input, filter, EdgeTruncate)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(input) {
		t.Fatalf("SameRealTo returned %d, want %d", n, len(input))
	}
	testutil.RequireComplexNearlyEqual(t, got, want, 1e-12)
}

func TestSameRealExtrapolateConstant(t *testing.T) {
	const c = 2 - 3i
	filter := []float64{0.5, 1, 2, 1, 0.5, 0.25}
	var sum float64
	for _, h := range filter {
		sum += h
	}

	for _, n := range []int{1, 2, 3, 10, 40} {
		got, err := SameReal(testutil.DC(c, n), filter, EdgeExtrapolate)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireComplexNearlyEqual(t, got, testutil.DC(c*complex(sum, 0), n), 1e-12)
	}
}

func TestSameRealExtrapolateRamp(t *testing.T) {
	// Linear extrapolation of a ramp is exact, so every output sees the
	// unbounded ramp through the full filter.
	start, step := complex(1, -1), complex(0.5, 0.25)
	for _, n := range []int{2, 3, 9, 32} {
		for _, m := range []int{1, 2, 3, 4, 5, 8} {
			input := testutil.Ramp(start, step, n)
			filter := make([]float64, m)
			for k := range filter {
				filter[k] = float64(m - k)
			}

			got, err := SameReal(input, filter, EdgeExtrapolate)
			if err != nil {
				t.Fatal(err)
			}

			want := naiveSame(n, filter, func(p int) (complex128, bool) {
				return start + step*complex(float64(p), 0), true
			})
			testutil.RequireComplexNearlyEqual(t, got, want, 1e-9)
		}
	}
}

func TestSameRealExtrapolateInteriorUnchanged(t *testing.T) {
	input := testutil.DeterministicNoise(6, 1, 30)
	filter := []float64{1, 2, 3, 2, 1}

	extrap, err := SameReal(input, filter, EdgeExtrapolate)
	if err != nil {
		t.Fatal(err)
	}
	trunc, err := SameReal(input, filter, EdgeTruncate)
	if err != nil {
		t.Fatal(err)
	}

	// Only the first and last M/2 outputs read outside the input.
	testutil.RequireComplexNearlyEqual(t, extrap[2:28], trunc[2:28], 1e-12)

	// The edges differ, since noise is not locally constant.
	if d, _ := testutil.MaxAbsDiff(extrap[:2], trunc[:2]); d == 0 {
		t.Fatal("extrapolated and truncated leading edges should differ")
	}
}

func TestSameRealDefaultPolicyExtrapolates(t *testing.T) {
	var policy EdgePolicy
	if policy != EdgeExtrapolate {
		t.Fatalf("zero EdgePolicy = %s, want extrapolate", policy)
	}
	if EdgeTruncate.String() != "truncate" || EdgePolicy(5).String() != "EdgePolicy(5)" {
		t.Fatalf("unexpected policy names %s, %s", EdgeTruncate, EdgePolicy(5))
	}
}

func TestSameErrors(t *testing.T) {
	if _, err := SameComplex(nil, []complex128{1}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("SameComplex(nil) = %v, want ErrEmptyInput", err)
	}
	if _, err := SameComplexTo(make([]complex128, 1), []complex128{1, 2}, []complex128{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("SameComplexTo short dst = %v, want ErrLengthMismatch", err)
	}
	if _, err := SameReal([]complex128{1}, nil, EdgeExtrapolate); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("SameReal(nil filter) = %v, want ErrEmptyKernel", err)
	}
	if _, err := SameRealTo(nil, nil, []float64{1}, EdgeTruncate); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("SameRealTo(nil input) = %v, want ErrEmptyInput", err)
	}
	if _, err := SameRealTo(make([]complex128, 1), []complex128{1, 2}, []float64{1}, EdgeTruncate); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("SameRealTo short dst = %v, want ErrLengthMismatch", err)
	}
}
