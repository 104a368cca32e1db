package conv

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-phy/internal/testutil"
)

func TestMatchedFilter(t *testing.T) {
	got := MatchedFilter([]complex128{1 + 1i, 2, 3i})
	testutil.RequireComplexNearlyEqual(t, got, []complex128{-3i, 2, 1 - 1i}, 0)

	if len(MatchedFilter(nil)) != 0 {
		t.Fatal("MatchedFilter(nil) should be empty")
	}

	seq := testutil.DeterministicNoise(9, 1, 67)
	orig := append([]complex128(nil), seq...)
	h := MatchedFilter(seq)
	for i, v := range seq {
		if want := cmplx.Conj(v); h[len(seq)-1-i] != want {
			t.Fatalf("h[%d] = %v, want %v", len(seq)-1-i, h[len(seq)-1-i], want)
		}
	}
	testutil.RequireComplexNearlyEqual(t, seq, orig, 0)
}

func TestMatchedFilterPeakLocation(t *testing.T) {
	seq := testutil.DeterministicNoise(21, 1, 16)
	signal := testutil.DeterministicNoise(22, 0.05, 80)
	const start = 37
	for i, v := range seq {
		signal[start+i] += v
	}

	corr, err := DirectComplex(signal, MatchedFilter(seq))
	if err != nil {
		t.Fatal(err)
	}

	idx, _ := FindPeak(corr)
	if idx != IndexFromLag(start, len(seq)) {
		t.Fatalf("peak at %d, want %d", idx, IndexFromLag(start, len(seq)))
	}
	if lag := LagFromIndex(idx, len(seq)); lag != start {
		t.Fatalf("LagFromIndex = %d, want %d", lag, start)
	}
}

func TestFindPeak(t *testing.T) {
	corr := []complex128{1, -3, 2i, 2 + 2i, 0}
	idx, power := FindPeak(corr)
	if idx != 1 || math.Abs(power-9) > 1e-12 {
		t.Fatalf("FindPeak = (%d, %v), want (1, 9)", idx, power)
	}

	idx, power = FindPeakRange(corr, 2, 10)
	if idx != 3 || math.Abs(power-8) > 1e-12 {
		t.Fatalf("FindPeakRange = (%d, %v), want (3, 8)", idx, power)
	}

	if idx, _ := FindPeak(nil); idx != -1 {
		t.Fatalf("FindPeak(nil) index = %d, want -1", idx)
	}
	if idx, _ := FindPeakRange(corr, 4, 2); idx != -1 {
		t.Fatalf("FindPeakRange with empty range index = %d, want -1", idx)
	}

	if idx, power := FindPeak(make([]complex128, 4)); idx != 0 || power != 0 {
		t.Fatalf("FindPeak(zeros) = (%d, %v), want (0, 0)", idx, power)
	}
}
