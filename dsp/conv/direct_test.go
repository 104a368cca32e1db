package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-phy/internal/testutil"
)

func TestDirectComplex(t *testing.T) {
	tests := []struct {
		name     string
		input    []complex128
		filter   []complex128
		expected []complex128
	}{
		{
			name:     "simple 3x3",
			input:    []complex128{1, 2, 3},
			filter:   []complex128{1, 1, 1},
			expected: []complex128{1, 3, 6, 5, 3},
		},
		{
			name:     "impulse",
			input:    []complex128{1, 2i, 3, 4, 5},
			filter:   []complex128{1},
			expected: []complex128{1, 2i, 3, 4, 5},
		},
		{
			name:     "delayed impulse",
			input:    []complex128{1, 2, 3},
			filter:   []complex128{0, 0, 1},
			expected: []complex128{0, 0, 1, 2, 3},
		},
		{
			name:     "complex rotation",
			input:    []complex128{1, 1i},
			filter:   []complex128{1i},
			expected: []complex128{1i, -1},
		},
		{
			name:     "filter longer than input",
			input:    []complex128{2},
			filter:   []complex128{1, 2, 3},
			expected: []complex128{2, 4, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DirectComplex(tt.input, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.RequireComplexNearlyEqual(t, result, tt.expected, 1e-12)
		})
	}
}

func TestDirectComplexLength(t *testing.T) {
	for _, n := range []int{1, 2, 7, 30} {
		for _, m := range []int{1, 3, 8, 31} {
			input := testutil.DeterministicNoise(int64(n), 1, n)
			filter := testutil.DeterministicNoise(int64(m), 1, m)

			result, err := DirectComplex(input, filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(result) != n+m-1 {
				t.Fatalf("N=%d M=%d: len = %d, want %d", n, m, len(result), n+m-1)
			}
			testutil.RequireComplexNearlyEqual(t, result, testutil.NaiveConvolve(input, filter), 1e-12)
		}
	}
}

func TestDirectComplexMovingSum(t *testing.T) {
	input := []complex128{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]complex128, 12)

	n, err := DirectComplexTo(dst, input, []complex128{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("DirectComplexTo returned %d, want 10", n)
	}

	for i := 2; i <= 7; i++ {
		want := input[i-2] + input[i-1] + input[i]
		if dst[i] != want {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}
}

func TestDirectComplexErrors(t *testing.T) {
	_, err := DirectComplex(nil, []complex128{1, 2})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}

	_, err = DirectComplex([]complex128{1, 2}, nil)
	if !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}

	_, err = DirectComplexTo(make([]complex128, 3), []complex128{1, 2}, []complex128{1, 2, 3})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}
