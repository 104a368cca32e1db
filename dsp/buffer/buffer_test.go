package buffer

import "testing"

func TestNewZeroFilled(t *testing.T) {
	b := New(8)
	if b.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", b.Len())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v, want 0", i, v)
		}
	}
}

func TestNewNegativeLength(t *testing.T) {
	if b := New(-1); b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for negative input", b.Len())
	}
}

func TestFromSliceSharesMemory(t *testing.T) {
	s := []complex128{1, 2i, 3}
	b := FromSlice(s)
	b.Samples()[0] = 99i
	if s[0] != 99i {
		t.Fatal("FromSlice should share underlying memory")
	}
}

func TestResizeGrow(t *testing.T) {
	b := FromSlice([]complex128{1, 2i})
	b.Resize(4)
	if b.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", b.Len())
	}
	if b.Samples()[0] != 1 || b.Samples()[1] != 2i {
		t.Fatal("Resize did not preserve existing data")
	}
	if b.Samples()[2] != 0 || b.Samples()[3] != 0 {
		t.Fatal("Resize did not zero new elements")
	}
}

func TestResizeShrinkAndNegative(t *testing.T) {
	b := New(8)
	b.Samples()[0] = 5
	b.Resize(2)
	if b.Len() != 2 || b.Samples()[0] != 5 {
		t.Fatalf("Resize shrink: len %d, first %v", b.Len(), b.Samples()[0])
	}
	b.Resize(-3)
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Len())
	}
}

func TestResizeReuseClearsStaleData(t *testing.T) {
	b := FromSlice([]complex128{1, 2, 3, 4})
	b.Resize(2)
	b.Resize(4)
	if b.Cap() != 4 {
		t.Fatalf("Cap() = %d, want capacity reuse", b.Cap())
	}
	if b.Samples()[2] != 0 || b.Samples()[3] != 0 {
		t.Fatalf("stale data visible after Resize: %v", b.Samples())
	}
}

func TestZero(t *testing.T) {
	b := FromSlice([]complex128{1, 2i, 3})
	b.Zero()
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v after Zero", i, v)
		}
	}
}
