package buffer

// Buffer wraps a complex128 slice with reuse-friendly semantics.
type Buffer struct {
	samples []complex128
}

// New returns a zero-filled Buffer of the given length.
func New(length int) *Buffer {
	return &Buffer{samples: make([]complex128, max(length, 0))}
}

// FromSlice wraps an existing slice without copying.
func FromSlice(s []complex128) *Buffer {
	return &Buffer{samples: s}
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []complex128 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Resize sets the length to n, reusing existing capacity when possible.
// Samples beyond the previous length are zeroed.
func (b *Buffer) Resize(n int) {
	n = max(n, 0)
	oldLen := len(b.samples)
	if n > cap(b.samples) {
		s := make([]complex128, n)
		copy(s, b.samples)
		b.samples = s
		return
	}
	b.samples = b.samples[:n]
	if n > oldLen {
		// The backing array may hold data from an earlier, longer use.
		clear(b.samples[oldLen:])
	}
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	clear(b.samples)
}
