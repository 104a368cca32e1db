// Package buffer provides a reusable complex sample buffer and a pool for
// allocation-free correlation loops. Engines and detectors accept raw
// []complex128 slices; Buffer lets callers keep per-call scratch out of the
// garbage collector's way.
package buffer
