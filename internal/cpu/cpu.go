// Package cpu reports the SIMD extensions available to the vector kernels.
//
// The kernels themselves dispatch inside github.com/tphakala/simd and
// github.com/cwbudde/algo-vecmath; this package only surfaces what they can
// use so that tools can print it next to throughput figures.
package cpu

import (
	"strings"
	"sync"
)

// SIMDLevel names an instruction set extension.
type SIMDLevel int

const (
	SIMDNone SIMDLevel = iota
	SIMDSSE2
	SIMDAVX
	SIMDAVX2
	SIMDAVX512
	SIMDNEON
)

// String returns the conventional name of the level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "none"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "unknown"
	}
}

// Features describes the host processor.
type Features struct {
	Architecture string

	HasSSE2   bool
	HasAVX    bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool
}

var detect = sync.OnceValue(detectFeatures)

// Detect returns the host features. Detection runs once per process.
func Detect() Features {
	return detect()
}

// Best returns the widest extension present.
func (f Features) Best() SIMDLevel {
	switch {
	case f.HasAVX512:
		return SIMDAVX512
	case f.HasAVX2:
		return SIMDAVX2
	case f.HasAVX:
		return SIMDAVX
	case f.HasSSE2:
		return SIMDSSE2
	case f.HasNEON:
		return SIMDNEON
	default:
		return SIMDNone
	}
}

// String lists the architecture followed by every extension present, for
// example "amd64 SSE2 AVX AVX2".
func (f Features) String() string {
	parts := []string{f.Architecture}
	for _, ext := range []struct {
		ok    bool
		level SIMDLevel
	}{
		{f.HasSSE2, SIMDSSE2},
		{f.HasAVX, SIMDAVX},
		{f.HasAVX2, SIMDAVX2},
		{f.HasAVX512, SIMDAVX512},
		{f.HasNEON, SIMDNEON},
	} {
		if ext.ok {
			parts = append(parts, ext.level.String())
		}
	}
	if len(parts) == 1 {
		parts = append(parts, SIMDNone.String())
	}
	return strings.Join(parts, " ")
}
