// Package conv provides transform-based and direct convolution of complex
// baseband signals, used for matched-filter synchronization.
//
// The package offers two families of routines:
//
//   - Engine: FFT convolution at a fixed transform length with a bank of
//     BankSize precomputed filter spectra, for correlating many input blocks
//     against a small, fixed set of known sequences
//   - Direct convolution: transform-free full and centered ("same")
//     convolution, including a centered variant with linear edge
//     extrapolation
//
// # Engine
//
// An engine is sized once for an input length N and filter length M and
// transforms at length L = N + M:
//
//	e, err := conv.NewEngine(frameLen, seqLen)
//	defer e.Close()
//
//	_ = e.RegisterFilter(conv.MatchedFilter(seq0), 0)
//	valid, err := e.RunBank(out, frame, 0)
//	peak, _ := conv.FindPeak(out[:valid])
//
// Both forward legs are normalized and the inverse leg is not, so every
// engine output equals the linear convolution times 1/L ([Engine.OutputScale]).
// The run methods write L samples and return L-1; the last sample is a
// padding artifact.
//
// [NewSecondStage] builds a second, independently sized engine with
// L = 2*fftSize for a fine refinement pass after a coarse search. The two
// stages share no buffers and have independent lifecycles.
//
// Engines are not safe for concurrent use. Serialize calls or use one engine
// per goroutine.
//
// # Direct Convolution
//
//	full, _ := conv.DirectComplex(x, h)              // len(x)+len(h)-1
//	same, _ := conv.SameComplex(x, h)                // len(x), edges truncated
//	smooth, _ := conv.SameReal(x, w, conv.EdgeExtrapolate)
//
// Centered convolution aligns filter tap M/2 with each output sample. With
// [EdgeExtrapolate] the samples needed beyond each end are synthesized by
// linear extrapolation through the two nearest input samples, so a constant
// input yields a constant output of c*sum(h) everywhere.
package conv
