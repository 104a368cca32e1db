// Package dft wraps complex discrete Fourier transforms behind a small,
// length-bound plan type.
//
// A [Plan] is created for one transform length and one [Direction]. The
// normalization flag is part of the plan rather than the call site, so a
// pipeline can fix its scale contract once at construction:
//
//	fwd, _ := dft.NewPlan(n, dft.Forward)
//	fwd.SetNormalization(true)  // result scaled by 1/n
//	inv, _ := dft.NewPlan(n, dft.Backward)
//	inv.SetNormalization(false) // raw inverse sum
//
// Two backends are available. [BackendAlgoFFT] (the default) uses
// github.com/cwbudde/algo-fft, whose inverse transform is already scaled by
// 1/n; the plan compensates so that an unnormalized backward plan returns the
// raw sum. [BackendGonum] uses gonum's dsp/fourier, which is unnormalized in
// both directions. Both accept arbitrary positive lengths and agree to within
// floating-point tolerance.
//
// Plans are not safe for concurrent use.
package dft
