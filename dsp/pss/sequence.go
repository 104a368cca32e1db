package pss

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-phy/dsp/dft"
)

const (
	// Length is the number of PSS subcarriers.
	Length = 62

	// NumSequences is the number of N_id_2 hypotheses.
	NumSequences = 3

	// MinFFTSize is the smallest OFDM symbol that holds all PSS subcarriers
	// on both sides of DC.
	MinFFTSize = 64
)

// Roots lists the Zadoff-Chu root index for each N_id_2.
var Roots = [NumSequences]int{25, 29, 34}

var (
	ErrInvalidNID2    = errors.New("pss: N_id_2 out of range")
	ErrInvalidFFTSize = errors.New("pss: invalid fft size")
)

// Sequence returns the frequency-domain PSS d_u(n), n = 0..61, for nid2.
func Sequence(nid2 int) ([]complex128, error) {
	if nid2 < 0 || nid2 >= NumSequences {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNID2, nid2)
	}

	u := float64(Roots[nid2])
	d := make([]complex128, Length)
	for n := range d {
		// The two halves skip the ZC element that would land on DC.
		m := float64(n)
		arg := m * (m + 1)
		if n >= Length/2 {
			arg = (m + 1) * (m + 2)
		}
		s, c := math.Sincos(-math.Pi * u * arg / 63)
		d[n] = complex(c, s)
	}
	return d, nil
}

// TimeDomain returns the PSS for nid2 as one OFDM symbol of fftSize samples
// without cyclic prefix. d(0..30) occupies subcarriers -31..-1 and
// d(31..61) occupies +1..+31; DC stays empty. The inverse transform is
// unnormalized, so the symbol carries fftSize*Length energy. opts select the
// transform backend; any normalization option is overridden.
func TimeDomain(nid2, fftSize int, opts ...dft.Option) ([]complex128, error) {
	if fftSize < MinFFTSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrInvalidFFTSize, fftSize, MinFFTSize)
	}

	d, err := Sequence(nid2)
	if err != nil {
		return nil, err
	}

	spectrum := make([]complex128, fftSize)
	half := Length / 2
	for n, v := range d {
		if n < half {
			spectrum[fftSize+n-half] = v
		} else {
			spectrum[n-half+1] = v
		}
	}

	plan, err := dft.NewPlan(fftSize, dft.Backward, append(opts[:len(opts):len(opts)], dft.WithNormalization(false))...)
	if err != nil {
		return nil, fmt.Errorf("pss: %w", err)
	}
	defer plan.Close()

	symbol := make([]complex128, fftSize)
	if err := plan.Run(symbol, spectrum); err != nil {
		return nil, fmt.Errorf("pss: %w", err)
	}
	return symbol, nil
}
