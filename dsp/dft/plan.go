package dft

import (
	"errors"
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-phy/internal/cvec"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Errors returned by plan construction and execution.
var (
	ErrInvalidLength  = errors.New("dft: invalid transform length")
	ErrLengthMismatch = errors.New("dft: buffer length mismatch")
	ErrPlanClosed     = errors.New("dft: plan closed")
)

// Direction selects forward (time to frequency) or backward transforms.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Backend identifies the FFT implementation behind a plan.
type Backend int

const (
	// BackendAlgoFFT uses github.com/cwbudde/algo-fft.
	BackendAlgoFFT Backend = iota

	// BackendGonum uses gonum.org/v1/gonum/dsp/fourier.
	BackendGonum
)

// String returns the backend name as accepted by [ParseBackend].
func (b Backend) String() string {
	switch b {
	case BackendAlgoFFT:
		return "algofft"
	case BackendGonum:
		return "gonum"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend maps a backend name to its Backend value.
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "algofft", "algo-fft", "":
		return BackendAlgoFFT, nil
	case "gonum":
		return BackendGonum, nil
	default:
		return 0, fmt.Errorf("dft: unknown backend %q", name)
	}
}

// Option configures plan construction.
type Option func(*config)

type config struct {
	backend   Backend
	normalize bool
}

// WithBackend selects the FFT implementation.
func WithBackend(b Backend) Option {
	return func(cfg *config) {
		cfg.backend = b
	}
}

// WithNormalization sets the initial normalization flag.
func WithNormalization(enabled bool) Option {
	return func(cfg *config) {
		cfg.normalize = enabled
	}
}

// Plan is a complex DFT bound to a fixed length and direction.
type Plan struct {
	n         int
	dir       Direction
	backend   Backend
	normalize bool

	// scale applied after the backend transform; recomputed when the
	// normalization flag changes.
	scale float64

	algo  *algofft.Plan[complex128]
	gonum *fourier.CmplxFFT
}

// NewPlan creates a transform plan of length n.
func NewPlan(n int, dir Direction, opts ...Option) (*Plan, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	if dir != Forward && dir != Backward {
		return nil, fmt.Errorf("dft: invalid direction %d", int(dir))
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := &Plan{
		n:       n,
		dir:     dir,
		backend: cfg.backend,
	}

	switch cfg.backend {
	case BackendAlgoFFT:
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("dft: failed to create %s plan of length %d: %w", dir, n, err)
		}
		p.algo = plan
	case BackendGonum:
		p.gonum = fourier.NewCmplxFFT(n)
	default:
		return nil, fmt.Errorf("dft: unsupported backend %s", cfg.backend)
	}

	p.SetNormalization(cfg.normalize)
	return p, nil
}

// Len returns the transform length.
func (p *Plan) Len() int {
	return p.n
}

// Direction returns the transform direction.
func (p *Plan) Direction() Direction {
	return p.dir
}

// Backend returns the FFT implementation in use.
func (p *Plan) Backend() Backend {
	return p.backend
}

// Normalized reports whether results are scaled by 1/n.
func (p *Plan) Normalized() bool {
	return p.normalize
}

// SetNormalization enables or disables 1/n output scaling.
func (p *Plan) SetNormalization(enabled bool) {
	p.normalize = enabled

	// algo-fft scales its inverse by 1/n, gonum scales neither direction.
	native := 1.0
	if p.backend == BackendAlgoFFT && p.dir == Backward {
		native = 1 / float64(p.n)
	}

	want := 1.0
	if enabled {
		want = 1 / float64(p.n)
	}

	p.scale = want / native
}

// Run transforms src into dst. Both slices must have length Len and must
// not overlap.
func (p *Plan) Run(dst, src []complex128) error {
	if p.algo == nil && p.gonum == nil {
		return ErrPlanClosed
	}
	if len(dst) != p.n || len(src) != p.n {
		return fmt.Errorf("%w: plan length %d, dst %d, src %d", ErrLengthMismatch, p.n, len(dst), len(src))
	}

	if err := p.transform(dst, src); err != nil {
		return err
	}

	cvec.Scale(dst, p.scale)
	return nil
}

func (p *Plan) transform(dst, src []complex128) error {
	if p.gonum != nil {
		if p.dir == Forward {
			p.gonum.Coefficients(dst, src)
		} else {
			p.gonum.Sequence(dst, src)
		}
		return nil
	}

	var err error
	if p.dir == Forward {
		err = p.algo.Forward(dst, src)
	} else {
		err = p.algo.Inverse(dst, src)
	}
	if err != nil {
		return fmt.Errorf("dft: %s transform failed: %w", p.dir, err)
	}
	return nil
}

// Close releases the backend plan. Run fails with ErrPlanClosed afterwards.
// Close is safe to call more than once and on a nil plan.
func (p *Plan) Close() {
	if p == nil {
		return
	}
	p.algo = nil
	p.gonum = nil
}
