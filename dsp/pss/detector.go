package pss

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-phy/dsp/buffer"
	"github.com/cwbudde/algo-phy/dsp/conv"
	"github.com/cwbudde/algo-phy/dsp/dft"
	"github.com/cwbudde/algo-phy/internal/cvec"
	"github.com/tphakala/simd/f64"
)

var (
	ErrInvalidConfig = errors.New("pss: invalid detector config")
	ErrFrameLength   = errors.New("pss: frame length mismatch")
)

// Result describes the best PSS candidate in a frame.
type Result struct {
	// NID2 is the identified hypothesis.
	NID2 int

	// Offset is the refined start sample of the PSS symbol in the frame.
	Offset int

	// CoarseOffset is the first-stage estimate, a multiple of the
	// decimation factor.
	CoarseOffset int

	// Metric is the normalized correlation |y|^2 / (E_h * E_x) in [0, 1]
	// at Offset.
	Metric float64

	// Found reports whether Metric reached the configured threshold.
	Found bool
}

// Detector finds the PSS in frames of a fixed length.
//
// The coarse stage smooths the frame with a boxcar of Decimation taps,
// keeps every Decimation-th sample and correlates the result against
// identically decimated replicas of all three sequences. The fine stage
// correlates FFTSize full-rate samples around the coarse estimate against
// the winning replica on a second-stage engine.
//
// A Detector is not safe for concurrent use.
type Detector struct {
	cfg      Config
	frameLen int
	decLen   int // frameLen / Decimation
	repLen   int // FFTSize / Decimation

	boxcar []complex128

	coarse *conv.Engine
	fine   *conv.Engine

	coarseEnergy [NumSequences]float64
	fineEnergy   [NumSequences]float64

	pool *buffer.Pool

	pow    []float64
	re     []float64
	im     []float64
	prefix []float64

	logger *slog.Logger
}

// NewDetector builds a detector for frames of frameLen samples, which must
// hold at least one full PSS symbol.
func NewDetector(frameLen int, opts ...Option) (_ *Detector, err error) {
	cfg := ApplyOptions(opts...)
	if err := validate(cfg, frameLen); err != nil {
		return nil, err
	}

	d := &Detector{
		cfg:      cfg,
		frameLen: frameLen,
		decLen:   frameLen / cfg.Decimation,
		repLen:   cfg.FFTSize / cfg.Decimation,
		pool:     buffer.NewPool(),
		logger:   cfg.Logger,
	}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	d.boxcar = make([]complex128, cfg.Decimation)
	for i := range d.boxcar {
		d.boxcar[i] = complex(1/float64(cfg.Decimation), 0)
	}

	engineOpts := []conv.EngineOption{conv.WithBackend(cfg.Backend), conv.WithLogger(cfg.Logger)}
	if d.coarse, err = conv.NewEngine(d.decLen, d.repLen, engineOpts...); err != nil {
		return nil, fmt.Errorf("pss: coarse stage: %w", err)
	}
	if d.fine, err = conv.NewSecondStage(cfg.FFTSize, engineOpts...); err != nil {
		return nil, fmt.Errorf("pss: fine stage: %w", err)
	}

	scratch := max(frameLen, d.coarse.OutputLen(), d.fine.OutputLen())
	d.pow = make([]float64, scratch)
	d.re = make([]float64, scratch)
	d.im = make([]float64, scratch)
	d.prefix = make([]float64, max(d.decLen, cfg.FFTSize)+1)

	if err := d.registerReplicas(); err != nil {
		return nil, err
	}

	d.logger.Debug("pss: detector ready",
		"frame_len", frameLen, "fft_size", cfg.FFTSize, "decimation", cfg.Decimation,
		"backend", cfg.Backend)
	return d, nil
}

func validate(cfg Config, frameLen int) error {
	switch {
	case cfg.FFTSize < MinFFTSize:
		return fmt.Errorf("%w: fft size %d < %d", ErrInvalidFFTSize, cfg.FFTSize, MinFFTSize)
	case cfg.Decimation < 1 || cfg.FFTSize%cfg.Decimation != 0:
		return fmt.Errorf("%w: decimation %d does not divide fft size %d", ErrInvalidConfig, cfg.Decimation, cfg.FFTSize)
	case cfg.Threshold <= 0 || cfg.Threshold > 1:
		return fmt.Errorf("%w: threshold %g not in (0, 1]", ErrInvalidConfig, cfg.Threshold)
	case frameLen < cfg.FFTSize:
		return fmt.Errorf("%w: frame of %d samples shorter than fft size %d", ErrFrameLength, frameLen, cfg.FFTSize)
	}
	return nil
}

func (d *Detector) registerReplicas() error {
	smoothed := d.pool.Get(d.cfg.FFTSize + d.cfg.Decimation - 1)
	defer d.pool.Put(smoothed)
	decimated := d.pool.Get(d.repLen)
	defer d.pool.Put(decimated)

	for nid2 := range NumSequences {
		symbol, err := TimeDomain(nid2, d.cfg.FFTSize, dft.WithBackend(d.cfg.Backend))
		if err != nil {
			return err
		}

		d.fineEnergy[nid2] = d.energy(symbol)
		if err := d.fine.RegisterFilter(conv.MatchedFilter(symbol), conv.BankIndex(nid2)); err != nil {
			return fmt.Errorf("pss: fine stage: %w", err)
		}

		if err := d.decimate(decimated.Samples(), smoothed.Samples(), symbol); err != nil {
			return err
		}
		d.coarseEnergy[nid2] = d.energy(decimated.Samples())
		if err := d.coarse.RegisterFilter(conv.MatchedFilter(decimated.Samples()), conv.BankIndex(nid2)); err != nil {
			return fmt.Errorf("pss: coarse stage: %w", err)
		}
	}
	return nil
}

// FrameLen returns the frame length accepted by Detect.
func (d *Detector) FrameLen() int {
	return d.frameLen
}

// Config returns the effective settings.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect searches frame for the strongest PSS. A result is returned even when
// nothing reaches the threshold; Found tells the two cases apart.
func (d *Detector) Detect(frame []complex128) (Result, error) {
	if len(frame) != d.frameLen {
		return Result{}, fmt.Errorf("%w: got %d samples, want %d", ErrFrameLength, len(frame), d.frameLen)
	}

	res, err := d.coarseSearch(frame)
	if err != nil {
		return Result{}, err
	}
	if err := d.fineSearch(frame, &res); err != nil {
		return Result{}, err
	}

	res.Found = res.Metric >= d.cfg.Threshold
	d.logger.Debug("pss: detect",
		"nid2", res.NID2, "offset", res.Offset, "coarse_offset", res.CoarseOffset,
		"metric", res.Metric, "found", res.Found)
	return res, nil
}

func (d *Detector) coarseSearch(frame []complex128) (Result, error) {
	smoothed := d.pool.Get(d.frameLen + d.cfg.Decimation - 1)
	defer d.pool.Put(smoothed)
	decimated := d.pool.Get(d.decLen)
	defer d.pool.Put(decimated)
	corr := d.pool.Get(d.coarse.OutputLen())
	defer d.pool.Put(corr)

	x := decimated.Samples()
	if err := d.decimate(x, smoothed.Samples(), frame); err != nil {
		return Result{}, err
	}
	d.cumulativePower(x)

	res := Result{Metric: -1}
	for nid2 := range NumSequences {
		valid, err := d.coarse.RunBank(corr.Samples(), x, conv.BankIndex(nid2))
		if err != nil {
			return Result{}, fmt.Errorf("pss: coarse stage: %w", err)
		}
		pow := d.correlationPower(corr.Samples()[:valid], d.coarse)

		for lag := 0; lag <= d.decLen-d.repLen; lag++ {
			m := metric(pow[conv.IndexFromLag(lag, d.repLen)], d.coarseEnergy[nid2], d.segmentEnergy(lag, lag+d.repLen))
			if m > res.Metric {
				res.Metric = m
				res.NID2 = nid2
				res.CoarseOffset = lag * d.cfg.Decimation
			}
		}
	}
	return res, nil
}

func (d *Detector) fineSearch(frame []complex128, res *Result) error {
	n := d.cfg.FFTSize
	start := min(max(res.CoarseOffset, 0), d.frameLen-n)
	window := frame[start : start+n]

	corr := d.pool.Get(d.fine.OutputLen())
	defer d.pool.Put(corr)

	valid, err := d.fine.RunBank(corr.Samples(), window, conv.BankIndex(res.NID2))
	if err != nil {
		return fmt.Errorf("pss: fine stage: %w", err)
	}
	d.cumulativePower(window)
	pow := d.correlationPower(corr.Samples()[:valid], d.fine)

	// Lags must keep at least one replica sample inside the window.
	lo := max(res.CoarseOffset-d.cfg.Decimation, start-n+1, 0)
	hi := min(res.CoarseOffset+d.cfg.Decimation, start+n-1, d.frameLen-n)
	res.Offset = res.CoarseOffset
	res.Metric = -1
	for lag := lo; lag <= hi; lag++ {
		shift := lag - start
		// Window samples overlapping the replica at this lag.
		first, last := max(shift, 0), min(n, n+shift)
		m := metric(pow[conv.IndexFromLag(shift, n)], d.fineEnergy[res.NID2], d.segmentEnergy(first, last))
		if m > res.Metric {
			res.Metric = m
			res.Offset = lag
		}
	}
	res.Metric = max(res.Metric, 0)
	return nil
}

// decimate boxcar-smooths x into smoothed and keeps the sample closing each
// block, so dst[i] is the mean of x[i*D : (i+1)*D].
func (d *Detector) decimate(dst, smoothed, x []complex128) error {
	if _, err := conv.DirectComplexTo(smoothed, x, d.boxcar); err != nil {
		return fmt.Errorf("pss: smoothing: %w", err)
	}
	step := d.cfg.Decimation
	for i := range dst {
		dst[i] = smoothed[i*step+step-1]
	}
	return nil
}

// correlationPower returns |y|^2 of an engine output with the engine's
// 1/OutputLen scale undone.
func (d *Detector) correlationPower(corr []complex128, e *conv.Engine) []float64 {
	pow := d.pow[:len(corr)]
	cvec.Power(pow, corr, d.re, d.im)
	gain := 1 / e.OutputScale()
	f64.Scale(pow, pow, gain*gain)
	return pow
}

func (d *Detector) energy(x []complex128) float64 {
	pow := d.pow[:len(x)]
	cvec.Power(pow, x, d.re, d.im)
	return f64.Sum(pow)
}

// cumulativePower fills prefix so that prefix[j] is the energy of x[:j].
func (d *Detector) cumulativePower(x []complex128) {
	pow := d.pow[:len(x)]
	cvec.Power(pow, x, d.re, d.im)
	d.prefix[0] = 0
	f64.CumulativeSum(d.prefix[1:len(x)+1], pow)
}

func (d *Detector) segmentEnergy(from, to int) float64 {
	return d.prefix[to] - d.prefix[from]
}

func metric(power, replicaEnergy, inputEnergy float64) float64 {
	den := replicaEnergy * inputEnergy
	if den <= 0 {
		return 0
	}
	return min(power/den, 1)
}

// Close releases both engines. Detect fails afterwards.
func (d *Detector) Close() {
	if d == nil {
		return
	}
	d.coarse.Close()
	d.fine.Close()
}
