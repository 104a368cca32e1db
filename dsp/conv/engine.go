package conv

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-phy/dsp/dft"
	"github.com/cwbudde/algo-phy/internal/cvec"
)

// BankSize is the number of filter spectra an Engine stores. It matches the
// three PSS hypotheses (N_id_2 = 0, 1, 2) of an LTE cell search.
const BankSize = 3

// MaxTransformLen bounds the transform length, and with it the scratch
// memory, a single engine may allocate.
const MaxTransformLen = 1 << 26

// BankIndex selects one entry of an engine's filter bank.
type BankIndex int

// Valid reports whether idx addresses an existing bank entry.
func (idx BankIndex) Valid() bool {
	return idx >= 0 && idx < BankSize
}

// PlanStage identifies which of the three engine plans failed to build.
type PlanStage int

const (
	PlanInput PlanStage = iota
	PlanFilter
	PlanOutput
)

// String returns the stage name.
func (s PlanStage) String() string {
	switch s {
	case PlanInput:
		return "input"
	case PlanFilter:
		return "filter"
	case PlanOutput:
		return "output"
	default:
		return fmt.Sprintf("PlanStage(%d)", int(s))
	}
}

// PlanError reports a transform plan that could not be constructed.
type PlanError struct {
	Stage PlanStage
	Len   int
	Err   error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("conv: %s plan of length %d: %v", e.Stage, e.Len, e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	backend dft.Backend
	logger  *slog.Logger
}

// WithBackend selects the FFT implementation used by all three plans.
func WithBackend(b dft.Backend) EngineOption {
	return func(cfg *engineConfig) {
		cfg.backend = b
	}
}

// WithLogger sets the logger for lifecycle events. Engines are silent by
// default.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(cfg *engineConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func applyEngineOptions(opts []EngineOption) engineConfig {
	cfg := engineConfig{
		backend: dft.BackendAlgoFFT,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

type engineState int

const (
	stateUninitialized engineState = iota
	stateReady
	stateClosed
)

// Engine performs linear convolution by zero-padded transform
// multiplication at a fixed transform length of inputLen + filterLen.
//
// Both forward plans are normalized (1/L) and the inverse plan is not, so
// every output equals the true linear convolution multiplied by
// [Engine.OutputScale], 1/L. The last output sample is a padding artifact of
// rounding the transform length up from inputLen+filterLen-1 and is not part
// of the valid length returned by the run methods.
//
// The engine keeps a bank of BankSize precomputed filter spectra, all zero
// until registered. An Engine is not safe for concurrent use; distinct
// engines share no state.
type Engine struct {
	inputLen  int
	filterLen int
	outputLen int

	padded         []complex128
	inputSpectrum  []complex128
	filterSpectrum []complex128
	outputSpectrum []complex128
	bank           [BankSize][]complex128

	inputPlan  *dft.Plan
	filterPlan *dft.Plan
	outputPlan *dft.Plan

	backend dft.Backend
	logger  *slog.Logger
	state   engineState
}

// NewEngine creates an engine for inputs of up to inputLen samples and
// filters of up to filterLen samples.
func NewEngine(inputLen, filterLen int, opts ...EngineOption) (*Engine, error) {
	if inputLen <= 0 {
		return nil, fmt.Errorf("%w: input length %d", ErrEmptyInput, inputLen)
	}
	if filterLen <= 0 {
		return nil, fmt.Errorf("%w: filter length %d", ErrEmptyKernel, filterLen)
	}
	return newEngine(inputLen, filterLen, applyEngineOptions(opts))
}

// NewSecondStage creates an independent engine with a transform length of
// 2*fftSize, used for a refinement pass after a coarse first stage. It
// accepts inputs and filters of up to fftSize samples each.
func NewSecondStage(fftSize int, opts ...EngineOption) (*Engine, error) {
	if fftSize <= 0 {
		return nil, fmt.Errorf("%w: fft size %d", ErrEmptyInput, fftSize)
	}
	return newEngine(fftSize, fftSize, applyEngineOptions(opts))
}

func newEngine(inputLen, filterLen int, cfg engineConfig) (_ *Engine, err error) {
	outputLen := inputLen + filterLen
	if inputLen > MaxTransformLen || filterLen > MaxTransformLen || outputLen > MaxTransformLen {
		return nil, fmt.Errorf("%w: transform length %d exceeds %d", ErrAllocation, outputLen, MaxTransformLen)
	}

	e := &Engine{
		inputLen:  inputLen,
		filterLen: filterLen,
		outputLen: outputLen,
		backend:   cfg.backend,
		logger:    cfg.logger,
	}

	defer func() {
		if err != nil {
			e.release()
			cfg.logger.Error("conv: engine initialization failed",
				"input_len", inputLen, "filter_len", filterLen, "error", err)
		}
	}()

	e.padded = make([]complex128, outputLen)
	e.inputSpectrum = make([]complex128, outputLen)
	e.filterSpectrum = make([]complex128, outputLen)
	e.outputSpectrum = make([]complex128, outputLen)
	for i := range e.bank {
		e.bank[i] = make([]complex128, outputLen)
	}

	if e.inputPlan, err = newStagePlan(PlanInput, outputLen, dft.Forward, true, cfg.backend); err != nil {
		return nil, err
	}
	if e.filterPlan, err = newStagePlan(PlanFilter, outputLen, dft.Forward, true, cfg.backend); err != nil {
		return nil, err
	}
	if e.outputPlan, err = newStagePlan(PlanOutput, outputLen, dft.Backward, false, cfg.backend); err != nil {
		return nil, err
	}

	e.state = stateReady
	e.logger.Debug("conv: engine ready",
		"input_len", inputLen, "filter_len", filterLen, "output_len", outputLen, "backend", cfg.backend)
	return e, nil
}

// newPlan builds every engine plan. Tests replace it to fail a chosen stage.
var newPlan = dft.NewPlan

func newStagePlan(stage PlanStage, n int, dir dft.Direction, normalize bool, backend dft.Backend) (*dft.Plan, error) {
	plan, err := newPlan(n, dir, dft.WithBackend(backend), dft.WithNormalization(normalize))
	if err != nil {
		return nil, &PlanError{Stage: stage, Len: n, Err: err}
	}
	return plan, nil
}

// InputLen returns the maximum input length.
func (e *Engine) InputLen() int {
	return e.inputLen
}

// FilterLen returns the maximum filter length.
func (e *Engine) FilterLen() int {
	return e.filterLen
}

// OutputLen returns the transform length, which is also the number of
// samples every run writes to dst.
func (e *Engine) OutputLen() int {
	return e.outputLen
}

// ValidLen returns OutputLen - 1, the count returned by the run methods.
func (e *Engine) ValidLen() int {
	return e.outputLen - 1
}

// OutputScale returns the factor, 1/OutputLen, by which run outputs differ
// from the true linear convolution.
func (e *Engine) OutputScale() float64 {
	return 1 / float64(e.outputLen)
}

// Backend returns the FFT implementation in use.
func (e *Engine) Backend() dft.Backend {
	return e.backend
}

// Run convolves input with filter and writes OutputLen samples to dst.
// input and filter may be shorter than InputLen and FilterLen; they are zero
// padded. The filter is transformed into private scratch, so bank entries
// are never touched. Returns the valid length, OutputLen - 1.
func (e *Engine) Run(dst, input, filter []complex128) (int, error) {
	if err := e.checkRun(dst, input); err != nil {
		return 0, err
	}
	if len(filter) > e.filterLen {
		return 0, fmt.Errorf("%w: filter has %d samples, engine accepts %d", ErrLengthMismatch, len(filter), e.filterLen)
	}

	if err := e.transform(e.filterPlan, e.filterSpectrum, filter); err != nil {
		return 0, err
	}
	return e.multiply(dst, input, e.filterSpectrum)
}

// RegisterFilter transforms filter and stores its spectrum at bank entry
// idx, replacing any previous spectrum there.
func (e *Engine) RegisterFilter(filter []complex128, idx BankIndex) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !idx.Valid() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrBankIndex, idx, BankSize)
	}
	if len(filter) > e.filterLen {
		return fmt.Errorf("%w: filter has %d samples, engine accepts %d", ErrLengthMismatch, len(filter), e.filterLen)
	}

	return e.transform(e.filterPlan, e.bank[idx], filter)
}

// RunBank convolves input with the spectrum registered at idx and writes
// OutputLen samples to dst. An entry that was never registered yields all
// zeros. Returns the valid length, OutputLen - 1.
func (e *Engine) RunBank(dst, input []complex128, idx BankIndex) (int, error) {
	if err := e.checkRun(dst, input); err != nil {
		return 0, err
	}
	if !idx.Valid() {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrBankIndex, idx, BankSize)
	}

	return e.multiply(dst, input, e.bank[idx])
}

// Close releases all buffers and plans. Every later call fails with
// ErrEngineClosed. Close is safe to call more than once.
func (e *Engine) Close() {
	if e == nil || e.state == stateClosed {
		return
	}
	wasReady := e.state == stateReady
	e.release()
	e.state = stateClosed
	if wasReady {
		e.logger.Debug("conv: engine closed", "output_len", e.outputLen)
	}
}

func (e *Engine) release() {
	e.inputPlan.Close()
	e.filterPlan.Close()
	e.outputPlan.Close()
	e.inputPlan, e.filterPlan, e.outputPlan = nil, nil, nil

	e.padded = nil
	e.inputSpectrum = nil
	e.filterSpectrum = nil
	e.outputSpectrum = nil
	for i := range e.bank {
		e.bank[i] = nil
	}
}

func (e *Engine) ready() error {
	switch {
	case e == nil || e.state == stateUninitialized:
		return ErrNotInitialized
	case e.state == stateClosed:
		return ErrEngineClosed
	default:
		return nil
	}
}

func (e *Engine) checkRun(dst, input []complex128) error {
	if err := e.ready(); err != nil {
		return err
	}
	if len(input) > e.inputLen {
		return fmt.Errorf("%w: input has %d samples, engine accepts %d", ErrLengthMismatch, len(input), e.inputLen)
	}
	if len(dst) < e.outputLen {
		return fmt.Errorf("%w: dst needs %d samples, got %d", ErrLengthMismatch, e.outputLen, len(dst))
	}
	return nil
}

// transform zero-pads x to the transform length and runs plan into spectrum.
func (e *Engine) transform(plan *dft.Plan, spectrum, x []complex128) error {
	n := copy(e.padded, x)
	clear(e.padded[n:])
	return plan.Run(spectrum, e.padded)
}

func (e *Engine) multiply(dst, input, filterSpectrum []complex128) (int, error) {
	if err := e.transform(e.inputPlan, e.inputSpectrum, input); err != nil {
		return 0, err
	}

	cvec.Mul(e.outputSpectrum, e.inputSpectrum, filterSpectrum)

	if err := e.outputPlan.Run(dst[:e.outputLen], e.outputSpectrum); err != nil {
		return 0, err
	}
	return e.outputLen - 1, nil
}
