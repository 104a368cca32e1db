package pss

import (
	"log/slog"

	"github.com/cwbudde/algo-phy/dsp/dft"
)

// Config holds detector settings.
type Config struct {
	// FFTSize is the OFDM symbol length, and the length of each full-rate
	// replica.
	FFTSize int

	// Decimation is the coarse-stage rate reduction. It must divide FFTSize.
	Decimation int

	// Threshold is the minimum normalized correlation, in (0, 1], for a
	// detection to be reported as found.
	Threshold float64

	Backend dft.Backend
	Logger  *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the settings for a 1.4 MHz LTE carrier.
func DefaultConfig() Config {
	return Config{
		FFTSize:    128,
		Decimation: 4,
		Threshold:  0.3,
		Backend:    dft.BackendAlgoFFT,
		Logger:     slog.New(slog.DiscardHandler),
	}
}

// WithFFTSize sets the OFDM symbol length.
func WithFFTSize(n int) Option {
	return func(cfg *Config) {
		cfg.FFTSize = n
	}
}

// WithDecimation sets the coarse-stage decimation factor. 1 disables
// decimation.
func WithDecimation(d int) Option {
	return func(cfg *Config) {
		cfg.Decimation = d
	}
}

// WithThreshold sets the detection threshold.
func WithThreshold(th float64) Option {
	return func(cfg *Config) {
		cfg.Threshold = th
	}
}

// WithBackend selects the FFT implementation for both stages.
func WithBackend(b dft.Backend) Option {
	return func(cfg *Config) {
		cfg.Backend = b
	}
}

// WithLogger sets the logger used by the detector and its engines.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
