// Command pssinfo synthesizes a baseband frame carrying an LTE primary
// synchronization signal and reports what the two-stage detector finds.
//
// Usage:
//
//	pssinfo [flags]
//
// Examples:
//
//	pssinfo -nid2 2 -offset 500
//	pssinfo -fft 256 -frame 3840 -snr 0 -decim 8
//	pssinfo -backend gonum -bench 5s
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-phy/dsp/dft"
	"github.com/cwbudde/algo-phy/dsp/pss"
	"github.com/cwbudde/algo-phy/internal/cpu"
)

type options struct {
	fftSize  int
	frameLen int
	nid2     int
	offset   int
	snr      float64
	seed     uint64
	decim    int
	backend  dft.Backend
	bench    time.Duration
}

func main() {
	fftSize := flag.Int("fft", 128, "OFDM symbol length in samples")
	frameLen := flag.Int("frame", 960, "frame length in samples")
	nid2 := flag.Int("nid2", 0, "N_id_2 of the transmitted PSS (0-2)")
	offset := flag.Int("offset", 300, "PSS start sample within the frame")
	snr := flag.Float64("snr", math.Inf(1), "signal-to-noise ratio in dB over the PSS symbol")
	seed := flag.Uint64("seed", 1, "noise generator seed")
	decim := flag.Int("decim", 4, "coarse-stage decimation factor")
	backendName := flag.String("backend", "algofft", "FFT backend (algofft, gonum)")
	bench := flag.Duration("bench", 0, "repeat detection for this long and report throughput")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pssinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the two-stage PSS detector on a synthetic frame.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pssinfo -nid2 2 -offset 500\n")
		fmt.Fprintf(os.Stderr, "  pssinfo -fft 256 -frame 3840 -snr 0 -decim 8\n")
		fmt.Fprintf(os.Stderr, "  pssinfo -backend gonum -bench 5s\n")
	}
	flag.Parse()

	backend, err := dft.ParseBackend(*backendName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	opts := options{
		fftSize:  *fftSize,
		frameLen: *frameLen,
		nid2:     *nid2,
		offset:   *offset,
		snr:      *snr,
		seed:     *seed,
		decim:    *decim,
		backend:  backend,
		bench:    *bench,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer, opts options) error {
	if opts.offset < 0 || opts.offset+opts.fftSize > opts.frameLen {
		return fmt.Errorf("offset %d does not fit a %d-sample symbol in a %d-sample frame",
			opts.offset, opts.fftSize, opts.frameLen)
	}

	frame, err := synthesize(opts)
	if err != nil {
		return err
	}

	det, err := pss.NewDetector(opts.frameLen,
		pss.WithFFTSize(opts.fftSize),
		pss.WithDecimation(opts.decim),
		pss.WithBackend(opts.backend),
	)
	if err != nil {
		return err
	}
	defer det.Close()

	res, err := det.Detect(frame)
	if err != nil {
		return err
	}
	printResult(stdout, opts, det.Config(), res)

	if opts.bench <= 0 {
		return nil
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	return benchmark(ctx, logger, det, frame, opts.bench)
}

// synthesize builds a frame with the PSS at opts.offset plus complex Gaussian
// noise at the requested SNR.
func synthesize(opts options) ([]complex128, error) {
	symbol, err := pss.TimeDomain(opts.nid2, opts.fftSize, dft.WithBackend(opts.backend))
	if err != nil {
		return nil, err
	}

	frame := make([]complex128, opts.frameLen)
	copy(frame[opts.offset:], symbol)

	if math.IsInf(opts.snr, 1) {
		return frame, nil
	}

	// The unnormalized symbol carries Length energy per sample.
	sigma := math.Sqrt(pss.Length * math.Pow(10, -opts.snr/10) / 2)
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	for i := range frame {
		frame[i] += complex(sigma*rng.NormFloat64(), sigma*rng.NormFloat64())
	}
	return frame, nil
}

func printResult(w io.Writer, opts options, cfg pss.Config, res pss.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Parameter\tSent\tDetected\n")
	fmt.Fprintf(tw, "---------\t----\t--------\n")
	fmt.Fprintf(tw, "N_id_2\t%d\t%d\n", opts.nid2, res.NID2)
	fmt.Fprintf(tw, "Offset\t%d\t%d\n", opts.offset, res.Offset)
	fmt.Fprintf(tw, "Coarse offset\t\t%d\n", res.CoarseOffset)
	fmt.Fprintf(tw, "Metric\t\t%.4f\n", res.Metric)
	fmt.Fprintf(tw, "Found\t\t%v (threshold %.2f)\n", res.Found, cfg.Threshold)
	fmt.Fprintf(tw, "SNR\t%s\t\n", formatSNR(opts.snr))
	fmt.Fprintf(tw, "FFT / frame\t%d / %d\t\n", cfg.FFTSize, opts.frameLen)
	fmt.Fprintf(tw, "Decimation\t%d\t\n", cfg.Decimation)
	fmt.Fprintf(tw, "Backend\t%s\t\n", cfg.Backend)
	fmt.Fprintf(tw, "CPU\t%s\t\n", cpu.Detect())
	tw.Flush()
}

func formatSNR(snr float64) string {
	if math.IsInf(snr, 1) {
		return "noiseless"
	}
	return fmt.Sprintf("%.1f dB", snr)
}

// benchmark repeats detection until d elapses or ctx is cancelled, logging
// the rate once per second and a summary at the end.
func benchmark(ctx context.Context, logger *slog.Logger, det *pss.Detector, frame []complex128, d time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	logger.Info("benchmark start", "duration", d, "simd", cpu.Detect().Best())

	start := time.Now()
	last := start
	var total, window int

	for {
		select {
		case <-ctx.Done():
			elapsed := time.Since(start)
			logger.Info("benchmark done",
				"detections", total,
				"elapsed", elapsed.Round(time.Millisecond),
				"rate_per_sec", rate(total, elapsed),
				"interrupted", ctx.Err() == context.Canceled)
			return nil
		case now := <-ticker.C:
			logger.Info("throughput", "rate_per_sec", rate(window, now.Sub(last)))
			last = now
			window = 0
		default:
		}

		if _, err := det.Detect(frame); err != nil {
			return err
		}
		total++
		window++
	}
}

func rate(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return math.Round(float64(n)/elapsed.Seconds()*10) / 10
}
