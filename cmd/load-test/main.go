package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/kmeans/internal/loadtest"
	"github.com/okian/kmeans/pkg/logger"
)

// Default configuration constants.
const (
	defaultDatasets      = 200
	defaultBlobs         = 4
	defaultPointsPerBlob = 20
	defaultStdDev        = 3.0
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultTestTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9080", "Base URL of the service")
		datasets      = flag.Int("datasets", defaultDatasets, "Number of datasets to generate and submit")
		blobs         = flag.Int("blobs", defaultBlobs, "Gaussian blobs per dataset, also the k requested")
		points        = flag.Int("points", defaultPointsPerBlob, "Points sampled per blob")
		stdDev        = flag.Float64("stddev", defaultStdDev, "Standard deviation of every blob")
		maxIterations = flag.Int("max-iterations", 0, "Iteration limit per request, 0 uses the server default")
		seed          = flag.Uint64("seed", 0, "Seed for dataset generation, 0 draws a random seed")
		workers       = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		reqRate       = flag.Float64("rate", 0, "Requests per second across all workers, 0 is unlimited")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile    = flag.String("output", "", "Output file for generated datasets (JSON)")
		logFile       = flag.String("log", "", "Log file for test output")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp(os.Stdout)
		return
	}

	if err := loadtest.SetupLogging(*logFile); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:       *baseURL,
		Datasets:      *datasets,
		Blobs:         *blobs,
		PointsPerBlob: *points,
		StdDev:        *stdDev,
		MaxIterations: *maxIterations,
		Seed:          *seed,
		Workers:       *workers,
		Rate:          *reqRate,
		Timeout:       *timeout,
		OutputFile:    *outputFile,
		Verbose:       *verbose,
	}

	if _, err := loadtest.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
