package loadtest

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/kmeans/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends logs to stderr and, when logFile is set, to that file.
func SetupLogging(logFile string) error {
	if logFile == "" {
		return logger.Init()
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stderr, file)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `k-means Load Test Tool
======================

Generates gaussian blob datasets, submits them concurrently to POST /cluster
and verifies every converged response.

Usage:
  go run ./cmd/load-test [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -datasets int
        Number of datasets to generate and submit (default 200)
  -blobs int
        Gaussian blobs per dataset, also the k requested (default 4)
  -points int
        Points sampled per blob (default 20)
  -stddev float
        Standard deviation of every blob (default 3)
  -max-iterations int
        Iteration limit per request, 0 uses the server default
  -seed uint
        Seed for dataset generation, 0 draws a random seed
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -rate float
        Requests per second across all workers, 0 is unlimited
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated datasets (JSON)
  -log string
        Log file for test output
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run ./cmd/load-test

  # Many small datasets, reproducible
  go run ./cmd/load-test -datasets 5000 -points 10 -seed 7

  # Bound iterations and keep the datasets
  go run ./cmd/load-test -max-iterations 5 -output datasets.json
`)
}
