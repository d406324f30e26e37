// Package loadtest drives a running clustering service with generated
// datasets and verifies every response.
package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/kmeans/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// ErrVerification reports that at least one response broke an invariant.
var ErrVerification = errors.New("clustering responses failed verification")

// Run executes the complete load test.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting kmeans load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("datasets", config.Datasets),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate datasets
	datasets, err := generateDatasets(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("dataset generation failed: %w", err)
	}

	// Step 3: Submit and verify concurrently
	if err := submitDatasets(ctx, config, datasets, stats); err != nil {
		return stats, fmt.Errorf("dataset submission failed: %w", err)
	}

	// Step 4: Save datasets to file
	if config.OutputFile != "" {
		if err := saveDatasetsToFile(ctx, config.OutputFile, datasets); err != nil {
			logger.Get().Warn(ctx, "failed to save datasets to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	if stats.VerificationFailures > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrVerification, stats.VerificationFailures, stats.DatasetsSubmitted)
	}

	logger.Get().Info(ctx, "load test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveDatasetsToFile writes the generated datasets as a JSON array.
func saveDatasetsToFile(ctx context.Context, filename string, datasets []Dataset) error {
	if len(datasets) == 0 {
		return fmt.Errorf("no datasets to save")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(datasets); err != nil {
		return fmt.Errorf("failed to write datasets: %w", err)
	}

	logger.Get().Info(ctx, "datasets saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, datasetsPerSecond, meanIterations float64

	if stats.DatasetsSubmitted > 0 {
		successRate = float64(stats.DatasetsSuccessful) / float64(stats.DatasetsSubmitted) * PercentageMultiplier
	}
	if stats.DatasetsSuccessful > 0 {
		meanIterations = float64(stats.TotalIterations) / float64(stats.DatasetsSuccessful)
	}
	if stats.Duration > 0 {
		datasetsPerSecond = float64(stats.DatasetsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("datasetsGenerated", stats.DatasetsGenerated),
		logger.Int("datasetsSubmitted", stats.DatasetsSubmitted),
		logger.Int("datasetsSuccessful", stats.DatasetsSuccessful),
		logger.Int("datasetsNotConverged", stats.DatasetsNotConverged),
		logger.Int("datasetsFailed", stats.DatasetsFailed),
		logger.Int("verificationFailures", stats.VerificationFailures),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("meanIterations", meanIterations),
		logger.Float64("datasetsPerSecond", datasetsPerSecond))
}
