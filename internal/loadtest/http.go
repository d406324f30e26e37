package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/kmeans/pkg/logger"
	"golang.org/x/time/rate"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitDatasets submits datasets concurrently using a worker pool and
// verifies every converged response.
func submitDatasets(ctx context.Context, config *Config, datasets []Dataset, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting datasets",
		logger.Int("datasets", len(datasets)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/cluster"

	var (
		successful   int64
		notConverged int64
		failed       int64
		invalid      int64
		submitted    int64
		iterations   int64
	)

	var limiter *rate.Limiter
	if config.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.Rate), max(1, int(config.Rate)))
	}

	datasetChan := make(chan Dataset, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for ds := range datasetChan {
				if ctx.Err() != nil {
					return
				}
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}
				resp, result := submitSingleDataset(ctx, client, url, ds)
				if result == resultSuccess {
					if err := verifyResponse(ds, resp); err != nil {
						result = resultInvalid
						log.Warn(ctx, "clustering response failed verification",
							logger.String("dataset", ds.ID),
							logger.String("runID", resp.RunID),
							logger.Error(err))
					} else {
						atomic.AddInt64(&iterations, int64(resp.Iterations))
					}
				}

				total := atomic.AddInt64(&submitted, 1)
				switch result {
				case resultSuccess:
					atomic.AddInt64(&successful, 1)
				case resultNotConverged:
					atomic.AddInt64(&notConverged, 1)
				case resultInvalid:
					atomic.AddInt64(&invalid, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				if config.Verbose {
					log.Debug(ctx, "dataset submitted",
						logger.Int("worker", workerID),
						logger.String("dataset", ds.ID),
						logger.String("result", result),
						logger.Int("submitted", int(total)))
				}
			}
		}(i)
	}

	go func() {
		defer close(datasetChan)
		for _, ds := range datasets {
			select {
			case <-ctx.Done():
				return
			case datasetChan <- ds:
			}
		}
	}()

	wg.Wait()

	stats.DatasetsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.DatasetsSuccessful = int(atomic.LoadInt64(&successful))
	stats.DatasetsNotConverged = int(atomic.LoadInt64(&notConverged))
	stats.DatasetsFailed = int(atomic.LoadInt64(&failed))
	stats.VerificationFailures = int(atomic.LoadInt64(&invalid))
	stats.TotalIterations = int(atomic.LoadInt64(&iterations))

	log.Info(ctx, "dataset submission completed",
		logger.Int("successful", stats.DatasetsSuccessful),
		logger.Int("notConverged", stats.DatasetsNotConverged),
		logger.Int("failed", stats.DatasetsFailed),
		logger.Int("verificationFailures", stats.VerificationFailures))

	return ctx.Err()
}

// submitSingleDataset posts one dataset and classifies the outcome.
func submitSingleDataset(ctx context.Context, client *HTTPClient, url string, ds Dataset) (ClusterResponse, string) {
	var out ClusterResponse

	resp, err := client.Post(ctx, url, ds)
	if err != nil {
		return out, resultFailed
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return out, resultFailed
	}

	switch resp.StatusCode {
	case StatusOK:
		if err := json.Unmarshal(body, &out); err != nil {
			return out, resultInvalid
		}
		return out, resultSuccess
	case StatusUnprocessableEntity:
		return out, resultNotConverged
	default:
		return out, resultFailed
	}
}
