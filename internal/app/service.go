// Package service provides the clustering service that backs the demo
// command and the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/kmeans/internal/adapters/plot"
	"github.com/okian/kmeans/internal/domain/cluster"
	"github.com/okian/kmeans/internal/domain/kmeans"
	"github.com/okian/kmeans/internal/domain/model"
	"github.com/okian/kmeans/pkg/logger"
	"github.com/okian/kmeans/pkg/metrics"
)

// Run is one completed or interrupted clustering run.
type Run struct {
	ID       string
	Result   *kmeans.Result
	Duration time.Duration
}

// Service generates demo data and runs k-means over it.
type Service struct {
	mu sync.RWMutex

	// Configuration
	clusters      int
	maxIterations int
	maxClusters   int
	blobs         []model.Point
	stdDev        float64
	pointsPerBlob int
	seed          uint64

	// State
	runs    int
	lastRun *Run

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClusters sets the k used by the demo run.
func WithClusters(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.clusters = k
		}
	}
}

// WithMaxIterations bounds every run; 0 means unbounded.
func WithMaxIterations(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxIterations = n
		}
	}
}

// WithMaxClusters caps k for every run; 0 disables the cap.
func WithMaxClusters(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxClusters = n
		}
	}
}

// WithBlobs sets the generating centers of the demo blobs.
func WithBlobs(centers []model.Point) Option {
	return func(s *Service) {
		if len(centers) > 0 {
			s.blobs = append([]model.Point(nil), centers...)
		}
	}
}

// WithStdDev sets the standard deviation of every demo blob.
func WithStdDev(sigma float64) Option {
	return func(s *Service) {
		if sigma >= 0 {
			s.stdDev = sigma
		}
	}
}

// WithPointsPerBlob sets how many points each demo blob samples.
func WithPointsPerBlob(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pointsPerBlob = n
		}
	}
}

// WithSeed makes demo data reproducible. Zero keeps random seeding.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clusters:      4,
		maxIterations: kmeans.Unbounded,
		maxClusters:   64,
		blobs: []model.Point{
			model.NewPoint(12, 12),
			model.NewPoint(20, 20),
			model.NewPoint(30, 30),
			model.NewPoint(30, 12),
		},
		stdDev:        3.0,
		pointsPerBlob: 20,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// GenerateBlobs samples one gaussian cluster per configured center.
func (s *Service) GenerateBlobs(ctx context.Context) ([]*cluster.Cluster, error) {
	blobs := make([]*cluster.Cluster, 0, len(s.blobs))
	for i, center := range s.blobs {
		var opts []cluster.Option
		if s.seed != 0 {
			opts = append(opts, cluster.WithSeed(s.seed+uint64(i)))
		}
		c, err := cluster.NewGaussian(center, s.stdDev, s.pointsPerBlob, opts...)
		if err != nil {
			return nil, fmt.Errorf("blob %d: %w", i, err)
		}
		blobs = append(blobs, c)
	}
	metrics.RecordBlobsGenerated(len(blobs))
	s.logger.Debug(ctx, "generated demo blobs",
		logger.Int("blobs", len(blobs)),
		logger.Int("pointsPerBlob", s.pointsPerBlob),
		logger.Float64("stdDev", s.stdDev),
	)
	return blobs, nil
}

// Cluster runs k-means over points. Extra options are applied after the
// service defaults. When the run stops early the partial run is returned
// together with the error.
func (s *Service) Cluster(ctx context.Context, points []model.Point, k int, opts ...kmeans.Option) (*Run, error) {
	run := &Run{ID: uuid.NewString()}
	log := s.logger.Named("kmeans")

	all := append([]kmeans.Option{
		kmeans.WithMaxIterations(s.maxIterations),
		kmeans.WithMaxClusters(s.maxClusters),
		kmeans.WithLogger(log),
	}, opts...)

	start := time.Now()
	res, err := kmeans.Run(ctx, points, k, all...)
	run.Duration = time.Since(start)
	run.Result = res

	outcome := outcomeOf(err)
	iterations := 0
	if res != nil {
		iterations = res.Iterations
	}
	metrics.RecordRun(outcome, iterations, len(points), float64(run.Duration.Microseconds())/1000)

	if err != nil {
		metrics.RecordErrorByComponent("kmeans", outcome)
		log.Warn(ctx, "clustering run failed",
			logger.String("runID", run.ID),
			logger.String("outcome", outcome),
			logger.Int("iterations", iterations),
			logger.Error(err),
		)
		if res == nil {
			return nil, err
		}
		return run, err
	}

	sizes := make([]int, len(res.Clusters))
	for i, c := range res.Clusters {
		sizes[i] = c.Len()
	}
	metrics.UpdateClusterSizes(sizes)

	s.mu.Lock()
	s.runs++
	s.lastRun = run
	s.mu.Unlock()

	log.Info(ctx, "clustering run converged",
		logger.String("runID", run.ID),
		logger.Int("points", len(points)),
		logger.Int("k", k),
		logger.Int("iterations", iterations),
		logger.Duration("duration", run.Duration),
	)
	return run, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeConverged
	case errors.Is(err, kmeans.ErrDidNotConverge):
		return metrics.OutcomeDidNotConverge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCancelled
	default:
		return metrics.OutcomeInvalid
	}
}

// RunDemo samples the demo blobs, plots them, clusters their points and
// plots the result.
func (s *Service) RunDemo(ctx context.Context, w io.Writer) (*Run, error) {
	blobs, err := s.GenerateBlobs(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.writeGrid(ctx, w, plot.FromClusters(blobs)); err != nil {
		return nil, err
	}

	var points []model.Point
	for _, b := range blobs {
		points = append(points, b.Snapshot()...)
	}

	run, err := s.Cluster(ctx, points, s.clusters)
	if err != nil {
		return run, err
	}

	if _, err := fmt.Fprintf(w, "num clusters = %d\n", len(run.Result.Clusters)); err != nil {
		return run, fmt.Errorf("write demo output: %w", err)
	}
	if err := s.writeGrid(ctx, w, plot.FromClusters(run.Result.Clusters)); err != nil {
		return run, err
	}

	for _, sum := range plot.Summarize(run.Result.Clusters) {
		s.logger.Info(ctx, "cluster summary",
			logger.String("runID", run.ID),
			logger.Int("cluster", sum.Index),
			logger.String("symbol", string(sum.Symbol)),
			logger.Int("size", sum.Size),
			logger.String("centroid", sum.Centroid.String()),
			logger.Float64("stdDevX", sum.StdDevX),
			logger.Float64("stdDevY", sum.StdDevY),
		)
	}
	return run, nil
}

func (s *Service) writeGrid(ctx context.Context, w io.Writer, g *plot.Grid) error {
	if n := g.Dropped(); n > 0 {
		s.logger.Warn(ctx, "points outside the plot were skipped", logger.Int("dropped", n))
	}
	if _, err := g.WriteTo(w); err != nil {
		return fmt.Errorf("write demo output: %w", err)
	}
	return nil
}

// MaxClusters returns the configured cap on k.
func (s *Service) MaxClusters() int {
	return s.maxClusters
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"clusters":      s.clusters,
		"maxIterations": s.maxIterations,
		"maxClusters":   s.maxClusters,
		"blobs":         len(s.blobs),
		"pointsPerBlob": s.pointsPerBlob,
		"stdDev":        s.stdDev,
		"runs":          s.runs,
	}

	if s.lastRun != nil {
		stats["lastRunID"] = s.lastRun.ID
		stats["lastIterations"] = s.lastRun.Result.Iterations
		stats["lastDurationMs"] = float64(s.lastRun.Duration.Microseconds()) / 1000
	}

	return stats
}
