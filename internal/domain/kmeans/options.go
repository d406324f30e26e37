package kmeans

import "github.com/okian/kmeans/pkg/logger"

// Default driver configuration constants.
const (
	// Unbounded keeps iterating until the centroids stop moving.
	Unbounded          = 0
	defaultMaxClusters = 1024
)

// Option applies a configuration option to a clustering run.
type Option func(*config)

type config struct {
	maxIterations int
	maxClusters   int
	progress      func(iteration int)
	logger        logger.Logger
}

// WithMaxIterations bounds the number of reassignment passes. Unbounded (0)
// or a negative value removes the bound.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = Unbounded
		}
		c.maxIterations = n
	}
}

// WithMaxClusters sets the largest k accepted by Run. Values <= 0 remove the
// limit.
func WithMaxClusters(n int) Option {
	return func(c *config) {
		c.maxClusters = n
	}
}

// WithProgress registers a callback invoked after every reassignment pass.
func WithProgress(fn func(iteration int)) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithLogger sets the logger used for iteration progress.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	c := &config{
		maxIterations: Unbounded,
		maxClusters:   defaultMaxClusters,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
