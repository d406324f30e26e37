package cluster

import "math/rand/v2"

// Option configures Gaussian sampling.
type Option func(*sampleConfig)

type sampleConfig struct {
	src rand.Source
}

// WithSource sets the random source used for sampling.
func WithSource(src rand.Source) Option {
	return func(c *sampleConfig) {
		if src != nil {
			c.src = src
		}
	}
}

// WithSeed makes sampling reproducible for the given seed.
func WithSeed(seed uint64) Option {
	return func(c *sampleConfig) {
		c.src = rand.NewPCG(seed, seed)
	}
}

func newSampleConfig(opts ...Option) sampleConfig {
	c := sampleConfig{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.src == nil {
		c.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return c
}
