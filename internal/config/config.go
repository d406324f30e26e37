// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and KMEANS_* env vars.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

// Run modes.
const (
	ModeDemo  = "demo"
	ModeServe = "serve"
)

// Center is a generating center for one gaussian demo blob.
type Center struct {
	X float64 `koanf:"x"`
	Y float64 `koanf:"y"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Mode selects between the one-shot demo and the HTTP server.
	Mode string `koanf:"mode"`

	// Addr configures the HTTP listen address in serve mode, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Clusters is the k used by the demo run.
	Clusters int `koanf:"clusters"`

	// MaxIterations bounds reassignment passes; 0 means unbounded.
	MaxIterations int `koanf:"max_iterations"`

	// MaxClusters caps k for every run, including API requests.
	MaxClusters int `koanf:"max_clusters"`

	// PointsPerBlob and StdDev shape the gaussian demo blobs.
	PointsPerBlob int     `koanf:"points_per_blob"`
	StdDev        float64 `koanf:"std_dev"`

	// Seed makes demo data reproducible; 0 draws a random seed.
	Seed uint64 `koanf:"seed"`

	// Centers lists the generating center of every demo blob.
	Centers []Center `koanf:"centers"`

	// PlotPNG, when set, receives a PNG scatter plot of the demo result.
	PlotPNG string `koanf:"plot_png"`

	// MetricsFile, when set, receives the Prometheus metrics after a demo run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Mode:          ModeDemo,
		Addr:          ":9080",
		Clusters:      4,
		MaxIterations: 0,
		MaxClusters:   64,
		PointsPerBlob: 20,
		StdDev:        3.0,
		Seed:          0,
		Centers: []Center{
			{X: 12, Y: 12},
			{X: 20, Y: 20},
			{X: 30, Y: 30},
			{X: 30, Y: 12},
		},
	}
}
