package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/kmeans/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Mode, convey.ShouldEqual, config.ModeDemo)
				convey.So(cfg.Clusters, convey.ShouldEqual, 4)
				convey.So(cfg.Centers, convey.ShouldHaveLength, 4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("KMEANS_MODE", "serve")
			_ = os.Setenv("KMEANS_ADDR", ":8080")
			_ = os.Setenv("KMEANS_CLUSTERS", "6")
			_ = os.Setenv("KMEANS_MAX_ITERATIONS", "50")
			_ = os.Setenv("KMEANS_STD_DEV", "1.5")
			_ = os.Setenv("KMEANS_SEED", "42")
			_ = os.Setenv("KMEANS_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Mode, convey.ShouldEqual, config.ModeServe)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Clusters, convey.ShouldEqual, 6)
				convey.So(cfg.MaxIterations, convey.ShouldEqual, 50)
				convey.So(cfg.StdDev, convey.ShouldEqual, 1.5)
				convey.So(cfg.Seed, convey.ShouldEqual, uint64(42))
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
clusters: 2
points_per_blob: 50
std_dev: 2.5
plot_png: /tmp/kmeans.png
centers:
  - x: 5
    y: 5
  - x: 40
    y: 40
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("KMEANS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Clusters, convey.ShouldEqual, 2)
				convey.So(cfg.PointsPerBlob, convey.ShouldEqual, 50)
				convey.So(cfg.StdDev, convey.ShouldEqual, 2.5)
				convey.So(cfg.PlotPNG, convey.ShouldEqual, "/tmp/kmeans.png")
			})

			convey.Convey("And the file centers should replace the defaults", func() {
				convey.So(cfg.Centers, convey.ShouldResemble, []config.Center{{X: 5, Y: 5}, {X: 40, Y: 40}})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
clusters: 2
points_per_blob: 50
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("KMEANS_CONFIG", tmpFile)
			_ = os.Setenv("KMEANS_CLUSTERS", "3") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Clusters, convey.ShouldEqual, 3)       // Overridden by env
				convey.So(cfg.PointsPerBlob, convey.ShouldEqual, 50) // From file
				convey.So(cfg.StdDev, convey.ShouldEqual, 3.0)       // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("KMEANS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("KMEANS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When serving with an empty addr", func() {
			_ = os.Setenv("KMEANS_MODE", "serve")
			_ = os.Setenv("KMEANS_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with a negative cluster count", func() {
			_ = os.Setenv("KMEANS_CLUSTERS", "-2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero standard deviation", func() {
			_ = os.Setenv("KMEANS_STD_DEV", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be accepted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.StdDev, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
clusters: 3  # Inline comment
# Another comment
metrics_file: /tmp/kmeans.prom
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("KMEANS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Clusters, convey.ShouldEqual, 3)
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/tmp/kmeans.prom")
			})
		})

		convey.Convey("When loading config with an unknown mode in YAML", func() {
			tmpFile := createTempConfigFile("mode: batch\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("KMEANS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"KMEANS_CONFIG",
		"KMEANS_LOG_LEVEL",
		"KMEANS_MODE",
		"KMEANS_ADDR",
		"KMEANS_CLUSTERS",
		"KMEANS_MAX_ITERATIONS",
		"KMEANS_MAX_CLUSTERS",
		"KMEANS_POINTS_PER_BLOB",
		"KMEANS_STD_DEV",
		"KMEANS_SEED",
		"KMEANS_PLOT_PNG",
		"KMEANS_METRICS_FILE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "kmeans-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
