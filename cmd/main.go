package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/kmeans/internal/adapters/http/api"
	"github.com/okian/kmeans/internal/adapters/http/swagger"
	"github.com/okian/kmeans/internal/adapters/plot"
	app "github.com/okian/kmeans/internal/app"
	"github.com/okian/kmeans/internal/config"
	"github.com/okian/kmeans/internal/domain/model"
	"github.com/okian/kmeans/pkg/logger"
	"github.com/okian/kmeans/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)

	switch cfg.Mode {
	case config.ModeServe:
		err = serve(ctx, cfg, svc, loggerInstance)
	default:
		err = runDemo(ctx, cfg, svc, os.Stdout, loggerInstance)
	}
	if err != nil {
		loggerInstance.Error(ctx, "kmeans failed", logger.String("mode", cfg.Mode), logger.Error(err))
		return 1
	}
	return 0
}

// newService builds the clustering service from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	centers := make([]model.Point, len(cfg.Centers))
	for i, c := range cfg.Centers {
		centers[i] = model.NewPoint(c.X, c.Y)
	}
	return app.New(
		app.WithLogger(log),
		app.WithClusters(cfg.Clusters),
		app.WithMaxIterations(cfg.MaxIterations),
		app.WithMaxClusters(cfg.MaxClusters),
		app.WithBlobs(centers),
		app.WithStdDev(cfg.StdDev),
		app.WithPointsPerBlob(cfg.PointsPerBlob),
		app.WithSeed(cfg.Seed),
	)
}

// runDemo prints the demo plots to w and writes the optional artifacts.
func runDemo(ctx context.Context, cfg *config.Config, svc *app.Service, w io.Writer, log logger.Logger) error {
	run, err := svc.RunDemo(ctx, w)
	if err != nil {
		return fmt.Errorf("demo run: %w", err)
	}

	if cfg.PlotPNG != "" {
		if err := plot.SavePNG(run.Result.Clusters, cfg.PlotPNG, plot.WithTitle("k-means run "+run.ID)); err != nil {
			return fmt.Errorf("save plot: %w", err)
		}
		log.Info(ctx, "plot written", logger.String("path", cfg.PlotPNG))
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		log.Info(ctx, "metrics written", logger.String("path", cfg.MetricsFile))
	}
	return nil
}

// newHTTPServer wires the docs and business routes onto a fresh mux.
func newHTTPServer(ctx context.Context, cfg *config.Config, svc *app.Service) *http.Server {
	mux := http.NewServeMux()

	// Register API docs under /api-docs and /openapi.yaml
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	api.NewServer(svc, svc).Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	// Expose runtime metrics next to the clustering metrics.
	_ = metrics.GetRegistry().Register(collectors.NewGoCollector())

	srv := newHTTPServer(ctx, cfg, svc)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info(ctx, "server stopped")
	return nil
}
