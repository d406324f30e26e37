// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/kmeans/internal/app"
	"github.com/okian/kmeans/internal/domain/kmeans"
	"github.com/okian/kmeans/internal/domain/model"
)

// maxBodyBytes caps request bodies for clustering endpoints.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Cluster runs k-means. A partial run may accompany an error.
	Cluster(ctx context.Context, points []model.Point, k int, opts ...kmeans.Option) (*service.Run, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	clusterHandler *ClusterHandler
	plotHandler    *PlotHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		clusterHandler: NewClusterHandler(deps),
		plotHandler:    NewPlotHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/cluster", MetricsMiddleware(s.clusterHandler.HandlePostCluster, "cluster"))
	mux.HandleFunc("/plot", MetricsMiddleware(s.plotHandler.HandlePostPlot, "plot"))
}

// clusterRequest mirrors the OpenAPI schema for POST /cluster and POST /plot.
type clusterRequest struct {
	Points        []model.Point `json:"points"`
	K             int           `json:"k"`
	MaxIterations int           `json:"max_iterations"`
}

func (c clusterRequest) validate() error {
	switch {
	case len(c.Points) == 0:
		return errors.New("missing points")
	case c.K <= 0:
		return errors.New("k must be positive")
	case c.K > len(c.Points):
		return errors.New("k must not exceed the number of points")
	case c.MaxIterations < 0:
		return errors.New("max_iterations must not be negative")
	}
	return nil
}

func (c clusterRequest) options() []kmeans.Option {
	if c.MaxIterations > 0 {
		return []kmeans.Option{kmeans.WithMaxIterations(c.MaxIterations)}
	}
	return nil
}

type clusterBody struct {
	Centroid model.Point   `json:"centroid"`
	Points   []model.Point `json:"points"`
}

type clusterResponse struct {
	RunID      string        `json:"run_id"`
	Iterations int           `json:"iterations"`
	Converged  bool          `json:"converged"`
	Clusters   []clusterBody `json:"clusters"`
}

func newClusterResponse(run *service.Run) clusterResponse {
	resp := clusterResponse{
		RunID:      run.ID,
		Iterations: run.Result.Iterations,
		Converged:  run.Result.State == kmeans.StateDone,
		Clusters:   make([]clusterBody, len(run.Result.Clusters)),
	}
	for i, c := range run.Result.Clusters {
		pts := c.Snapshot()
		if pts == nil {
			pts = []model.Point{}
		}
		resp.Clusters[i] = clusterBody{Centroid: c.Centroid(), Points: pts}
	}
	return resp
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeClusterRequest(w http.ResponseWriter, r *http.Request, op string) (clusterRequest, error) {
	var req clusterRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, WrapKind(op, ErrBadRequest, err)
	}
	if err := req.validate(); err != nil {
		return req, WrapKind(op, ErrBadRequest, err)
	}
	return req, nil
}

// writeRunError maps clustering errors to HTTP statuses.
func writeRunError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, kmeans.ErrInvalidClusterCount), errors.Is(err, kmeans.ErrNoPoints):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, kmeans.ErrDidNotConverge):
		writeError(w, http.StatusUnprocessableEntity, "did_not_converge", WrapKind(op, ErrDidNotConverge, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", WrapKind(op, ErrCancelled, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
