package api

import (
	"bytes"
	"net/http"

	"github.com/okian/kmeans/internal/adapters/plot"
)

// ClusterHandler handles clustering requests.
type ClusterHandler struct {
	deps Dependencies
}

// NewClusterHandler creates a new cluster handler.
func NewClusterHandler(deps Dependencies) *ClusterHandler {
	return &ClusterHandler{deps: deps}
}

// HandlePostCluster handles POST /cluster requests.
func (h *ClusterHandler) HandlePostCluster(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_cluster"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodeClusterRequest(w, r, op)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	run, err := h.deps.Cluster(r.Context(), req.Points, req.K, req.options()...)
	if err != nil {
		writeRunError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newClusterResponse(run))
}

// PlotHandler renders clustering results.
type PlotHandler struct {
	deps Dependencies
}

// NewPlotHandler creates a new plot handler.
func NewPlotHandler(deps Dependencies) *PlotHandler {
	return &PlotHandler{deps: deps}
}

// HandlePostPlot handles POST /plot requests. The result is rendered as an
// ASCII grid, or as a PNG when the format query parameter is "png".
func (h *PlotHandler) HandlePostPlot(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_plot"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "text" && format != "png" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	req, err := decodeClusterRequest(w, r, op)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	run, err := h.deps.Cluster(r.Context(), req.Points, req.K, req.options()...)
	if err != nil {
		writeRunError(w, op, err)
		return
	}

	w.Header().Set("X-Run-ID", run.ID)
	if format == "png" {
		var buf bytes.Buffer
		if err := plot.WritePNG(run.Result.Clusters, &buf); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = plot.FromClusters(run.Result.Clusters).WriteTo(w)
}
