// Package kmeans partitions 2D points with Lloyd's algorithm.
//
// Clusters are seeded round-robin in input order: point i starts in cluster
// i mod k. Convergence therefore depends on input ordering; there is no
// random or k-means++ seeding. The loop stops when an update pass yields
// exactly the same centroid sequence as the pass before it.
package kmeans

import (
	"context"
	"fmt"

	"github.com/okian/kmeans/internal/domain/cluster"
	"github.com/okian/kmeans/internal/domain/model"
	"github.com/okian/kmeans/pkg/logger"
)

// State is the driver's position in the clustering state machine.
type State int

// Driver states.
const (
	StateInitializing State = iota
	StateAssigning
	StateConverging
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAssigning:
		return "assigning"
	case StateConverging:
		return "converging"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of a clustering run.
type Result struct {
	// Clusters in their original index order.
	Clusters []*cluster.Cluster
	// Iterations counts reassignment passes after seeding.
	Iterations int
	// State is StateDone on convergence; otherwise the state the run stopped in.
	State State
}

// Centroids returns the centroids of the result's clusters.
func (r *Result) Centroids() model.Centroids {
	return Centroids(r.Clusters)
}

// Run clusters points into k clusters. When a maximum iteration count is
// configured and exceeded, Run returns the partial result together with
// ErrDidNotConverge.
func Run(ctx context.Context, points []model.Point, k int, opts ...Option) (*Result, error) {
	cfg := newConfig(opts...)
	log := cfg.logger

	if err := validate(len(points), k, cfg.maxClusters); err != nil {
		return nil, err
	}

	res := &Result{State: StateInitializing}
	res.Clusters = make([]*cluster.Cluster, k)
	for i := range res.Clusters {
		res.Clusters[i] = cluster.New()
	}
	Seed(res.Clusters, points)
	previous := Centroids(res.Clusters)

	log.Debug(ctx, "running kmeans",
		logger.Int("points", len(points)),
		logger.Int("k", k),
		logger.Int("maxIterations", cfg.maxIterations),
	)

	for {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("kmeans interrupted after %d iterations: %w", res.Iterations, err)
		}
		if cfg.maxIterations > 0 && res.Iterations >= cfg.maxIterations {
			log.Warn(ctx, "kmeans iteration limit reached", logger.Int("iterations", res.Iterations))
			return res, fmt.Errorf("%w: %d iterations", ErrDidNotConverge, res.Iterations)
		}

		res.State = StateAssigning
		res.Iterations++
		Reassign(res.Clusters)
		if cfg.progress != nil {
			cfg.progress(res.Iterations)
		}
		log.Debug(ctx, "kmeans iteration", logger.Int("iteration", res.Iterations))

		res.State = StateConverging
		current := Centroids(res.Clusters)
		if current.Equal(previous) {
			res.State = StateDone
			break
		}
		previous = current
	}

	log.Debug(ctx, "kmeans converged", logger.Int("iterations", res.Iterations))
	return res, nil
}

func validate(numPoints, k, maxClusters int) error {
	switch {
	case k <= 0:
		return fmt.Errorf("%w: k must be positive, got %d", ErrInvalidClusterCount, k)
	case maxClusters > 0 && k > maxClusters:
		return fmt.Errorf("%w: k=%d exceeds limit %d", ErrInvalidClusterCount, k, maxClusters)
	case numPoints == 0:
		return ErrNoPoints
	case k > numPoints:
		return fmt.Errorf("%w: k=%d exceeds %d points", ErrInvalidClusterCount, k, numPoints)
	}
	return nil
}

// Seed assigns points to clusters round-robin in input order.
func Seed(clusters []*cluster.Cluster, points []model.Point) {
	if len(clusters) == 0 {
		return
	}
	for i, p := range points {
		clusters[i%len(clusters)].Add(p)
	}
}

// Centroids captures the current centroid of every cluster, in index order.
func Centroids(clusters []*cluster.Cluster) model.Centroids {
	out := make(model.Centroids, len(clusters))
	for i, c := range clusters {
		out[i] = c.Centroid()
	}
	return out
}

// Reassign performs one Lloyd update: every point moves to the cluster whose
// centroid, as it stood before the pass, is nearest.
func Reassign(clusters []*cluster.Cluster) {
	// The snapshot must precede eviction, which resets every centroid.
	snapshot := Centroids(clusters)

	var points []model.Point
	for _, c := range clusters {
		points = append(points, c.EvictAll()...)
	}

	for _, p := range points {
		clusters[Nearest(snapshot, p)].Add(p)
	}
}

// Nearest returns the index of the centroid closest to p. Ties go to the
// lowest index. It returns -1 for an empty snapshot.
func Nearest(snapshot model.Centroids, p model.Point) int {
	if len(snapshot) == 0 {
		return -1
	}
	best, bestDist := 0, snapshot[0].Distance(p)
	for i := 1; i < len(snapshot); i++ {
		if d := snapshot[i].Distance(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
