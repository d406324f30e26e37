package loadtest

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/kmeans/internal/domain/model"
)

// centroidTolerance absorbs summation order differences between the server
// and the client-side mean.
const centroidTolerance = 1e-9

// Verification failures.
var (
	ErrPointCount      = errors.New("point count mismatch")
	ErrClusterCount    = errors.New("cluster count mismatch")
	ErrCentroidDrift   = errors.New("centroid is not the mean of its points")
	ErrNotNearest      = errors.New("point is closer to another centroid")
	ErrNotConvergedAck = errors.New("response not marked converged")
)

// verifyResponse checks the converged clustering invariants: no point is
// lost, each centroid is the mean of its points (origin when empty), and
// every point is at least as close to its own centroid as to any other.
func verifyResponse(ds Dataset, resp ClusterResponse) error {
	if !resp.Converged {
		return ErrNotConvergedAck
	}
	if len(resp.Clusters) != ds.K {
		return fmt.Errorf("%w: got %d, want %d", ErrClusterCount, len(resp.Clusters), ds.K)
	}

	total := 0
	centroids := make(model.Centroids, len(resp.Clusters))
	for i, c := range resp.Clusters {
		total += len(c.Points)
		centroids[i] = c.Centroid
		if !closeTo(c.Centroid, mean(c.Points)) {
			return fmt.Errorf("%w: cluster %d", ErrCentroidDrift, i)
		}
	}
	if total != len(ds.Points) {
		return fmt.Errorf("%w: got %d, want %d", ErrPointCount, total, len(ds.Points))
	}

	for i, c := range resp.Clusters {
		for _, p := range c.Points {
			own := p.Distance(c.Centroid)
			for j, other := range centroids {
				if j != i && p.Distance(other) < own {
					return fmt.Errorf("%w: %v in cluster %d, nearer %d", ErrNotNearest, p, i, j)
				}
			}
		}
	}
	return nil
}

func mean(points []model.Point) model.Point {
	if len(points) == 0 {
		return model.Origin()
	}
	sum := model.Origin()
	for _, p := range points {
		sum = sum.Add(p)
	}
	m, _ := sum.Divide(float64(len(points)))
	return m
}

func closeTo(a, b model.Point) bool {
	return math.Abs(a.X-b.X) <= centroidTolerance && math.Abs(a.Y-b.Y) <= centroidTolerance
}
