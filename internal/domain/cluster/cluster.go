// Package cluster implements a point collection with a cached centroid.
package cluster

import (
	"fmt"
	"iter"

	"github.com/okian/kmeans/internal/domain/model"
	"gonum.org/v1/gonum/stat/distuv"
)

// Cluster owns a sequence of points and keeps their mean in centroid.
// Add and EvictAll are the only mutators and both refresh the centroid
// before returning.
type Cluster struct {
	points   []model.Point
	centroid model.Point
}

// New returns an empty cluster centred on the origin.
func New() *Cluster {
	return &Cluster{centroid: model.Origin()}
}

// NewGaussian returns a cluster of count points sampled independently per
// axis from a normal distribution around center. The reported centroid is
// center itself, not the sample mean, until the next Add or EvictAll.
func NewGaussian(center model.Point, stdDev float64, count int, opts ...Option) (*Cluster, error) {
	if stdDev < 0 {
		return nil, fmt.Errorf("%w: negative standard deviation %g", ErrInvalidSample, stdDev)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative point count %d", ErrInvalidSample, count)
	}

	cfg := newSampleConfig(opts...)
	nx := distuv.Normal{Mu: center.X, Sigma: stdDev, Src: cfg.src}
	ny := distuv.Normal{Mu: center.Y, Sigma: stdDev, Src: cfg.src}

	points := make([]model.Point, count)
	for i := range points {
		points[i] = model.NewPoint(nx.Rand(), ny.Rand())
	}

	return &Cluster{points: points, centroid: center}, nil
}

// Add appends p and recomputes the centroid.
func (c *Cluster) Add(p model.Point) {
	c.points = append(c.points, p)
	c.centroid = mean(c.points)
}

// Centroid returns the cached centroid.
func (c *Cluster) Centroid() model.Point {
	return c.centroid
}

// DistanceFromCentroid returns the distance between the centroid and p.
func (c *Cluster) DistanceFromCentroid(p model.Point) float64 {
	return c.centroid.Distance(p)
}

// EvictAll removes every point and hands the slice, in insertion order, to
// the caller. The centroid is reset to the origin.
func (c *Cluster) EvictAll() []model.Point {
	old := c.points
	c.points = nil
	c.centroid = model.Origin()
	return old
}

// Points returns a sequence over the points held when it was called.
// Mutating the cluster while ranging over it is not supported.
func (c *Cluster) Points() iter.Seq[model.Point] {
	pts := c.points
	return func(yield func(model.Point) bool) {
		for _, p := range pts {
			if !yield(p) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the current points.
func (c *Cluster) Snapshot() []model.Point {
	out := make([]model.Point, len(c.points))
	copy(out, c.points)
	return out
}

// Len returns the number of points held.
func (c *Cluster) Len() int {
	return len(c.points)
}

// IsEmpty reports whether the cluster holds no points.
func (c *Cluster) IsEmpty() bool {
	return len(c.points) == 0
}

// mean returns the arithmetic mean of points, or the origin for none.
func mean(points []model.Point) model.Point {
	if len(points) == 0 {
		return model.Origin()
	}
	sum := model.Origin()
	for _, p := range points {
		sum = sum.Add(p)
	}
	// len(points) > 0, Divide cannot fail here.
	m, _ := sum.Divide(float64(len(points)))
	return m
}
