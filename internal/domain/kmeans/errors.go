package kmeans

import "errors"

// Sentinel error kinds for clustering runs. These allow errors.Is from callers.
var (
	ErrInvalidClusterCount = errors.New("invalid cluster count")
	ErrNoPoints            = errors.New("no points to cluster")
	ErrDidNotConverge      = errors.New("kmeans did not converge")
)
