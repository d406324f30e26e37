package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/okian/kmeans/internal/domain/cluster"
	"github.com/okian/kmeans/internal/domain/model"
	"github.com/okian/kmeans/pkg/logger"
)

// generateDatasets samples cfg.Datasets independent blob datasets. Blob
// centers are drawn uniformly with a margin of three standard deviations
// from the plot edges.
func generateDatasets(ctx context.Context, config *Config, stats *Stats) ([]Dataset, error) {
	logger.Get().Info(ctx, "generating datasets",
		logger.Int("datasets", config.Datasets),
		logger.Int("blobs", config.Blobs),
		logger.Int("pointsPerBlob", config.PointsPerBlob))

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	margin := 3 * config.StdDev
	if 2*margin >= gridSize {
		return nil, fmt.Errorf("std dev %.2f leaves no room for blob centers", config.StdDev)
	}

	datasets := make([]Dataset, 0, config.Datasets)
	for i := 0; i < config.Datasets; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ds := Dataset{
			ID:            uuid.NewString(),
			K:             config.Blobs,
			MaxIterations: config.MaxIterations,
		}
		for b := 0; b < config.Blobs; b++ {
			center := model.NewPoint(
				margin+rng.Float64()*(gridSize-2*margin),
				margin+rng.Float64()*(gridSize-2*margin),
			)
			blob, err := cluster.NewGaussian(center, config.StdDev, config.PointsPerBlob,
				cluster.WithSource(rand.NewPCG(rng.Uint64(), rng.Uint64())))
			if err != nil {
				return nil, fmt.Errorf("dataset %d blob %d: %w", i, b, err)
			}
			ds.Points = append(ds.Points, blob.Snapshot()...)
		}
		datasets = append(datasets, ds)
	}

	stats.DatasetsGenerated = len(datasets)
	return datasets, nil
}
