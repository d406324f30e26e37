package loadtest

import (
	"time"

	"github.com/okian/kmeans/internal/domain/model"
)

// Config holds configuration for the load test
type Config struct {
	BaseURL       string        // Base URL of the service
	Datasets      int           // Number of datasets to generate and submit
	Blobs         int           // Gaussian blobs per dataset, also the k requested
	PointsPerBlob int           // Points sampled per blob
	StdDev        float64       // Standard deviation of every blob
	MaxIterations int           // Iteration limit sent with each request; 0 uses the server default
	Seed          uint64        // Seed for dataset generation; 0 draws a random seed
	Workers       int           // Number of concurrent workers
	Rate          float64       // Requests per second across all workers; 0 is unlimited
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for generated datasets
	Verbose       bool          // Enable verbose logging
}

// Dataset is one clustering request body.
type Dataset struct {
	ID            string        `json:"-"`
	Points        []model.Point `json:"points"`
	K             int           `json:"k"`
	MaxIterations int           `json:"max_iterations,omitempty"`
}

// ClusterBody is one cluster in a clustering response.
type ClusterBody struct {
	Centroid model.Point   `json:"centroid"`
	Points   []model.Point `json:"points"`
}

// ClusterResponse represents the response from POST /cluster
type ClusterResponse struct {
	RunID      string        `json:"run_id"`
	Iterations int           `json:"iterations"`
	Converged  bool          `json:"converged"`
	Clusters   []ClusterBody `json:"clusters"`
}

// Stats holds test statistics
type Stats struct {
	DatasetsGenerated    int
	DatasetsSubmitted    int
	DatasetsSuccessful   int
	DatasetsNotConverged int
	DatasetsFailed       int
	VerificationFailures int
	TotalIterations      int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
