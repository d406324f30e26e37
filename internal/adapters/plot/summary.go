package plot

import (
	"github.com/okian/kmeans/internal/domain/cluster"
	"github.com/okian/kmeans/internal/domain/model"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the spread of one cluster.
type Summary struct {
	Index    int
	Symbol   byte
	Size     int
	Centroid model.Point
	StdDevX  float64
	StdDevY  float64
}

// Summarize reports size, centroid and per-axis sample standard deviation
// for every cluster. Clusters with fewer than two points have zero spread.
func Summarize(clusters []*cluster.Cluster) []Summary {
	out := make([]Summary, len(clusters))
	for i, c := range clusters {
		s := Summary{Index: i, Symbol: SymbolFor(i), Size: c.Len(), Centroid: c.Centroid()}
		if s.Size > 1 {
			xs := make([]float64, 0, s.Size)
			ys := make([]float64, 0, s.Size)
			for p := range c.Points() {
				xs = append(xs, p.X)
				ys = append(ys, p.Y)
			}
			s.StdDevX = stat.StdDev(xs, nil)
			s.StdDevY = stat.StdDev(ys, nil)
		}
		out[i] = s
	}
	return out
}
