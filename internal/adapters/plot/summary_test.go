package plot_test

import (
	"math"
	"testing"

	"github.com/okian/kmeans/internal/adapters/plot"
	"github.com/okian/kmeans/internal/domain/cluster"
	"github.com/okian/kmeans/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given clusters of different sizes", t, func() {
		spread := cluster.New()
		spread.Add(model.NewPoint(0, 0))
		spread.Add(model.NewPoint(2, 4))
		single := cluster.New()
		single.Add(model.NewPoint(7, 7))

		summaries := plot.Summarize([]*cluster.Cluster{spread, single, cluster.New()})

		Convey("Then each cluster should be described in index order", func() {
			So(summaries, ShouldHaveLength, 3)
			So(summaries[0].Size, ShouldEqual, 2)
			So(summaries[0].Centroid, ShouldResemble, model.NewPoint(1, 2))
			So(summaries[1].Symbol, ShouldEqual, byte('+'))
			So(summaries[2].Size, ShouldEqual, 0)
		})

		Convey("And the spread should be the sample standard deviation", func() {
			So(summaries[0].StdDevX, ShouldAlmostEqual, math.Sqrt2, 1e-12)
			So(summaries[0].StdDevY, ShouldAlmostEqual, 2*math.Sqrt2, 1e-12)
		})

		Convey("And clusters below two points should have no spread", func() {
			So(summaries[1].StdDevX, ShouldEqual, 0)
			So(summaries[2].StdDevY, ShouldEqual, 0)
		})
	})
}
