package plot_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/kmeans/internal/adapters/plot"
	"github.com/okian/kmeans/internal/domain/cluster"
	"github.com/okian/kmeans/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleClusters() []*cluster.Cluster {
	a := cluster.New()
	a.Add(model.NewPoint(1, 1))
	a.Add(model.NewPoint(2, 2))
	b := cluster.New()
	b.Add(model.NewPoint(10, 10))
	return []*cluster.Cluster{a, b, cluster.New()}
}

func TestPNG(t *testing.T) {
	Convey("Given clusters including an empty one", t, func() {
		clusters := sampleClusters()

		Convey("When writing a PNG to a buffer", func() {
			var buf bytes.Buffer
			err := plot.WritePNG(clusters, &buf, plot.WithTitle("demo"), plot.WithSize(3, 3))

			Convey("Then it should produce PNG data", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
			})
		})

		Convey("When saving a PNG to disk", func() {
			path := filepath.Join(t.TempDir(), "clusters.png")
			err := plot.SavePNG(clusters, path)

			Convey("Then the file should hold PNG data", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(bytes.HasPrefix(data, pngMagic), ShouldBeTrue)
			})
		})
	})

	Convey("Given no clusters", t, func() {
		Convey("Then rendering should fail with ErrNoClusters", func() {
			err := plot.WritePNG(nil, &bytes.Buffer{})
			So(errors.Is(err, plot.ErrNoClusters), ShouldBeTrue)
		})
	})
}
