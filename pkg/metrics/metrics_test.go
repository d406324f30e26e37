package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test_prefix_")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithSubsystem("kmeans"),
			WithCustomLabels(map[string]string{"env": "test"}),
		)

		Convey("When recording a converged run", func() {
			m.RecordRun(OutcomeConverged, 3, 80, 1.5)

			Convey("Then the run, point and iteration metrics should move", func() {
				So(testutil.ToFloat64(m.runs.WithLabelValues(OutcomeConverged)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.pointsClustered), ShouldEqual, 80)
				So(testutil.ToFloat64(m.lastIterations), ShouldEqual, 3)
				So(testutil.CollectAndCount(m.iterations), ShouldEqual, 1)
			})
		})

		Convey("When recording an invalid run", func() {
			m.RecordRun(OutcomeInvalid, 0, 0, 0.1)

			Convey("Then iterations should not be observed", func() {
				So(testutil.ToFloat64(m.runs.WithLabelValues(OutcomeInvalid)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.lastIterations), ShouldEqual, 0)
			})
		})

		Convey("When updating cluster sizes twice", func() {
			m.UpdateClusterSizes([]int{5, 7, 9})
			m.UpdateClusterSizes([]int{10, 11})

			Convey("Then only the latest clusters should be reported", func() {
				So(testutil.CollectAndCount(m.clusterSize), ShouldEqual, 2)
				So(testutil.ToFloat64(m.clusterSize.WithLabelValues("1")), ShouldEqual, 11)
			})
		})

		Convey("When metrics are gathered", func() {
			m.RecordRun(OutcomeConverged, 1, 4, 0.2)
			families, err := registry.Gather()

			Convey("Then names should carry the namespace and subsystem", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_kmeans_runs_total")
				So(names, ShouldContain, "test_kmeans_points_clustered_total")
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry), WithMetricsEnabled(false))

		Convey("Then recording should be a no-op", func() {
			m.RecordRun(OutcomeConverged, 2, 10, 1)
			m.UpdateClusterSizes([]int{1, 2})
			So(testutil.ToFloat64(m.pointsClustered), ShouldEqual, 0)
			So(testutil.CollectAndCount(m.clusterSize), ShouldEqual, 0)
		})
	})

	Convey("Given a metric prefix", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry), WithMetricPrefix("demo_"))
		m.RecordRun(OutcomeConverged, 1, 1, 1)

		Convey("Then metric names should carry it", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			found := false
			for _, f := range families {
				if f.GetName() == "kmeans_lloyd_demo_runs_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("Then recording should not panic", func() {
			So(func() {
				RecordRun(OutcomeConverged, 4, 80, 2.0)
				RecordRun(OutcomeDidNotConverge, 100, 80, 20.0)
				RecordRun(OutcomeCancelled, 1, 80, 0.5)
				UpdateClusterSizes([]int{20, 20, 20, 20})
				RecordBlobsGenerated(4)
				RecordHTTPRequest("/cluster", "POST", "200")
				RecordHTTPRequestDuration("/cluster", "POST", "200", 3.0)
				RecordErrorByComponent("kmeans", "invalid_cluster_count")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("/cluster", "POST", "client_error")
			}, ShouldNotPanic)
		})

		Convey("And the registry should be available", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given recorded metrics", t, func() {
		RecordRun(OutcomeConverged, 2, 8, 1.0)
		dir := t.TempDir()

		Convey("When writing them to a textfile", func() {
			path := filepath.Join(dir, "kmeans.prom")
			err := WriteTextfile(path)

			Convey("Then the file should hold the exposition format", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(strings.Contains(string(data), "kmeans_lloyd_runs_total"), ShouldBeTrue)
			})
		})

		Convey("When the target directory does not exist", func() {
			err := WriteTextfile(filepath.Join(dir, "missing", "kmeans.prom"))

			Convey("Then it should return ErrWriteTextfile", func() {
				So(err, ShouldNotBeNil)
				So(strings.Contains(err.Error(), ErrWriteTextfile.Error()), ShouldBeTrue)
			})
		})
	})
}
