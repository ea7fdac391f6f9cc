package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithMetricPrefix("x"),
			WithHTTPBuckets([]float64{1, 2, 3}),
			WithRunBuckets([]float64{0.5, 1}),
			WithRefreshInterval(time.Second),
			WithCustomLabels(map[string]string{"env": "test"}),
		)

		Convey("Then they are applied", func() {
			So(m.namespace, ShouldEqual, "test")
			So(m.subsystem, ShouldEqual, "unit")
			So(m.metricPrefix, ShouldEqual, "x")
			So(m.httpBuckets, ShouldResemble, []float64{1, 2, 3})
			So(m.runBuckets, ShouldResemble, []float64{0.5, 1})
			So(m.refreshInterval, ShouldEqual, time.Second)
		})

		Convey("And metric names carry the prefix", func() {
			m.RecordRun(RunStats{PoolSize: 8, TeamCount: 4})
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "test_unit_x_runs_total")
		})

		Convey("And empty values keep the defaults", func() {
			d := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithNamespace(""),
				WithHTTPBuckets(nil),
				WithRunBuckets(nil),
				WithRefreshInterval(0),
			)
			So(d.namespace, ShouldEqual, "matchday")
			So(d.httpBuckets, ShouldHaveLength, 11)
			So(d.runBuckets[0], ShouldEqual, 0.05)
			So(d.refreshInterval, ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestRecordRun(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When a run is recorded", func() {
			m.RecordRun(RunStats{
				Duration:     2 * time.Millisecond,
				PoolSize:     23,
				TeamCount:    4,
				Iterations:   3,
				StarterSwaps: 2,
				BenchSwaps:   1,
				StdDev:       0.15,
				Converged:    false,
				Unpaired:     true,
			})

			Convey("Then counters and gauges reflect it", func() {
				So(testutil.ToFloat64(m.runs.WithLabelValues(OutcomeOK)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.swaps.WithLabelValues(SwapStarter)), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.swaps.WithLabelValues(SwapBench)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.lastStdDev), ShouldEqual, 0.15)
				So(testutil.ToFloat64(m.unpairedGroups), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.converged), ShouldEqual, 0.0)
			})
		})

		Convey("When a failure is recorded", func() {
			m.RecordRunFailure(OutcomeInsufficient, 3)

			Convey("Then it is counted under its outcome", func() {
				So(testutil.ToFloat64(m.runs.WithLabelValues(OutcomeInsufficient)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.runs.WithLabelValues(OutcomeOK)), ShouldEqual, 0.0)
			})
		})

		Convey("When the manager is disabled", func() {
			off := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
			off.RecordRun(RunStats{PoolSize: 4})
			off.RecordRunFailure(OutcomeInvalid, 1)

			Convey("Then nothing is counted", func() {
				So(testutil.ToFloat64(off.runs.WithLabelValues(OutcomeOK)), ShouldEqual, 0.0)
				So(testutil.ToFloat64(off.runs.WithLabelValues(OutcomeInvalid)), ShouldEqual, 0.0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the helpers do not panic", func() {
			So(func() {
				RecordRun(RunStats{PoolSize: 10, TeamCount: 2})
				RecordRunFailure(OutcomeInsufficient, 1)
				RecordHTTPRequest("balance", "POST", "200")
				RecordHTTPRequestDuration("balance", "POST", "200", 1.5)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("balance", "POST", "client_error")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("And the registry exposes them", func() {
			RecordRun(RunStats{PoolSize: 10, TeamCount: 2})
			count, err := testutil.GatherAndCount(GetRegistry(), "matchday_balancer_runs_total")
			So(err, ShouldBeNil)
			So(count, ShouldBeGreaterThan, 0)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}
