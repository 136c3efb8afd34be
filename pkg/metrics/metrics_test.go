package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then every collector is registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.searches.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_searches_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		m := globalManager

		Convey("When recording searches", func() {
			before := testutil.ToFloat64(m.searches)
			RecordSearch(3)
			RecordSearch(0)

			Convey("Then the counter advances", func() {
				So(testutil.ToFloat64(m.searches)-before, ShouldEqual, 2)
			})
		})

		Convey("When recording quiz activity", func() {
			correct := testutil.ToFloat64(m.quizAnswers.WithLabelValues("correct"))
			wrong := testutil.ToFloat64(m.quizAnswers.WithLabelValues("wrong"))
			RecordQuizAnswer(true)
			RecordQuizAnswer(false)
			RecordQuizAnswer(false)
			UpdateQuizSessionsActive(7)
			RecordQuizSessionsEvicted(0)

			Convey("Then answers are split by outcome", func() {
				So(testutil.ToFloat64(m.quizAnswers.WithLabelValues("correct"))-correct, ShouldEqual, 1)
				So(testutil.ToFloat64(m.quizAnswers.WithLabelValues("wrong"))-wrong, ShouldEqual, 2)
				So(testutil.ToFloat64(m.quizSessionsActive), ShouldEqual, 7)
			})

			Convey("And the other quiz helpers do not panic", func() {
				So(func() {
					RecordQuizSessionCreated()
					RecordQuizQuestion()
					RecordQuizUnavailable()
					RecordQuizSessionsEvicted(2)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording sync activity", func() {
			kept := testutil.ToFloat64(m.syncRows.WithLabelValues("kept"))
			RecordSyncRows("kept", 5)
			RecordSyncRows("kept", 0)
			RecordSyncRun("ok")
			RecordSyncFetchAttempt()

			Convey("Then rows are added", func() {
				So(testutil.ToFloat64(m.syncRows.WithLabelValues("kept"))-kept, ShouldEqual, 5)
				So(testutil.ToFloat64(m.syncRuns.WithLabelValues("ok")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording catalog, HTTP and system metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					UpdateCatalogSize(10, 25)
					RecordHTTPRequest("search", "GET", "200")
					RecordHTTPRequestDuration("search", "GET", "200", 1.5)
					RecordErrorByEndpoint("quiz", "POST", "not_found")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
				}, ShouldNotPanic)
				So(testutil.ToFloat64(m.catalogSongs), ShouldEqual, 10)
			})
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		prevManager, prevRegistry := globalManager, customRegistry
		Reset(func() {
			globalManager, customRegistry = prevManager, prevRegistry
		})

		Convey("When configured with a namespace and latency buckets", func() {
			Configure(WithNamespace("songs"), WithSubsystem("api"), WithHistogramBuckets([]float64{5, 50}))
			RecordSearch(1)
			RecordHTTPRequestDuration("search", "GET", "200", 7)

			Convey("Then the exposed registry carries the new names", func() {
				So(GetRegistry(), ShouldNotEqual, prevRegistry)
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["songs_api_searches_total"], ShouldBeTrue)
				So(names["moviesongs_searches_total"], ShouldBeFalse)
			})

			Convey("Then the latency histogram uses the configured buckets", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				var bounds []float64
				for _, f := range families {
					if f.GetName() != "songs_api_http_request_duration_milliseconds" {
						continue
					}
					for _, b := range f.GetMetric()[0].GetHistogram().GetBucket() {
						bounds = append(bounds, b.GetUpperBound())
					}
				}
				So(bounds, ShouldResemble, []float64{5, 50})
			})
		})
	})
}
