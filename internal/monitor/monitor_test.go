package monitor_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	monitor "github.com/okian/varsity/internal/monitor"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMonitor_LogError(t *testing.T) {
	Convey("Given a fresh monitor", t, func() {
		ctx := context.Background()
		m := monitor.New()

		Convey("When an error is logged", func() {
			id := m.LogError(ctx, monitor.KindValidation, monitor.SeverityHigh, "bad program", map[string]any{"program": "bsc-eng"})

			Convey("Then it should be retrievable with an id", func() {
				So(id, ShouldNotBeEmpty)
				events := m.Events()
				So(len(events), ShouldEqual, 1)
				So(events[0].Kind, ShouldEqual, monitor.KindValidation)
				So(events[0].Severity, ShouldEqual, monitor.SeverityHigh)
			})

			Convey("And counters should reflect it", func() {
				So(m.CountByKind(monitor.KindValidation), ShouldEqual, 1)
				So(m.CountBySeverity(monitor.SeverityHigh), ShouldEqual, 1)
			})

			Convey("And resolving it should release the counters", func() {
				So(m.Resolve(id), ShouldBeTrue)
				So(m.CountBySeverity(monitor.SeverityHigh), ShouldEqual, 0)

				Convey("And resolving twice should not double-release", func() {
					So(m.Resolve(id), ShouldBeTrue)
					So(m.CountBySeverity(monitor.SeverityHigh), ShouldEqual, 0)
				})
			})
		})

		Convey("When resolving an unknown id", func() {
			So(m.Resolve("nope"), ShouldBeFalse)
		})

		Convey("When more events arrive than the retention bound", func() {
			small := monitor.New(monitor.WithMaxEvents(3))
			for i := 0; i < 5; i++ {
				small.LogError(ctx, monitor.KindAPS, monitor.SeverityLow, fmt.Sprintf("event %d", i), nil)
			}

			Convey("Then only the newest events should be retained", func() {
				events := small.Events()
				So(len(events), ShouldEqual, 3)
				So(events[0].Message, ShouldEqual, "event 2")
				So(events[2].Message, ShouldEqual, "event 4")
			})

			Convey("But counters should still cover everything", func() {
				So(small.CountBySeverity(monitor.SeverityLow), ShouldEqual, 5)
			})
		})
	})
}

func TestMonitor_Signals(t *testing.T) {
	Convey("Given a monitor collecting service signals", t, func() {
		m := monitor.New()

		Convey("When no traffic was recorded", func() {
			Convey("Then the idle defaults should not look unhealthy", func() {
				So(m.CacheHitRate(), ShouldEqual, 1)
				So(m.ErrorRate(), ShouldEqual, 0)
				So(m.AverageResponseTime(), ShouldEqual, 0)
			})
		})

		Convey("When response times are recorded", func() {
			m.RecordResponseTime(100 * time.Millisecond)
			m.RecordResponseTime(300 * time.Millisecond)

			Convey("Then the average should be exact", func() {
				So(m.AverageResponseTime(), ShouldEqual, 200*time.Millisecond)
			})
		})

		Convey("When cache traffic is recorded", func() {
			m.RecordCacheHit()
			m.RecordCacheHit()
			m.RecordCacheHit()
			m.RecordCacheMiss()

			Convey("Then the hit rate should be exact", func() {
				So(m.CacheHitRate(), ShouldEqual, 0.75)
			})
		})
	})
}

func TestMonitor_HealthReport(t *testing.T) {
	Convey("Given health scoring", t, func() {
		ctx := context.Background()

		Convey("When nothing is wrong", func() {
			report := monitor.New().HealthReport()

			Convey("Then the service should be healthy at full score", func() {
				So(report.Score, ShouldEqual, 100)
				So(report.Status, ShouldEqual, monitor.StatusHealthy)
			})
		})

		Convey("When a critical error is open", func() {
			m := monitor.New()
			m.LogError(ctx, monitor.KindAssignment, monitor.SeverityCritical, "malformed rule", nil)
			report := m.HealthReport()

			Convey("Then the status should be critical regardless of score", func() {
				So(report.Score, ShouldEqual, 75)
				So(report.Status, ShouldEqual, monitor.StatusCritical)
				So(report.CriticalErrors, ShouldEqual, 1)
			})

			Convey("And resolving it should restore health", func() {
				for _, ev := range m.Events() {
					m.Resolve(ev.ID)
				}
				So(m.HealthReport().Status, ShouldEqual, monitor.StatusHealthy)
			})
		})

		Convey("When a high-severity error is open", func() {
			m := monitor.New()
			m.LogError(ctx, monitor.KindValidation, monitor.SeverityHigh, "aps out of range", nil)

			Convey("Then the status should be warning even at a high score", func() {
				report := m.HealthReport()
				So(report.Score, ShouldEqual, 90)
				So(report.Status, ShouldEqual, monitor.StatusWarning)
			})
		})

		Convey("When many warnings accumulate", func() {
			m := monitor.New()
			for i := 0; i < 15; i++ {
				m.LogError(ctx, monitor.KindAPS, monitor.SeverityMedium, "clamped aps", nil)
			}

			Convey("Then the score should degrade linearly", func() {
				report := m.HealthReport()
				So(report.Score, ShouldEqual, 70)
				So(report.Status, ShouldEqual, monitor.StatusWarning)
			})
		})

		Convey("When everything is wrong at once", func() {
			m := monitor.New()
			for i := 0; i < 5; i++ {
				m.LogError(ctx, monitor.KindAssignment, monitor.SeverityCritical, "boom", nil)
			}
			report := m.HealthReport()

			Convey("Then the score should floor at zero", func() {
				So(report.Score, ShouldEqual, 0)
				So(report.Status, ShouldEqual, monitor.StatusCritical)
			})
		})

		Convey("When the cache hit rate is poor", func() {
			m := monitor.New()
			m.RecordCacheMiss()
			m.RecordCacheMiss()
			m.RecordCacheHit()
			report := m.HealthReport()

			Convey("Then a recommendation should mention the TTL", func() {
				So(report.Score, ShouldEqual, 95)
				found := false
				for _, r := range report.Recommendations {
					if len(r) > 0 {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
