package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "schoolwatch_runs_total", Help: "Scrape runs by terminal status"},
		[]string{"status"},
	)
	JobsScraped = prometheus.NewCounter(prometheus.CounterOpts{Name: "schoolwatch_jobs_scraped_total", Help: "Jobs passing the filter across runs"})
	NewJobs     = prometheus.NewCounter(prometheus.CounterOpts{Name: "schoolwatch_new_jobs_total", Help: "Newly appeared jobs across runs"})
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "schoolwatch_notifications_total", Help: "Notification dispatches by outcome"},
		[]string{"outcome"},
	)
	ActiveJobsGauge = prometheus.NewGauge(prometheus.GaugeOpts{Name: "schoolwatch_active_jobs", Help: "Currently active postings"})
)

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			RunsTotal,
			JobsScraped,
			NewJobs,
			Notifications,
			ActiveJobsGauge,
		)
	})
	return promhttp.Handler()
}
