package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the Prometheus instruments for the background jobs.
type Collector struct {
	sweepRuns     *prometheus.CounterVec
	checksDeleted prometheus.Counter
	sweepErrors   prometheus.Counter
	alertsCreated prometheus.Counter
	jobDuration   *prometheus.HistogramVec
}

func New() *Collector {
	return &Collector{
		sweepRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rtw_retention_sweep_runs_total",
				Help: "Retention sweep runs, by trigger",
			},
			[]string{"trigger"},
		),
		checksDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rtw_retention_checks_deleted_total",
				Help: "Checks permanently erased by the retention sweep",
			},
		),
		sweepErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rtw_retention_sweep_errors_total",
				Help: "Per-candidate failures during retention sweeps",
			},
		),
		alertsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rtw_alerts_created_total",
				Help: "Notifications inserted by the alert generator",
			},
		),
		jobDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rtw_job_duration_seconds",
				Help:    "Background job run duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"job"},
		),
	}
}

func (c *Collector) SweepRun(trigger string) {
	c.sweepRuns.WithLabelValues(trigger).Inc()
}

func (c *Collector) ChecksDeleted(n int) {
	c.checksDeleted.Add(float64(n))
}

func (c *Collector) SweepErrors(n int) {
	c.sweepErrors.Add(float64(n))
}

func (c *Collector) AlertsCreated(n int) {
	c.alertsCreated.Add(float64(n))
}

func (c *Collector) ObserveJob(job string, duration time.Duration) {
	c.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}
