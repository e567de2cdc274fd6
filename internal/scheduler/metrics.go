package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_scheduler_runs_total",
		Help: "Completed pricing pipeline runs.",
	})
	runErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_scheduler_run_errors_total",
		Help: "Pricing pipeline runs that ended in an error.",
	})
	ticksSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_scheduler_ticks_skipped_total",
		Help: "Scheduled ticks skipped because a run was still in flight.",
	})
	packagesPricedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_scheduler_packages_priced_total",
		Help: "Packages priced by the pipeline.",
	})
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "delivery_scheduler_run_duration_seconds",
		Help:    "Duration of pricing pipeline runs.",
		Buckets: prometheus.DefBuckets,
	})
)
