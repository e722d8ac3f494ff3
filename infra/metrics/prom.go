package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/planfit/core/metrics"
)

// PromSink records placement passes in Prometheus metrics.
type PromSink struct {
	passes      prometheus.Counter
	placed      prometheus.Gauge
	unscheduled prometheus.Gauge
	gaps        prometheus.Gauge
	duration    prometheus.Histogram
}

// NewPromSink registers plan metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (coremetrics.PlanSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.PlanSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planfit_passes_total",
			Help: "Total number of placement passes",
		}),
		placed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planfit_placed_tasks",
			Help: "Tasks placed by the most recent pass",
		}),
		unscheduled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planfit_unscheduled_tasks",
			Help: "Tasks the most recent pass could not place",
		}),
		gaps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planfit_gaps",
			Help: "Free gaps found by the most recent pass",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planfit_pass_duration_seconds",
			Help:    "Wall time of a placement pass",
			Buckets: prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{s.passes, s.placed, s.unscheduled, s.gaps, s.duration} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordPlan implements coremetrics.PlanSink.
func (s *PromSink) RecordPlan(rec coremetrics.PlanRecord) error {
	s.passes.Inc()
	s.placed.Set(float64(rec.Placed))
	s.unscheduled.Set(float64(rec.Unscheduled))
	s.gaps.Set(float64(rec.Gaps))
	s.duration.Observe(rec.Elapsed.Seconds())
	return nil
}
