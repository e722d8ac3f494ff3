package metrics

import "time"

// PlanRecord summarises one completed placement pass for observability
// sinks.
type PlanRecord struct {
	Timestamp   time.Time     `json:"timestamp"`
	HorizonDays int           `json:"horizon_days"`
	Gaps        int           `json:"gaps"`
	Placed      int           `json:"placed"`
	Unscheduled int           `json:"unscheduled"`
	TravelLegs  int           `json:"travel_legs"`
	Elapsed     time.Duration `json:"elapsed"`
}

// PlanSink receives a record after every placement pass. Implementations
// must be safe for concurrent use but are permitted to drop records on
// backend failure; the plan itself never depends on a sink.
type PlanSink interface {
	RecordPlan(rec PlanRecord) error
}

// NopSink discards all records.
type NopSink struct{}

// RecordPlan implements PlanSink.
func (NopSink) RecordPlan(PlanRecord) error { return nil }

// MultiSink fans records out to several sinks, returning the first error
// encountered.
type MultiSink struct {
	Sinks []PlanSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...PlanSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the record to all sinks.
func (m *MultiSink) RecordPlan(rec PlanRecord) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordPlan(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
