package planner

import "gonum.org/v1/gonum/stat"

// Stats summarises the most recent pass for reporting: how much free
// time the horizon held, how much of it the plan consumed, and the shape
// of the gap distribution.
type Stats struct {
	Gaps               int     `json:"gaps"`
	FreeMinutes        float64 `json:"free_minutes"`
	ScheduledMinutes   float64 `json:"scheduled_minutes"`
	Utilization        float64 `json:"utilization"`
	MeanGapMinutes     float64 `json:"mean_gap_minutes"`
	StdDevGapMinutes   float64 `json:"std_dev_gap_minutes"`
	PlacedTasks        int     `json:"placed_tasks"`
	UnscheduledTasks   int     `json:"unscheduled_tasks"`
	GeneratedIntervals int     `json:"generated_intervals"`
}

// Stats computes the summary from the most recent pass. A planner that
// has never rescheduled reports zeroes.
func (p *Planner) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		Gaps:               len(p.lastGaps),
		PlacedTasks:        len(p.last.Placements),
		UnscheduledTasks:   len(p.last.Unscheduled),
		GeneratedIntervals: len(p.last.Generated),
	}
	if len(p.lastGaps) == 0 {
		return s
	}

	durations := make([]float64, 0, len(p.lastGaps))
	for _, g := range p.lastGaps {
		mins := g.Duration().Minutes()
		durations = append(durations, mins)
		s.FreeMinutes += mins
	}
	for _, iv := range p.last.Generated {
		s.ScheduledMinutes += iv.Duration().Minutes()
	}
	if s.FreeMinutes > 0 {
		s.Utilization = s.ScheduledMinutes / s.FreeMinutes
	}
	mean, std := stat.MeanStdDev(durations, nil)
	s.MeanGapMinutes = mean
	if len(durations) > 1 {
		s.StdDevGapMinutes = std
	}
	return s
}
