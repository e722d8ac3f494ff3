package availability

import (
	"sort"
	"time"

	"github.com/kilianp07/planfit/core/model"
)

// Gap is a half-open window [Start, End) of unclaimed time inside working
// hours. Gaps are derived fresh on every pass and consumed destructively
// by the placement engine; they are never persisted.
type Gap struct {
	Start time.Time
	End   time.Time
}

// Duration returns the gap length. It can be non-positive after the
// placement engine has shrunk the gap past its end.
func (g Gap) Duration() time.Duration {
	return g.End.Sub(g.Start)
}

// Usable reports whether the gap still holds any schedulable time.
func (g Gap) Usable() bool {
	return g.Duration() > 0
}

// Config tunes gap extraction.
type Config struct {
	// MinTaskDurationMinutes is the smallest task the policy admits. Gaps
	// shorter than MinBreakMinutes + MinTaskDurationMinutes are discarded
	// as unusably small.
	MinTaskDurationMinutes int `json:"min_task_duration_minutes" yaml:"min_task_duration_minutes"`
}

// SetDefaults applies the 15 minute minimum task duration.
func (c *Config) SetDefaults() {
	if c.MinTaskDurationMinutes <= 0 {
		c.MinTaskDurationMinutes = 15
	}
}

// Calculator extracts free gaps from a fixed-interval calendar.
type Calculator struct {
	cfg Config
}

// New returns a Calculator with the given config, applying defaults.
func New(cfg Config) *Calculator {
	cfg.SetDefaults()
	return &Calculator{cfg: cfg}
}

// ComputeGaps walks the horizon day by day and returns the free gaps
// inside working hours, chronologically ordered and non-overlapping.
// Every input interval counts as busy; a placement pass purges generated
// intervals before calling, so only fixed occupants reach this point.
//
// The calculation is pure: identical inputs yield identical output.
func (c *Calculator) ComputeGaps(fixed []model.Interval, st model.Settings, horizonStart, horizonEnd time.Time) []Gap {
	minGap := st.MinBreak() + time.Duration(c.cfg.MinTaskDurationMinutes)*time.Minute

	var gaps []Gap
	y, m, d := horizonStart.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, horizonStart.Location())
	for day.Before(horizonEnd) {
		if st.IsWorkDay(day.Weekday()) {
			gaps = appendDayGaps(gaps, fixed, st, day, horizonStart, minGap)
		}
		day = day.AddDate(0, 0, 1)
	}
	return gaps
}

func appendDayGaps(gaps []Gap, fixed []model.Interval, st model.Settings, day, horizonStart time.Time, minGap time.Duration) []Gap {
	dayStart, dayEnd := st.DayWindow(day)
	effectiveStart := dayStart
	if horizonStart.After(effectiveStart) {
		effectiveStart = horizonStart
	}
	if !effectiveStart.Before(dayEnd) {
		return gaps
	}

	var busy []model.Interval
	for _, iv := range fixed {
		if iv.Overlaps(effectiveStart, dayEnd) {
			busy = append(busy, iv)
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	cursor := effectiveStart
	for _, iv := range busy {
		if cursor.Before(iv.Start) {
			gaps = appendGap(gaps, Gap{Start: cursor, End: iv.Start}, minGap)
		}
		// Overlapping occupants must not drag the cursor backwards.
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if cursor.Before(dayEnd) {
		gaps = appendGap(gaps, Gap{Start: cursor, End: dayEnd}, minGap)
	}
	return gaps
}

func appendGap(gaps []Gap, g Gap, minGap time.Duration) []Gap {
	if g.Duration() < minGap {
		return gaps
	}
	return append(gaps, g)
}
