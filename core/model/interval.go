package model

import (
	"fmt"
	"time"
)

// IntervalKind discriminates the origin of a calendar interval.
type IntervalKind int

const (
	// KindFixed marks an immovable occupant: a meeting, an imported event
	// or any other appointment the scheduler must route around.
	KindFixed IntervalKind = iota
	// KindTravel marks a synthetic transit leg generated by a placement
	// pass. Purged and regenerated on every reschedule.
	KindTravel
	// KindTask marks the placed body of a task. Purged and regenerated on
	// every reschedule.
	KindTask
)

// String returns a human-readable representation of the interval kind.
func (k IntervalKind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindTravel:
		return "travel"
	case KindTask:
		return "task"
	default:
		return "unknown"
	}
}

// Interval represents one occupied span on the calendar. Fixed intervals
// are created by the user or an importer and never mutated afterwards;
// travel and task intervals only ever come out of a placement pass.
type Interval struct {
	ID       string       `json:"id"`
	Kind     IntervalKind `json:"kind"`
	Name     string       `json:"name"`
	Start    time.Time    `json:"start"`
	End      time.Time    `json:"end"`
	Location string       `json:"location,omitempty"`
	// TaskID links generated intervals back to the task that produced
	// them. Empty for fixed intervals.
	TaskID string `json:"task_id,omitempty"`
}

// Validate checks that the interval is well formed. It is called at the
// input boundary; the scheduling core assumes validated intervals.
func (i Interval) Validate() error {
	if i.Start.IsZero() || i.End.IsZero() {
		return fmt.Errorf("interval %q: start and end are required", i.Name)
	}
	if !i.Start.Before(i.End) {
		return fmt.Errorf("interval %q: start %s must be before end %s", i.Name, i.Start, i.End)
	}
	return nil
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether the interval intersects the half-open window
// [start, end).
func (i Interval) Overlaps(start, end time.Time) bool {
	return i.Start.Before(end) && i.End.After(start)
}
