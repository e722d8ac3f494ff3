package model

import (
	"fmt"
	"time"
)

// Task represents a unit of schedulable work waiting for a free gap.
// The identity fields persist across reschedule passes; the scheduling
// state is reset and recomputed on every pass.
type Task struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"` // higher = more urgent
	// DurationMinutes is the working time the task needs, excluding travel.
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location,omitempty"`
	Deadline        time.Time `json:"deadline"`
	// PreTravelMinutes and PostTravelMinutes are optional transit legs
	// placed immediately before and after the task.
	PreTravelMinutes  int `json:"pre_travel_minutes,omitempty"`
	PostTravelMinutes int `json:"post_travel_minutes,omitempty"`

	// Scheduling state, owned by the placement engine.
	Scheduled      bool      `json:"scheduled"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
}

// Validate checks that the task configuration is sound.
func (t Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("task %q: duration must be positive", t.Name)
	}
	if t.PreTravelMinutes < 0 || t.PostTravelMinutes < 0 {
		return fmt.Errorf("task %q: travel durations must not be negative", t.Name)
	}
	return nil
}

// TotalMinutes returns the full footprint of the task including both
// travel legs.
func (t Task) TotalMinutes() int {
	return t.DurationMinutes + t.PreTravelMinutes + t.PostTravelMinutes
}

// ResetSchedule clears the scheduling state ahead of a placement pass.
func (t *Task) ResetSchedule() {
	t.Scheduled = false
	t.ScheduledStart = time.Time{}
	t.ScheduledEnd = time.Time{}
}
