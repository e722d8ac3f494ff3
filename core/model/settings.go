package model

import (
	"fmt"
	"time"
)

// Settings defines the scheduling policy: which hours and weekdays are
// workable, how much breathing room is required between placed items and
// what duration a task gets when it does not carry one.
type Settings struct {
	// WorkStartHour and WorkEndHour bound the working day, as hours of
	// the day (0-23). WorkEndHour must be greater than WorkStartHour.
	WorkStartHour int `json:"work_start_hour" yaml:"work_start_hour"`
	WorkEndHour   int `json:"work_end_hour" yaml:"work_end_hour"`
	// WorkDays lists the workable weekdays (time.Sunday == 0).
	WorkDays []time.Weekday `json:"work_days" yaml:"work_days"`
	// MinBreakMinutes is the mandatory spacing between any two placed items.
	MinBreakMinutes int `json:"min_break_minutes" yaml:"min_break_minutes"`
	// DefaultTaskDurationMinutes is used when a task omits a duration.
	DefaultTaskDurationMinutes int `json:"default_task_duration_minutes" yaml:"default_task_duration_minutes"`
}

// SetDefaults applies the reference working week: 9-17, Monday to Friday,
// a 15 minute break and 60 minute tasks.
func (s *Settings) SetDefaults() {
	if s.WorkStartHour == 0 && s.WorkEndHour == 0 {
		s.WorkStartHour = 9
		s.WorkEndHour = 17
	}
	if len(s.WorkDays) == 0 {
		s.WorkDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	}
	if s.MinBreakMinutes == 0 {
		s.MinBreakMinutes = 15
	}
	if s.DefaultTaskDurationMinutes == 0 {
		s.DefaultTaskDurationMinutes = 60
	}
}

// Validate checks the policy for internal consistency.
func (s Settings) Validate() error {
	if s.WorkStartHour < 0 || s.WorkStartHour > 23 {
		return fmt.Errorf("work_start_hour %d out of range 0-23", s.WorkStartHour)
	}
	if s.WorkEndHour < 0 || s.WorkEndHour > 23 {
		return fmt.Errorf("work_end_hour %d out of range 0-23", s.WorkEndHour)
	}
	if s.WorkEndHour <= s.WorkStartHour {
		return fmt.Errorf("work_end_hour %d must be after work_start_hour %d", s.WorkEndHour, s.WorkStartHour)
	}
	for _, d := range s.WorkDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("work day %d out of range 0-6", d)
		}
	}
	if s.MinBreakMinutes < 0 {
		return fmt.Errorf("min_break_minutes must not be negative")
	}
	if s.DefaultTaskDurationMinutes <= 0 {
		return fmt.Errorf("default_task_duration_minutes must be positive")
	}
	return nil
}

// IsWorkDay reports whether d is part of the working week.
func (s Settings) IsWorkDay(d time.Weekday) bool {
	for _, wd := range s.WorkDays {
		if wd == d {
			return true
		}
	}
	return false
}

// MinBreak returns the mandatory break as a duration.
func (s Settings) MinBreak() time.Duration {
	return time.Duration(s.MinBreakMinutes) * time.Minute
}

// DayWindow returns the working-hours window for the calendar day
// containing t, in t's location.
func (s Settings) DayWindow(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	loc := t.Location()
	start = time.Date(y, m, d, s.WorkStartHour, 0, 0, 0, loc)
	end = time.Date(y, m, d, s.WorkEndHour, 0, 0, 0, loc)
	return start, end
}
