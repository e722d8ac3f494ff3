package store

import (
	"fmt"
	"time"

	"github.com/kilianp07/planfit/core/model"
)

// Snapshot carries the full persistent state of a planner: the fixed
// calendar, the task list and the policy. Reloading a snapshot must
// reproduce an equivalent planner: same gaps, same placements.
type Snapshot struct {
	SavedAt   time.Time        `json:"saved_at"`
	Settings  model.Settings   `json:"settings"`
	Intervals []model.Interval `json:"intervals"`
	Tasks     []model.Task     `json:"tasks"`
}

// Validate checks every interval and task in the snapshot.
func (s Snapshot) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	for _, iv := range s.Intervals {
		if err := iv.Validate(); err != nil {
			return err
		}
	}
	for _, t := range s.Tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Store persists and restores snapshots.
type Store interface {
	Save(snap Snapshot) error
	// Load returns the most recent snapshot, or ok=false when the store
	// is empty.
	Load() (snap Snapshot, ok bool, err error)
	Close() error
}
