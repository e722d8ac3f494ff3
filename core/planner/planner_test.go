package planner

import (
	"testing"
	"time"

	"github.com/kilianp07/planfit/core/model"
	"github.com/kilianp07/planfit/internal/eventbus"
)

// Monday 2025-01-06 08:00.
func fixedNow() time.Time {
	return time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
}

func newTestPlanner(t *testing.T, bus eventbus.EventBus) *Planner {
	t.Helper()
	p, err := New(Config{}, bus, nil, nil)
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	p.SetClock(fixedNow)
	return p
}

func TestAddTaskTriggersReschedule(t *testing.T) {
	p := newTestPlanner(t, nil)
	task, err := p.AddTask(model.Task{Name: "report", Priority: 5, DurationMinutes: 30, Deadline: fixedNow().AddDate(0, 0, 2)})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if task.ID == "" {
		t.Fatalf("expected generated id")
	}

	res := p.Result()
	if len(res.Placements) != 1 {
		t.Fatalf("expected the task placed, got %+v", res)
	}
	// Monday 09:00 is the first gap of the horizon.
	want := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	if !res.Placements[0].Start.Equal(want) {
		t.Fatalf("placed at %v, want %v", res.Placements[0].Start, want)
	}
}

func TestAddTaskDefaults(t *testing.T) {
	p := newTestPlanner(t, nil)
	task, err := p.AddTask(model.Task{Name: "untimed", Deadline: fixedNow().AddDate(0, 0, 2)})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if task.DurationMinutes != 60 {
		t.Fatalf("duration default %d, want settings default 60", task.DurationMinutes)
	}
	if task.Priority != 1 {
		t.Fatalf("priority default %d, want 1", task.Priority)
	}
}

func TestAddIntervalRejectsGeneratedKinds(t *testing.T) {
	p := newTestPlanner(t, nil)
	_, err := p.AddInterval(model.Interval{
		Kind:  model.KindTravel,
		Name:  "bogus",
		Start: fixedNow(),
		End:   fixedNow().Add(time.Hour),
	})
	if err == nil {
		t.Fatalf("expected rejection of non-fixed interval")
	}
}

func TestReschedulePurgesGeneratedIntervals(t *testing.T) {
	p := newTestPlanner(t, nil)
	if _, err := p.AddTask(model.Task{Name: "a", Priority: 5, DurationMinutes: 30, Deadline: fixedNow().AddDate(0, 0, 2)}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	first := p.Result()
	if len(first.Generated) != 1 {
		t.Fatalf("expected one generated interval, got %d", len(first.Generated))
	}

	p.Reschedule()
	second := p.Result()
	if len(second.Generated) != 1 {
		t.Fatalf("generated intervals must be purged and regenerated, got %d", len(second.Generated))
	}
	if !first.Placements[0].Start.Equal(second.Placements[0].Start) {
		t.Fatalf("identical inputs must reproduce the plan")
	}
}

func TestFixedIntervalSurvivesReschedule(t *testing.T) {
	p := newTestPlanner(t, nil)
	iv, err := p.AddInterval(model.Interval{
		Kind:  model.KindFixed,
		Name:  "standup",
		Start: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("add interval: %v", err)
	}
	p.Reschedule()
	p.Reschedule()

	snap := p.Snapshot()
	found := false
	for _, s := range snap.Intervals {
		if s.ID == iv.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("fixed interval lost across passes")
	}
}

func TestTaskScheduledAroundFixedInterval(t *testing.T) {
	p := newTestPlanner(t, nil)
	if _, err := p.AddInterval(model.Interval{
		Kind:  model.KindFixed,
		Name:  "meeting",
		Start: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("add interval: %v", err)
	}
	if _, err := p.AddTask(model.Task{Name: "a", Priority: 5, DurationMinutes: 30, Deadline: fixedNow().AddDate(0, 0, 2)}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	res := p.Result()
	want := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	if len(res.Placements) != 1 || !res.Placements[0].Start.Equal(want) {
		t.Fatalf("task must land after the meeting, got %+v", res.Placements)
	}
}

func TestUpdateSettingsReschedules(t *testing.T) {
	p := newTestPlanner(t, nil)
	if _, err := p.AddTask(model.Task{Name: "a", Priority: 5, DurationMinutes: 30, Deadline: fixedNow().AddDate(0, 0, 2)}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	st := p.Settings()
	st.WorkStartHour = 13
	if err := p.UpdateSettings(st); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	res := p.Result()
	want := time.Date(2025, 1, 6, 13, 0, 0, 0, time.UTC)
	if len(res.Placements) != 1 || !res.Placements[0].Start.Equal(want) {
		t.Fatalf("task must follow the new working hours, got %+v", res.Placements)
	}

	st.WorkEndHour = st.WorkStartHour
	if err := p.UpdateSettings(st); err == nil {
		t.Fatalf("expected invalid settings rejected")
	}
}

func TestRemoveTask(t *testing.T) {
	p := newTestPlanner(t, nil)
	task, err := p.AddTask(model.Task{Name: "a", Priority: 5, DurationMinutes: 30, Deadline: fixedNow().AddDate(0, 0, 2)})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if !p.RemoveTask(task.ID) {
		t.Fatalf("task not found for removal")
	}
	if p.RemoveTask(task.ID) {
		t.Fatalf("double removal must report false")
	}
	if got := len(p.Result().Placements); got != 0 {
		t.Fatalf("expected empty plan after removal, got %d placements", got)
	}
}

func TestSnapshotRestoreEquivalence(t *testing.T) {
	p := newTestPlanner(t, nil)
	if _, err := p.AddInterval(model.Interval{
		Kind:  model.KindFixed,
		Name:  "meeting",
		Start: time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 7, 11, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("add interval: %v", err)
	}
	if _, err := p.AddTask(model.Task{Name: "a", Priority: 5, DurationMinutes: 45, Deadline: fixedNow().AddDate(0, 0, 3)}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	want := p.Result()

	other := newTestPlanner(t, nil)
	if err := other.Restore(p.Snapshot()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got := other.Result()
	if len(got.Placements) != len(want.Placements) {
		t.Fatalf("restored planner disagrees: %d vs %d placements", len(got.Placements), len(want.Placements))
	}
	for i := range want.Placements {
		if want.Placements[i] != got.Placements[i] {
			t.Fatalf("placement %d differs after restore", i)
		}
	}
}

func TestPlanUpdatedPublished(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe()
	p := newTestPlanner(t, bus)

	p.Reschedule()
	select {
	case ev := <-sub:
		if _, ok := ev.(PlanUpdated); !ok {
			t.Fatalf("unexpected event %T", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no PlanUpdated event")
	}
}

func TestStats(t *testing.T) {
	p := newTestPlanner(t, nil)
	if got := p.Stats(); got.Gaps != 0 {
		t.Fatalf("fresh planner must report zero stats, got %+v", got)
	}

	if _, err := p.AddTask(model.Task{Name: "a", Priority: 5, DurationMinutes: 60, Deadline: fixedNow().AddDate(0, 0, 2)}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	s := p.Stats()
	if s.Gaps == 0 || s.PlacedTasks != 1 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.ScheduledMinutes != 60 {
		t.Fatalf("scheduled minutes %v, want 60", s.ScheduledMinutes)
	}
	if s.Utilization <= 0 || s.Utilization > 1 {
		t.Fatalf("utilization %v out of range", s.Utilization)
	}
	if s.MeanGapMinutes <= 0 {
		t.Fatalf("mean gap must be positive, got %v", s.MeanGapMinutes)
	}
}
