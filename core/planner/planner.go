package planner

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/planfit/core/availability"
	"github.com/kilianp07/planfit/core/logger"
	"github.com/kilianp07/planfit/core/metrics"
	"github.com/kilianp07/planfit/core/model"
	"github.com/kilianp07/planfit/core/plan"
	"github.com/kilianp07/planfit/core/store"
	"github.com/kilianp07/planfit/internal/eventbus"
)

// PlanUpdated is published on the event bus after every placement pass.
type PlanUpdated struct {
	At     time.Time
	Result plan.Result
}

// Planner owns one user's calendar state: the fixed intervals, the task
// list and the policy. It re-derives the whole schedule from scratch on
// every mutation; nothing is incremental. All methods are safe for
// concurrent use, and each planner is an independent unit with no shared
// state.
type Planner struct {
	mu        sync.Mutex
	settings  model.Settings
	horizon   time.Duration
	calc      *availability.Calculator
	engine    *plan.Engine
	intervals []model.Interval
	tasks     []model.Task
	last      plan.Result
	lastGaps  []availability.Gap

	bus  eventbus.EventBus
	sink metrics.PlanSink
	log  logger.Logger
	now  func() time.Time
}

// nopLogger keeps the planner usable without a configured logger.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// New creates a planner from the given config. bus, sink and log may be
// nil; missing collaborators degrade to no-ops.
func New(cfg Config, bus eventbus.EventBus, sink metrics.PlanSink, log logger.Logger) (*Planner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Planner{
		settings: cfg.Settings,
		horizon:  time.Duration(cfg.HorizonDays) * 24 * time.Hour,
		calc:     availability.New(cfg.Availability),
		engine:   plan.NewEngine(),
		bus:      bus,
		sink:     sink,
		log:      log,
		now:      time.Now,
	}, nil
}

// SetClock overrides the time source. Intended for tests.
func (p *Planner) SetClock(now func() time.Time) {
	p.mu.Lock()
	p.now = now
	p.mu.Unlock()
}

// Reschedule purges every generated interval and runs a full placement
// pass over [now, now+horizon). It returns the new result.
func (p *Planner) Reschedule() plan.Result {
	p.mu.Lock()
	res := p.rescheduleLocked()
	bus := p.bus
	at := p.now()
	p.mu.Unlock()

	if bus != nil {
		bus.Publish(PlanUpdated{At: at, Result: res})
	}
	return res
}

// rescheduleLocked is the pass itself; callers hold p.mu.
func (p *Planner) rescheduleLocked() plan.Result {
	started := p.now()
	horizonStart := started
	horizonEnd := horizonStart.Add(p.horizon)

	// Only explicitly fixed intervals survive a pass.
	fixed := p.intervals[:0:0]
	for _, iv := range p.intervals {
		if iv.Kind == model.KindFixed {
			fixed = append(fixed, iv)
		}
	}

	gaps := p.calc.ComputeGaps(fixed, p.settings, horizonStart, horizonEnd)
	res := p.engine.Schedule(p.tasks, gaps, p.settings)

	p.applyTaskStates(res.Tasks)
	p.intervals = append(fixed, res.Generated...)
	p.last = res
	p.lastGaps = gaps

	travel := 0
	for _, iv := range res.Generated {
		if iv.Kind == model.KindTravel {
			travel++
		}
	}
	rec := metrics.PlanRecord{
		Timestamp:   started,
		HorizonDays: int(p.horizon / (24 * time.Hour)),
		Gaps:        len(gaps),
		Placed:      len(res.Placements),
		Unscheduled: len(res.Unscheduled),
		TravelLegs:  travel,
		Elapsed:     p.now().Sub(started),
	}
	if err := p.sink.RecordPlan(rec); err != nil {
		p.log.Warnf("plan metrics: %v", err)
	}
	p.log.Debugw("reschedule complete", map[string]any{
		"gaps":        len(gaps),
		"placed":      len(res.Placements),
		"unscheduled": len(res.Unscheduled),
	})
	return res
}

// applyTaskStates copies the scheduling state computed by the engine back
// onto the task list without disturbing its order.
func (p *Planner) applyTaskStates(updated []model.Task) {
	byID := make(map[string]model.Task, len(updated))
	for _, t := range updated {
		byID[t.ID] = t
	}
	for i := range p.tasks {
		if t, ok := byID[p.tasks[i].ID]; ok {
			p.tasks[i] = t
		}
	}
}

// AddTask validates and stores a task, then reschedules. A missing ID is
// generated, a missing duration takes the settings default and a missing
// priority becomes 1.
func (p *Planner) AddTask(t model.Task) (model.Task, error) {
	p.mu.Lock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.DurationMinutes == 0 {
		t.DurationMinutes = p.settings.DefaultTaskDurationMinutes
	}
	if t.Priority == 0 {
		t.Priority = 1
	}
	if err := t.Validate(); err != nil {
		p.mu.Unlock()
		return model.Task{}, err
	}
	t.ResetSchedule()
	p.tasks = append(p.tasks, t)
	p.mu.Unlock()

	p.Reschedule()
	return t, nil
}

// RemoveTask deletes the task with the given id and reschedules. It
// reports whether the task existed.
func (p *Planner) RemoveTask(id string) bool {
	p.mu.Lock()
	found := false
	for i, t := range p.tasks {
		if t.ID == id {
			p.tasks = append(p.tasks[:i], p.tasks[i+1:]...)
			found = true
			break
		}
	}
	p.mu.Unlock()
	if found {
		p.Reschedule()
	}
	return found
}

// AddInterval validates and stores a fixed interval, then reschedules.
// Generated kinds are rejected: travel and task intervals only ever come
// out of a placement pass.
func (p *Planner) AddInterval(iv model.Interval) (model.Interval, error) {
	if iv.Kind != model.KindFixed {
		return model.Interval{}, fmt.Errorf("interval %q: only fixed intervals can be added", iv.Name)
	}
	if err := iv.Validate(); err != nil {
		return model.Interval{}, err
	}
	p.mu.Lock()
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	p.intervals = append(p.intervals, iv)
	p.mu.Unlock()

	p.Reschedule()
	return iv, nil
}

// RemoveInterval deletes the fixed interval with the given id and
// reschedules. It reports whether the interval existed.
func (p *Planner) RemoveInterval(id string) bool {
	p.mu.Lock()
	found := false
	for i, iv := range p.intervals {
		if iv.ID == id && iv.Kind == model.KindFixed {
			p.intervals = append(p.intervals[:i], p.intervals[i+1:]...)
			found = true
			break
		}
	}
	p.mu.Unlock()
	if found {
		p.Reschedule()
	}
	return found
}

// UpdateSettings replaces the policy and reschedules.
func (p *Planner) UpdateSettings(st model.Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.settings = st
	p.mu.Unlock()

	p.Reschedule()
	return nil
}

// Settings returns a copy of the current policy.
func (p *Planner) Settings() model.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// Result returns the outcome of the most recent pass.
func (p *Planner) Result() plan.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Snapshot captures the persistent state for the store.
func (p *Planner) Snapshot() store.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := store.Snapshot{
		SavedAt:   p.now(),
		Settings:  p.settings,
		Intervals: append([]model.Interval(nil), p.intervals...),
		Tasks:     append([]model.Task(nil), p.tasks...),
	}
	return snap
}

// Restore replaces the planner state with a snapshot and reschedules.
func (p *Planner) Restore(snap store.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	p.mu.Lock()
	p.settings = snap.Settings
	p.intervals = append([]model.Interval(nil), snap.Intervals...)
	p.tasks = append([]model.Task(nil), snap.Tasks...)
	p.mu.Unlock()

	p.Reschedule()
	return nil
}
