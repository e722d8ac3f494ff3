package plan

import (
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/planfit/core/availability"
	"github.com/kilianp07/planfit/core/model"
)

// Placement binds a task to concrete start and end times.
type Placement struct {
	TaskID string    `json:"task_id"`
	Name   string    `json:"name"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Result is the outcome of one placement pass. Placements follow task
// processing order, not chronological order; consumers that want a
// timeline must sort by Start themselves. Generated holds the travel and
// task intervals the pass produced, ready to be merged into the calendar
// until the next pass purges them again.
type Result struct {
	Placements  []Placement      `json:"placements"`
	Generated   []model.Interval `json:"generated"`
	Tasks       []model.Task     `json:"tasks"`
	Unscheduled []model.Task     `json:"unscheduled"`
}

// Engine greedily assigns tasks to gaps, highest priority first with
// earlier deadlines breaking ties. Each task takes the first gap big
// enough for its full footprint (task plus travel legs); inability to
// place a task is a reported outcome, never an error.
type Engine struct{}

// NewEngine returns a placement engine.
func NewEngine() *Engine { return &Engine{} }

// Schedule runs one full placement pass. The input slices are not
// mutated; the returned Result carries updated task copies. The pass is
// deterministic: the sort is stable, so tasks equal on (priority,
// deadline) keep their input order.
func (e *Engine) Schedule(tasks []model.Task, gaps []availability.Gap, st model.Settings) Result {
	queue := make([]model.Task, len(tasks))
	copy(queue, tasks)
	for i := range queue {
		queue[i].ResetSchedule()
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].Priority != queue[j].Priority {
			return queue[i].Priority > queue[j].Priority
		}
		return queue[i].Deadline.Before(queue[j].Deadline)
	})

	free := make([]availability.Gap, len(gaps))
	copy(free, gaps)

	res := Result{}
	for qi := range queue {
		task := &queue[qi]
		if !e.place(task, free, st, &res) {
			res.Unscheduled = append(res.Unscheduled, *task)
		}
	}
	res.Tasks = queue
	return res
}

// place scans the gaps in order and claims the first one that fits the
// task's total footprint. The claimed gap is shrunk in place: its start
// moves past the placed items and the mandatory break, and a gap pushed
// to non-positive duration is simply unusable for later tasks.
func (e *Engine) place(task *model.Task, free []availability.Gap, st model.Settings, res *Result) bool {
	total := time.Duration(task.TotalMinutes()) * time.Minute
	for gi := range free {
		gap := &free[gi]
		if !gap.Usable() || gap.Duration() < total {
			continue
		}

		cursor := gap.Start
		if task.PreTravelMinutes > 0 {
			legEnd := cursor.Add(time.Duration(task.PreTravelMinutes) * time.Minute)
			res.Generated = append(res.Generated, travelLeg(task, cursor, legEnd, "to"))
			cursor = legEnd
		}

		start := cursor
		end := start.Add(time.Duration(task.DurationMinutes) * time.Minute)
		res.Generated = append(res.Generated, model.Interval{
			ID:       task.ID + ":body",
			Kind:     model.KindTask,
			Name:     task.Name,
			Start:    start,
			End:      end,
			Location: task.Location,
			TaskID:   task.ID,
		})
		cursor = end

		if task.PostTravelMinutes > 0 {
			legEnd := cursor.Add(time.Duration(task.PostTravelMinutes) * time.Minute)
			res.Generated = append(res.Generated, travelLeg(task, cursor, legEnd, "from"))
			cursor = legEnd
		}

		gap.Start = cursor.Add(st.MinBreak())

		task.Scheduled = true
		task.ScheduledStart = start
		task.ScheduledEnd = end
		res.Placements = append(res.Placements, Placement{TaskID: task.ID, Name: task.Name, Start: start, End: end})
		return true
	}
	return false
}

func travelLeg(task *model.Task, start, end time.Time, direction string) model.Interval {
	return model.Interval{
		ID:       fmt.Sprintf("%s:%s", task.ID, direction),
		Kind:     model.KindTravel,
		Name:     fmt.Sprintf("travel %s %s", direction, task.Name),
		Start:    start,
		End:      end,
		Location: task.Location,
		TaskID:   task.ID,
	}
}
