// Package queue provides the ordered task list that accumulates property
// edits and merges them into one script body.
package queue

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/figscript/figscript/internal/events"
	"github.com/figscript/figscript/internal/logging"
	"github.com/figscript/figscript/internal/templates"
)

// ErrIndexOutOfRange is returned by Reorder for indices outside the queue.
var ErrIndexOutOfRange = errors.New("queue index out of range")

// Task is one queued, user-configured instantiation of a template.
type Task struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Template string            `json:"template" yaml:"template"`
	Vars     map[string]string `json:"vars" yaml:"vars"`

	// Comment and Helpers are carried from the catalog entry for script assembly.
	Comment string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Helpers []string `json:"helpers,omitempty" yaml:"helpers,omitempty"`
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	t.Vars = cloneVars(t.Vars)
	t.Helpers = slices.Clone(t.Helpers)
	return t
}

// Rendered is the rendered body of a single task.
type Rendered struct {
	ID      string
	Name    string
	Comment string
	Helpers []string
	Body    string
}

// Queue is an ordered task list with unique IDs. It is owned by a single
// caller and is not safe for concurrent use.
type Queue struct {
	tasks    []Task
	renderer templates.Renderer
	logger   zerolog.Logger
	recorder events.Recorder
}

// Option configures a Queue.
type Option func(*Queue)

// WithRenderer sets the renderer used by RenderMerged and RenderEach.
func WithRenderer(r templates.Renderer) Option {
	return func(q *Queue) {
		q.renderer = r
	}
}

// WithLogger overrides the queue logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(q *Queue) {
		q.logger = logger
	}
}

// WithRecorder reports queue mutations to r.
func WithRecorder(r events.Recorder) Option {
	return func(q *Queue) {
		if r != nil {
			q.recorder = r
		}
	}
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		logger:   logging.Component("queue"),
		recorder: events.Nop,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Tasks returns copies of the queued tasks in order.
func (q *Queue) Tasks() []Task {
	out := make([]Task, len(q.tasks))
	for i, task := range q.tasks {
		out[i] = task.Clone()
	}
	return out
}

// Get returns a copy of the task with the given ID.
func (q *Queue) Get(id string) (Task, bool) {
	idx := q.indexOf(id)
	if idx < 0 {
		return Task{}, false
	}
	return q.tasks[idx].Clone(), true
}

// Add appends a snapshot of task. If a task with the same ID is already
// queued, the queue is left unchanged and Add returns false.
func (q *Queue) Add(task Task) bool {
	if q.indexOf(task.ID) >= 0 {
		q.logger.Debug().Str("task_id", task.ID).Msg("task already queued")
		q.recorder.Record(events.Event{Type: events.TypeTaskDuplicate, TaskID: task.ID, Name: task.Name})
		return false
	}

	q.tasks = append(q.tasks, task.Clone())
	q.logger.Debug().Str("task_id", task.ID).Int("len", len(q.tasks)).Msg("task added")
	q.recorder.Record(events.Event{Type: events.TypeTaskAdded, TaskID: task.ID, Name: task.Name})
	return true
}

// Remove deletes the task with the given ID. Missing IDs are a no-op and
// return false.
func (q *Queue) Remove(id string) bool {
	idx := q.indexOf(id)
	if idx < 0 {
		return false
	}

	removed := q.tasks[idx]
	q.tasks = slices.Delete(q.tasks, idx, idx+1)
	q.logger.Debug().Str("task_id", id).Int("len", len(q.tasks)).Msg("task removed")
	q.recorder.Record(events.Event{Type: events.TypeTaskRemoved, TaskID: id, Name: removed.Name})
	return true
}

// Reorder removes the task at from and reinserts it at to, where to indexes
// the sequence after removal. Both indices must be in [0, Len()).
func (q *Queue) Reorder(from, to int) error {
	n := len(q.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d with %d tasks", ErrIndexOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}

	moved := q.tasks[from]
	q.tasks = slices.Delete(q.tasks, from, from+1)
	q.tasks = slices.Insert(q.tasks, to, moved)

	q.logger.Debug().Str("task_id", moved.ID).Int("from", from).Int("to", to).Msg("task reordered")
	q.recorder.Record(events.Event{Type: events.TypeTaskReordered, TaskID: moved.ID, Name: moved.Name})
	return nil
}

// UpdateVars replaces the variable bindings of the task with the given ID.
// The map is replaced wholesale, not merged. Missing IDs are a no-op and
// return false.
func (q *Queue) UpdateVars(id string, vars map[string]string) bool {
	idx := q.indexOf(id)
	if idx < 0 {
		return false
	}

	q.tasks[idx].Vars = cloneVars(vars)
	q.logger.Debug().Str("task_id", id).Int("vars", len(vars)).Msg("task vars updated")
	q.recorder.Record(events.Event{Type: events.TypeTaskVarsUpdated, TaskID: id, Name: q.tasks[idx].Name})
	return true
}

// Clear empties the queue and returns the number of tasks removed.
func (q *Queue) Clear() int {
	removed := len(q.tasks)
	q.tasks = nil
	q.logger.Debug().Int("removed", removed).Msg("queue cleared")
	q.recorder.Record(events.Event{Type: events.TypeQueueCleared, Detail: pluralTasks(removed)})
	return removed
}

// RenderEach renders every task in order, dropping tasks whose output is
// empty after trimming.
func (q *Queue) RenderEach() []Rendered {
	out := make([]Rendered, 0, len(q.tasks))
	for _, task := range q.tasks {
		body := strings.TrimSpace(q.renderer.Render(task.Template, task.Vars))
		if body == "" {
			continue
		}
		out = append(out, Rendered{
			ID:      task.ID,
			Name:    task.Name,
			Comment: task.Comment,
			Helpers: slices.Clone(task.Helpers),
			Body:    body,
		})
	}
	return out
}

// RenderMerged renders every task in order and joins the non-empty results
// with a blank line. The result is not wrapped in any boilerplate.
func (q *Queue) RenderMerged() string {
	rendered := q.RenderEach()
	bodies := make([]string, len(rendered))
	for i, r := range rendered {
		bodies[i] = r.Body
	}
	return strings.Join(bodies, "\n\n")
}

func (q *Queue) indexOf(id string) int {
	return slices.IndexFunc(q.tasks, func(t Task) bool { return t.ID == id })
}

func cloneVars(vars map[string]string) map[string]string {
	if vars == nil {
		return map[string]string{}
	}
	return maps.Clone(vars)
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
