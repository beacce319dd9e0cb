// Package events records short-lived task list events for user feedback.
package events

import (
	"fmt"
	"time"
)

// Type categorizes events.
type Type string

const (
	TypeTaskAdded       Type = "task.added"
	TypeTaskDuplicate   Type = "task.duplicate"
	TypeTaskRemoved     Type = "task.removed"
	TypeTaskReordered   Type = "task.reordered"
	TypeTaskVarsUpdated Type = "task.vars_updated"
	TypeQueueCleared    Type = "queue.cleared"
	TypeScriptCopied    Type = "script.copied"
	TypeError           Type = "error"
)

// Event is a single notification about a change to the task list or script.
type Event struct {
	Type   Type
	TaskID string
	Name   string
	Detail string
	At     time.Time
}

// Message returns a short human-readable description of the event.
func (e Event) Message() string {
	label := e.Name
	if label == "" {
		label = e.TaskID
	}

	switch e.Type {
	case TypeTaskAdded:
		return fmt.Sprintf("Added %s", label)
	case TypeTaskDuplicate:
		return fmt.Sprintf("%s is already in the task list", label)
	case TypeTaskRemoved:
		return fmt.Sprintf("Removed %s", label)
	case TypeTaskReordered:
		return fmt.Sprintf("Moved %s", label)
	case TypeTaskVarsUpdated:
		return fmt.Sprintf("Updated %s", label)
	case TypeQueueCleared:
		return fmt.Sprintf("Cleared %s", e.Detail)
	case TypeScriptCopied:
		return "Copied script to clipboard"
	case TypeError:
		return e.Detail
	default:
		return string(e.Type)
	}
}

// Recorder receives events.
type Recorder interface {
	Record(event Event)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(Event)

// Record calls f(event).
func (f RecorderFunc) Record(event Event) {
	f(event)
}

// Nop discards events.
var Nop Recorder = RecorderFunc(func(Event) {})
