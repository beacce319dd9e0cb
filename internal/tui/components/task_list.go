package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/figscript/figscript/internal/queue"
	"github.com/figscript/figscript/internal/tui/styles"
)

// TaskList tracks the selection over the queued tasks.
type TaskList struct {
	Index int
}

// Move shifts the selection without wrapping.
func (l *TaskList) Move(delta, count int) {
	l.Index += delta
	l.Clamp(count)
}

// Clamp keeps the selection within count tasks.
func (l *TaskList) Clamp(count int) {
	if l.Index >= count {
		l.Index = count - 1
	}
	if l.Index < 0 {
		l.Index = 0
	}
}

// Render renders one line per task. Variables set to a non-blank value are
// summarized after the task name.
func (l *TaskList) Render(styleSet styles.Styles, tasks []queue.Task, focused bool, width int) []string {
	if len(tasks) == 0 {
		return strings.Split(EmptyTaskList().Render(styleSet), "\n")
	}

	lines := make([]string, 0, len(tasks))
	for idx, task := range tasks {
		label := fmt.Sprintf("%d. %s", idx+1, task.Name)
		if summary := summarizeVars(task); summary != "" {
			label += "  " + summary
		}
		if width > 4 {
			label = truncate(label, width-4)
		}
		switch {
		case idx == l.Index && focused:
			lines = append(lines, styleSet.Focus.Render("> "+label))
		case idx == l.Index:
			lines = append(lines, styleSet.Text.Render("> "+label))
		default:
			lines = append(lines, styleSet.Muted.Render("  "+label))
		}
	}
	return lines
}

func summarizeVars(task queue.Task) string {
	keys := make([]string, 0, len(task.Vars))
	for key, value := range task.Vars {
		if strings.TrimSpace(value) != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = key + "=" + task.Vars[key]
	}
	return strings.Join(parts, " ")
}
