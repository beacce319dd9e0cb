package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/figscript/figscript/internal/events"
	"github.com/figscript/figscript/internal/tui/styles"
)

// RenderEventBadge renders a task list event as an icon and message.
func RenderEventBadge(styleSet styles.Styles, event events.Event) string {
	icon, style := eventDescriptor(styleSet, event.Type)
	return style.Render(fmt.Sprintf("%s %s", icon, event.Message()))
}

func eventDescriptor(styleSet styles.Styles, eventType events.Type) (string, lipgloss.Style) {
	switch eventType {
	case events.TypeTaskAdded:
		return "+", styleSet.Success
	case events.TypeTaskDuplicate:
		return "!", styleSet.Warning
	case events.TypeTaskRemoved:
		return "-", styleSet.Muted
	case events.TypeTaskReordered, events.TypeTaskVarsUpdated:
		return "~", styleSet.Info
	case events.TypeQueueCleared:
		return "x", styleSet.Muted
	case events.TypeScriptCopied:
		return "OK", styleSet.Success
	case events.TypeError:
		return "ERR", styleSet.Error
	default:
		return "-", styleSet.Muted
	}
}
