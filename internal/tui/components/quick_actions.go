package components

import (
	"fmt"
	"strings"

	"github.com/figscript/figscript/internal/tui/styles"
)

// QuickAction represents a keyboard-triggered action.
type QuickAction struct {
	Key     string // Keyboard key (e.g., "a", "K")
	Label   string // Display label (e.g., "Add", "Move up")
	Enabled bool   // Whether the action is available
}

// RenderQuickActionBar renders a horizontal bar of available quick actions.
// Format: "a:Add  /:Filter  c:Copy"
func RenderQuickActionBar(styleSet styles.Styles, actions []QuickAction) string {
	var parts []string
	for _, action := range actions {
		if !action.Enabled {
			continue
		}
		keyStyle := styleSet.Accent.Bold(true)
		part := fmt.Sprintf("%s:%s", keyStyle.Render(action.Key), styleSet.Muted.Render(action.Label))
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}

// ActionState is what the action bars need to know about the session.
type ActionState struct {
	Tasks         int
	SelectedTask  int
	HasSelection  bool
	ScriptPresent bool
}

// CatalogActions returns the actions available while browsing the catalog.
func CatalogActions(state ActionState) []QuickAction {
	return []QuickAction{
		{Key: "enter", Label: "Configure", Enabled: state.HasSelection},
		{Key: "a", Label: "Add", Enabled: state.HasSelection},
		{Key: "/", Label: "Filter", Enabled: true},
		{Key: "c", Label: "Copy", Enabled: state.ScriptPresent},
		{Key: "tab", Label: "Focus", Enabled: true},
		{Key: "q", Label: "Quit", Enabled: true},
	}
}

// TaskActions returns the actions available on the task list. Reorder keys
// are hidden at the ends of the list.
func TaskActions(state ActionState) []QuickAction {
	hasTask := state.Tasks > 0
	return []QuickAction{
		{Key: "e", Label: "Edit", Enabled: hasTask},
		{Key: "d", Label: "Remove", Enabled: hasTask},
		{Key: "K", Label: "Move up", Enabled: hasTask && state.SelectedTask > 0},
		{Key: "J", Label: "Move down", Enabled: hasTask && state.SelectedTask < state.Tasks-1},
		{Key: "c", Label: "Copy", Enabled: state.ScriptPresent},
		{Key: "C", Label: "Clear", Enabled: hasTask},
		{Key: "tab", Label: "Focus", Enabled: true},
		{Key: "q", Label: "Quit", Enabled: true},
	}
}

// PreviewActions returns the actions available on the script preview.
func PreviewActions(state ActionState) []QuickAction {
	return []QuickAction{
		{Key: "j/k", Label: "Scroll", Enabled: state.ScriptPresent},
		{Key: "g/G", Label: "Top/bottom", Enabled: state.ScriptPresent},
		{Key: "c", Label: "Copy", Enabled: state.ScriptPresent},
		{Key: "tab", Label: "Focus", Enabled: true},
		{Key: "q", Label: "Quit", Enabled: true},
	}
}
