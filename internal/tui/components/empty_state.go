package components

import (
	"fmt"
	"strings"

	"github.com/figscript/figscript/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Icon is an optional icon to display (e.g., "📭", "🔍").
	Icon string
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Suggestions are actionable keys or commands.
	Suggestions []Suggestion
}

// Suggestion represents a suggested key or command with description.
type Suggestion struct {
	// Command is the key or CLI command (e.g., "a", "figscript catalog list").
	Command string
	// Description explains what it does.
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var lines []string

	titleLine := e.Title
	if e.Icon != "" {
		titleLine = e.Icon + "  " + titleLine
	}
	lines = append(lines, styleSet.Muted.Render(titleLine))

	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		lines = append(lines, styleSet.Text.Render("Get started:"))
		for _, s := range e.Suggestions {
			cmdLine := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				cmdLine += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, cmdLine)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders a compact single-line empty state.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.Title
	if e.Icon != "" {
		line = e.Icon + " " + line
	}
	if len(e.Suggestions) > 0 {
		line += fmt.Sprintf(" Try: %s", e.Suggestions[0].Command)
	}
	return styleSet.Muted.Render(line)
}

// EmptyTaskList returns an empty state for when no tasks are queued.
func EmptyTaskList() EmptyState {
	return EmptyState{
		Icon:     "📭",
		Title:    "Task list is empty",
		Subtitle: "Pick a property from the catalog to queue an edit.",
		Suggestions: []Suggestion{
			{Command: "enter", Description: "configure the selected property"},
			{Command: "a", Description: "add it with default values"},
		},
	}
}

// EmptyCatalog returns an empty state for when no catalog entries are loaded.
func EmptyCatalog() EmptyState {
	return EmptyState{
		Icon:     "📚",
		Title:    "No catalog entries loaded",
		Subtitle: "Add YAML files to .figscript/catalog or ~/.config/figscript/catalog.",
		Suggestions: []Suggestion{
			{Command: "figscript init", Description: "create an example catalog file"},
		},
	}
}

// EmptyCatalogFiltered returns an empty state for when the filter matches nothing.
func EmptyCatalogFiltered(filter string) EmptyState {
	return EmptyState{
		Icon:     "🔍",
		Title:    fmt.Sprintf("No properties match '%s'", filter),
		Subtitle: "Press / to edit or clear the filter.",
	}
}

// EmptyPreview returns an empty state for the script preview.
func EmptyPreview() EmptyState {
	return EmptyState{
		Icon:     "📝",
		Title:    "Nothing to preview",
		Subtitle: "The generated script appears here once tasks render output.",
	}
}
