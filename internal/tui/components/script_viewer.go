package components

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/figscript/figscript/internal/tui/styles"
)

// ScriptViewer displays a scrollable, highlighted script preview.
type ScriptViewer struct {
	Lines        []string
	ScrollOffset int
	Height       int
	Width        int
}

// NewScriptViewer creates a new script viewer.
func NewScriptViewer() *ScriptViewer {
	return &ScriptViewer{
		Height: 20,
		Width:  60,
	}
}

// SetContent replaces the script. The scroll position is kept when possible
// so the view does not jump while variables are edited.
func (v *ScriptViewer) SetContent(content string) {
	if content == "" {
		v.Lines = nil
	} else {
		v.Lines = strings.Split(content, "\n")
	}
	v.clampScroll()
}

// Content returns the script as a single string.
func (v *ScriptViewer) Content() string {
	return strings.Join(v.Lines, "\n")
}

// ScrollUp scrolls the view up by n lines.
func (v *ScriptViewer) ScrollUp(n int) {
	v.ScrollOffset -= n
	v.clampScroll()
}

// ScrollDown scrolls the view down by n lines.
func (v *ScriptViewer) ScrollDown(n int) {
	v.ScrollOffset += n
	v.clampScroll()
}

// ScrollToTop scrolls to the top.
func (v *ScriptViewer) ScrollToTop() {
	v.ScrollOffset = 0
}

// ScrollToBottom scrolls to the bottom.
func (v *ScriptViewer) ScrollToBottom() {
	v.ScrollOffset = v.maxOffset()
}

func (v *ScriptViewer) visibleLines() int {
	if v.Height <= 2 {
		return 1
	}
	return v.Height - 1 // footer
}

func (v *ScriptViewer) maxOffset() int {
	maxOffset := len(v.Lines) - v.visibleLines()
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

func (v *ScriptViewer) clampScroll() {
	if v.ScrollOffset > v.maxOffset() {
		v.ScrollOffset = v.maxOffset()
	}
	if v.ScrollOffset < 0 {
		v.ScrollOffset = 0
	}
}

// Render renders the visible window of the script with line numbers.
func (v *ScriptViewer) Render(styleSet styles.Styles) string {
	if len(v.Lines) == 0 {
		return EmptyPreview().Render(styleSet)
	}
	v.clampScroll()

	visible := v.visibleLines()
	endIdx := v.ScrollOffset + visible
	if endIdx > len(v.Lines) {
		endIdx = len(v.Lines)
	}

	lineNumWidth := len(fmt.Sprintf("%d", len(v.Lines)))
	rendered := make([]string, 0, endIdx-v.ScrollOffset+1)
	for i := v.ScrollOffset; i < endIdx; i++ {
		line := v.Lines[i]
		if v.Width > lineNumWidth+3 {
			line = truncateString(line, v.Width-lineNumWidth-3)
		}
		lineNum := styleSet.Muted.Render(fmt.Sprintf("%*d", lineNumWidth, i+1))
		rendered = append(rendered, fmt.Sprintf("%s │ %s", lineNum, HighlightJS(styleSet, line)))
	}

	rendered = append(rendered, v.scrollIndicator(styleSet))
	return strings.Join(rendered, "\n")
}

func (v *ScriptViewer) scrollIndicator(styleSet styles.Styles) string {
	total := len(v.Lines)
	visible := v.visibleLines()
	if total <= visible {
		return styleSet.Muted.Render(fmt.Sprintf("─── %d lines ───", total))
	}

	endLine := v.ScrollOffset + visible
	if endLine > total {
		endLine = total
	}
	percent := (v.ScrollOffset * 100) / (total - visible)
	return styleSet.Muted.Render(fmt.Sprintf("─── %d-%d of %d (%d%%) ───", v.ScrollOffset+1, endLine, total, percent))
}

var jsTokenPattern = regexp.MustCompile(
	`'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"|` + "`(?:[^`\\\\]|\\\\.)*`" + `|//.*$|` +
		`\b(?:const|let|var|for|of|in|if|else|return|function|async|await|new|true|false|null|undefined)\b`,
)

// HighlightJS applies lightweight highlighting to one line of JavaScript:
// comments, string literals, and keywords.
func HighlightJS(styleSet styles.Styles, line string) string {
	matches := jsTokenPattern.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return styleSet.Text.Render(line)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if m[0] > last {
			b.WriteString(styleSet.Text.Render(line[last:m[0]]))
		}
		b.WriteString(tokenStyle(styleSet, line[m[0]:m[1]]).Render(line[m[0]:m[1]]))
		last = m[1]
	}
	if last < len(line) {
		b.WriteString(styleSet.Text.Render(line[last:]))
	}
	return b.String()
}

func tokenStyle(styleSet styles.Styles, token string) lipgloss.Style {
	switch {
	case strings.HasPrefix(token, "//"):
		return styleSet.CodeComment
	case strings.HasPrefix(token, "'"), strings.HasPrefix(token, `"`), strings.HasPrefix(token, "`"):
		return styleSet.CodeString
	default:
		return styleSet.CodeKeyword
	}
}

// RenderScriptPanel renders the viewer inside a titled, bordered panel of
// the given outer size.
func RenderScriptPanel(styleSet styles.Styles, viewer *ScriptViewer, title string, width, height int, focused bool) string {
	if viewer == nil {
		return styleSet.Muted.Render("No script viewer.")
	}

	// Border and padding take four columns; the border and title take three rows.
	viewer.Width = width - 4
	viewer.Height = height - 3
	content := styleSet.Accent.Render(title) + "\n" + viewer.Render(styleSet)

	panel := styleSet.Panel
	if focused {
		panel = styleSet.PanelFocus
	}
	return panel.Width(max(width-2, 1)).Height(max(height-2, 1)).Render(content)
}
