package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/figscript/figscript/internal/tui/styles"
)

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "node.x = " + strings.Repeat("1", i+1) + ";"
	}
	return strings.Join(lines, "\n")
}

func TestScriptViewerScroll(t *testing.T) {
	viewer := NewScriptViewer()
	viewer.Height = 5 // 4 visible lines
	viewer.SetContent(numberedLines(10))

	viewer.ScrollDown(3)
	if viewer.ScrollOffset != 3 {
		t.Fatalf("expected ScrollOffset 3, got %d", viewer.ScrollOffset)
	}

	viewer.ScrollDown(100)
	if viewer.ScrollOffset != 6 {
		t.Fatalf("expected ScrollOffset clamped to 6, got %d", viewer.ScrollOffset)
	}

	viewer.ScrollUp(100)
	if viewer.ScrollOffset != 0 {
		t.Fatalf("expected ScrollOffset 0, got %d", viewer.ScrollOffset)
	}

	viewer.ScrollToBottom()
	if viewer.ScrollOffset != 6 {
		t.Fatalf("expected ScrollOffset 6 at bottom, got %d", viewer.ScrollOffset)
	}

	viewer.SetContent(numberedLines(2))
	if viewer.ScrollOffset != 0 {
		t.Fatalf("expected ScrollOffset reset for short content, got %d", viewer.ScrollOffset)
	}
}

func TestScriptViewerRender(t *testing.T) {
	styleSet := styles.DefaultStyles()
	viewer := NewScriptViewer()
	viewer.Height = 3
	viewer.Width = 0
	viewer.SetContent("// Opacity\nnode.opacity = 0.5;\nnode.visible = true;")

	out := ansi.Strip(viewer.Render(styleSet))
	if !strings.Contains(out, "1 │ // Opacity") {
		t.Fatalf("expected first line with number, got %q", out)
	}
	if strings.Contains(out, "node.visible") {
		t.Fatalf("expected third line to be scrolled out, got %q", out)
	}
	if !strings.Contains(out, "1-2 of 3") {
		t.Fatalf("expected scroll indicator, got %q", out)
	}

	viewer.SetContent("")
	if out := ansi.Strip(viewer.Render(styleSet)); !strings.Contains(out, "Nothing to preview") {
		t.Fatalf("expected empty preview, got %q", out)
	}
	if viewer.Content() != "" {
		t.Fatalf("expected empty content, got %q", viewer.Content())
	}
}

func TestRenderScriptPanel(t *testing.T) {
	styleSet := styles.DefaultStyles()
	viewer := NewScriptViewer()
	viewer.SetContent("node.opacity = 0.5;")

	out := ansi.Strip(RenderScriptPanel(styleSet, viewer, "Script preview", 50, 10, true))
	if !strings.Contains(out, "Script preview") || !strings.Contains(out, "node.opacity = 0.5;") {
		t.Fatalf("expected title and script, got %q", out)
	}
	if viewer.Width != 46 || viewer.Height != 7 {
		t.Fatalf("expected viewer sized to 46x7, got %dx%d", viewer.Width, viewer.Height)
	}
	if viewer.Content() != "node.opacity = 0.5;" {
		t.Fatalf("unexpected content %q", viewer.Content())
	}
}

func TestHighlightJSPreservesText(t *testing.T) {
	styleSet := styles.DefaultStyles()
	lines := []string{
		"",
		"for (const node of figma.currentPage.selection) {",
		"  node.name = 'a // not a comment';",
		`  const s = "x\"y"; // trailing`,
		"  await loadFonts(node);",
		"plain text",
	}

	for _, line := range lines {
		if got := ansi.Strip(HighlightJS(styleSet, line)); got != line {
			t.Fatalf("HighlightJS(%q) changed text to %q", line, got)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("abcdef", 3); got != "abc" {
		t.Fatalf("truncateString = %q", got)
	}
	if got := truncateString("ab", 3); got != "ab" {
		t.Fatalf("truncateString = %q", got)
	}
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
}
