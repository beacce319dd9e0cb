package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/script"
)

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, key := range keys {
		updated, _ := m.Update(keyMsg(key))
		next, ok := updated.(model)
		if !ok {
			t.Fatalf("unexpected model type %T", updated)
		}
		m = next
	}
	return m
}

func newTestModel(t *testing.T, copyFn func(string) error) model {
	t.Helper()
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("load builtin catalog: %v", err)
	}
	return newModel(Config{
		Catalog:       cat,
		ScriptOptions: script.DefaultOptions(),
		CheckScript:   true,
		Copy:          copyFn,
	})
}

func taskIDs(m model) []string {
	var ids []string
	for _, task := range m.queue.Tasks() {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestAddSelectedEntry(t *testing.T) {
	m := press(t, newTestModel(t, nil), "a")

	if got := taskIDs(m); len(got) != 1 || got[0] != "position" {
		t.Fatalf("expected position queued, got %v", got)
	}
	if !strings.Contains(m.script, "for (const node of selection) {") {
		t.Fatalf("expected wrapped script, got %q", m.script)
	}
	if !strings.Contains(m.script, "node.x = 100;") || m.scriptErr != nil {
		t.Fatalf("expected valid script with defaults, got %q (%v)", m.script, m.scriptErr)
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Added Position (X / Y)") {
		t.Fatalf("expected add notice in view:\n%s", view)
	}

	m = press(t, m, "a")
	if m.queue.Len() != 1 {
		t.Fatalf("expected duplicate add to be ignored, got %d tasks", m.queue.Len())
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "already in the task list") {
		t.Fatalf("expected duplicate notice in view:\n%s", view)
	}
}

func TestFormPreviewFollowsTyping(t *testing.T) {
	updated, _ := newTestModel(t, nil).Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	m := press(t, updated.(model), "/", "opacity", "enter", "enter")
	if m.mode != modeForm || m.form == nil {
		t.Fatal("expected the var form to open")
	}
	if got := m.formPreview.Content(); !strings.Contains(got, "node.opacity = 0.5;") {
		t.Fatalf("expected preview with the default value, got %q", got)
	}

	m = press(t, m, "5")
	if got := m.formPreview.Content(); !strings.Contains(got, "node.opacity = 0.55;") {
		t.Fatalf("expected preview to follow typing, got %q", got)
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Preview: Opacity") || !strings.Contains(view, "node.opacity = 0.55;") {
		t.Fatalf("expected form preview in view:\n%s", view)
	}
	if m.queue.Len() != 0 {
		t.Fatalf("expected nothing queued while editing, got %d tasks", m.queue.Len())
	}

	m = press(t, m, "backspace", "backspace", "backspace", "backspace")
	if got := m.formPreview.Content(); !strings.Contains(got, "node.opacity = {{opacity}};") {
		t.Fatalf("expected unresolved placeholder once the field is empty, got %q", got)
	}

	m = press(t, m, "esc")
	if m.mode != modeBrowse || m.queue.Len() != 0 {
		t.Fatal("expected cancel to leave the queue untouched")
	}
	if view := ansi.Strip(m.View()); strings.Contains(view, "Preview: Opacity") {
		t.Fatalf("expected the queue preview after cancel:\n%s", view)
	}
}

func TestFilterFormEditReorderRemove(t *testing.T) {
	m := press(t, newTestModel(t, nil), "a", "/", "opacity", "enter")

	if entry := m.palette.SelectedEntry(); entry == nil || entry.ID != "opacity" {
		t.Fatalf("expected opacity selected after filtering, got %+v", entry)
	}
	if m.mode != modeBrowse {
		t.Fatalf("expected browse mode after enter, got %v", m.mode)
	}

	m = press(t, m, "enter")
	if m.mode != modeForm || m.form == nil {
		t.Fatal("expected the var form to open")
	}
	m = press(t, m, "up", "enter")
	if m.mode != modeBrowse {
		t.Fatal("expected form to close on save")
	}
	if got := taskIDs(m); len(got) != 2 || got[1] != "opacity" {
		t.Fatalf("expected opacity appended, got %v", got)
	}
	if !strings.Contains(m.script, "node.opacity = 0.6;") {
		t.Fatalf("expected stepped opacity in script, got %q", m.script)
	}

	m = press(t, m, "tab", "K")
	if got := taskIDs(m); got[0] != "opacity" || got[1] != "position" {
		t.Fatalf("expected opacity moved up, got %v", got)
	}
	if m.tasks.Index != 0 {
		t.Fatalf("expected selection to follow the moved task, got %d", m.tasks.Index)
	}

	m = press(t, m, "K")
	if got := taskIDs(m); got[0] != "opacity" {
		t.Fatalf("expected no move past the top, got %v", got)
	}

	m = press(t, m, "e")
	if m.form == nil || !m.form.Editing() || m.form.Values()["opacity"] != "0.6" {
		t.Fatal("expected edit form with current values")
	}
	m = press(t, m, "down", "down", "enter")
	task, _ := m.queue.Get("opacity")
	if task.Vars["opacity"] != "0.4" {
		t.Fatalf("expected vars updated to 0.4, got %q", task.Vars["opacity"])
	}

	m = press(t, m, "e", "esc")
	if m.form != nil || m.mode != modeBrowse {
		t.Fatal("expected esc to cancel the form")
	}

	m = press(t, m, "d")
	if got := taskIDs(m); len(got) != 1 || got[0] != "position" {
		t.Fatalf("expected opacity removed, got %v", got)
	}
}

func TestFilterEscClearsQuery(t *testing.T) {
	updated, _ := newTestModel(t, nil).Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	m := press(t, updated.(model), "/", "zzz-no-match")
	if len(m.palette.Visible()) != 0 {
		t.Fatal("expected no matches")
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "No properties match 'zzz-no-match'") {
		t.Fatalf("expected filtered empty state:\n%s", view)
	}

	m = press(t, m, "esc")
	if m.palette.Query != "" || len(m.palette.Visible()) == 0 {
		t.Fatal("expected esc to clear the filter")
	}
}

func TestCopyAndClear(t *testing.T) {
	var copied string
	m := newTestModel(t, func(s string) error {
		copied = s
		return nil
	})

	m = press(t, m, "c")
	if copied != "" {
		t.Fatal("expected nothing copied for an empty task list")
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Nothing to copy yet") {
		t.Fatalf("expected empty copy notice:\n%s", view)
	}

	m = press(t, m, "a", "c")
	if copied == "" || copied != m.script {
		t.Fatalf("expected script copied, got %q", copied)
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Copied script to clipboard") {
		t.Fatalf("expected copy notice:\n%s", view)
	}

	m = press(t, m, "C")
	if m.queue.Len() != 0 || m.script != "" {
		t.Fatalf("expected cleared queue and script, got %d tasks", m.queue.Len())
	}
}

func TestCopyFailureIsReported(t *testing.T) {
	m := newTestModel(t, func(string) error { return errors.New("no xclip") })
	m = press(t, m, "a", "c")

	if view := ansi.Strip(m.View()); !strings.Contains(view, "Copy failed: no xclip") {
		t.Fatalf("expected copy failure notice:\n%s", view)
	}
}

func TestSmallTerminal(t *testing.T) {
	updated, _ := newTestModel(t, nil).Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	view := ansi.Strip(updated.View())
	if !strings.Contains(view, "Terminal too small (40x10).") {
		t.Fatalf("expected small terminal warning, got %q", view)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, nil)
	for _, key := range []string{"q", "ctrl+c"} {
		_, cmd := m.Update(keyMsg(key))
		if cmd == nil {
			t.Fatalf("expected quit command for %s", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg for %s", key)
		}
	}

	m = press(t, m, "/")
	updated, _ := m.Update(keyMsg("q"))
	if updated.(model).palette.Query != "q" {
		t.Fatal("expected q to be typed into the filter")
	}
}
