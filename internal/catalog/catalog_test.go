package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/figscript/figscript/internal/queue"
	"github.com/figscript/figscript/internal/script"
	"github.com/figscript/figscript/internal/templates"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadBuiltin(t *testing.T) {
	entries, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected builtin entries")
	}

	c := New(entries)
	if c.Len() != len(entries) {
		t.Fatalf("duplicate builtin IDs: %d entries, %d unique", len(entries), c.Len())
	}

	wantSections := []string{"Geometry & Transform", "Auto Layout", "Fill & Stroke", "Effects", "Text"}
	if got := c.Sections(); strings.Join(got, "|") != strings.Join(wantSections, "|") {
		t.Fatalf("Sections() = %v, want %v", got, wantSections)
	}

	for _, id := range []string{"position", "size", "fill-solid", "drop-shadow", "complex-text-styling"} {
		entry, err := c.Get(id)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", id, err)
		}
		if entry.Source != "builtin" {
			t.Fatalf("expected builtin source for %s, got %q", id, entry.Source)
		}
	}
}

func TestBuiltinEntriesBuildValidScripts(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	for _, entry := range c.Entries() {
		t.Run(entry.ID, func(t *testing.T) {
			if problems := entry.CheckVars(entry.Defaults()); len(problems) > 0 {
				t.Fatalf("defaults fail their own checks: %v", problems)
			}

			q := queue.New()
			q.Add(entry.NewTask(nil))
			items := q.RenderEach()
			if len(items) != 1 {
				t.Fatalf("expected one rendered item, got %d", len(items))
			}
			if strings.Contains(items[0].Body, "{{") {
				t.Fatalf("unresolved directive in %q", items[0].Body)
			}

			src, err := script.Build(items, script.DefaultOptions())
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if err := script.Check(src); err != nil {
				t.Fatalf("Check() error = %v\n%s", err, src)
			}
		})
	}
}

func TestBuiltinSizeTemplate(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	entry, err := c.Get("size")
	if err != nil {
		t.Fatalf("Get(size) error = %v", err)
	}

	task := entry.NewTask(map[string]string{"height": ""})
	if got := templates.Render(task.Template, task.Vars); got != "node.resizeWithoutConstraints(200, node.height);" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestEntryNewTask(t *testing.T) {
	entry := &Entry{
		ID:       "opacity",
		Name:     "Opacity",
		Template: "node.opacity = {{opacity}};",
		Comment:  "// Set opacity",
		Helpers:  []string{"convertColor"},
		Inputs: []Input{
			{Key: "opacity", Label: "Opacity", Type: InputNumber, Default: "0.5"},
		},
	}

	task := entry.NewTask(map[string]string{"opacity": "0.8", "extra": "x"})
	if task.ID != "opacity" || task.Name != "Opacity" || task.Comment != "// Set opacity" {
		t.Fatalf("unexpected task metadata: %+v", task)
	}
	if len(task.Vars) != 1 || task.Vars["opacity"] != "0.8" {
		t.Fatalf("unexpected vars: %v", task.Vars)
	}

	task.Helpers[0] = "changed"
	task.Vars["opacity"] = "0.1"
	if entry.Helpers[0] != "convertColor" || entry.Defaults()["opacity"] != "0.5" {
		t.Fatal("task shares state with entry")
	}
}

func TestCheckVars(t *testing.T) {
	lo, hi := 0.0, 1.0
	entry := &Entry{
		ID:       "check",
		Name:     "Check",
		Template: "x",
		Inputs: []Input{
			{Key: "name", Label: "Name", Type: InputText, Required: true},
			{Key: "opacity", Label: "Opacity", Type: InputNumber, Min: &lo, Max: &hi},
			{Key: "align", Label: "Align", Type: InputSelect, Options: []Option{{Value: "CENTER"}, {Value: "INSIDE"}}},
			{Key: "color", Label: "Color", Type: InputColor},
			{Key: "visible", Label: "Visible", Type: InputBoolean},
		},
	}

	tests := []struct {
		name string
		vars map[string]string
		want int
	}{
		{"valid", map[string]string{"name": "a", "opacity": "0.5", "align": "CENTER", "color": "#fff", "visible": "true"}, 0},
		{"missing required", map[string]string{}, 1},
		{"not a number", map[string]string{"name": "a", "opacity": "half"}, 1},
		{"above max", map[string]string{"name": "a", "opacity": "2"}, 1},
		{"below min", map[string]string{"name": "a", "opacity": "-1"}, 1},
		{"bad option", map[string]string{"name": "a", "align": "LEFT"}, 1},
		{"rgba color", map[string]string{"name": "a", "color": "rgba(0, 0, 0, 0.5)"}, 0},
		{"hsl color", map[string]string{"name": "a", "color": "hsl(120, 50%, 50%)"}, 0},
		{"bad color", map[string]string{"name": "a", "color": "blue-ish"}, 1},
		{"bad boolean", map[string]string{"name": "a", "visible": "maybe"}, 1},
		{"many", map[string]string{"opacity": "x", "align": "y"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entry.CheckVars(tt.vars)
			if len(got) != tt.want {
				t.Fatalf("CheckVars() = %v, want %d problems", got, tt.want)
			}
		})
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing section",
			content: "entries:\n  - id: a\n    name: A\n    template: x\n",
			wantErr: "section is required",
		},
		{
			name:    "missing template",
			content: "section: S\nentries:\n  - id: a\n    name: A\n",
			wantErr: "Template",
		},
		{
			name:    "bad input type",
			content: "section: S\nentries:\n  - id: a\n    name: A\n    template: \"{{v}}\"\n    inputs:\n      - key: v\n        type: slider\n",
			wantErr: "Type",
		},
		{
			name:    "select without options",
			content: "section: S\nentries:\n  - id: a\n    name: A\n    template: \"{{v}}\"\n    inputs:\n      - key: v\n        type: select\n",
			wantErr: "Options",
		},
		{
			name:    "undeclared variable",
			content: "section: S\nentries:\n  - id: a\n    name: A\n    template: \"{{v}} {{w}}\"\n    inputs:\n      - key: v\n        type: text\n",
			wantErr: `undeclared input "w"`,
		},
		{
			name:    "malformed template",
			content: "section: S\nentries:\n  - id: a\n    name: A\n    template: \"{{#if v}}x\"\n    inputs:\n      - key: v\n        type: text\n",
			wantErr: "unclosed",
		},
		{
			name:    "unknown helper",
			content: "section: S\nentries:\n  - id: a\n    name: A\n    template: x\n    helpers: [nope]\n",
			wantErr: "unknown helper",
		},
		{
			name:    "duplicate input",
			content: "section: S\nentries:\n  - id: a\n    name: A\n    template: \"{{v}}\"\n    inputs:\n      - key: v\n        type: text\n      - key: v\n        type: text\n",
			wantErr: `duplicate input "v"`,
		},
		{
			name:    "bad default",
			content: "section: S\nentries:\n  - id: a\n    name: A\n    template: \"{{v}}\"\n    inputs:\n      - key: v\n        type: number\n        default: abc\n",
			wantErr: "must be a number",
		},
		{
			name:    "duplicate entry",
			content: "section: S\nentries:\n  - id: a\n    name: A\n    template: x\n  - id: a\n    name: B\n    template: y\n",
			wantErr: `duplicate entry "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "entries.yaml", tt.content)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "section: B\nentries:\n  - id: b\n    name: B\n    template: node.b = 1;\n")
	writeFile(t, dir, "a.yml", "section: A\nentries:\n  - id: a\n    name: A\n    template: node.a = 1;\n")
	writeFile(t, dir, "notes.txt", "ignored")

	entries, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "a" || entries[1].ID != "b" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].Section != "A" || entries[0].Source != filepath.Join(dir, "a.yml") {
		t.Fatalf("unexpected section/source: %q %q", entries[0].Section, entries[0].Source)
	}

	missing, err := LoadDir(filepath.Join(dir, "missing"))
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected empty result for missing dir, got %v, %v", missing, err)
	}
}

func TestLoadFromSearchPathsPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	project := t.TempDir()
	extra := t.TempDir()

	writeFile(t, filepath.Join(project, ".figscript", "catalog"), "custom.yaml", `section: Custom
entries:
  - id: opacity
    name: Project Opacity
    template: node.opacity = 1;
  - id: hide
    name: Hide
    template: node.visible = false;
`)
	writeFile(t, filepath.Join(home, ".config", "figscript", "catalog"), "user.yaml", `section: User
entries:
  - id: hide
    name: User Hide
    template: node.visible = false;
  - id: lock
    name: Lock
    template: node.locked = true;
`)
	writeFile(t, extra, "extra.yaml", `section: Extra
entries:
  - id: lock
    name: Extra Lock
    template: node.locked = true;
`)

	c, err := LoadFromSearchPaths(project, extra)
	if err != nil {
		t.Fatalf("LoadFromSearchPaths() error = %v", err)
	}

	builtins, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}
	if c.Len() != len(builtins)+2 {
		t.Fatalf("expected %d entries, got %d", len(builtins)+2, c.Len())
	}

	checks := map[string]string{
		"opacity": "Project Opacity",
		"hide":    "Hide",
		"lock":    "Extra Lock",
	}
	for id, wantName := range checks {
		entry, err := c.Get(id)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", id, err)
		}
		if entry.Name != wantName {
			t.Fatalf("entry %s name = %q, want %q", id, entry.Name, wantName)
		}
	}

	// The override keeps the builtin's position.
	all := c.Entries()
	for i, entry := range builtins {
		if all[i].ID != entry.ID {
			t.Fatalf("position %d: got %s, want %s", i, all[i].ID, entry.ID)
		}
	}
	if all[len(all)-2].ID != "lock" || all[len(all)-1].ID != "hide" {
		t.Fatalf("unexpected tail order: %s, %s", all[len(all)-2].ID, all[len(all)-1].ID)
	}
}

func TestSearchPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	paths := SearchPaths("/work/site")
	want := []string{
		filepath.Join("/work/site", ".figscript", "catalog"),
		filepath.Join(home, ".config", "figscript", "catalog"),
		filepath.Join("/", "usr", "share", "figscript", "catalog"),
	}
	if strings.Join(paths, "|") != strings.Join(want, "|") {
		t.Fatalf("SearchPaths() = %v, want %v", paths, want)
	}

	if got := SearchPaths(""); len(got) != 2 {
		t.Fatalf("expected 2 paths without project, got %v", got)
	}
}

func TestFilter(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		check  func(*Entry) bool
	}{
		{"section", Filter{Section: "text"}, func(e *Entry) bool { return e.Section == "Text" }},
		{"type", Filter{Type: "group"}, func(e *Entry) bool { return e.SupportsType("GROUP") }},
		{"query", Filter{Query: "BLUR"}, func(e *Entry) bool { return strings.Contains(strings.ToLower(e.Name), "blur") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Filter(tt.filter)
			if len(got) == 0 {
				t.Fatal("expected matches")
			}
			for _, entry := range got {
				if !tt.check(entry) {
					t.Fatalf("entry %s does not match filter %+v", entry.ID, tt.filter)
				}
			}
		})
	}

	if got := c.Filter(Filter{}); len(got) != c.Len() {
		t.Fatalf("empty filter returned %d of %d", len(got), c.Len())
	}
	if got := c.Filter(Filter{Section: "Text", Type: "FRAME"}); len(got) != 0 {
		t.Fatalf("expected no text entries for FRAME, got %d", len(got))
	}
}

func TestGetMissing(t *testing.T) {
	c := New(nil)
	if _, err := c.Get("nope"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
