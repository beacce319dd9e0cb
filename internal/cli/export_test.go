package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/tui"
)

func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	t.Cleanup(func() {
		exportDir, exportSection, projectDir = "", "", ""
		jsonOutput = false
		appConfig = nil
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--project", t.TempDir()))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("figscript %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestExportCatalogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exported")
	out := runRoot(t, "export", "catalog", "--dir", dir)

	if !strings.Contains(out, "Wrote "+filepath.Join(dir, "10-geometry-transform.yaml")) {
		t.Fatalf("unexpected output:\n%s", out)
	}

	exported, err := catalog.LoadDir(dir)
	if err != nil {
		t.Fatalf("exported catalog does not load: %v", err)
	}
	builtin := builtinCatalog(t)
	if len(exported) != builtin.Len() {
		t.Fatalf("expected %d exported entries, got %d", builtin.Len(), len(exported))
	}

	reloaded := catalog.New(exported)
	for _, entry := range builtin.Entries() {
		got, err := reloaded.Get(entry.ID)
		if err != nil {
			t.Fatalf("entry %s missing from export", entry.ID)
		}
		if got.Template != entry.Template || got.Section != entry.Section {
			t.Fatalf("entry %s changed in export", entry.ID)
		}
	}
}

func TestExportCatalogSection(t *testing.T) {
	out := runRoot(t, "export", "catalog", "--section", "effects")

	var section exportedSection
	if err := yaml.NewDecoder(strings.NewReader(out)).Decode(&section); err != nil {
		t.Fatalf("decode export: %v\n%s", err, out)
	}
	if section.Section != "Effects" || len(section.Entries) == 0 {
		t.Fatalf("unexpected section %q with %d entries", section.Section, len(section.Entries))
	}
	if strings.Contains(out, "---") {
		t.Fatalf("expected a single document:\n%s", out)
	}
}

func TestSectionSlug(t *testing.T) {
	tests := map[string]string{
		"Geometry & Transform": "geometry-transform",
		"Fill & Stroke":        "fill-stroke",
		"Text":                 "text",
		"  Auto Layout  ":      "auto-layout",
	}
	for name, want := range tests {
		if got := sectionSlug(name); got != want {
			t.Errorf("sectionSlug(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	out := runRoot(t, "version", "--json")
	if !strings.Contains(out, `"version": "dev"`) {
		t.Fatalf("unexpected version output:\n%s", out)
	}
}

func TestRunTUIRequiresTerminal(t *testing.T) {
	original := nonInteractive
	nonInteractive = true
	defer func() { nonInteractive = original }()

	originalRunner := tuiRunner
	defer func() { tuiRunner = originalRunner }()
	tuiRunner = func(tui.Config) error {
		t.Fatal("TUI should not start without a terminal")
		return nil
	}

	var preflight *PreflightError
	if err := runTUI(); !errors.As(err, &preflight) {
		t.Fatalf("expected PreflightError, got %v", err)
	}
}
