package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/config"
)

var (
	initForce   bool
	initProject bool

	// configDirFunc is swapped out in tests.
	configDirFunc = config.DefaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	initCmd.Flags().BoolVar(&initProject, "project-catalog", false, "also create .figscript/catalog/example.yaml in the project")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and an example catalog",
	Long: `Create ~/.config/figscript/config.yaml with every setting at its default.

With --project-catalog, also write an example catalog section into the
project's .figscript/catalog directory to show the entry format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{checkPrerequisites(), createConfigFile()}
		if initProject {
			results = append(results, createProjectCatalog(resolveProjectDir()))
		}

		if IsJSONOutput() || IsJSONLOutput() {
			out := make([]map[string]string, len(results))
			for i, r := range results {
				out[i] = map[string]string{"step": r.name, "status": r.status, "message": r.message}
			}
			return WriteOutput(cmd.OutOrStdout(), out)
		}

		failed := false
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", initStatusIcon(r.status), r.name, r.message)
			if r.status == "failed" {
				failed = true
			}
		}
		if failed {
			return errors.New("init did not complete")
		}
		return nil
	},
}

type initResult struct {
	name    string
	status  string // done, skipped, failed
	message string
}

func initStatusIcon(status string) string {
	switch status {
	case "done":
		return colorize("✓", colorGreen)
	case "skipped":
		return colorize("-", colorYellow)
	default:
		return colorize("✗", colorRed)
	}
}

const configTemplate = `# figscript configuration
# Every value below is the default. Environment variables override the file,
# e.g. FIGSCRIPT_RENDER_UNRESOLVED=empty or FIGSCRIPT_TUI_THEME=high-contrast.

render:
  # keep: leave {{name}} in the output when name has no value
  # empty: drop it
  unresolved: keep
  # collapse: squash runs of blank lines into one; strip: remove them all
  blank_lines: collapse

script:
  # wrap the body in a loop over figma.currentPage.selection
  wrap: true
  # prefix each task with its catalog comment
  comments: true
  indent: "  "
  # syntax-check the generated script before printing it
  check: false
  minify: false

catalog:
  # extra directories of catalog YAML files, searched first
  dirs: []

tui:
  # default or high-contrast
  theme: default
  notice_duration: 3s

logging:
  # debug, info, warn, error
  level: warn
  # text or json
  format: text
`

const exampleCatalog = `# Example catalog section. Entries here override built-in entries with the
# same id. Run "figscript catalog show hide-layer" to see it loaded.
section: Custom
entries:
  - id: hide-layer
    name: Hide or Show Layer
    description: Toggle layer visibility
    comment: "// Toggle visibility"
    inputs:
      - key: visible
        label: Visible
        type: boolean
        default: "false"
    template: "node.visible = {{visible}};"
`

func createConfigFile() initResult {
	result := initResult{name: "Config file"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce {
		result.status = "skipped"
		result.message = fmt.Sprintf("%s already exists (use --force to overwrite)", path)
		return result
	}

	if err := writeInitFile(path, configTemplate); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	result.status = "done"
	result.message = fmt.Sprintf("wrote %s", path)
	return result
}

func createProjectCatalog(project string) initResult {
	result := initResult{name: "Project catalog"}
	if project == "" {
		result.status = "failed"
		result.message = "could not determine the project directory (use --project)"
		return result
	}

	path := filepath.Join(catalog.SearchPaths(project)[0], "example.yaml")
	if _, err := os.Stat(path); err == nil && !initForce {
		result.status = "skipped"
		result.message = fmt.Sprintf("%s already exists (use --force to overwrite)", path)
		return result
	}

	if err := writeInitFile(path, exampleCatalog); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	result.status = "done"
	result.message = fmt.Sprintf("wrote %s", path)
	return result
}

func writeInitFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// checkPrerequisites reports whether clipboard copy will work. Everything
// else figscript needs is built in.
func checkPrerequisites() initResult {
	result := initResult{name: "Prerequisites"}
	if !clipboardSupported() {
		result.status = "skipped"
		result.message = "no clipboard tool found; --copy and the TUI copy key will fail (install xclip, xsel or wl-clipboard)"
		return result
	}
	result.status = "done"
	result.message = "clipboard available"
	return result
}
