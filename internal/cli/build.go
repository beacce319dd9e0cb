package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/events"
	"github.com/figscript/figscript/internal/logging"
	"github.com/figscript/figscript/internal/queue"
	"github.com/figscript/figscript/internal/script"
)

var (
	buildFile       string
	buildOutput     string
	buildCopy       bool
	buildCheck      bool
	buildMinify     bool
	buildNoWrap     bool
	buildNoComments bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildFile, "file", "f", "", "plan file (use - for stdin)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "write the script to a file instead of stdout")
	buildCmd.Flags().BoolVar(&buildCopy, "copy", false, "copy the script to the clipboard")
	buildCmd.Flags().BoolVar(&buildCheck, "check", false, "syntax-check the script before writing it")
	buildCmd.Flags().BoolVar(&buildMinify, "minify", false, "minify the script")
	buildCmd.Flags().BoolVar(&buildNoWrap, "no-wrap", false, "omit the selection loop")
	buildCmd.Flags().BoolVar(&buildNoComments, "no-comments", false, "omit per-task comments")
	buildCmd.MarkFlagRequired("file")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a script from a plan file",
	Long: `Build one Figma plugin script from a plan: an ordered list of catalog
entries and inline templates with their values.

Plan format:

  tasks:
    - entry: fill-solid
      vars: { color: "#ff0000", opacity: "0.8" }
    - entry: corner-radius
      vars: { radius: "12" }
    - name: Hide layer
      template: "node.visible = {{visible}};"
      vars: { visible: "false" }

A task repeated with the same id is ignored, as in the task list. Give a
task an explicit id to apply the same entry twice.`,
	Example: `  figscript build -f plan.yaml
  figscript build -f plan.yaml --check --copy
  cat plan.yaml | figscript build -f - --minify -o script.js`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := readPlan(buildFile)
		if err != nil {
			return err
		}

		c, err := loadCatalog()
		if err != nil {
			return err
		}

		cfg := currentConfig()
		opts := cfg.ScriptOptions()
		if buildNoWrap {
			opts.Wrap = false
		}
		if buildNoComments {
			opts.Comments = false
		}

		settings := buildSettings{
			Script: opts,
			Check:  buildCheck || cfg.Script.Check,
			Minify: buildMinify || cfg.Script.Minify,
		}
		if progressEnabled() {
			settings.Progress = os.Stderr
		}
		result, err := buildPlan(c, plan, settings)
		if err != nil {
			return err
		}

		if buildOutput != "" {
			if err := os.WriteFile(buildOutput, []byte(result.Script+"\n"), 0644); err != nil {
				return fmt.Errorf("failed to write script: %w", err)
			}
		}

		copied := false
		if buildCopy && result.Script != "" {
			if err := copyToClipboard(result.Script); err != nil {
				return err
			}
			copied = true
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, map[string]any{
				"script":   result.Script,
				"tasks":    result.Tasks,
				"rendered": result.Rendered,
				"warnings": result.Warnings,
				"output":   buildOutput,
				"copied":   copied,
			})
		}

		for _, w := range result.Warnings {
			warnf("%s", w)
		}
		if buildOutput == "" && result.Script != "" {
			fmt.Println(result.Script)
		}
		fmt.Fprintf(os.Stderr, "Built %d of %d tasks: %s\n", result.Rendered, result.Tasks, formatWarnings(len(result.Warnings)))
		if buildOutput != "" {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", buildOutput)
		}
		if copied {
			fmt.Fprintln(os.Stderr, "Copied to clipboard.")
		}
		return nil
	},
}

type buildSettings struct {
	Script script.Options
	Check  bool
	Minify bool
	// Progress receives one line per build stage when set.
	Progress io.Writer
}

type buildResult struct {
	Script   string
	Tasks    int
	Rendered int
	Warnings []string
}

func readPlan(path string) (*Plan, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, &PreflightError{
				Message:  fmt.Sprintf("failed to open plan: %v", err),
				Hint:     "Pass a YAML plan file with -f, or - to read stdin",
				NextStep: "figscript build --help",
			}
		}
		defer f.Close()
		r = f
	}
	return parsePlan(r)
}

// buildPlan queues every plan task in order and assembles the script.
func buildPlan(c *catalog.Catalog, plan *Plan, settings buildSettings) (*buildResult, error) {
	logger := logging.Component("build")
	report := newBuildReport(settings.Progress)
	result := &buildResult{}

	recorder := events.RecorderFunc(func(ev events.Event) {
		if ev.Type == events.TypeTaskDuplicate {
			result.Warnings = append(result.Warnings, ev.Message()+"; skipped")
		}
	})
	q, err := newQueue(recorder)
	if err != nil {
		return nil, err
	}

	for i, pt := range plan.Tasks {
		task, warnings, err := resolveTask(c, pt)
		if err != nil {
			return nil, fmt.Errorf("plan task %d: %w", i+1, err)
		}
		result.Warnings = append(result.Warnings, warnings...)
		q.Add(task)
	}
	result.Tasks = q.Len()
	report.queued(q.Len(), len(plan.Tasks))

	items := q.RenderEach()
	result.Rendered = len(items)
	report.rendered(len(items), q.Len(), countHelpers(items))
	if len(items) < q.Len() {
		var empty []string
		rendered := make(map[string]struct{}, len(items))
		for _, item := range items {
			rendered[item.ID] = struct{}{}
		}
		for _, task := range q.Tasks() {
			if _, ok := rendered[task.ID]; !ok {
				empty = append(empty, task.ID)
			}
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("rendered empty and left out: %s", strings.Join(empty, ", ")))
	}

	src, err := script.Build(items, settings.Script)
	if err != nil {
		return nil, err
	}

	if settings.Check {
		if err := script.Check(src); err != nil {
			report.failed("checked", err)
			return nil, err
		}
		report.stage("checked", "syntax ok (%d lines)", strings.Count(src, "\n")+1)
	}

	if settings.Minify && src != "" {
		minified, err := script.Minify(src)
		if err != nil {
			report.failed("minified", err)
			return nil, err
		}
		report.stage("minified", "%d -> %d bytes", len(src), len(minified))
		logger.Debug().Int("before", len(src)).Int("after", len(minified)).Msg("script minified")
		src = minified
	}

	result.Script = src
	logger.Debug().Int("tasks", result.Tasks).Int("rendered", result.Rendered).Msg("script built")
	return result, nil
}

func countHelpers(items []queue.Rendered) int {
	seen := make(map[string]struct{})
	for _, item := range items {
		for _, name := range item.Helpers {
			seen[name] = struct{}{}
		}
	}
	return len(seen)
}
