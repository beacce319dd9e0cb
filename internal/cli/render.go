package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/figscript/figscript/internal/events"
	"github.com/figscript/figscript/internal/queue"
	"github.com/figscript/figscript/internal/script"
	"github.com/figscript/figscript/internal/templates"
)

var (
	renderVars []string
	renderWrap bool
	renderCopy bool
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringArrayVarP(&renderVars, "set", "s", nil, "set an input value (key=value, repeatable)")
	renderCmd.Flags().BoolVar(&renderWrap, "wrap", false, "emit a complete script with helpers and the selection loop")
	renderCmd.Flags().BoolVar(&renderCopy, "copy", false, "copy the output to the clipboard")
}

var renderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Render a single catalog entry",
	Long: `Render one catalog entry with its defaults and any --set overrides.

Without --wrap only the entry's statements are printed, which is the live
preview of a single task. Values that do not fit an input are reported as
warnings but still rendered.`,
	Example: `  figscript render opacity
  figscript render fill-solid --set color=#ff0000 --set opacity=0.8
  figscript render drop-shadow --set "color=rgba(0,0,0,0.25)" --wrap --copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := parseVars(renderVars)
		if err != nil {
			return err
		}

		c, err := loadCatalog()
		if err != nil {
			return err
		}
		entry, err := findEntry(c, args[0])
		if err != nil {
			return err
		}

		task := entry.NewTask(vars)

		var warnings []string
		for key := range vars {
			if _, ok := entry.Input(key); !ok {
				warnings = append(warnings, fmt.Sprintf("%s has no input %q", entry.ID, key))
			}
		}
		sort.Strings(warnings)
		warnings = append(warnings, entry.CheckVars(task.Vars)...)

		q, err := newQueue(events.Nop)
		if err != nil {
			return err
		}
		q.Add(task)

		output, err := renderOutput(q, renderWrap)
		if err != nil {
			return err
		}

		copied := false
		if renderCopy && output != "" {
			if err := copyToClipboard(output); err != nil {
				return err
			}
			copied = true
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, map[string]any{
				"id":       entry.ID,
				"name":     entry.Name,
				"vars":     task.Vars,
				"output":   output,
				"wrapped":  renderWrap,
				"warnings": warnings,
				"copied":   copied,
			})
		}

		for _, w := range warnings {
			warnf("%s", w)
		}
		if output != "" {
			fmt.Println(output)
		}
		if copied {
			fmt.Fprintln(os.Stderr, "Copied to clipboard.")
		}
		return nil
	},
}

// renderOutput returns the merged body, or the assembled script when wrap is set.
func renderOutput(q *queue.Queue, wrap bool) (string, error) {
	if !wrap {
		return q.RenderMerged(), nil
	}
	opts := currentConfig().ScriptOptions()
	opts.Wrap = true
	return script.Build(q.RenderEach(), opts)
}

func newQueue(recorder events.Recorder) (*queue.Queue, error) {
	renderOpts, err := currentConfig().RenderOptions()
	if err != nil {
		return nil, err
	}
	return queue.New(
		queue.WithRenderer(templates.NewRenderer(renderOpts)),
		queue.WithRecorder(recorder),
	), nil
}
