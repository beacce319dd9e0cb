package cli

import (
	"github.com/spf13/cobra"

	"github.com/figscript/figscript/internal/tui"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive script builder",
	Long: `Launch the figscript terminal user interface.

Browse the catalog, queue property edits, tune their values, and copy the
merged script without leaving the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// tuiRunner is swapped out in tests.
var tuiRunner = tui.Run

func runTUI() error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "TUI requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use CLI subcommands",
			NextStep: "figscript build -f plan.yaml",
		}
	}

	c, err := loadCatalog()
	if err != nil {
		return err
	}

	cfg := currentConfig()
	renderOpts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}

	return tuiRunner(tui.Config{
		Catalog:        c,
		Theme:          cfg.TUI.Theme,
		NoticeDuration: cfg.TUI.NoticeDuration,
		RenderOptions:  renderOpts,
		ScriptOptions:  cfg.ScriptOptions(),
		CheckScript:    cfg.Script.Check,
		Copy:           copyToClipboard,
	})
}
