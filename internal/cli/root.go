// Package cli implements the figscript command line.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/figscript/figscript/internal/config"
	"github.com/figscript/figscript/internal/logging"
)

// Version information, set by the linker.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	configFile     string
	jsonOutput     bool
	jsonlOutput    bool
	logLevel       string
	nonInteractive bool
	noProgress     bool
	projectDir     string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "figscript",
	Short: "Build Figma plugin scripts from a catalog of property edits",
	Long: `figscript turns a catalog of Figma property edits into a single runnable
plugin script. Pick entries, fill in their values, and copy the merged script
into the Figma console or a scripter plugin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ~/.config/figscript/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	rootCmd.PersistentFlags().BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail instead")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress output")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "project directory for .figscript/catalog (default: current directory)")
}

// Execute runs the root command and prints errors in a user-facing form.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

func initApp() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Fix the config file or remove it to use defaults",
			NextStep: "figscript init --force",
		}
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	appConfig = cfg

	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	logger := logging.Component("cli")
	logger.Debug().Str("config", cfg.File).Msg("configuration loaded")
	return nil
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return appConfig
}

func currentConfig() *config.Config {
	if cfg := GetConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

func resolveProjectDir() string {
	if projectDir != "" {
		return projectDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}

// PreflightError is a user-fixable failure with guidance.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

func printError(out io.Writer, err error) {
	var preflight *PreflightError
	if errors.As(err, &preflight) {
		if IsJSONOutput() || IsJSONLOutput() {
			_ = writeJSON(out, map[string]string{
				"error":     preflight.Message,
				"hint":      preflight.Hint,
				"next_step": preflight.NextStep,
			}, false)
			return
		}
		fmt.Fprintf(out, "Error: %s\n", preflight.Message)
		if preflight.Hint != "" {
			fmt.Fprintf(out, "Hint: %s\n", preflight.Hint)
		}
		if preflight.NextStep != "" {
			fmt.Fprintf(out, "Next: %s\n", preflight.NextStep)
		}
		return
	}

	if IsJSONOutput() || IsJSONLOutput() {
		_ = writeJSON(out, map[string]string{"error": err.Error()}, false)
		return
	}
	fmt.Fprintf(out, "Error: %v\n", err)
}

// IsJSONOutput reports whether --json was requested.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was requested.
func IsJSONLOutput() bool {
	return jsonlOutput
}

// WriteOutput writes v as indented JSON, or as one JSON value per line for
// slices when --jsonl is set.
func WriteOutput(out io.Writer, v any) error {
	if IsJSONLOutput() {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				if err := writeJSON(out, rv.Index(i).Interface(), false); err != nil {
					return err
				}
			}
			return nil
		}
		return writeJSON(out, v, false)
	}
	return writeJSON(out, v, true)
}

func writeJSON(out io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+strings.TrimSuffix(format, "\n")+"\n", args...)
}
