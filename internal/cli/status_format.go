package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
)

func colorize(s, color string) string {
	if !colorEnabled() || color == "" {
		return s
	}
	return color + s + colorReset
}

func colorEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return hasTTY()
}

// sourceLabel classifies where a catalog entry came from.
func sourceLabel(source, userDir, projectDir string) string {
	switch {
	case source == "builtin" || source == "":
		return "builtin"
	case projectDir != "" && isWithin(source, projectDir):
		return "project"
	case userDir != "" && isWithin(source, userDir):
		return "user"
	default:
		return "file"
	}
}

func formatSource(label string) string {
	switch label {
	case "builtin":
		return label
	case "project":
		return colorize(label, colorGreen)
	case "user":
		return colorize(label, colorCyan)
	default:
		return colorize(label, colorMagenta)
	}
}

func formatWarnings(count int) string {
	if count == 0 {
		return colorize("OK", colorGreen)
	}
	if count == 1 {
		return colorize("1 warning", colorYellow)
	}
	return colorize(fmt.Sprintf("%d warnings", count), colorYellow)
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
