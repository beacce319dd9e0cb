package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// clipboardWriter is swapped out in tests.
var clipboardWriter = clipboard.WriteAll

func clipboardSupported() bool {
	return !clipboard.Unsupported
}

func copyToClipboard(text string) error {
	if err := clipboardWriter(text); err != nil {
		return &PreflightError{
			Message:  fmt.Sprintf("failed to copy to clipboard: %v", err),
			Hint:     "Install xclip, xsel or wl-clipboard, or write the script to a file",
			NextStep: "figscript build -f plan.yaml -o script.js",
		}
	}
	return nil
}
