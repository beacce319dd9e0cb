// Package script assembles rendered task bodies into a runnable Figma plugin
// script: helper functions, per-task comments, and the selection loop.
package script

import (
	"fmt"
	"strings"

	"github.com/figscript/figscript/internal/queue"
)

// Options controls script assembly.
type Options struct {
	// Wrap places the body inside a loop over figma.currentPage.selection.
	Wrap bool
	// Comments prefixes each task body with its comment line.
	Comments bool
	// Indent is the per-level indentation used inside the wrapper.
	Indent string
}

// DefaultOptions returns the options used by the CLI and TUI unless configured.
func DefaultOptions() Options {
	return Options{
		Wrap:     true,
		Comments: true,
		Indent:   "  ",
	}
}

// Build assembles rendered tasks into a script. An empty item list yields an
// empty string.
func Build(items []queue.Rendered, opts Options) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	var (
		bodies  []string
		names   []string
		seen    = make(map[string]struct{})
		isAsync bool
	)
	for _, item := range items {
		body := item.Body
		if opts.Comments && strings.TrimSpace(item.Comment) != "" {
			body = strings.TrimSpace(item.Comment) + "\n" + body
		}
		bodies = append(bodies, body)
		if usesAwait(item.Body) {
			isAsync = true
		}

		for _, name := range item.Helpers {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	sections := make([]string, 0, len(names)+1)
	for _, name := range names {
		info, err := Helper(name)
		if err != nil {
			return "", fmt.Errorf("task helper: %w", err)
		}
		if info.Async {
			isAsync = true
		}
		sections = append(sections, "// "+info.Description+"\n"+info.Source)
	}

	body := strings.Join(bodies, "\n\n")
	if !opts.Wrap {
		sections = append(sections, body)
		return strings.Join(sections, "\n\n"), nil
	}

	sections = append(sections, wrapSelection(body, opts.Indent, isAsync))
	return strings.Join(sections, "\n\n"), nil
}

func wrapSelection(body, indent string, isAsync bool) string {
	if indent == "" {
		indent = "  "
	}

	loop := "const selection = figma.currentPage.selection;\n" +
		"for (const node of selection) {\n" +
		indentLines(body, indent) + "\n" +
		"}"
	if !isAsync {
		return loop
	}
	return "(async () => {\n" + indentLines(loop, indent) + "\n})();"
}

func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

func usesAwait(body string) bool {
	for _, field := range strings.FieldsFunc(body, func(r rune) bool {
		return !(r == '_' || r == '$' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		if field == "await" {
			return true
		}
	}
	return false
}
