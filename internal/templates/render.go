package templates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOption is returned when a render option string is not recognized.
var ErrInvalidOption = errors.New("invalid render option")

// UnresolvedMode controls what happens to a placeholder whose variable is
// absent or blank.
type UnresolvedMode int

const (
	// UnresolvedKeep leaves the placeholder text in the output verbatim.
	UnresolvedKeep UnresolvedMode = iota
	// UnresolvedEmpty drops the placeholder.
	UnresolvedEmpty
)

func (m UnresolvedMode) String() string {
	switch m {
	case UnresolvedEmpty:
		return "empty"
	default:
		return "keep"
	}
}

// BlankLineMode controls how blank lines are normalized after rendering.
type BlankLineMode int

const (
	// BlankLinesCollapse turns each run of blank lines into a single empty line.
	BlankLinesCollapse BlankLineMode = iota
	// BlankLinesStrip removes blank lines entirely.
	BlankLinesStrip
)

func (m BlankLineMode) String() string {
	switch m {
	case BlankLinesStrip:
		return "strip"
	default:
		return "collapse"
	}
}

// Options configures a Renderer. The zero value keeps unresolved placeholders
// and collapses blank lines.
type Options struct {
	Unresolved UnresolvedMode
	BlankLines BlankLineMode
}

// ParseOptions builds Options from their config names. Empty strings select
// the defaults.
func ParseOptions(unresolved, blankLines string) (Options, error) {
	var opts Options

	switch strings.ToLower(strings.TrimSpace(unresolved)) {
	case "", "keep":
		opts.Unresolved = UnresolvedKeep
	case "empty":
		opts.Unresolved = UnresolvedEmpty
	default:
		return Options{}, fmt.Errorf("%w: unresolved %q (want keep or empty)", ErrInvalidOption, unresolved)
	}

	switch strings.ToLower(strings.TrimSpace(blankLines)) {
	case "", "collapse":
		opts.BlankLines = BlankLinesCollapse
	case "strip":
		opts.BlankLines = BlankLinesStrip
	default:
		return Options{}, fmt.Errorf("%w: blank_lines %q (want collapse or strip)", ErrInvalidOption, blankLines)
	}

	return opts, nil
}

// Renderer resolves templates against variable maps. It is a value type with
// no mutable state and is safe to share.
type Renderer struct {
	opts Options
}

// NewRenderer returns a renderer using opts.
func NewRenderer(opts Options) Renderer {
	return Renderer{opts: opts}
}

// Render parses src and resolves it against vars.
func Render(src string, vars map[string]string) string {
	return Renderer{}.Render(src, vars)
}

// Render parses src and resolves it against vars.
func (r Renderer) Render(src string, vars map[string]string) string {
	return r.Execute(Parse(src), vars)
}

// Execute resolves an already parsed tree against vars.
func (r Renderer) Execute(tree *Tree, vars map[string]string) string {
	if tree == nil {
		return ""
	}
	var out strings.Builder
	r.eval(&out, tree.Nodes, vars)
	return normalizeBlankLines(out.String(), r.opts.BlankLines)
}

func (r Renderer) eval(out *strings.Builder, nodes []Node, vars map[string]string) {
	for _, n := range nodes {
		switch n := n.(type) {
		case TextNode:
			out.WriteString(n.Text)
		case VarNode:
			if value, ok := lookup(vars, n.Name); ok {
				out.WriteString(value)
			} else if r.opts.Unresolved == UnresolvedKeep {
				out.WriteString(n.Raw)
			}
		case IfNode:
			if _, ok := lookup(vars, n.Name); ok {
				r.eval(out, n.Then, vars)
			} else {
				r.eval(out, n.Else, vars)
			}
		}
	}
}

// lookup reports a variable as set only when it is present and not blank.
func lookup(vars map[string]string, name string) (string, bool) {
	value, ok := vars[name]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func normalizeBlankLines(s string, mode BlankLineMode) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if mode == BlankLinesStrip || prevBlank {
				continue
			}
			prevBlank = true
			out = append(out, "")
			continue
		}
		prevBlank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
