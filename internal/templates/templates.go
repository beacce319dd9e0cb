// Package templates provides the snippet template engine: a small parser for
// {{name}} placeholders and {{#if name}}...{{else}}...{{/if}} blocks, and a
// renderer that resolves them against a variable map.
package templates

import "sort"

// Node is a single element of a parsed template.
type Node interface {
	node()
}

// TextNode is literal text copied verbatim to the output.
type TextNode struct {
	Text string
}

// VarNode is a {{name}} placeholder. Raw holds the original directive text so
// unresolved placeholders can be emitted unchanged.
type VarNode struct {
	Name string
	Raw  string
}

// IfNode is a conditional block keyed by a variable name.
type IfNode struct {
	Name string
	Then []Node
	Else []Node
}

func (TextNode) node() {}
func (VarNode) node()  {}
func (IfNode) node()   {}

// Issue describes a malformed directive found while parsing. The parser keeps
// going; issues are advisory.
type Issue struct {
	Offset  int
	Message string
}

// Tree is the parsed form of a template.
type Tree struct {
	Nodes  []Node
	Issues []Issue
}

// Variables returns the variable names referenced anywhere in the tree,
// sorted and without duplicates.
func (t *Tree) Variables() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	collectVariables(t.Nodes, seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVariables(nodes []Node, seen map[string]struct{}) {
	for _, n := range nodes {
		switch n := n.(type) {
		case VarNode:
			seen[n.Name] = struct{}{}
		case IfNode:
			seen[n.Name] = struct{}{}
			collectVariables(n.Then, seen)
			collectVariables(n.Else, seen)
		}
	}
}
