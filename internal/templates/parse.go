package templates

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokText tokenKind = iota
	tokVar
	tokIf
	tokElse
	tokEnd
)

type token struct {
	kind tokenKind
	name string
	raw  string
	pos  int
}

// Parse parses a template into a tree. It never fails: malformed directives
// are kept as literal text and reported in Tree.Issues.
func Parse(src string) *Tree {
	p := &parser{tokens: lex(src)}
	nodes := p.parseList(0)
	return &Tree{Nodes: nodes, Issues: p.issues}
}

func lex(src string) []token {
	var tokens []token
	textStart := 0
	flush := func(end int) {
		if end > textStart {
			tokens = append(tokens, token{kind: tokText, raw: src[textStart:end], pos: textStart})
		}
	}

	i := 0
	for i < len(src) {
		open := strings.Index(src[i:], "{{")
		if open < 0 {
			break
		}
		open += i
		end := strings.Index(src[open+2:], "}}")
		if end < 0 {
			break
		}
		end += open + 2

		tok, ok := classify(src[open+2 : end])
		if !ok {
			// Not a directive; retry one byte later so "{{{x}}}" still finds {{x}}.
			i = open + 1
			continue
		}
		flush(open)
		tok.raw = src[open : end+2]
		tok.pos = open
		tokens = append(tokens, tok)
		i = end + 2
		textStart = i
	}
	flush(len(src))
	return tokens
}

func classify(inner string) (token, bool) {
	s := strings.TrimSpace(inner)
	switch {
	case s == "else":
		return token{kind: tokElse}, true
	case s == "/if":
		return token{kind: tokEnd}, true
	case hasKeyword(s, "/if"):
		if name := strings.TrimSpace(s[3:]); validName(name) {
			return token{kind: tokEnd, name: name}, true
		}
	case hasKeyword(s, "#if"):
		if name := strings.TrimSpace(s[3:]); validName(name) {
			return token{kind: tokIf, name: name}, true
		}
	case validName(s):
		return token{kind: tokVar, name: s}, true
	}
	return token{}, false
}

func hasKeyword(s, keyword string) bool {
	return len(s) > len(keyword) && strings.HasPrefix(s, keyword) && unicode.IsSpace(rune(s[len(keyword)]))
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

type parser struct {
	tokens []token
	pos    int
	issues []Issue
}

func (p *parser) issue(offset int, format string, args ...any) {
	p.issues = append(p.issues, Issue{Offset: offset, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

// parseList consumes nodes until an {{else}} or {{/if}} that belongs to an
// enclosing block, or the end of input. depth counts the open blocks.
func (p *parser) parseList(depth int) []Node {
	var nodes []Node
	for {
		tok, ok := p.peek()
		if !ok {
			return nodes
		}
		switch tok.kind {
		case tokText:
			nodes = appendText(nodes, tok.raw)
			p.pos++
		case tokVar:
			nodes = append(nodes, VarNode{Name: tok.name, Raw: tok.raw})
			p.pos++
		case tokIf:
			p.pos++
			nodes = append(nodes, p.parseIf(tok, depth+1)...)
		case tokElse, tokEnd:
			if depth > 0 {
				return nodes
			}
			p.issue(tok.pos, "unexpected %s outside of {{#if}}", tok.raw)
			nodes = appendText(nodes, tok.raw)
			p.pos++
		}
	}
}

func (p *parser) parseIf(open token, depth int) []Node {
	thenNodes := p.parseList(depth)

	var (
		elseNodes []Node
		elseRaw   string
	)
	if tok, ok := p.peek(); ok && tok.kind == tokElse {
		p.pos++
		elseRaw = tok.raw
		elseNodes = p.parseElse(depth)
	}

	end, ok := p.peek()
	if !ok {
		p.issue(open.pos, "unclosed %s", open.raw)
		out := appendText(nil, open.raw)
		out = append(out, thenNodes...)
		if elseRaw != "" {
			out = appendText(out, elseRaw)
			out = append(out, elseNodes...)
		}
		return out
	}
	p.pos++
	if end.name != "" && end.name != open.name {
		p.issue(end.pos, "%s closes {{#if %s}}", end.raw, open.name)
	}
	return []Node{IfNode{Name: open.name, Then: thenNodes, Else: elseNodes}}
}

func (p *parser) parseElse(depth int) []Node {
	var nodes []Node
	for {
		nodes = append(nodes, p.parseList(depth)...)
		tok, ok := p.peek()
		if !ok || tok.kind != tokElse {
			return nodes
		}
		p.issue(tok.pos, "duplicate {{else}}")
		nodes = appendText(nodes, tok.raw)
		p.pos++
	}
}

func appendText(nodes []Node, text string) []Node {
	if n := len(nodes); n > 0 {
		if prev, ok := nodes[n-1].(TextNode); ok {
			nodes[n-1] = TextNode{Text: prev.Text + text}
			return nodes
		}
	}
	return append(nodes, TextNode{Text: text})
}
