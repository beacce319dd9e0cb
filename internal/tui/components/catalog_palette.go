// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/tui/styles"
)

// CatalogPalette stores state for the catalog browser: a filter query and a
// selection over the entries that match it.
type CatalogPalette struct {
	Query   string
	Index   int
	Entries []*catalog.Entry
}

// NewCatalogPalette creates a palette over entries.
func NewCatalogPalette(entries []*catalog.Entry) *CatalogPalette {
	p := &CatalogPalette{}
	p.SetEntries(entries)
	return p
}

// SetEntries replaces the browsable entries.
func (p *CatalogPalette) SetEntries(entries []*catalog.Entry) {
	p.Entries = append([]*catalog.Entry(nil), entries...)
	p.ClampIndex()
}

// SetQuery updates the filter and keeps the selection in bounds.
func (p *CatalogPalette) SetQuery(query string) {
	if query == p.Query {
		return
	}
	p.Query = query
	p.Index = 0
}

// Reset clears the filter and selection.
func (p *CatalogPalette) Reset() {
	p.Query = ""
	p.Index = 0
}

// Move shifts the selection, wrapping at both ends.
func (p *CatalogPalette) Move(delta int) {
	items := p.Visible()
	if len(items) == 0 {
		p.Index = 0
		return
	}
	if delta == 0 {
		return
	}
	idx := p.Index
	if idx < 0 || idx >= len(items) {
		idx = 0
	}
	idx += delta
	if idx < 0 {
		idx = len(items) - 1
	} else if idx >= len(items) {
		idx = 0
	}
	p.Index = idx
}

// ClampIndex ensures the selection index stays in bounds.
func (p *CatalogPalette) ClampIndex() {
	items := p.Visible()
	if len(items) == 0 {
		p.Index = 0
		return
	}
	if p.Index < 0 {
		p.Index = 0
	}
	if p.Index >= len(items) {
		p.Index = len(items) - 1
	}
}

// SelectedEntry returns the currently selected entry.
func (p *CatalogPalette) SelectedEntry() *catalog.Entry {
	items := p.Visible()
	if p.Index < 0 || p.Index >= len(items) {
		return nil
	}
	return items[p.Index]
}

// Visible returns the entries matching the query, in catalog order.
func (p *CatalogPalette) Visible() []*catalog.Entry {
	query := strings.TrimSpace(strings.ToLower(p.Query))
	if query == "" {
		return p.Entries
	}
	tokens := strings.Fields(query)
	filtered := make([]*catalog.Entry, 0, len(p.Entries))
	for _, entry := range p.Entries {
		haystack := strings.ToLower(strings.Join([]string{
			entry.ID, entry.Name, entry.Description, entry.Section, strings.Join(entry.Types, " "),
		}, " "))
		if matchesTokens(haystack, tokens) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// Render renders the palette lines, grouped under section headings. Only
// the window of height lines around the selection is shown when height > 0.
func (p *CatalogPalette) Render(styleSet styles.Styles, width, height int) []string {
	items := p.Visible()
	if len(items) == 0 {
		if strings.TrimSpace(p.Query) != "" {
			return []string{EmptyCatalogFiltered(p.Query).RenderCompact(styleSet)}
		}
		return []string{EmptyCatalog().RenderCompact(styleSet)}
	}

	var (
		lines    []string
		selected int
		section  string
	)
	for idx, entry := range items {
		if idx == 0 || entry.Section != section {
			section = entry.Section
			if idx > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styleSet.Accent.Render(strings.ToUpper(section)))
		}

		label := entry.Name
		if types := strings.Join(entry.Types, ","); types != "" {
			label = fmt.Sprintf("%s (%s)", entry.Name, types)
		}
		if width > 4 {
			label = truncate(label, width-4)
		}
		if idx == p.Index {
			selected = len(lines)
			lines = append(lines, styleSet.Focus.Render("> "+label))
			continue
		}
		lines = append(lines, styleSet.Muted.Render("  "+label))
	}

	return window(lines, selected, height)
}

// window returns at most height lines from lines, keeping focus visible.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := focus - height/2
	if start < 0 {
		start = 0
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}
