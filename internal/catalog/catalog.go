// Package catalog holds the property-edit entries a user can queue: their
// inputs, default values, templates and helper dependencies.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/figscript/figscript/internal/queue"
)

// ErrEntryNotFound is returned when a catalog lookup misses.
var ErrEntryNotFound = errors.New("catalog entry not found")

// InputType is the kind of value an input accepts.
type InputType string

const (
	InputText    InputType = "text"
	InputNumber  InputType = "number"
	InputSelect  InputType = "select"
	InputColor   InputType = "color"
	InputBoolean InputType = "boolean"
)

// Option is one choice of a select input.
type Option struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Label string `yaml:"label" json:"label"`
}

// Input declares one template variable and how it is edited.
type Input struct {
	Key         string    `yaml:"key" json:"key" validate:"required"`
	Label       string    `yaml:"label" json:"label" validate:"required"`
	Type        InputType `yaml:"type" json:"type" validate:"required,oneof=text number select color boolean"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Default     string    `yaml:"default,omitempty" json:"default,omitempty"`
	Required    bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Options     []Option  `yaml:"options,omitempty" json:"options,omitempty" validate:"required_if=Type select,dive"`
	Min         *float64  `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64  `yaml:"max,omitempty" json:"max,omitempty"`
	Step        *float64  `yaml:"step,omitempty" json:"step,omitempty" validate:"omitempty,gt=0"`
	ColorFormat string    `yaml:"color_format,omitempty" json:"color_format,omitempty" validate:"omitempty,oneof=hex rgb hsl"`
}

// Entry is a single catalog item.
type Entry struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	Name        string   `yaml:"name" json:"name" validate:"required"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Section     string   `yaml:"section,omitempty" json:"section"`
	Types       []string `yaml:"types,omitempty" json:"types,omitempty"`
	Inputs      []Input  `yaml:"inputs,omitempty" json:"inputs,omitempty" validate:"dive"`
	Template    string   `yaml:"template" json:"template" validate:"required"`
	Helpers     []string `yaml:"helpers,omitempty" json:"helpers,omitempty"`
	Comment     string   `yaml:"comment,omitempty" json:"comment,omitempty"`

	// Source is "builtin" or the file the entry was loaded from.
	Source string `yaml:"-" json:"source"`
}

// Input returns the declared input with the given key.
func (e *Entry) Input(key string) (Input, bool) {
	for _, in := range e.Inputs {
		if in.Key == key {
			return in, true
		}
	}
	return Input{}, false
}

// Defaults returns a fresh map of every declared input's default value.
func (e *Entry) Defaults() map[string]string {
	vars := make(map[string]string, len(e.Inputs))
	for _, in := range e.Inputs {
		vars[in.Key] = in.Default
	}
	return vars
}

// NewTask returns a queue task for the entry. Vars start from the defaults and
// take overrides on top; keys the entry does not declare are dropped.
func (e *Entry) NewTask(overrides map[string]string) queue.Task {
	vars := e.Defaults()
	for key, value := range overrides {
		if _, ok := vars[key]; ok {
			vars[key] = value
		}
	}
	return queue.Task{
		ID:       e.ID,
		Name:     e.Name,
		Template: e.Template,
		Vars:     vars,
		Comment:  e.Comment,
		Helpers:  slices.Clone(e.Helpers),
	}
}

// SupportsType reports whether the entry applies to the Figma node type.
// Entries without types apply to every node.
func (e *Entry) SupportsType(nodeType string) bool {
	if len(e.Types) == 0 {
		return true
	}
	for _, t := range e.Types {
		if strings.EqualFold(t, nodeType) {
			return true
		}
	}
	return false
}

// Catalog is an ordered, ID-indexed set of entries.
type Catalog struct {
	entries []*Entry
	byID    map[string]*Entry
}

// New builds a catalog from entries. Later duplicates of an ID are ignored.
func New(entries []*Entry) *Catalog {
	c := &Catalog{byID: make(map[string]*Entry, len(entries))}
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if _, exists := c.byID[entry.ID]; exists {
			continue
		}
		c.byID[entry.ID] = entry
		c.entries = append(c.entries, entry)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns the entries in catalog order.
func (c *Catalog) Entries() []*Entry {
	return slices.Clone(c.entries)
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(id string) (*Entry, error) {
	entry, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, id)
	}
	return entry, nil
}

// Sections returns section names in the order they first appear.
func (c *Catalog) Sections() []string {
	var sections []string
	for _, entry := range c.entries {
		if !slices.Contains(sections, entry.Section) {
			sections = append(sections, entry.Section)
		}
	}
	return sections
}

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	// Query matches ID, name or description, case-insensitively.
	Query string
	// Section matches the section name, case-insensitively.
	Section string
	// Type matches a supported Figma node type.
	Type string
}

// Filter returns the entries matching f in catalog order.
func (c *Catalog) Filter(f Filter) []*Entry {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	section := strings.TrimSpace(f.Section)
	nodeType := strings.TrimSpace(f.Type)

	out := make([]*Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		if section != "" && !strings.EqualFold(entry.Section, section) {
			continue
		}
		if nodeType != "" && !entry.SupportsType(nodeType) {
			continue
		}
		if query != "" && !entry.matches(query) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func (e *Entry) matches(query string) bool {
	return strings.Contains(strings.ToLower(e.ID), query) ||
		strings.Contains(strings.ToLower(e.Name), query) ||
		strings.Contains(strings.ToLower(e.Description), query)
}
