package components

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/tui/styles"
)

// VarField is one editable input of a VarForm.
type VarField struct {
	Input catalog.Input
	Model textinput.Model
}

// VarForm edits the variables of a single catalog entry.
type VarForm struct {
	Entry  *catalog.Entry
	TaskID string
	Fields []VarField
	Focus  int
}

// NewVarForm builds a form for entry prefilled with values. Inputs missing
// from values start at their defaults. taskID is empty for a new task.
func NewVarForm(entry *catalog.Entry, taskID string, values map[string]string) *VarForm {
	f := &VarForm{Entry: entry, TaskID: taskID}
	for _, in := range entry.Inputs {
		model := textinput.New()
		model.Prompt = ""
		model.Placeholder = in.Placeholder
		if model.Placeholder == "" && in.Type == catalog.InputColor {
			model.Placeholder = "#RRGGBB"
		}
		value, ok := values[in.Key]
		if !ok {
			value = in.Default
		}
		model.SetValue(value)
		f.Fields = append(f.Fields, VarField{Input: in, Model: model})
	}
	f.focusCurrent()
	return f
}

// Editing reports whether the form edits an existing task.
func (f *VarForm) Editing() bool {
	return f.TaskID != ""
}

// Next moves focus to the next field, wrapping.
func (f *VarForm) Next() {
	f.moveFocus(1)
}

// Prev moves focus to the previous field, wrapping.
func (f *VarForm) Prev() {
	f.moveFocus(-1)
}

func (f *VarForm) moveFocus(delta int) {
	if len(f.Fields) == 0 {
		return
	}
	f.Fields[f.Focus].Model.Blur()
	f.Focus = (f.Focus + delta + len(f.Fields)) % len(f.Fields)
	f.focusCurrent()
}

func (f *VarForm) focusCurrent() {
	if len(f.Fields) == 0 {
		return
	}
	f.Fields[f.Focus].Model.Focus()
}

// Focused returns the focused field, or nil for a form without inputs.
func (f *VarForm) Focused() *VarField {
	if f.Focus < 0 || f.Focus >= len(f.Fields) {
		return nil
	}
	return &f.Fields[f.Focus]
}

// Update forwards a message to the focused text input.
func (f *VarForm) Update(msg tea.Msg) tea.Cmd {
	field := f.Focused()
	if field == nil {
		return nil
	}
	var cmd tea.Cmd
	field.Model, cmd = field.Model.Update(msg)
	return cmd
}

// Cycle steps the focused field through its choices: select options,
// true/false, or number steps. It reports whether the field supports it.
func (f *VarForm) Cycle(delta int) bool {
	field := f.Focused()
	if field == nil {
		return false
	}
	in := field.Input
	current := strings.TrimSpace(field.Model.Value())

	switch in.Type {
	case catalog.InputSelect:
		if len(in.Options) == 0 {
			return false
		}
		idx := slices.IndexFunc(in.Options, func(o catalog.Option) bool { return o.Value == current })
		if idx < 0 {
			idx = 0
			if delta < 0 {
				idx = len(in.Options) - 1
			}
		} else {
			idx = (idx + delta + len(in.Options)) % len(in.Options)
		}
		field.Model.SetValue(in.Options[idx].Value)
	case catalog.InputBoolean:
		on, _ := strconv.ParseBool(current)
		field.Model.SetValue(strconv.FormatBool(!on))
	case catalog.InputNumber:
		step := 1.0
		if in.Step != nil {
			step = *in.Step
		}
		n, err := strconv.ParseFloat(current, 64)
		if err != nil {
			n = 0
		}
		n += float64(delta) * step
		if in.Min != nil && n < *in.Min {
			n = *in.Min
		}
		if in.Max != nil && n > *in.Max {
			n = *in.Max
		}
		field.Model.SetValue(strconv.FormatFloat(n, 'f', -1, 64))
	default:
		return false
	}
	field.Model.CursorEnd()
	return true
}

// Values returns the current value of every field keyed by input key.
func (f *VarForm) Values() map[string]string {
	values := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		values[field.Input.Key] = field.Model.Value()
	}
	return values
}

// Problems reports advisory validation messages for the current values.
func (f *VarForm) Problems() []string {
	return f.Entry.CheckVars(f.Values())
}

// Render renders the form lines.
func (f *VarForm) Render(styleSet styles.Styles, width int) []string {
	title := "Add " + f.Entry.Name
	if f.Editing() {
		title = "Edit " + f.Entry.Name
	}
	lines := []string{styleSet.Title.Render(title)}
	if desc := strings.TrimSpace(f.Entry.Description); desc != "" {
		lines = append(lines, styleSet.Muted.Render(truncate(desc, max(width, 20))))
	}
	lines = append(lines, "")

	if len(f.Fields) == 0 {
		lines = append(lines, styleSet.Muted.Render("This property has no inputs."))
	}

	labelWidth := 0
	for _, field := range f.Fields {
		labelWidth = max(labelWidth, len([]rune(field.Input.Label)))
	}
	for idx, field := range f.Fields {
		label := fmt.Sprintf("%-*s", labelWidth, field.Input.Label)
		marker := "  "
		labelStyle := styleSet.Muted
		if idx == f.Focus {
			marker = "> "
			labelStyle = styleSet.Focus
		}
		line := labelStyle.Render(marker+label) + "  " + field.Model.View()
		if hint := inputHint(field.Input); hint != "" {
			line += "  " + styleSet.Muted.Render(hint)
		}
		lines = append(lines, line)
	}

	if problems := f.Problems(); len(problems) > 0 {
		lines = append(lines, "")
		for _, problem := range problems {
			lines = append(lines, styleSet.Warning.Render("! "+problem))
		}
	}

	lines = append(lines, "", styleSet.Muted.Render("tab/shift+tab move · ←/→ choices · ↑/↓ step numbers · enter save · esc cancel"))
	return lines
}

func inputHint(in catalog.Input) string {
	switch in.Type {
	case catalog.InputSelect:
		values := make([]string, len(in.Options))
		for i, o := range in.Options {
			values[i] = o.Value
		}
		return "[" + strings.Join(values, "|") + "]"
	case catalog.InputBoolean:
		return "[true|false]"
	case catalog.InputNumber:
		switch {
		case in.Min != nil && in.Max != nil:
			return fmt.Sprintf("[%g..%g]", *in.Min, *in.Max)
		case in.Min != nil:
			return fmt.Sprintf("[>= %g]", *in.Min)
		case in.Max != nil:
			return fmt.Sprintf("[<= %g]", *in.Max)
		}
	case catalog.InputColor:
		if in.ColorFormat != "" {
			return "[" + in.ColorFormat + "]"
		}
	}
	if in.Required {
		return "(required)"
	}
	return ""
}
