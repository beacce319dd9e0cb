package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/figscript/figscript/internal/script"
	"github.com/figscript/figscript/internal/templates"
)

var validate = validator.New()

// colorTags accepts the color syntaxes the convertColor helpers understand.
const colorTags = "hexcolor|rgb|rgba|hsl|hsla"

// Validate checks the entry's structure: struct constraints, unique input
// keys, a well-formed template that only references declared inputs, known
// helpers and valid defaults.
func (e *Entry) Validate() error {
	if err := validate.Struct(e); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(e.Inputs))
	for _, in := range e.Inputs {
		if _, exists := seen[in.Key]; exists {
			return fmt.Errorf("duplicate input %q", in.Key)
		}
		seen[in.Key] = struct{}{}
		if in.Min != nil && in.Max != nil && *in.Min > *in.Max {
			return fmt.Errorf("input %q: min %s exceeds max %s", in.Key, formatFloat(*in.Min), formatFloat(*in.Max))
		}
	}

	tree := templates.Parse(e.Template)
	if len(tree.Issues) > 0 {
		issue := tree.Issues[0]
		return fmt.Errorf("template: %s at offset %d", issue.Message, issue.Offset)
	}
	for _, name := range tree.Variables() {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("template references undeclared input %q", name)
		}
	}

	for _, helper := range e.Helpers {
		if !script.Known(helper) {
			return fmt.Errorf("helper %q: %w", helper, script.ErrUnknownHelper)
		}
	}

	for _, in := range e.Inputs {
		if in.Default == "" {
			continue
		}
		if problem := in.check(in.Default); problem != "" {
			return fmt.Errorf("default for input %q: %s", in.Key, problem)
		}
	}
	return nil
}

// CheckVars reports values that do not fit their inputs. The result is
// advisory: rendering accepts any values.
func (e *Entry) CheckVars(vars map[string]string) []string {
	var problems []string
	for _, in := range e.Inputs {
		value := strings.TrimSpace(vars[in.Key])
		if value == "" {
			if in.Required {
				problems = append(problems, fmt.Sprintf("%s is required", in.Label))
			}
			continue
		}
		if problem := in.check(value); problem != "" {
			problems = append(problems, fmt.Sprintf("%s %s", in.Label, problem))
		}
	}
	return problems
}

func (in Input) check(value string) string {
	switch in.Type {
	case InputNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Sprintf("must be a number, got %q", value)
		}
		if in.Min != nil && n < *in.Min {
			return fmt.Sprintf("must be at least %s", formatFloat(*in.Min))
		}
		if in.Max != nil && n > *in.Max {
			return fmt.Sprintf("must be at most %s", formatFloat(*in.Max))
		}
	case InputSelect:
		if !slices.ContainsFunc(in.Options, func(o Option) bool { return o.Value == value }) {
			return fmt.Sprintf("must be one of %s, got %q", strings.Join(in.optionValues(), ", "), value)
		}
	case InputColor:
		if err := validate.Var(strings.ReplaceAll(value, " ", ""), colorTags); err != nil {
			return fmt.Sprintf("must be a hex, rgb or hsl color, got %q", value)
		}
	case InputBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Sprintf("must be true or false, got %q", value)
		}
	}
	return ""
}

func (in Input) optionValues() []string {
	values := make([]string, len(in.Options))
	for i, o := range in.Options {
		values[i] = o.Value
	}
	return values
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
