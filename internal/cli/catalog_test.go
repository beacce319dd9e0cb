package cli

import (
	"errors"
	"testing"

	"github.com/figscript/figscript/internal/catalog"
)

func TestFindEntry(t *testing.T) {
	c := builtinCatalog(t)

	entry, err := findEntry(c, "corner-radius")
	if err != nil || entry.ID != "corner-radius" {
		t.Fatalf("findEntry() = %v, %v", entry, err)
	}

	_, err = findEntry(c, "glow")
	var preflight *PreflightError
	if !errors.As(err, &preflight) {
		t.Fatalf("expected PreflightError, got %v", err)
	}
	if preflight.NextStep != "figscript catalog list" {
		t.Fatalf("unexpected next step %q", preflight.NextStep)
	}
}

func TestDescribeConstraint(t *testing.T) {
	lo, hi := 0.0, 1.0

	tests := []struct {
		name  string
		input catalog.Input
		want  string
	}{
		{"range", catalog.Input{Type: catalog.InputNumber, Min: &lo, Max: &hi}, "0..1"},
		{"min only", catalog.Input{Type: catalog.InputNumber, Min: &lo}, ">= 0"},
		{"max only", catalog.Input{Type: catalog.InputNumber, Max: &hi}, "<= 1"},
		{"unbounded", catalog.Input{Type: catalog.InputNumber}, ""},
		{"select", catalog.Input{Type: catalog.InputSelect, Options: []catalog.Option{{Value: "INSIDE"}, {Value: "CENTER"}}}, "INSIDE|CENTER"},
		{"color", catalog.Input{Type: catalog.InputColor}, "hex|rgb|hsl"},
		{"hex color", catalog.Input{Type: catalog.InputColor, ColorFormat: "hex"}, "hex"},
		{"boolean", catalog.Input{Type: catalog.InputBoolean}, "true|false"},
		{"text", catalog.Input{Type: catalog.InputText}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeConstraint(tt.input); got != tt.want {
				t.Fatalf("describeConstraint() = %q, want %q", got, tt.want)
			}
		})
	}
}
