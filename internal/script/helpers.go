package script

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed helpers/*.js
var helperFS embed.FS

// ErrUnknownHelper is returned when a task references a helper that is not bundled.
var ErrUnknownHelper = errors.New("unknown helper")

// HelperInfo describes a bundled helper function.
type HelperInfo struct {
	Name        string
	Description string
	Async       bool
	Source      string
}

var helperMeta = map[string]HelperInfo{
	"convertColor": {
		Description: "Convert hex, rgb, hsl colors to Figma RGB object",
	},
	"convertColorWithOpacity": {
		Description: "Convert colors with opacity to Figma RGBA object",
	},
	"loadFonts": {
		Description: "Load fonts for text nodes",
		Async:       true,
	},
}

var (
	helpersOnce sync.Once
	helpers     map[string]HelperInfo
	helpersErr  error
)

func loadHelpers() (map[string]HelperInfo, error) {
	helpersOnce.Do(func() {
		loaded := make(map[string]HelperInfo, len(helperMeta))
		for name, info := range helperMeta {
			data, err := helperFS.ReadFile("helpers/" + name + ".js")
			if err != nil {
				helpersErr = fmt.Errorf("read helper %s: %w", name, err)
				return
			}
			info.Name = name
			info.Source = strings.TrimSpace(string(data))
			loaded[name] = info
		}
		helpers = loaded
	})
	return helpers, helpersErr
}

// Helper returns the bundled helper with the given name.
func Helper(name string) (HelperInfo, error) {
	all, err := loadHelpers()
	if err != nil {
		return HelperInfo{}, err
	}
	info, ok := all[name]
	if !ok {
		return HelperInfo{}, fmt.Errorf("%w %q", ErrUnknownHelper, name)
	}
	return info, nil
}

// Known reports whether name is a bundled helper.
func Known(name string) bool {
	_, ok := helperMeta[name]
	return ok
}

// Helpers returns all bundled helpers sorted by name.
func Helpers() ([]HelperInfo, error) {
	all, err := loadHelpers()
	if err != nil {
		return nil, err
	}
	out := make([]HelperInfo, 0, len(all))
	for _, info := range all {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}
