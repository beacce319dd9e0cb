package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// sectionFile is the on-disk layout: one section and its entries.
type sectionFile struct {
	Section string   `yaml:"section"`
	Entries []*Entry `yaml:"entries"`
}

// LoadBuiltin returns the entries bundled with figscript, in section order.
func LoadBuiltin() ([]*Entry, error) {
	files, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin catalog: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	var entries []*Entry
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + file.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin catalog %s: %w", file.Name(), err)
		}
		parsed, err := parseSection(data, "builtin")
		if err != nil {
			return nil, fmt.Errorf("parse builtin catalog %s: %w", file.Name(), err)
		}
		entries = append(entries, parsed...)
	}
	return entries, nil
}

// LoadFile reads the entries of a single catalog file.
func LoadFile(path string) ([]*Entry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	entries, err := parseSection(data, path)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return entries, nil
}

// LoadDir loads every .yaml/.yml file in dir, sorted by file name. A missing
// directory yields no entries.
func LoadDir(dir string) ([]*Entry, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Entry{}, nil
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Entry{}, nil
		}
		return nil, fmt.Errorf("read catalog dir %s: %w", dir, err)
	}

	entries := make([]*Entry, 0)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		loaded, err := LoadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}
	return entries, nil
}

func parseSection(data []byte, source string) ([]*Entry, error) {
	var file sectionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	section := strings.TrimSpace(file.Section)
	if section == "" {
		return nil, fmt.Errorf("section is required")
	}
	if len(file.Entries) == 0 {
		return nil, fmt.Errorf("section %q has no entries", section)
	}

	seen := make(map[string]struct{}, len(file.Entries))
	for i, entry := range file.Entries {
		if entry == nil {
			return nil, fmt.Errorf("entry %d is empty", i+1)
		}
		normalizeEntry(entry)
		if entry.Section == "" {
			entry.Section = section
		}
		entry.Source = source

		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i+1, entry.ID, err)
		}
		if _, exists := seen[entry.ID]; exists {
			return nil, fmt.Errorf("duplicate entry %q", entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return file.Entries, nil
}

func normalizeEntry(entry *Entry) {
	entry.ID = strings.TrimSpace(entry.ID)
	entry.Name = strings.TrimSpace(entry.Name)
	entry.Description = strings.TrimSpace(entry.Description)
	entry.Section = strings.TrimSpace(entry.Section)
	entry.Comment = strings.TrimSpace(entry.Comment)
	for i := range entry.Types {
		entry.Types[i] = strings.ToUpper(strings.TrimSpace(entry.Types[i]))
	}
	for i := range entry.Helpers {
		entry.Helpers[i] = strings.TrimSpace(entry.Helpers[i])
	}
	for i := range entry.Inputs {
		in := &entry.Inputs[i]
		in.Key = strings.TrimSpace(in.Key)
		in.Label = strings.TrimSpace(in.Label)
		in.Type = InputType(strings.ToLower(strings.TrimSpace(string(in.Type))))
		if in.Label == "" {
			in.Label = in.Key
		}
	}
}
