package catalog

import (
	"os"
	"path/filepath"
)

// SearchPaths returns catalog directories in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".figscript", "catalog"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "figscript", "catalog"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "figscript", "catalog"))
	return paths
}

// LoadFromSearchPaths builds the catalog from extra directories, then the
// search paths, then the builtin entries, with first-hit precedence by ID.
// An entry that overrides a builtin takes the builtin's place; new entries
// follow the builtins in discovery order.
func LoadFromSearchPaths(projectDir string, extra ...string) (*Catalog, error) {
	dirs := append(append([]string{}, extra...), SearchPaths(projectDir)...)

	overrides := make(map[string]*Entry)
	order := make([]string, 0)
	for _, dir := range dirs {
		entries, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if _, exists := overrides[entry.ID]; exists {
				continue
			}
			overrides[entry.ID] = entry
			order = append(order, entry.ID)
		}
	}

	builtins, err := LoadBuiltin()
	if err != nil {
		return nil, err
	}

	resolved := make([]*Entry, 0, len(builtins)+len(order))
	used := make(map[string]struct{}, len(overrides))
	for _, entry := range builtins {
		if override, ok := overrides[entry.ID]; ok {
			resolved = append(resolved, override)
			used[entry.ID] = struct{}{}
			continue
		}
		resolved = append(resolved, entry)
	}
	for _, id := range order {
		if _, ok := used[id]; ok {
			continue
		}
		resolved = append(resolved, overrides[id])
	}

	return New(resolved), nil
}

// Builtin returns a catalog of only the bundled entries.
func Builtin() (*Catalog, error) {
	entries, err := LoadBuiltin()
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}
