package cli

import (
	"fmt"
	"strings"
)

// parseVars turns repeated key=value flags into a map. Values are not split
// on commas because color values such as rgba(0,0,0,0.5) contain them.
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid variable %q (expected key=value)", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid variable %q (empty key)", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
