package script

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

const jsMediaType = "application/javascript"

// Check compiles src as strict-mode JavaScript and reports syntax errors.
// Nothing is executed.
func Check(src string) error {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	if _, err := goja.Compile("figscript.js", src, true); err != nil {
		return fmt.Errorf("script syntax: %w", err)
	}
	return nil
}

var (
	minifier     *minify.M
	minifierOnce sync.Once
)

func getMinifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.AddFunc(jsMediaType, js.Minify)
	})
	return minifier
}

// Minify returns a minified copy of src.
func Minify(src string) (string, error) {
	out, err := getMinifier().String(jsMediaType, src)
	if err != nil {
		return "", fmt.Errorf("minify script: %w", err)
	}
	return out, nil
}
