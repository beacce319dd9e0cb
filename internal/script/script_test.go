package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figscript/figscript/internal/queue"
)

func TestBuildWrapsSelection(t *testing.T) {
	items := []queue.Rendered{
		{ID: "opacity", Comment: "// Set opacity", Body: "node.opacity = 0.5;"},
		{ID: "rotation", Body: "node.rotation = 45;"},
	}

	got, err := Build(items, DefaultOptions())
	require.NoError(t, err)

	want := strings.Join([]string{
		"const selection = figma.currentPage.selection;",
		"for (const node of selection) {",
		"  // Set opacity",
		"  node.opacity = 0.5;",
		"",
		"  node.rotation = 45;",
		"}",
	}, "\n")
	assert.Equal(t, want, got)
	require.NoError(t, Check(got))
}

func TestBuildWithoutCommentsOrWrap(t *testing.T) {
	items := []queue.Rendered{
		{ID: "opacity", Comment: "// Set opacity", Body: "node.opacity = 0.5;"},
	}

	got, err := Build(items, Options{})
	require.NoError(t, err)
	assert.Equal(t, "node.opacity = 0.5;", got)
}

func TestBuildEmpty(t *testing.T) {
	got, err := Build(nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestBuildHelpersOnce(t *testing.T) {
	items := []queue.Rendered{
		{ID: "fill", Helpers: []string{"convertColor"}, Body: "node.fills = [{ type: 'SOLID', color: convertColor('#fff'), opacity: 1 }];"},
		{ID: "stroke", Helpers: []string{"convertColor"}, Body: "node.strokes = [{ type: 'SOLID', color: convertColor('#000'), opacity: 1 }];"},
	}

	got, err := Build(items, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "// Convert hex, rgb, hsl colors to Figma RGB object\nfunction convertColor(input) {"))
	assert.Equal(t, 1, strings.Count(got, "function convertColor("))
	assert.Contains(t, got, "for (const node of selection) {\n  node.fills")
	assert.False(t, strings.Contains(got, "async"))
	require.NoError(t, Check(got))
}

func TestBuildAsyncHelper(t *testing.T) {
	items := []queue.Rendered{
		{
			ID:      "complex-text-styling",
			Helpers: []string{"loadFonts", "convertColor"},
			Body:    "await loadFonts([node]);\nnode.characters = \"Hello\";",
		},
	}

	got, err := Build(items, DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, got, "async function loadFonts(")
	assert.Contains(t, got, "(async () => {\n  const selection = figma.currentPage.selection;\n  for (const node of selection) {\n    await loadFonts([node]);")
	assert.True(t, strings.HasSuffix(got, "})();"))
	assert.Less(t, strings.Index(got, "function loadFonts"), strings.Index(got, "function convertColor"))
	require.NoError(t, Check(got))
}

func TestBuildUnknownHelper(t *testing.T) {
	_, err := Build([]queue.Rendered{{ID: "x", Helpers: []string{"nope"}, Body: "node.x = 1;"}}, DefaultOptions())
	require.ErrorIs(t, err, ErrUnknownHelper)
}

func TestBuildDetectsAwait(t *testing.T) {
	build := func(body string) string {
		t.Helper()
		got, err := Build([]queue.Rendered{{ID: "x", Body: body}}, DefaultOptions())
		require.NoError(t, err)
		return got
	}
	assert.True(t, strings.HasPrefix(build("await figma.loadFontAsync(node.fontName);"), "(async () => {"))
	assert.True(t, strings.HasPrefix(build("node.awaitable = true;"), "const selection"))
}

func TestHelpers(t *testing.T) {
	all, err := Helpers()
	require.NoError(t, err)
	require.Len(t, all, 3)

	for _, info := range all {
		assert.True(t, Known(info.Name))
		assert.NotEmpty(t, info.Description)
		require.NoError(t, Check(info.Source), info.Name)
	}

	_, err = Helper("missing")
	require.ErrorIs(t, err, ErrUnknownHelper)
	assert.False(t, Known("missing"))
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(""))
	require.NoError(t, Check("node.opacity = 0.5;"))
	require.Error(t, Check("node.opacity = ;"))
	require.Error(t, Check("for (const node of selection) {"))
}

func TestMinify(t *testing.T) {
	src, err := Build([]queue.Rendered{
		{ID: "fill", Comment: "// Set solid fill color", Helpers: []string{"convertColor"}, Body: "node.fills = [{ type: 'SOLID', color: convertColor('#ffffff'), opacity: 1 }];"},
	}, DefaultOptions())
	require.NoError(t, err)

	min, err := Minify(src)
	require.NoError(t, err)
	assert.Less(t, len(min), len(src))
	assert.NotContains(t, min, "// Set solid fill color")
	require.NoError(t, Check(min))
}
