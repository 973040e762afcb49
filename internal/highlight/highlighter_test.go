package highlight

import (
	"regexp"
	"strings"
	"testing"

	"pulse/internal/project"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestLinesPreservesSourceLines(t *testing.T) {
	h := New("monokai")

	tests := []struct {
		name     string
		content  string
		language string
		path     string
	}{
		{"go by label", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n", "go", "main.go"},
		{"tsx by path", "export const App = () => <div>hi</div>;", "", "src/App.tsx"},
		{"unknown label", "plain text\nsecond line", "klingon", "notes"},
		{"multiline comment", "/* one\ntwo\nthree */\nint x;", "c", "x.c"},
		{"empty", "", "text", "empty.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := h.Lines(tt.content, tt.language, tt.path)
			want := strings.Split(tt.content, "\n")
			require.Len(t, lines, len(want))

			for i := range want {
				assert.Equal(t, want[i], stripANSI(lines[i]), "line %d", i+1)
				assert.NotContains(t, lines[i], "\n")
			}
		})
	}
}

func TestNewFallsBackOnUnknownStyle(t *testing.T) {
	h := New("no-such-style")
	require.NotNil(t, h.style)
	assert.Equal(t, []string{"x"}, mapStrip(h.Lines("x", "text", "")))
}

func TestNumberedLines(t *testing.T) {
	h := New("monokai")
	out := stripANSI(h.NumberedLines("a\nb", "text", "a.txt"))

	assert.Equal(t, "  1 │ a\n  2 │ b", out)
}

func TestGutterWidth(t *testing.T) {
	assert.Equal(t, 3, GutterWidth(9))
	assert.Equal(t, 3, GutterWidth(999))
	assert.Equal(t, 4, GutterWidth(1000))
}

func TestDiff(t *testing.T) {
	h := New("monokai")
	out := stripANSI(h.Diff([]project.DiffLine{
		{Kind: project.LineContext, Text: "a"},
		{Kind: project.LineRemoved, Text: "b"},
		{Kind: project.LineAdded, Text: "c"},
	}))

	assert.Equal(t, "  a\n- b\n+ c", out)
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"src/App.tsx":   "tsx",
		"index.ts":      "typescript",
		"README.md":     "markdown",
		"Dockerfile":    "docker",
		"deploy/ci.yml": "yaml",
		"main.go":       "go",
		"mystery.zzz":   "text",
	}

	for path, want := range tests {
		assert.Equal(t, want, DetectLanguage(path), path)
	}
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, IsMarkdown("markdown", "x"))
	assert.True(t, IsMarkdown("", "docs/README.md"))
	assert.False(t, IsMarkdown("go", "main.go"))
}

func mapStrip(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = stripANSI(l)
	}
	return out
}
