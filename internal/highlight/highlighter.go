package highlight

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"pulse/internal/project"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter provides syntax highlighting for generated files and diffs.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// New creates a new Highlighter with the specified chroma style.
// Supported styles include "monokai", "dracula", "github-dark", "native".
func New(style string) *Highlighter {
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}

	return &Highlighter{
		style:     s,
		formatter: formatters.Get("terminal256"),
	}
}

// lexerFor picks a lexer from the language label first, then the file path.
func lexerFor(language, path string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if path != "" {
		if l := lexers.Match(filepath.Base(path)); l != nil {
			return l
		}
	}
	return lexers.Fallback
}

// Lines highlights content and returns one rendered string per source line.
// Every line is self-contained: no escape sequence spans a line break.
func (h *Highlighter) Lines(content, language, path string) []string {
	plain := strings.Split(content, "\n")

	lexer := chroma.Coalesce(lexerFor(language, path))
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return plain
	}

	tokenLines := chroma.SplitTokensIntoLines(iterator.Tokens())
	out := make([]string, 0, len(plain))
	for _, tokens := range tokenLines {
		if n := len(tokens); n > 0 {
			last := tokens[n-1]
			last.Value = strings.TrimSuffix(last.Value, "\n")
			tokens = append(tokens[:n-1:n-1], last)
		}

		var buf bytes.Buffer
		if err := h.formatter.Format(&buf, h.style, chroma.Literator(tokens...)); err != nil {
			return plain
		}
		out = append(out, buf.String())
	}

	// Lexers may add or drop a trailing empty line; keep the source line count.
	for len(out) < len(plain) {
		out = append(out, "")
	}
	return out[:len(plain)]
}

var (
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// Gutter returns the line-number column for a 1-indexed line.
func Gutter(num, width int) string {
	return gutterStyle.Render(fmt.Sprintf("%*d", width, num)) + " │ "
}

// GutterWidth returns the digit width needed to number n lines.
func GutterWidth(n int) int {
	w := len(fmt.Sprint(n))
	if w < 3 {
		w = 3
	}
	return w
}

// NumberedLines highlights content and prefixes each line with its number, from 1.
func (h *Highlighter) NumberedLines(content, language, path string) string {
	lines := h.Lines(content, language, path)
	width := GutterWidth(len(lines))

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(Gutter(i+1, width))
		result.WriteString(line)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// Diff renders a line diff with +/- markers.
func (h *Highlighter) Diff(lines []project.DiffLine) string {
	var result strings.Builder
	for i, l := range lines {
		switch l.Kind {
		case project.LineAdded:
			result.WriteString(addedStyle.Render("+ " + l.Text))
		case project.LineRemoved:
			result.WriteString(removedStyle.Render("- " + l.Text))
		default:
			result.WriteString(contextStyle.Render("  " + l.Text))
		}
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// DetectLanguage returns a display label for a path, used when the model
// left the language empty.
func DetectLanguage(path string) string {
	base := strings.ToLower(filepath.Base(path))
	switch base {
	case "dockerfile":
		return "docker"
	case "makefile":
		return "makefile"
	case "go.mod":
		return "gomod"
	case ".env":
		return "ini"
	}

	switch strings.ToLower(filepath.Ext(base)) {
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "jsx"
	case ".md", ".markdown":
		return "markdown"
	case ".yml", ".yaml":
		return "yaml"
	case ".sh", ".bash", ".zsh":
		return "bash"
	}

	if lexer := lexers.Match(base); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return "text"
}

// IsMarkdown reports whether a file should be offered in rendered markdown mode.
func IsMarkdown(language, path string) bool {
	switch strings.ToLower(language) {
	case "markdown", "md", "mdx":
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown" || ext == ".mdx"
}
