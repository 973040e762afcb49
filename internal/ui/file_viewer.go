package ui

import (
	"strings"

	"pulse/internal/cache"
	"pulse/internal/highlight"
	"pulse/internal/logging"
	"pulse/internal/project"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// ViewMode selects how the viewer renders the current file.
type ViewMode int

const (
	ModeCode ViewMode = iota
	ModeDiff
	ModeMarkdown
)

func (v ViewMode) String() string {
	switch v {
	case ModeDiff:
		return "DIFF"
	case ModeMarkdown:
		return "PREVIEW"
	default:
		return "CODE"
	}
}

const viewerPlaceholder = "Select a file or prompt Pulse to begin"

// renderCacheSize bounds the number of rendered files kept.
const renderCacheSize = 64

// renderKey identifies one rendering. Width only matters for markdown.
type renderKey struct {
	mode     ViewMode
	width    int
	path     string
	language string
	content  string
	previous string
	hasPrev  bool
}

// FileViewerModel shows the selected file with line numbers.
type FileViewerModel struct {
	styles      *Styles
	highlighter *highlight.Highlighter

	markdownStyle string
	renderer      *glamour.TermRenderer
	rendererWidth int
	rendered      *cache.LRUCache[renderKey, string]

	viewport viewport.Model
	file     *project.File
	previous *project.State // previous revision, nil before the first refinement
	mode     ViewMode

	copy func(string) error

	width  int
	height int
}

// NewFileViewerModel creates a viewer using the given chroma and glamour styles.
func NewFileViewerModel(styles *Styles, highlightStyle, markdownStyle string) FileViewerModel {
	return FileViewerModel{
		styles:        styles,
		highlighter:   highlight.New(highlightStyle),
		markdownStyle: markdownStyle,
		rendered:      cache.NewLRUCache[renderKey, string](renderCacheSize),
		viewport:      viewport.New(0, 0),
		copy:          clipboard.WriteAll,
	}
}

// SetSize sets the inner dimensions of the viewer.
func (m *FileViewerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1) // header and blank line
	m.refresh()
}

// SetFile shows f, or the placeholder when f is nil. previous is the project
// before the last refinement and feeds diff mode.
func (m *FileViewerModel) SetFile(f *project.File, previous *project.State) {
	samePath := m.file != nil && f != nil && m.file.Path == f.Path
	m.file = f
	m.previous = previous

	if f == nil || (m.mode == ModeMarkdown && !highlight.IsMarkdown(f.Language, f.Path)) {
		m.mode = ModeCode
	}
	m.refresh()
	if !samePath {
		m.viewport.GotoTop()
	}
}

// File returns the displayed file, or nil.
func (m FileViewerModel) File() *project.File {
	return m.file
}

// Mode returns the current view mode.
func (m FileViewerModel) Mode() ViewMode {
	return m.mode
}

// language returns the file's label, detected from the path when blank.
func (m FileViewerModel) language() string {
	if m.file == nil {
		return ""
	}
	if strings.TrimSpace(m.file.Language) != "" {
		return m.file.Language
	}
	return highlight.DetectLanguage(m.file.Path)
}

// refresh re-renders the viewport content for the current file and mode.
func (m *FileViewerModel) refresh() {
	if m.file == nil {
		m.viewport.SetContent("")
		return
	}

	key := renderKey{
		mode:     m.mode,
		path:     m.file.Path,
		language: m.language(),
		content:  m.file.Content,
	}
	switch m.mode {
	case ModeDiff:
		if m.previous != nil {
			old, _ := m.previous.Lookup(m.file.Path)
			key.previous, key.hasPrev = old.Content, true
		}
		m.viewport.SetContent(m.rendered.GetOrCompute(key, m.renderDiff))
	case ModeMarkdown:
		key.width = m.width
		m.viewport.SetContent(m.rendered.GetOrCompute(key, m.renderMarkdown))
	default:
		m.viewport.SetContent(m.rendered.GetOrCompute(key, func() string {
			return m.highlighter.NumberedLines(m.file.Content, key.language, m.file.Path)
		}))
	}
}

func (m *FileViewerModel) renderDiff() string {
	if m.previous == nil {
		return m.styles.Placeholder.Render("No previous revision to compare against")
	}
	old, _ := m.previous.Lookup(m.file.Path)
	lines := project.Diff(old.Content, m.file.Content)
	return m.highlighter.Diff(lines)
}

func (m *FileViewerModel) renderMarkdown() string {
	width := max(m.width-2, 20)
	if m.renderer == nil || m.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.markdownStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logging.Warn("markdown renderer unavailable", "error", err)
			return m.highlighter.NumberedLines(m.file.Content, m.language(), m.file.Path)
		}
		m.renderer = r
		m.rendererWidth = width
	}

	out, err := m.renderer.Render(m.file.Content)
	if err != nil {
		logging.Warn("markdown render failed", "path", m.file.Path, "error", err)
		return m.highlighter.NumberedLines(m.file.Content, m.language(), m.file.Path)
	}
	return strings.TrimRight(out, "\n")
}

// Update handles key input while the viewer has focus.
func (m FileViewerModel) Update(msg tea.Msg) (FileViewerModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.file != nil {
		switch keyMsg.String() {
		case "d":
			if m.mode == ModeDiff {
				m.mode = ModeCode
			} else {
				m.mode = ModeDiff
			}
			m.refresh()
			return m, nil
		case "m":
			if !highlight.IsMarkdown(m.file.Language, m.file.Path) {
				return m, nil
			}
			if m.mode == ModeMarkdown {
				m.mode = ModeCode
			} else {
				m.mode = ModeMarkdown
			}
			m.refresh()
			return m, nil
		case "c":
			return m, m.copyCmd()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// copyCmd copies the raw file content to the clipboard.
func (m FileViewerModel) copyCmd() tea.Cmd {
	path, content, write := m.file.Path, m.file.Content, m.copy
	return func() tea.Msg {
		return CopiedMsg{Path: path, Err: write(content)}
	}
}

// View renders the viewer without a border.
func (m FileViewerModel) View() string {
	if m.file == nil {
		return m.styles.Placeholder.Render(viewerPlaceholder)
	}

	header := m.styles.ViewerPath.Render(truncate(m.file.Path, m.width-20)) +
		" " + m.styles.LanguageBadge.Render(strings.ToUpper(m.language()))
	if m.mode != ModeCode {
		header += " " + m.styles.ModeBadge.Render(m.mode.String())
	}

	return header + "\n\n" + m.viewport.View()
}
