package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"pulse/internal/project"

	tea "github.com/charmbracelet/bubbletea"
)

// FileListModel is the sidebar: project title, files in order, change
// markers and a glob filter.
type FileListModel struct {
	styles *Styles

	project *project.State
	changes map[string]project.ChangeKind
	visible []project.File

	cursor       int
	offset       int
	filterInput  string
	filterActive bool
	filterErr    error

	width  int
	height int
}

// NewFileListModel creates an empty file list.
func NewFileListModel(styles *Styles) FileListModel {
	return FileListModel{styles: styles}
}

// SetSize sets the inner dimensions of the list.
func (m *FileListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

// SetProject replaces the listed project. changes may be nil. The cursor
// follows the project's selection when the file list changed.
func (m *FileListModel) SetProject(p *project.State, changes []project.Change) {
	prevPaths := m.paths()
	m.project = p
	m.changes = project.ChangeIndex(changes)
	m.applyFilter()

	if !equalPaths(prevPaths, m.paths()) {
		m.cursor = 0
		if sel, ok := p.Selected(); ok {
			for i, f := range m.visible {
				if f.Path == sel {
					m.cursor = i
					break
				}
			}
		}
	}
	m.clampCursor()
}

func (m *FileListModel) paths() []string {
	if m.project == nil {
		return nil
	}
	return m.project.Paths()
}

func equalPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// applyFilter recomputes the visible files. An invalid pattern keeps the
// previous result and records the error.
func (m *FileListModel) applyFilter() {
	if m.project == nil {
		m.visible = nil
		m.filterErr = nil
		return
	}
	files, err := m.project.Filter(m.filterInput)
	if err != nil {
		m.filterErr = err
		return
	}
	m.filterErr = nil
	m.visible = files
}

func (m *FileListModel) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampOffset()
}

func (m *FileListModel) clampOffset() {
	rows := m.listRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if rows > 0 && m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// listRows is the number of rows available for file entries.
func (m FileListModel) listRows() int {
	rows := m.height - 2 // title and blank line
	if m.filterActive || m.filterInput != "" {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Visible returns the files currently shown.
func (m FileListModel) Visible() []project.File {
	return m.visible
}

// Cursor returns the index of the highlighted entry among the visible files.
func (m FileListModel) Cursor() int {
	return m.cursor
}

// Filtering reports whether the filter prompt is capturing keys.
func (m FileListModel) Filtering() bool {
	return m.filterActive
}

// Update handles key input while the list has focus.
func (m FileListModel) Update(msg tea.Msg) (FileListModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filterActive {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.filterActive = false
		case tea.KeyEsc:
			m.filterActive = false
			m.filterInput = ""
			m.applyFilter()
		case tea.KeyBackspace:
			if r := []rune(m.filterInput); len(r) > 0 {
				m.filterInput = string(r[:len(r)-1])
				m.applyFilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.filterInput += string(keyMsg.Runes)
			m.applyFilter()
		}
		m.cursor = 0
		m.clampCursor()
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.visible) - 1
	case "/":
		m.filterActive = true
	case "esc":
		if m.filterInput != "" {
			m.filterInput = ""
			m.applyFilter()
		}
	case "enter", " ":
		if m.cursor >= 0 && m.cursor < len(m.visible) {
			path := m.visible[m.cursor].Path
			return m, func() tea.Msg { return SelectFileMsg{Path: path} }
		}
	}
	m.clampCursor()
	return m, nil
}

// View renders the list without a border.
func (m FileListModel) View(focused bool) string {
	var b strings.Builder

	title := "Untitled Project"
	if m.project != nil && strings.TrimSpace(m.project.Title) != "" {
		title = m.project.Title
	}
	b.WriteString(m.styles.PanelTitle.Render(truncate(title, m.width)))
	b.WriteString("\n")

	if m.filterActive || m.filterInput != "" {
		line := fmt.Sprintf("Filter: %s", m.filterInput)
		if m.filterActive {
			line += "▊"
		}
		if m.filterErr != nil {
			line += " (invalid)"
		}
		b.WriteString(m.styles.FilterPrompt.Render(truncate(line, m.width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.project == nil || len(m.project.Files) == 0 {
		b.WriteString(m.styles.Placeholder.Render("No files generated yet"))
		return b.String()
	}
	if len(m.visible) == 0 {
		b.WriteString(m.styles.Placeholder.Render("No matching files"))
		return b.String()
	}

	selected, _ := m.project.Selected()
	end := m.offset + m.listRows()
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		f := m.visible[i]
		b.WriteString(m.formatEntryLine(f, i == m.cursor && focused, f.Path == selected))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// formatEntryLine renders one file: cursor, change marker, icon, path.
func (m FileListModel) formatEntryLine(f project.File, isCursor, isSelected bool) string {
	cursor := "  "
	if isCursor {
		cursor = m.styles.FileCursor.Render("> ")
	}

	marker := " "
	switch m.changes[f.Path] {
	case project.Added:
		marker = m.styles.MarkAdded.Render("+")
	case project.Modified:
		marker = m.styles.MarkModified.Render("~")
	}

	name := truncate(fileIcon(f.Path)+" "+f.Path, m.width-4)
	if isSelected {
		name = m.styles.FileSelected.Render(name)
	} else {
		name = m.styles.FileNormal.Render(name)
	}
	return cursor + marker + " " + name
}

// fileIcon returns a simple Unicode glyph for a file type.
func fileIcon(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "◆"
	case ".py", ".rb", ".java", ".cs", ".php", ".swift", ".kt":
		return "◇"
	case ".js", ".ts", ".tsx", ".jsx", ".html", ".css", ".scss", ".vue", ".svelte":
		return "△"
	case ".rs", ".c", ".cpp", ".h":
		return "▪"
	case ".sh", ".bash", ".zsh":
		return "$"
	}
	return "·"
}

// truncate shortens s to at most width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
