package ui

import (
	"testing"

	"pulse/internal/project"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestList(p *project.State) FileListModel {
	m := NewFileListModel(DefaultStyles())
	m.SetSize(40, 20)
	m.SetProject(p, nil)
	return m
}

func TestFileListEmptyStates(t *testing.T) {
	tests := []struct {
		name    string
		project *project.State
		want    []string
	}{
		{"no project", nil, []string{"Untitled Project", "No files generated yet"}},
		{"no files", project.New("Empty", nil), []string{"Empty", "No files generated yet"}},
		{"blank title", project.New("  ", nil), []string{"Untitled Project"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := stripANSI(newTestList(tt.project).View(true))
			for _, want := range tt.want {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestFileListShowsEveryEntry(t *testing.T) {
	p := project.New("Dupes", []project.File{
		{Path: "a.txt", Content: "1"},
		{Path: "a.txt", Content: "2"},
		{Path: "b.txt"},
	})
	m := newTestList(p)

	assert.Len(t, m.Visible(), 3)
}

func TestFileListNavigationAndSelect(t *testing.T) {
	m := newTestList(todoProject())
	assert.Equal(t, 0, m.Cursor())

	m, _ = m.Update(runes("j"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Cursor())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Cursor(), "cursor stops at the last entry")

	m, _ = m.Update(runes("k"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SelectFileMsg{Path: "src/index.css"}, cmd())
}

func TestFileListFilter(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"glob by base name", "*.css", []string{"src/index.css"}},
		{"doublestar", "src/**", []string{"src/App.tsx", "src/index.css"}},
		{"substring", "readme", []string{"README.md"}},
		{"no match", "*.go", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestList(todoProject())
			m, _ = m.Update(runes("/"))
			require.True(t, m.Filtering())

			m, _ = m.Update(runes(tt.pattern))
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			assert.False(t, m.Filtering())

			var got []string
			for _, f := range m.Visible() {
				got = append(got, f.Path)
			}
			assert.Equal(t, tt.want, got)
			assert.Contains(t, stripANSI(m.View(true)), "Filter: "+tt.pattern)
		})
	}
}

func TestFileListFilterEscClears(t *testing.T) {
	m := newTestList(todoProject())
	m, _ = m.Update(runes("/"))
	m, _ = m.Update(runes("*.css"))
	require.Len(t, m.Visible(), 1)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Filtering())
	assert.Len(t, m.Visible(), 3)
}

func TestFileListInvalidFilterKeepsEntries(t *testing.T) {
	m := newTestList(todoProject())
	m, _ = m.Update(runes("/"))
	m, _ = m.Update(runes("[abc"))

	assert.Len(t, m.Visible(), 3)
	assert.Contains(t, stripANSI(m.View(true)), "(invalid)")
}

func TestFileListChangeMarkers(t *testing.T) {
	prev := todoProject()
	next := project.New("Todo", []project.File{
		{Path: "src/App.tsx", Content: "changed", Language: "typescript"},
		{Path: "src/new.ts", Content: "", Language: "typescript"},
		{Path: "README.md", Content: "# Todo\n\nA todo app.", Language: "markdown"},
	})

	m := NewFileListModel(DefaultStyles())
	m.SetSize(40, 20)
	m.SetProject(next, project.Compare(prev, next))

	lines := stripANSI(m.View(false))
	assert.Contains(t, lines, "~ △ src/App.tsx")
	assert.Contains(t, lines, "+ △ src/new.ts")
	assert.Contains(t, lines, "  · README.md")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "…", truncate("abcdef", 1))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
}
