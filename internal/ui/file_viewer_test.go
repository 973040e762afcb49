package ui

import (
	"errors"
	"testing"

	"pulse/internal/project"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViewer() FileViewerModel {
	m := NewFileViewerModel(DefaultStyles(), "monokai", "dark")
	m.SetSize(80, 20)
	return m
}

func TestViewerPlaceholder(t *testing.T) {
	m := newTestViewer()
	assert.Equal(t, viewerPlaceholder, stripANSI(m.View()))

	_, cmd := m.Update(runes("c"))
	assert.Nil(t, cmd, "nothing to copy without a file")
}

func TestViewerHeaderAndLines(t *testing.T) {
	tests := []struct {
		name  string
		file  project.File
		badge string
	}{
		{"labelled", project.File{Path: "src/App.tsx", Content: "a\nb", Language: "typescript"}, "TYPESCRIPT"},
		{"detected", project.File{Path: "main.go", Content: "a\nb", Language: ""}, "GO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestViewer()
			f := tt.file
			m.SetFile(&f, nil)

			view := stripANSI(m.View())
			assert.Contains(t, view, tt.file.Path)
			assert.Contains(t, view, tt.badge)
			assert.Contains(t, view, "  1 │ a")
			assert.Contains(t, view, "  2 │ b")
		})
	}
}

func TestViewerDiffMode(t *testing.T) {
	prev := project.New("v1", []project.File{{Path: "a.txt", Content: "one\ntwo", Language: "text"}})
	cur := project.File{Path: "a.txt", Content: "one\nthree", Language: "text"}

	m := newTestViewer()
	m.SetFile(&cur, prev)

	m, _ = m.Update(runes("d"))
	require.Equal(t, ModeDiff, m.Mode())

	view := stripANSI(m.View())
	assert.Contains(t, view, "DIFF")
	assert.Contains(t, view, "  one")
	assert.Contains(t, view, "- two")
	assert.Contains(t, view, "+ three")

	m, _ = m.Update(runes("d"))
	assert.Equal(t, ModeCode, m.Mode())
}

func TestViewerDiffWithoutPrevious(t *testing.T) {
	cur := project.File{Path: "a.txt", Content: "one", Language: "text"}
	m := newTestViewer()
	m.SetFile(&cur, nil)

	m, _ = m.Update(runes("d"))
	assert.Contains(t, stripANSI(m.View()), "No previous revision")
}

func TestViewerDiffNewFile(t *testing.T) {
	prev := project.New("v1", []project.File{{Path: "other.txt", Content: "x"}})
	cur := project.File{Path: "a.txt", Content: "fresh", Language: "text"}

	m := newTestViewer()
	m.SetFile(&cur, prev)
	m, _ = m.Update(runes("d"))

	assert.Contains(t, stripANSI(m.View()), "+ fresh")
}

func TestViewerMarkdownMode(t *testing.T) {
	doc := project.File{Path: "README.md", Content: "# Todo\n\nA todo app.", Language: "markdown"}
	code := project.File{Path: "main.go", Content: "package main", Language: "go"}

	m := newTestViewer()
	m.SetFile(&code, nil)
	m, _ = m.Update(runes("m"))
	assert.Equal(t, ModeCode, m.Mode(), "preview is only offered for markdown")

	m.SetFile(&doc, nil)
	m, _ = m.Update(runes("m"))
	require.Equal(t, ModeMarkdown, m.Mode())
	view := stripANSI(m.View())
	assert.Contains(t, view, "PREVIEW")
	assert.Contains(t, view, "todo app")
	assert.NotContains(t, view, "1 │")

	m.SetFile(&code, nil)
	assert.Equal(t, ModeCode, m.Mode(), "switching to a non-markdown file leaves preview")
}

func TestViewerCopy(t *testing.T) {
	var copied string
	m := newTestViewer()
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	f := project.File{Path: "a.txt", Content: "copy me", Language: "text"}
	m.SetFile(&f, nil)

	_, cmd := m.Update(runes("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, CopiedMsg{Path: "a.txt"}, cmd())
	assert.Equal(t, "copy me", copied)

	m.copy = func(string) error { return errors.New("no clipboard") }
	_, cmd = m.Update(runes("c"))
	require.NotNil(t, cmd)
	msg := cmd().(CopiedMsg)
	assert.EqualError(t, msg.Err, "no clipboard")
}

func TestViewModeString(t *testing.T) {
	assert.Equal(t, "CODE", ModeCode.String())
	assert.Equal(t, "DIFF", ModeDiff.String())
	assert.Equal(t, "PREVIEW", ModeMarkdown.String())
}

func TestViewerReusesRenderedContent(t *testing.T) {
	a := project.File{Path: "a.go", Content: "package a", Language: "go"}
	b := project.File{Path: "b.go", Content: "package b", Language: "go"}

	m := newTestViewer()
	m.SetFile(&a, nil)
	m.SetFile(&b, nil)
	m.SetFile(&a, nil)
	m.SetSize(100, 20)

	hits, misses := m.rendered.Stats()
	assert.Equal(t, 2, hits, "code rendering does not depend on width")
	assert.Equal(t, 2, misses)

	edited := a
	edited.Content = "package a // edited"
	m.SetFile(&edited, nil)
	assert.Contains(t, stripANSI(m.View()), "edited")
}
