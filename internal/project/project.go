// Package project holds the generated project model: a title, an ordered set of
// files and the path of the file currently shown.
package project

import (
	"strings"
)

// File is one generated file. Path is a display label, not a filesystem location.
type File struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// Lines splits the content on newlines. An empty file has a single empty line.
func (f File) Lines() []string {
	return strings.Split(f.Content, "\n")
}

// State is the whole project as last returned by the model.
// It is replaced wholesale on every successful generation or refinement.
type State struct {
	Title string `json:"title"`
	Files []File `json:"files"`

	// SelectedFilePath is empty when nothing is selected.
	SelectedFilePath string `json:"selectedFilePath,omitempty"`
}

// New builds a state with the selection on the first file, or none when files is empty.
func New(title string, files []File) *State {
	s := &State{
		Title: title,
		Files: files,
	}
	if s.Files == nil {
		s.Files = []File{}
	}
	if len(s.Files) > 0 {
		s.SelectedFilePath = s.Files[0].Path
	}
	return s
}

// Selected returns the selected path and whether one is set.
func (s *State) Selected() (string, bool) {
	if s == nil || s.SelectedFilePath == "" {
		return "", false
	}
	return s.SelectedFilePath, true
}

// Lookup returns the first file with the given path.
// Duplicate paths are tolerated; later entries are shadowed.
func (s *State) Lookup(path string) (File, bool) {
	if s == nil || path == "" {
		return File{}, false
	}
	for _, f := range s.Files {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}

// SelectedFile resolves the selection. A dangling selection yields false.
func (s *State) SelectedFile() (File, bool) {
	path, ok := s.Selected()
	if !ok {
		return File{}, false
	}
	return s.Lookup(path)
}

// WithSelection returns a copy of s with only the selection changed.
func (s *State) WithSelection(path string) *State {
	c := s.Clone()
	c.SelectedFilePath = path
	return c
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	files := make([]File, len(s.Files))
	copy(files, s.Files)
	return &State{
		Title:            s.Title,
		Files:            files,
		SelectedFilePath: s.SelectedFilePath,
	}
}

// Paths returns file paths in project order, duplicates included.
func (s *State) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, len(s.Files))
	for i, f := range s.Files {
		paths[i] = f.Path
	}
	return paths
}
