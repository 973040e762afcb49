package architect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"pulse/internal/project"
)

// Pointer fields tell a missing field apart from an empty one.
type wireProject struct {
	Title *string     `json:"title"`
	Files *[]wireFile `json:"files"`
}

type wireFile struct {
	Path     *string `json:"path"`
	Content  *string `json:"content"`
	Language *string `json:"language"`
}

// DecodeProject parses the model's response text into a project state.
//
// The payload must be a single JSON object with a string title and a files
// array whose entries carry path, content and language. Unknown fields are
// ignored. A markdown code fence around the object is tolerated.
func DecodeProject(text string) (*project.State, error) {
	payload := stripCodeFence(text)
	if payload == "" {
		return nil, errors.New("empty payload")
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	var wire wireProject
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after project object")
	}

	if wire.Title == nil {
		return nil, errors.New("missing field \"title\"")
	}
	if wire.Files == nil {
		return nil, errors.New("missing field \"files\"")
	}

	files := make([]project.File, 0, len(*wire.Files))
	for i, wf := range *wire.Files {
		switch {
		case wf.Path == nil:
			return nil, fmt.Errorf("files[%d]: missing field \"path\"", i)
		case strings.TrimSpace(*wf.Path) == "":
			return nil, fmt.Errorf("files[%d]: empty \"path\"", i)
		case wf.Content == nil:
			return nil, fmt.Errorf("files[%d] (%s): missing field \"content\"", i, *wf.Path)
		case wf.Language == nil:
			return nil, fmt.Errorf("files[%d] (%s): missing field \"language\"", i, *wf.Path)
		}
		files = append(files, project.File{
			Path:     *wf.Path,
			Content:  *wf.Content,
			Language: *wf.Language,
		})
	}

	return project.New(*wire.Title, files), nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add despite
// the JSON response format.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	// Drop the info string (json, JSON, ...) whether or not a newline follows it.
	content = strings.TrimLeftFunc(content, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
	})
	if idx := strings.LastIndex(content, "```"); idx != -1 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}
