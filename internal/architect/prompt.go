package architect

import (
	"encoding/json"
	"fmt"

	"pulse/internal/project"

	"google.golang.org/genai"
)

const generationTemplate = `You are Pulse IDE, the world's fastest code architect.
Build a complete, functional project based on this request: %q.
Ensure high-quality, modern code patterns. Provide all necessary files.`

const refinementTemplate = `Context: %s.
Modification Instructions: %q.
Update the files and return the complete updated project structure.`

// GenerationPrompt builds the prompt for a new project.
func GenerationPrompt(request string) string {
	return fmt.Sprintf(generationTemplate, request)
}

// RefinementPrompt builds the prompt that carries the current files as JSON context.
func RefinementPrompt(files []project.File, instructions string) (string, error) {
	if files == nil {
		files = []project.File{}
	}
	ctxJSON, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("encode project context: %w", err)
	}
	return fmt.Sprintf(refinementTemplate, ctxJSON, instructions), nil
}

// ProjectSchema is the response shape for both generation and refinement.
// When describe is set, every property carries a description for the model.
func ProjectSchema(describe bool) *genai.Schema {
	desc := func(s string) string {
		if describe {
			return s
		}
		return ""
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: desc("Title of the project"),
			},
			"files": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"path": {
							Type:        genai.TypeString,
							Description: desc("Full file path including folders"),
						},
						"content": {
							Type:        genai.TypeString,
							Description: desc("Full source code of the file"),
						},
						"language": {
							Type:        genai.TypeString,
							Description: desc("Programming language for highlighting"),
						},
					},
					Required:         []string{"path", "content", "language"},
					PropertyOrdering: []string{"path", "language", "content"},
				},
			},
		},
		Required:         []string{"title", "files"},
		PropertyOrdering: []string{"title", "files"},
	}
}
