package ui

import (
	"pulse/internal/export"
	"pulse/internal/workspace"
)

// Focus is the pane receiving key input.
type Focus int

const (
	FocusInput Focus = iota
	FocusFiles
	FocusViewer
)

func (f Focus) next() Focus {
	return (f + 1) % 3
}

func (f Focus) String() string {
	switch f {
	case FocusFiles:
		return "files"
	case FocusViewer:
		return "viewer"
	default:
		return "input"
	}
}

// SubmitMsg asks the model to send text to the orchestrator.
type SubmitMsg struct {
	Text string
}

// SelectFileMsg is emitted when a file is chosen in the file list.
type SelectFileMsg struct {
	Path string
}

// ResultMsg carries a finished submission back to the UI loop.
type ResultMsg struct {
	Result workspace.Result
}

// CopiedMsg reports the outcome of a clipboard copy.
type CopiedMsg struct {
	Path string
	Err  error
}

// ExportedMsg reports the outcome of writing the project to disk.
type ExportedMsg struct {
	Report export.Report
	Err    error
}

// listenDoneMsg ends a simulated listening session. Seq guards against
// sessions that were already stopped by hand.
type listenDoneMsg struct {
	seq int
}

// Quick prompts offered on the welcome screen.
var quickPrompts = []string{
	"Create a fullstack Todo app with React and Tailwind",
	"Build a real-time chat interface with dark mode support",
}

// Canned transcripts for the simulated voice input.
const (
	listenTranscript   = "Build a clean, dark-themed responsive dashboard using Tailwind and React"
	listenStopFallback = "Create a modern React landing page for a space travel agency"
)
