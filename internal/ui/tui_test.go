package ui

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"pulse/internal/architect"
	"pulse/internal/export"
	"pulse/internal/project"
	"pulse/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

// stubArchitect returns canned projects and counts calls.
type stubArchitect struct {
	mu      sync.Mutex
	calls   int
	result  *project.State
	refined *project.State
	err     error
}

func (s *stubArchitect) GenerateProject(ctx context.Context, prompt string) (*project.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result.Clone(), nil
}

func (s *stubArchitect) RefineProject(ctx context.Context, files []project.File, instruction string) (*project.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.refined.Clone(), nil
}

func todoProject() *project.State {
	return project.New("Todo", []project.File{
		{Path: "src/App.tsx", Content: "export default App;", Language: "typescript"},
		{Path: "src/index.css", Content: "body {}", Language: "css"},
		{Path: "README.md", Content: "# Todo\n\nA todo app.", Language: "markdown"},
	})
}

func newTestModel(t *testing.T, arch *stubArchitect) (Model, *workspace.Orchestrator) {
	t.Helper()
	ws := workspace.New(arch)
	m := NewModel(context.Background(), ws, Options{
		ModelID:        "gemini-3-pro-preview",
		HighlightStyle: "monokai",
		MarkdownStyle:  "dark",
		ShowWelcome:    true,
		ListenDelay:    time.Millisecond,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), ws
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds msg and then every message its commands produce, one level
// deep at a time, until no command remains.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		var cmd tea.Cmd
		m, cmd = send(t, m, queue[0])
		queue = queue[1:]
		if cmd != nil {
			if next := cmd(); next != nil {
				queue = append(queue, next)
			}
		}
	}
	return m
}

func TestWelcomeScreen(t *testing.T) {
	m, _ := newTestModel(t, &stubArchitect{})
	view := stripANSI(m.View())

	assert.Contains(t, view, "PULSE IDE")
	assert.Contains(t, view, "gemini-3-pro-preview")
	assert.Contains(t, view, "Untitled Project")
	assert.Contains(t, view, "No files generated yet")
	assert.Contains(t, view, quickPrompts[0])
	assert.Contains(t, view, quickPrompts[1])
}

func TestQuickPromptGeneratesProject(t *testing.T) {
	arch := &stubArchitect{result: todoProject()}
	m, _ := newTestModel(t, arch)

	m, cmd := send(t, m, runes("1"))
	require.NotNil(t, cmd)
	submit, ok := cmd().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, quickPrompts[0], submit.Text)

	m, cmd = send(t, m, submit)
	require.NotNil(t, cmd)
	assert.True(t, m.Snapshot().Loading)
	assert.Contains(t, stripANSI(m.View()), "Architecting")
	assert.True(t, m.input.Disabled())

	m, _ = send(t, m, cmd())
	snap := m.Snapshot()
	require.True(t, snap.HasProject())
	assert.False(t, snap.Loading)
	assert.Equal(t, 1, arch.calls)

	view := stripANSI(m.View())
	assert.Contains(t, view, "Todo")
	assert.Contains(t, view, "src/App.tsx")
	assert.Contains(t, view, "TYPESCRIPT")
	assert.Contains(t, view, "export default App;")
	assert.NotContains(t, view, quickPrompts[0])
	assert.False(t, m.input.Disabled())
}

func TestTypedPromptSubmits(t *testing.T) {
	arch := &stubArchitect{result: todoProject()}
	m, _ := newTestModel(t, arch)

	m, _ = send(t, m, runes("Create a Todo app"))
	assert.Equal(t, "Create a Todo app", m.input.Value())

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.input.Value())
	assert.True(t, m.Snapshot().HasProject())
	assert.Equal(t, 1, arch.calls)
}

func TestSubmitWhileLoadingShowsWarning(t *testing.T) {
	arch := &stubArchitect{result: todoProject()}
	m, _ := newTestModel(t, arch)

	m, cmd := send(t, m, SubmitMsg{Text: "first"})
	require.NotNil(t, cmd)

	m, second := send(t, m, SubmitMsg{Text: "second"})
	assert.Nil(t, second)
	assert.Contains(t, stripANSI(m.toasts.View(120, 0)), "still working")

	m, _ = send(t, m, cmd())
	assert.Equal(t, 1, arch.calls)
	assert.True(t, m.Snapshot().HasProject())
}

func TestFailureShowsErrorAndDismisses(t *testing.T) {
	arch := &stubArchitect{err: architect.TransportError(architect.OpGenerate, errors.New("quota exceeded"))}
	m, _ := newTestModel(t, arch)

	m = drive(t, m, SubmitMsg{Text: "Create a Todo app"})

	snap := m.Snapshot()
	assert.False(t, snap.HasProject())
	assert.False(t, snap.Loading)
	assert.Equal(t, "quota exceeded", snap.Error)
	assert.Contains(t, stripANSI(m.View()), "Error: quota exceeded")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.Snapshot().Error)
	assert.NotContains(t, stripANSI(m.headerView()), "Error:")
}

func TestRefineShowsChangeMarkersAndDiff(t *testing.T) {
	refined := project.New("Todo (dark)", []project.File{
		{Path: "src/theme.ts", Content: "export const dark = true;", Language: "typescript"},
		{Path: "src/App.tsx", Content: "export default DarkApp;", Language: "typescript"},
	})
	arch := &stubArchitect{result: todoProject(), refined: refined}
	m, _ := newTestModel(t, arch)

	m = drive(t, m, SubmitMsg{Text: "Create a Todo app"})
	m = drive(t, m, SubmitMsg{Text: "Add dark mode"})
	require.Equal(t, 2, arch.calls)

	view := stripANSI(m.files.View(false))
	assert.Contains(t, view, "+ ")
	assert.Contains(t, view, "~ ")

	// Select App.tsx in the list, then switch to diff mode in the viewer.
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FocusFiles, m.Focus())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "src/App.tsx", m.Snapshot().Project.SelectedFilePath)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FocusViewer, m.Focus())
	m, _ = send(t, m, runes("d"))
	assert.Equal(t, ModeDiff, m.viewer.Mode())

	view = stripANSI(m.viewer.View())
	assert.Contains(t, view, "- export default App;")
	assert.Contains(t, view, "+ export default DarkApp;")
}

func TestSelectUnknownPathShowsPlaceholder(t *testing.T) {
	m, ws := newTestModel(t, &stubArchitect{result: todoProject()})
	m = drive(t, m, SubmitMsg{Text: "x"})

	require.NoError(t, ws.SelectFile("nope.go"))
	m, _ = send(t, m, SelectFileMsg{Path: "nope.go"})

	assert.Nil(t, m.viewer.File())
	assert.Contains(t, stripANSI(m.View()), viewerPlaceholder)
}

func TestCtrlKFocusesInput(t *testing.T) {
	m, _ := newTestModel(t, &stubArchitect{})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusFiles, m.Focus())
	assert.False(t, m.input.Focused())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.Equal(t, FocusInput, m.Focus())
	assert.True(t, m.input.Focused())
}

func TestListeningSubmitsTranscript(t *testing.T) {
	arch := &stubArchitect{result: todoProject()}
	m, _ := newTestModel(t, arch)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)
	assert.True(t, m.input.Listening())
	assert.Contains(t, stripANSI(m.View()), "LISTENING")

	m, cmd = send(t, m, cmd())
	require.NotNil(t, cmd)
	submit, ok := cmd().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, listenTranscript, submit.Text)
	assert.False(t, m.input.Listening())
}

func TestInitialPromptSubmitted(t *testing.T) {
	m := NewModel(context.Background(), workspace.New(&stubArchitect{}), Options{InitialPrompt: "Build a blog"})
	assert.NotNil(t, m.Init())
}

func TestFocusString(t *testing.T) {
	assert.Equal(t, "input", FocusInput.String())
	assert.Equal(t, "files", FocusFiles.String())
	assert.Equal(t, "viewer", FocusViewer.String())
	assert.Equal(t, FocusInput, FocusViewer.next())
}

func TestCtrlZRestoresPreviousRevision(t *testing.T) {
	refined := project.New("Todo (dark)", []project.File{
		{Path: "src/theme.ts", Content: "export const dark = true;", Language: "typescript"},
	})
	m, _ := newTestModel(t, &stubArchitect{result: todoProject(), refined: refined})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	assert.Contains(t, stripANSI(m.toasts.View(120, 0)), "Nothing to undo")

	m = drive(t, m, SubmitMsg{Text: "Create a Todo app"})
	m = drive(t, m, SubmitMsg{Text: "Add dark mode"})
	require.Equal(t, "Todo (dark)", m.Snapshot().Project.Title)
	assert.Equal(t, 1, m.Snapshot().Undoable)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	snap := m.Snapshot()
	assert.Equal(t, "Todo", snap.Project.Title)
	assert.Zero(t, snap.Undoable)
	assert.Contains(t, stripANSI(m.toasts.View(120, 0)), "Restored Todo")
	assert.Contains(t, stripANSI(m.View()), "src/index.css")
}

// fakeExporter records exported projects.
type fakeExporter struct {
	exported []*project.State
	err      error
}

func (f *fakeExporter) Export(p *project.State) (export.Report, error) {
	f.exported = append(f.exported, p)
	if f.err != nil {
		return export.Report{}, f.err
	}
	return export.Report{Dir: "/tmp/pulse-projects/todo", Files: len(p.Files)}, nil
}

func TestCtrlSExportsProject(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		toast string
	}{
		{"success", nil, "Exported 3 files to /tmp/pulse-projects/todo"},
		{"failure", errors.New("disk full"), "Export failed: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := &fakeExporter{err: tt.err}
			m, _ := newTestModel(t, &stubArchitect{result: todoProject()})
			m.opts.Exporter = exp

			m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
			assert.Nil(t, cmd, "nothing to export before a project exists")

			m = drive(t, m, SubmitMsg{Text: "Create a Todo app"})
			m = drive(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

			require.Len(t, exp.exported, 1)
			assert.Equal(t, "Todo", exp.exported[0].Title)
			assert.Contains(t, stripANSI(m.toasts.View(200, 0)), tt.toast)
		})
	}
}

func TestCtrlSWithoutExporterIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, &stubArchitect{result: todoProject()})
	m = drive(t, m, SubmitMsg{Text: "Create a Todo app"})

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
}
