// Package ui is the terminal front end: a file list, a file viewer and a
// command input around a workspace.Orchestrator.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pulse/internal/export"
	"pulse/internal/logging"
	"pulse/internal/project"
	"pulse/internal/workspace"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Workspace is the orchestrator surface the UI drives.
// *workspace.Orchestrator implements it.
type Workspace interface {
	Begin(text string) (*workspace.Submission, error)
	Finish(res workspace.Result) bool
	SelectFile(path string) error
	Undo() error
	DismissError()
	Snapshot() workspace.Snapshot
}

// Exporter writes a project to disk. *export.Exporter implements it.
type Exporter interface {
	Export(p *project.State) (export.Report, error)
}

// Options configures the TUI.
type Options struct {
	ModelID        string
	HighlightStyle string
	MarkdownStyle  string
	ShowWelcome    bool
	ListenDelay    time.Duration

	// InitialPrompt is submitted once the program starts, when non-empty.
	InitialPrompt string

	// Exporter handles ctrl+s. Export is disabled when nil.
	Exporter Exporter
}

// Model is the root bubbletea model.
type Model struct {
	ctx context.Context
	ws  Workspace

	styles  *Styles
	files   FileListModel
	viewer  FileViewerModel
	input   CommandInputModel
	spinner spinner.Model
	toasts  *ToastManager

	snap      workspace.Snapshot
	lastError string
	focus     Focus
	opts      Options

	width  int
	height int
}

// NewModel creates the root model. ctx is passed to every service call.
func NewModel(ctx context.Context, ws Workspace, opts Options) *Model {
	styles := DefaultStyles()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	m := &Model{
		ctx:     ctx,
		ws:      ws,
		styles:  styles,
		files:   NewFileListModel(styles),
		viewer:  NewFileViewerModel(styles, opts.HighlightStyle, opts.MarkdownStyle),
		input:   NewCommandInputModel(styles, opts.ListenDelay),
		spinner: s,
		toasts:  NewToastManager(),
		focus:   FocusInput,
		opts:    opts,
	}
	m.refresh()
	return m
}

// Init starts the cursor blink, spinner and toast ticks, and submits the
// initial prompt if one was given.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.input.Init(),
		m.spinner.Tick,
		toastTick(),
	}
	if strings.TrimSpace(m.opts.InitialPrompt) != "" {
		cmds = append(cmds, submitCmd(m.opts.InitialPrompt))
	}
	return tea.Batch(cmds...)
}

// Update handles TUI events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastTickMsg:
		m.toasts.Prune()
		return m, toastTick()

	case SubmitMsg:
		return m, m.submit(msg.Text)

	case ResultMsg:
		m.finish(msg.Result)
		return m, nil

	case SelectFileMsg:
		if err := m.ws.SelectFile(msg.Path); err != nil {
			logging.Debug("select ignored", "path", msg.Path, "error", err)
			return m, nil
		}
		m.refresh()
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			m.toasts.ShowError("Copy failed: " + msg.Err.Error())
		} else {
			m.toasts.ShowSuccess("Copied " + msg.Path)
		}
		return m, nil

	case ExportedMsg:
		switch {
		case msg.Err != nil:
			m.toasts.ShowError("Export failed: " + msg.Err.Error())
		case len(msg.Report.Skipped) > 0:
			m.toasts.ShowWarning(fmt.Sprintf("Exported %d files to %s, skipped %d duplicates",
				msg.Report.Files, msg.Report.Dir, len(msg.Report.Skipped)))
		default:
			m.toasts.ShowSuccess(fmt.Sprintf("Exported %d files to %s", msg.Report.Files, msg.Report.Dir))
		}
		return m, nil

	case listenDoneMsg:
		return m, m.input.finishListening(msg)

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewer, cmd = m.viewer.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a submission and returns the command that runs it.
func (m *Model) submit(text string) tea.Cmd {
	sub, err := m.ws.Begin(text)
	switch {
	case errors.Is(err, workspace.ErrBusy):
		m.toasts.ShowWarning("Pulse is still working on the previous request")
		return nil
	case err != nil:
		return nil
	}

	m.refresh()
	ctx := m.ctx
	return func() tea.Msg {
		return ResultMsg{Result: sub.Run(ctx)}
	}
}

// finish applies a result and reports the outcome.
func (m *Model) finish(res workspace.Result) {
	if !m.ws.Finish(res) {
		return
	}
	m.refresh()

	if res.Err != nil {
		return
	}
	n := len(res.Project.Files)
	switch res.Mode {
	case workspace.ModeRefine:
		m.toasts.ShowSuccess(fmt.Sprintf("Updated %s (%d files)", res.Project.Title, n))
	default:
		m.toasts.ShowSuccess(fmt.Sprintf("Generated %s (%d files)", res.Project.Title, n))
	}
}

// undo restores the previous revision.
func (m *Model) undo() {
	switch err := m.ws.Undo(); {
	case errors.Is(err, workspace.ErrBusy):
		m.toasts.ShowWarning("Pulse is still working on the previous request")
	case err != nil:
		m.toasts.ShowInfo("Nothing to undo")
	default:
		m.refresh()
		m.toasts.ShowSuccess("Restored " + m.snap.Project.Title)
	}
}

// exportCmd writes the current project in the background.
func (m *Model) exportCmd() tea.Cmd {
	if m.opts.Exporter == nil {
		return nil
	}
	if !m.snap.HasProject() {
		m.toasts.ShowInfo("Nothing to export yet")
		return nil
	}
	p, exp := m.snap.Project.Clone(), m.opts.Exporter
	return func() tea.Msg {
		report, err := exp.Export(p)
		return ExportedMsg{Report: report, Err: err}
	}
}

// refresh pulls a snapshot from the workspace into the child models.
func (m *Model) refresh() {
	snap := m.ws.Snapshot()
	m.snap = snap

	if snap.Error != "" && snap.Error != m.lastError {
		m.toasts.ShowError(snap.Error)
	}
	m.lastError = snap.Error

	m.input.SetLoading(snap.Loading)
	m.files.SetProject(snap.Project, snap.Changes())
	if f, ok := snap.Project.SelectedFile(); ok {
		m.viewer.SetFile(&f, snap.Previous)
	} else {
		m.viewer.SetFile(nil, nil)
	}
}

// welcomeVisible reports whether the quick-start overlay is shown.
func (m Model) welcomeVisible() bool {
	return m.opts.ShowWelcome && !m.snap.HasProject() && !m.snap.Loading
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	// The filter prompt owns every key until it is closed.
	if m.focus == FocusFiles && m.files.Filtering() {
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+k":
		return m.setFocus(FocusInput)
	case "ctrl+l":
		return m.input.ToggleListening()
	case "ctrl+z":
		m.undo()
		return nil
	case "ctrl+s":
		return m.exportCmd()
	case "tab":
		return m.setFocus(m.focus.next())
	case "esc":
		if m.snap.Error != "" {
			m.ws.DismissError()
			m.refresh()
			return nil
		}
	case "1", "2":
		if m.welcomeVisible() && strings.TrimSpace(m.input.Value()) == "" {
			idx := int(msg.Runes[0] - '1')
			return submitCmd(quickPrompts[idx])
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case FocusFiles:
		m.files, cmd = m.files.Update(msg)
	case FocusViewer:
		m.viewer, cmd = m.viewer.Update(msg)
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	if f == FocusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// Focus returns the pane that receives keys.
func (m Model) Focus() Focus {
	return m.focus
}

// Snapshot returns the workspace state last pulled by the UI.
func (m Model) Snapshot() workspace.Snapshot {
	return m.snap
}

const (
	headerHeight = 2 // title line and bottom border
	statusHeight = 1
	inputHeight  = 3 // prompt line and border
)

// layout sizes child models for the current window.
func (m *Model) layout() {
	bodyHeight := max(m.height-headerHeight-statusHeight-inputHeight, 4)
	sidebar := m.sidebarWidth()

	m.files.SetSize(sidebar-4, bodyHeight-2)
	m.viewer.SetSize(m.width-sidebar-4, bodyHeight-2)
	m.input.SetWidth(max(m.width-6, 10))
}

func (m Model) sidebarWidth() int {
	w := m.width / 4
	if w < 24 {
		w = 24
	}
	if w > 40 {
		w = 40
	}
	return w
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	bodyHeight := max(m.height-headerHeight-statusHeight-inputHeight, 4)
	sidebar := m.sidebarWidth()
	mainWidth := m.width - sidebar

	list := m.styles.panelStyle(m.focus == FocusFiles).
		Width(sidebar - 2).
		Height(bodyHeight - 2).
		MaxHeight(bodyHeight).
		Render(m.files.View(m.focus == FocusFiles))

	var main string
	switch {
	case m.snap.Loading:
		main = m.renderOverlay(mainWidth, bodyHeight, m.loadingView())
	case m.welcomeVisible():
		main = m.renderOverlay(mainWidth, bodyHeight, m.welcomeView())
	default:
		main = m.styles.panelStyle(m.focus == FocusViewer).
			Width(mainWidth - 2).
			Height(bodyHeight - 2).
			MaxHeight(bodyHeight).
			Render(m.viewer.View())
	}

	input := m.styles.panelStyle(m.focus == FocusInput).
		Width(m.width - 2).
		Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, main),
		m.statusView(),
		input,
	)
}

func (m Model) headerView() string {
	header := m.styles.Brand.Render("PULSE IDE")
	if m.opts.ModelID != "" {
		header += m.styles.ModelBadge.Render(m.opts.ModelID)
	}
	if m.snap.Error != "" {
		header += "  " + m.styles.HeaderErr.Render("Error: "+m.snap.Error)
	}
	return m.styles.HeaderBar.Width(m.width).MaxHeight(headerHeight).Render(header)
}

func (m Model) statusView() string {
	if m.toasts.Count() > 0 {
		return m.toasts.View(m.width, statusHeight)
	}

	var hints []string
	switch m.focus {
	case FocusFiles:
		hints = []string{"↑/↓ move", "enter open", "/ filter"}
	case FocusViewer:
		hints = []string{"↑/↓ scroll", "d diff", "m preview", "c copy"}
	default:
		hints = []string{"enter send", "ctrl+l listen"}
	}
	if m.snap.HasProject() && m.opts.Exporter != nil {
		hints = append(hints, "ctrl+s export")
	}
	if m.snap.Undoable > 0 {
		hints = append(hints, "ctrl+z undo")
	}
	if m.snap.Error != "" {
		hints = append(hints, "esc dismiss")
	}
	hints = append(hints, "tab focus", "ctrl+c quit")
	return m.styles.Hint.Render(truncate(strings.Join(hints, " · "), m.width))
}

func (m Model) renderOverlay(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		m.styles.Overlay.Render(content))
}

func (m Model) loadingView() string {
	return m.styles.OverlayTitle.Render(m.spinner.View()+" Architecting") + "\n\n" +
		m.styles.Dim.Render("Pulse is compiling multi-file structure...")
}

func (m Model) welcomeView() string {
	var b strings.Builder
	b.WriteString(m.styles.OverlayTitle.Render("What should Pulse build?"))
	b.WriteString("\n\n")
	for i, p := range quickPrompts {
		b.WriteString(m.styles.KeyCap.Render(fmt.Sprintf("[%d]", i+1)))
		b.WriteString(" ")
		b.WriteString(m.styles.Text.Render(p))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Hint.Render("or describe a project below and press enter"))
	return b.String()
}
