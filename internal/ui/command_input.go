package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	idlePlaceholder    = "Ask Pulse to build anything... (ctrl+k)"
	loadingPlaceholder = "Pulse is engineering..."
	maxHistorySize     = 50
)

// CommandInputModel is the one-line prompt at the bottom of the screen.
type CommandInputModel struct {
	textarea textarea.Model
	styles   *Styles
	disabled bool

	history      []string
	historyIndex int
	savedInput   string

	listening   bool
	listenSeq   int
	listenDelay time.Duration
}

// NewCommandInputModel creates a focused, enabled input. listenDelay is how
// long a simulated listening session lasts before it submits.
func NewCommandInputModel(styles *Styles, listenDelay time.Duration) CommandInputModel {
	ta := textarea.New()
	ta.Placeholder = idlePlaceholder
	ta.Prompt = "❯ "
	ta.Focus()
	ta.CharLimit = 10000
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return CommandInputModel{
		textarea:     ta,
		styles:       styles,
		history:      make([]string, 0, maxHistorySize),
		historyIndex: -1,
		listenDelay:  listenDelay,
	}
}

// Init returns the cursor blink command.
func (m CommandInputModel) Init() tea.Cmd {
	return textarea.Blink
}

// SetLoading disables the input while a request is in flight.
func (m *CommandInputModel) SetLoading(loading bool) {
	m.disabled = loading
	if loading {
		m.textarea.Placeholder = loadingPlaceholder
	} else {
		m.textarea.Placeholder = idlePlaceholder
	}
}

// Disabled reports whether the input is rejecting edits.
func (m CommandInputModel) Disabled() bool {
	return m.disabled
}

// Listening reports whether a simulated listening session is running.
func (m CommandInputModel) Listening() bool {
	return m.listening
}

// ToggleListening starts or stops a listening session. Starting schedules
// the transcript; stopping early fills an empty input with a fallback.
func (m *CommandInputModel) ToggleListening() tea.Cmd {
	m.listenSeq++
	if m.listening {
		m.listening = false
		if strings.TrimSpace(m.textarea.Value()) == "" {
			m.textarea.SetValue(listenStopFallback)
			m.textarea.CursorEnd()
		}
		return nil
	}

	m.listening = true
	seq := m.listenSeq
	return tea.Tick(m.listenDelay, func(time.Time) tea.Msg {
		return listenDoneMsg{seq: seq}
	})
}

// finishListening handles the end of a listening session. It returns a
// SubmitMsg command only for the session still running.
func (m *CommandInputModel) finishListening(msg listenDoneMsg) tea.Cmd {
	if !m.listening || msg.seq != m.listenSeq {
		return nil
	}
	m.listening = false
	return submitCmd(listenTranscript)
}

func submitCmd(text string) tea.Cmd {
	return func() tea.Msg { return SubmitMsg{Text: text} }
}

// Update handles key input while the prompt has focus.
func (m CommandInputModel) Update(msg tea.Msg) (CommandInputModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	if m.disabled {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		text := strings.TrimSpace(m.textarea.Value())
		if text == "" {
			return m, nil
		}
		m.addToHistory(text)
		m.Reset()
		return m, submitCmd(text)

	case tea.KeyUp:
		if len(m.history) > 0 {
			if m.historyIndex == -1 {
				m.savedInput = m.textarea.Value()
				m.historyIndex = len(m.history) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.textarea.SetValue(m.history[m.historyIndex])
			m.textarea.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.history)-1 {
				m.historyIndex++
				m.textarea.SetValue(m.history[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.textarea.SetValue(m.savedInput)
			}
			m.textarea.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *CommandInputModel) addToHistory(text string) {
	if n := len(m.history); n > 0 && m.history[n-1] == text {
		return
	}
	m.history = append(m.history, text)
	if len(m.history) > maxHistorySize {
		m.history = m.history[1:]
	}
}

// View renders the prompt line.
func (m CommandInputModel) View() string {
	view := m.textarea.View()
	if m.disabled {
		view = m.styles.InputDisabled.Render(view)
	}
	if m.listening {
		view = m.styles.ListeningBadge.Render("● LISTENING") + " " + view
	}
	return view
}

// Value returns the current text.
func (m CommandInputModel) Value() string {
	return m.textarea.Value()
}

// SetValue replaces the current text.
func (m *CommandInputModel) SetValue(s string) {
	m.textarea.SetValue(s)
	m.textarea.CursorEnd()
}

// Reset clears the text and history navigation.
func (m *CommandInputModel) Reset() {
	m.textarea.Reset()
	m.historyIndex = -1
	m.savedInput = ""
}

// SetWidth sets the prompt width.
func (m *CommandInputModel) SetWidth(width int) {
	m.textarea.SetWidth(width)
}

// Focus gives the prompt keyboard focus.
func (m *CommandInputModel) Focus() tea.Cmd {
	return m.textarea.Focus()
}

// Blur removes keyboard focus.
func (m *CommandInputModel) Blur() {
	m.textarea.Blur()
}

// Focused reports whether the prompt has keyboard focus.
func (m CommandInputModel) Focused() bool {
	return m.textarea.Focused()
}
