package ui

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastType represents the type of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast is a short-lived notification shown under the header.
type Toast struct {
	ID        int
	Type      ToastType
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

// expired reports whether the toast should be removed at now.
func (t Toast) expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) > t.Duration
}

// ToastManager manages toast notifications.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	maxToasts int
	nextID    int
	now       func() time.Time
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		maxToasts: 3,
		nextID:    1,
		now:       time.Now,
	}
}

// Show displays a new toast, newest first.
func (m *ToastManager) Show(toastType ToastType, message string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	toast := Toast{
		ID:        m.nextID,
		Type:      toastType,
		Message:   message,
		Duration:  duration,
		CreatedAt: m.now(),
	}
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
}

// ShowSuccess displays a success toast.
func (m *ToastManager) ShowSuccess(message string) {
	m.Show(ToastSuccess, message, 3*time.Second)
}

// ShowError displays an error toast.
func (m *ToastManager) ShowError(message string) {
	m.Show(ToastError, message, 5*time.Second)
}

// ShowInfo displays an info toast.
func (m *ToastManager) ShowInfo(message string) {
	m.Show(ToastInfo, message, 3*time.Second)
}

// ShowWarning displays a warning toast.
func (m *ToastManager) ShowWarning(message string) {
	m.Show(ToastWarning, message, 4*time.Second)
}

// Prune removes expired toasts.
func (m *ToastManager) Prune() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if !toast.expired(now) {
			active = append(active, toast)
		}
	}
	m.toasts = active
}

// Count returns the number of active toasts.
func (m *ToastManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// View renders up to limit active toasts, newest first, one per line.
// A limit of zero or less renders all of them.
func (m *ToastManager) View(width, limit int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.toasts) == 0 {
		return ""
	}

	toasts := m.toasts
	if limit > 0 && len(toasts) > limit {
		toasts = toasts[:limit]
	}
	lines := make([]string, 0, len(toasts))
	now := m.now()
	for _, toast := range toasts {
		lines = append(lines, renderToast(toast, width, now))
	}
	return strings.Join(lines, "\n")
}

// renderToast renders a toast as a compact single line: icon then message.
func renderToast(toast Toast, width int, now time.Time) string {
	var icon string
	var iconColor lipgloss.Color

	switch toast.Type {
	case ToastSuccess:
		icon, iconColor = "✓", ColorSuccess
	case ToastError:
		icon, iconColor = "✗", ColorError
	case ToastWarning:
		icon, iconColor = "⚠", ColorWarning
	default:
		icon, iconColor = "ℹ", ColorInfo
	}

	// Fade when nearing expiration
	if toast.Duration-now.Sub(toast.CreatedAt) < 500*time.Millisecond {
		iconColor = ColorDim
	}

	iconStyle := lipgloss.NewStyle().Foreground(iconColor).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	maxLen := width - 5
	if maxLen < 20 {
		maxLen = 20
	}
	msg := []rune(toast.Message)
	if len(msg) > maxLen {
		msg = append(msg[:maxLen-1], '…')
	}

	return iconStyle.Render(icon) + " " + msgStyle.Render(string(msg))
}

// toastTickMsg drives toast expiry.
type toastTickMsg time.Time

// toastTick schedules the next expiry check.
func toastTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}
