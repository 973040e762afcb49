package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors for the UI theme - Muted Professional Palette
var (
	ColorPrimary   = lipgloss.Color("#A78BFA") // Soft Purple (Lavender 400)
	ColorSecondary = lipgloss.Color("#22D3EE") // Bright Cyan (Cyan 400)
	ColorSuccess   = lipgloss.Color("#059669") // Emerald 600
	ColorWarning   = lipgloss.Color("#D97706") // Amber 600
	ColorError     = lipgloss.Color("#DC2626") // Red 600
	ColorMuted     = lipgloss.Color("#9CA3AF") // Gray 400
	ColorText      = lipgloss.Color("#F1F5F9") // Slate 100
	ColorBg        = lipgloss.Color("#0F172A") // Slate 900

	ColorBorder    = lipgloss.Color("#1E293B") // Slate 800
	ColorDim       = lipgloss.Color("#6B7280") // Gray 500
	ColorInfo      = lipgloss.Color("#2DD4BF") // Teal 400
	ColorSelection = lipgloss.Color("#1F2937") // Gray 800
	ColorFocus     = lipgloss.Color("#4C1D95") // Violet 900
)

// Styles holds all the lipgloss styles used by the IDE.
type Styles struct {
	// Header
	Brand      lipgloss.Style
	ModelBadge lipgloss.Style
	HeaderBar  lipgloss.Style
	HeaderErr  lipgloss.Style

	// Panels
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// File list
	FileNormal   lipgloss.Style
	FileSelected lipgloss.Style
	FileCursor   lipgloss.Style
	MarkAdded    lipgloss.Style
	MarkModified lipgloss.Style
	FilterPrompt lipgloss.Style

	// Viewer
	ViewerPath    lipgloss.Style
	LanguageBadge lipgloss.Style
	ModeBadge     lipgloss.Style
	Placeholder   lipgloss.Style

	// Input
	InputPrompt    lipgloss.Style
	InputDisabled  lipgloss.Style
	ListeningBadge lipgloss.Style

	// Overlays
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Spinner      lipgloss.Style

	// Text
	Text   lipgloss.Style
	Dim    lipgloss.Style
	Hint   lipgloss.Style
	KeyCap lipgloss.Style
}

// DefaultStyles returns the default IDE styles.
func DefaultStyles() *Styles {
	return &Styles{
		Brand: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		ModelBadge: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Padding(0, 1),
		HeaderBar: lipgloss.NewStyle().
			Foreground(ColorText).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorBorder),
		HeaderErr: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),
		PanelFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		FileNormal: lipgloss.NewStyle().
			Foreground(ColorText),
		FileSelected: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Background(ColorSelection).
			Bold(true),
		FileCursor: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		MarkAdded: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		MarkModified: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true),
		FilterPrompt: lipgloss.NewStyle().
			Foreground(ColorWarning),

		ViewerPath: lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true),
		LanguageBadge: lipgloss.NewStyle().
			Foreground(ColorBg).
			Background(ColorSecondary).
			Bold(true).
			Padding(0, 1),
		ModeBadge: lipgloss.NewStyle().
			Foreground(ColorBg).
			Background(ColorPrimary).
			Padding(0, 1),
		Placeholder: lipgloss.NewStyle().
			Foreground(ColorDim).
			Italic(true),

		InputPrompt: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		InputDisabled: lipgloss.NewStyle().
			Foreground(ColorDim),
		ListeningBadge: lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorError).
			Bold(true).
			Padding(0, 1),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 3).
			Align(lipgloss.Center),
		OverlayTitle: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		Spinner: lipgloss.NewStyle().
			Foreground(ColorPrimary),

		Text: lipgloss.NewStyle().
			Foreground(ColorText),
		Dim: lipgloss.NewStyle().
			Foreground(ColorDim),
		Hint: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),
		KeyCap: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true),
	}
}

// panelStyle returns the border style for a panel depending on focus.
func (s *Styles) panelStyle(focused bool) lipgloss.Style {
	if focused {
		return s.PanelFocused
	}
	return s.Panel
}
