// Package theme holds the color palette and shared styles of the TUI.
package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	current   *Theme
	currentMu sync.RWMutex
)

// Current returns the active theme, the Catppuccin Mocha palette unless
// SetCurrent was called.
func Current() *Theme {
	currentMu.RLock()
	t := current
	currentMu.RUnlock()
	if t != nil {
		return t
	}

	currentMu.Lock()
	defer currentMu.Unlock()
	if current == nil {
		current = NewCatppuccinMocha()
	}
	return current
}

// SetCurrent replaces the active theme.
func SetCurrent(t *Theme) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = t
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)),
		Body: lipgloss.NewStyle().
			Foreground(c(t.FgBase)),
		Muted: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),

		Label: lipgloss.NewStyle().
			Foreground(c(t.FgBright)).
			Bold(true),
		LabelFocused: lipgloss.NewStyle().
			Foreground(c(t.Secondary)).
			Bold(true),
		FieldError: lipgloss.NewStyle().
			Foreground(c(t.Error)),
		Required: lipgloss.NewStyle().
			Foreground(c(t.Error)),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Secondary)).
			Padding(1, 2),
		Notice: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Warning)).
			Foreground(c(t.Warning)).
			Padding(0, 1),

		ProgressDone: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Primary)).
			Bold(true),
		ProgressTodo: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)).
			Background(c(t.BgSurface0)),
		ProgressLine: lipgloss.NewStyle().
			Foreground(c(t.BgSurface2)),

		ButtonNormal: button.
			Foreground(c(t.FgBase)).
			Background(c(t.BgSurface0)),
		ButtonFocused: button.
			Foreground(c(t.BgBase)).
			Background(c(t.Secondary)).
			Bold(true),
		ButtonDisabled: button.
			Foreground(c(t.FgMuted)).
			Background(c(t.BgMantle)),

		HintKey: lipgloss.NewStyle().
			Foreground(c(t.FgBright)).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)),
		HintSeparator: lipgloss.NewStyle().
			Foreground(c(t.BgSurface2)),

		ToastSuccess: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Success)).
			Padding(0, 1),
		ToastError: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Error)).
			Padding(0, 1),
		ToastTitleSuccess: lipgloss.NewStyle().
			Foreground(c(t.Success)).
			Bold(true),
		ToastTitleError: lipgloss.NewStyle().
			Foreground(c(t.Error)).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(c(t.Primary)),
	}
}
