package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	Subtitle    lipgloss.Style
	Body        lipgloss.Style
	Muted       lipgloss.Style

	// Forms
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	FieldError   lipgloss.Style
	Required     lipgloss.Style

	// Containers
	Card   lipgloss.Style
	Notice lipgloss.Style

	// Progress bar
	ProgressDone lipgloss.Style
	ProgressTodo lipgloss.Style
	ProgressLine lipgloss.Style

	// Buttons
	ButtonNormal   lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Hint bar
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	// Toasts
	ToastSuccess      lipgloss.Style
	ToastError        lipgloss.Style
	ToastTitleSuccess lipgloss.Style
	ToastTitleError   lipgloss.Style

	Spinner lipgloss.Style
}
