package theme

import "charm.land/lipgloss/v2"

// Styles describes the fixed Lip Gloss style set of the picker. Styles
// always render full colour; the terminal writer downsamples them.
type Styles struct {
	PromptMarker   *lipgloss.Style
	Prompt         *lipgloss.Style
	Query          *lipgloss.Style
	ProgressMarker *lipgloss.Style
	Progress       *lipgloss.Style
	Item           *lipgloss.Style
	SelectedMarker *lipgloss.Style
	SelectedItem   *lipgloss.Style
	SuccessMarker  *lipgloss.Style
	Success        *lipgloss.Style
}

var (
	yellow = lipgloss.Color("3")
	green  = lipgloss.Color("2")
	cyan   = lipgloss.Color("6")
)

// New builds the picker's style set.
func New() *Styles {
	return &Styles{
		PromptMarker: ptr(
			lipgloss.NewStyle().Foreground(yellow).Bold(true),
		),
		Prompt: ptr(
			lipgloss.NewStyle().Bold(true),
		),
		Query: ptr(
			lipgloss.NewStyle(),
		),
		ProgressMarker: ptr(
			lipgloss.NewStyle().Foreground(yellow),
		),
		Progress: ptr(
			lipgloss.NewStyle().Faint(true),
		),
		Item: ptr(
			lipgloss.NewStyle(),
		),
		SelectedMarker: ptr(
			lipgloss.NewStyle().Foreground(green).Bold(true),
		),
		SelectedItem: ptr(
			lipgloss.NewStyle().Foreground(cyan).Bold(true),
		),
		SuccessMarker: ptr(
			lipgloss.NewStyle().Foreground(green).Bold(true),
		),
		Success: ptr(
			lipgloss.NewStyle().Bold(true),
		),
	}
}

// Plain returns a style set without any attributes.
func Plain() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		PromptMarker:   ptr(plain),
		Prompt:         ptr(plain),
		Query:          ptr(plain),
		ProgressMarker: ptr(plain),
		Progress:       ptr(plain),
		Item:           ptr(plain),
		SelectedMarker: ptr(plain),
		SelectedItem:   ptr(plain),
		SuccessMarker:  ptr(plain),
		Success:        ptr(plain),
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
