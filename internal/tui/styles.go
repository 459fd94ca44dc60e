package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the shell.
type Styles struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
}

// DefaultStyles returns the shell's color scheme.
func DefaultStyles() Styles {
	return Styles{
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Assistant: lipgloss.NewStyle().PaddingLeft(2),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).PaddingLeft(2),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	}
}
