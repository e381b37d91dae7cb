// Package ui provides terminal styling helpers for CLI output.
//
// Styles degrade to plain text when the terminal does not support
// color, so command output stays readable in logs and pipes.
package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

var colorEnabled = sync.OnceValue(func() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
})

func render(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

// RenderAccent styles informational markers.
func RenderAccent(s string) string {
	return render(accentStyle, s)
}

// RenderPass styles success markers.
func RenderPass(s string) string {
	return render(passStyle, s)
}

// RenderWarn styles warning markers.
func RenderWarn(s string) string {
	return render(warnStyle, s)
}

// RenderFail styles failure markers.
func RenderFail(s string) string {
	return render(failStyle, s)
}

// RenderMuted styles secondary detail text.
func RenderMuted(s string) string {
	return render(mutedStyle, s)
}

// RenderBold styles emphasized text.
func RenderBold(s string) string {
	return render(boldStyle, s)
}
