package tui

import (
	"github.com/charmbracelet/lipgloss"

	vo "ticketdash/internal/domain/simulation/valueobjects"
)

// Theme defines the color palette of the dashboard. Colors are ANSI 256-color
// codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	FocusBorder      lipgloss.Color

	StatusRunning    lipgloss.Color
	StatusStopped    lipgloss.Color
	StatusNotStarted lipgloss.Color

	ErrorText   lipgloss.Color
	SuccessText lipgloss.Color
	ChartColor  lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:       lipgloss.Color("252"),
	FaintText:        lipgloss.Color("243"),
	HeaderForeground: lipgloss.Color("75"),
	BorderColor:      lipgloss.Color("238"),
	FocusBorder:      lipgloss.Color("75"),
	StatusRunning:    lipgloss.Color("114"),
	StatusStopped:    lipgloss.Color("203"),
	StatusNotStarted: lipgloss.Color("243"),
	ErrorText:        lipgloss.Color("203"),
	SuccessText:      lipgloss.Color("114"),
	ChartColor:       lipgloss.Color("179"),
}

// StatusColor returns the color of a system state label.
func (theme Theme) StatusColor(state vo.SystemState) lipgloss.Color {
	switch {
	case state.IsRunning():
		return theme.StatusRunning
	case state.IsStopped():
		return theme.StatusStopped
	default:
		return theme.StatusNotStarted
	}
}
