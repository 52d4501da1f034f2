package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The outline must stay readable on both light and dark terminals, so every
// color is an AdaptiveColor and "faint" styling is never used on light
// backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorCarried    = ac("130", "179")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorAccent     = ac("27", "75")

	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleDone     = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	styleCarried  = lipgloss.NewStyle().Foreground(colorCarried)
	styleSelected = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
	styleHelp     = lipgloss.NewStyle().Foreground(colorMuted)
)

// ConfigureColorProfile applies termenv's detection, honoring NO_COLOR.
// Call once before the program starts.
func ConfigureColorProfile() {
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}
