package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary    = lipgloss.Color("#5d8ca8") // blue
	ColorBackground = lipgloss.Color("#171922") // dark
	ColorText       = lipgloss.Color("#d5d8dc") // main text
	ColorMuted      = lipgloss.Color("#8d93ab") // muted text
	ColorSuccess    = lipgloss.Color("#3f866b") // green
	ColorError      = lipgloss.Color("#b04a5a") // red
	ColorWarning    = lipgloss.Color("#c78854") // warning
	ColorBorder     = lipgloss.Color("#2a3440") // border
	ColorAccent     = lipgloss.Color("#a7754e") // warm
)

// --- Reusable Styles ---

var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
)

// ApplyTheme adjusts the palette for the configured theme. The light
// theme only swaps the foreground colors that would otherwise vanish
// on a bright terminal background.
func ApplyTheme(theme string) {
	if theme != "light" {
		return
	}
	ColorText = lipgloss.Color("#2b2d33")
	ColorMuted = lipgloss.Color("#5a5f73")
	NormalStyle = NormalStyle.Foreground(ColorText)
	MutedStyle = MutedStyle.Foreground(ColorMuted)
}
