// Package ui provides terminal styling for boardctl output.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors, adaptive for light and dark terminals.
var (
	ColorOK = lipgloss.AdaptiveColor{
		Light: "#1a7f37",
		Dark:  "#3fb950",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#9a6700",
		Dark:  "#d29922",
	}
	ColorErr = lipgloss.AdaptiveColor{
		Light: "#cf222e",
		Dark:  "#f85149",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#656d76",
		Dark:  "#8b949e",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#0969da",
		Dark:  "#58a6ff",
	}
)

var (
	OKStyle     = lipgloss.NewStyle().Foreground(ColorOK)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	ErrStyle    = lipgloss.NewStyle().Foreground(ColorErr)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// Status icons.
const (
	IconOK   = "✓"
	IconWarn = "⚠"
	IconErr  = "✗"
	IconDot  = "•"
)

// DisableColor forces plain ASCII output, for --no-color and
// non-terminal destinations.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// OK renders s in the success style.
func OK(s string) string { return OKStyle.Render(s) }

// Warn renders s in the warning style.
func Warn(s string) string { return WarnStyle.Render(s) }

// Err renders s in the error style.
func Err(s string) string { return ErrStyle.Render(s) }

// Muted renders s in the muted style.
func Muted(s string) string { return MutedStyle.Render(s) }

// Accent renders s in the accent style.
func Accent(s string) string { return AccentStyle.Render(s) }

// Header renders s as a bold section header.
func Header(s string) string { return HeaderStyle.Render(s) }
