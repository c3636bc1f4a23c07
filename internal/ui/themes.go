package ui

import (
	"os"
	"sync"

	"github.com/agbru/gcstats/internal/cycle"
	"github.com/charmbracelet/lipgloss"
)

// Theme is the ANSI palette of the text reporter.
type Theme struct {
	Name string
	// Full and Scavenge color the collection kind.
	Full     string
	Scavenge string
	// Grow and Shrink color positive and negative heap deltas.
	Grow   string
	Shrink string
	Dim    string
	Bold   string
	Reset  string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:     "dark",
		Full:     "\033[38;5;208m", // Orange
		Scavenge: "\033[38;5;69m",  // Blue
		Grow:     "\033[38;5;196m", // Red
		Shrink:   "\033[38;5;82m",  // Green
		Dim:      "\033[38;5;245m",
		Bold:     "\033[1m",
		Reset:    "\033[0m",
	}

	// NoColorTheme disables all color output.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme is the lipgloss palette of the dashboard.
type TUITheme struct {
	Text     lipgloss.TerminalColor
	Border   lipgloss.TerminalColor
	Accent   lipgloss.TerminalColor
	Full     lipgloss.TerminalColor
	Scavenge lipgloss.TerminalColor
	Grow     lipgloss.TerminalColor
	Shrink   lipgloss.TerminalColor
	Warning  lipgloss.TerminalColor
	Dim      lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the orange-dominant dashboard palette.
	DarkTUITheme = TUITheme{
		Text:     lipgloss.Color("#E0E0E0"),
		Border:   lipgloss.Color("#FF6600"),
		Accent:   lipgloss.Color("#FF8C00"),
		Full:     lipgloss.Color("#FF8C00"),
		Scavenge: lipgloss.Color("#4488FF"),
		Grow:     lipgloss.Color("#FF4444"),
		Shrink:   lipgloss.Color("#9ece6a"),
		Warning:  lipgloss.Color("#FFB347"),
		Dim:      lipgloss.Color("#666666"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:     lipgloss.NoColor{},
		Border:   lipgloss.NoColor{},
		Accent:   lipgloss.NoColor{},
		Full:     lipgloss.NoColor{},
		Scavenge: lipgloss.NoColor{},
		Grow:     lipgloss.NoColor{},
		Shrink:   lipgloss.NoColor{},
		Warning:  lipgloss.NoColor{},
		Dim:      lipgloss.NoColor{},
	}
)

// GetCurrentTheme returns the active text theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// GetCurrentTUITheme returns the dashboard palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	if currentTheme.Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme picks the theme from the noColor flag and the NO_COLOR
// environment variable (https://no-color.org/).
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		currentTheme = NoColorTheme
		return
	}
	currentTheme = DarkTheme
}

// KindColor returns the escape code for a collection kind.
func (t Theme) KindColor(k cycle.GCType) string {
	switch k {
	case cycle.GCTypeFull:
		return t.Full
	case cycle.GCTypeScavenge:
		return t.Scavenge
	}
	return t.Dim
}

// DeltaColor returns the escape code for a signed heap delta.
func (t Theme) DeltaColor(d int64) string {
	switch {
	case d > 0:
		return t.Grow
	case d < 0:
		return t.Shrink
	}
	return t.Dim
}
