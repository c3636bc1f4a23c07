package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/gcstats/internal/ui"
)

// Style variables for the dashboard, rebuilt from the ui theme by
// initTUIStyles.
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	elapsedStyle       lipgloss.Style
	logSeqStyle        lipgloss.Style
	logFullStyle       lipgloss.Style
	logScavengeStyle   lipgloss.Style
	growStyle          lipgloss.Style
	shrinkStyle        lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	pauseSparkStyle    lipgloss.Style
	heapChartStyle     lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run after InitTheme.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	versionStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)

	logSeqStyle = lipgloss.NewStyle().Foreground(t.Dim)
	logFullStyle = lipgloss.NewStyle().Foreground(t.Full).Bold(true)
	logScavengeStyle = lipgloss.NewStyle().Foreground(t.Scavenge).Bold(true)
	growStyle = lipgloss.NewStyle().Foreground(t.Grow)
	shrinkStyle = lipgloss.NewStyle().Foreground(t.Shrink)

	metricLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	metricValueStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	pauseSparkStyle = lipgloss.NewStyle().Foreground(t.Full)
	heapChartStyle = lipgloss.NewStyle().Foreground(t.Scavenge)

	footerKeyStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Shrink).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

// deltaStyle colors a signed heap delta: growth red, shrink green.
func deltaStyle(d int64) lipgloss.Style {
	switch {
	case d > 0:
		return growStyle
	case d < 0:
		return shrinkStyle
	}
	return metricLabelStyle
}
