package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/gcstats/internal/format"
)

// HeaderModel renders the top bar: title, version, mode and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	mode      string
	target    uint64 // cycles to run, 0 for unbounded
	cycles    uint64
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, mode string, target uint64) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		mode:      mode,
		target:    target,
	}
}

// AddCycle counts one delivered cycle toward the target.
func (h *HeaderModel) AddCycle() {
	h.cycles++
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen session duration.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "gcstats"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	left := titleStyle.Render(titleText)
	if h.mode != "" {
		left += pipe + versionStyle.Render("mode "+h.mode)
	}
	if h.target > 0 {
		progress := float64(h.cycles) / float64(h.target)
		left += pipe + elapsedStyle.Render(format.ProgressBar(progress, 12)) +
			versionStyle.Render(fmt.Sprintf(" %d/%d", h.cycles, h.target))
	}
	left += pipe + elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	gap := max(h.width-2-lipgloss.Width(left), 0)
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap))
}
