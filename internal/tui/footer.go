package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the key hints and the session status.
type FooterModel struct {
	keymap KeyMap
	paused bool
	done   bool
	width  int
}

// NewFooterModel creates a footer for the given bindings.
func NewFooterModel(km KeyMap) FooterModel {
	return FooterModel{keymap: km}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused toggles the paused status.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone marks the session finished.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// Status returns the status word shown on the right.
func (f FooterModel) Status() string {
	switch {
	case f.done:
		return "DONE"
	case f.paused:
		return "PAUSED"
	}
	return "COLLECTING"
}

// View renders the footer.
func (f FooterModel) View() string {
	var hints []string
	for _, b := range []struct{ k, d string }{
		{f.keymap.Quit.Help().Key, f.keymap.Quit.Help().Desc},
		{f.keymap.Pause.Help().Key, f.keymap.Pause.Help().Desc},
		{f.keymap.Reset.Help().Key, f.keymap.Reset.Help().Desc},
		{f.keymap.Up.Help().Key, f.keymap.Up.Help().Desc},
	} {
		hints = append(hints, footerKeyStyle.Render(b.k)+" "+footerDescStyle.Render(b.d))
	}
	left := " " + strings.Join(hints, "  ")

	var status string
	switch f.Status() {
	case "DONE":
		status = statusDoneStyle.Render("DONE")
	case "PAUSED":
		status = statusPausedStyle.Render("PAUSED")
	default:
		status = statusRunningStyle.Render("COLLECTING")
	}

	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(status)-1, 1)
	return left + strings.Repeat(" ", gap) + status
}
