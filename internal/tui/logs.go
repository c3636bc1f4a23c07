package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/gcstats"
	"github.com/agbru/gcstats/internal/format"
)

// maxLogEntries bounds the cycle log so long sessions stay flat in memory.
const maxLogEntries = 1000

// LogsModel is the scrollable list of delivered cycles, newest last.
type LogsModel struct {
	entries []string
	offset  int // lines scrolled up from the bottom
	width   int
	height  int
}

// NewLogsModel creates an empty cycle log.
func NewLogsModel() LogsModel {
	return LogsModel{}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// Len returns the number of retained entries.
func (l LogsModel) Len() int { return len(l.entries) }

// AddStats appends one rendered cycle.
func (l *LogsModel) AddStats(s gcstats.Stats) {
	l.add(formatLogEntry(s))
}

// AddNote appends a free-form line such as a driver error.
func (l *LogsModel) AddNote(text string) {
	l.add(logSeqStyle.Render(text))
}

func (l *LogsModel) add(line string) {
	l.entries = append(l.entries, line)
	if over := len(l.entries) - maxLogEntries; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
	if l.offset > 0 {
		l.offset++
	}
}

// Reset clears the log.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.offset = 0
}

// Scroll moves the view by delta lines; positive scrolls toward older entries.
func (l *LogsModel) Scroll(delta int) {
	l.offset = min(max(l.offset+delta, 0), max(len(l.entries)-l.visibleLines(), 0))
}

func (l LogsModel) visibleLines() int {
	return max(l.height-2, 1)
}

// visible returns the window of entries currently on screen.
func (l LogsModel) visible(lines int) []string {
	end := len(l.entries) - l.offset
	start := max(end-lines, 0)
	return l.entries[start:end]
}

// View renders the log at its configured height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}

// renderToHeight renders the log panel at an explicit outer height.
func (l LogsModel) renderToHeight(h int) string {
	lines := max(h-2, 1)
	body := strings.Join(l.visible(lines), "\n")
	if len(l.entries) == 0 {
		body = logSeqStyle.Render("waiting for the first collection...")
	}
	return panelStyle.
		Width(max(l.width-2, 0)).
		Height(lines).
		Render(body)
}

func formatLogEntry(s gcstats.Stats) string {
	kind := s.GCType.String()
	switch s.GCType {
	case gcstats.GCTypeFull:
		kind = logFullStyle.Render(fmt.Sprintf("%-8s", kind))
	case gcstats.GCTypeScavenge:
		kind = logScavengeStyle.Render(fmt.Sprintf("%-8s", kind))
	default:
		kind = logSeqStyle.Render(fmt.Sprintf("%-8s", kind))
	}
	return fmt.Sprintf("%s %s %10s  used %s %s",
		logSeqStyle.Render(fmt.Sprintf("#%-5d", s.Seq)),
		kind,
		format.FormatPause(s.Pause),
		format.FormatBytes(s.After.UsedHeapSize),
		deltaStyle(s.Diff.UsedHeapSize).Render("("+format.FormatSignedBytes(s.Diff.UsedHeapSize)+")"),
	)
}
