package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/gcstats"
	"github.com/agbru/gcstats/internal/format"
)

// historySize is the default number of cycles kept for the charts; the
// buffers grow with the panel width.
const historySize = 120

// ChartModel plots per-cycle pause times and used heap after each cycle.
type ChartModel struct {
	pauses   *RingBuffer // ns
	used     *RingBuffer // bytes after the cycle
	lastUsed uint64
	width    int
	height   int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		pauses: NewRingBuffer(historySize),
		used:   NewRingBuffer(historySize),
	}
}

// SetSize updates dimensions and widens the history to fill the panel.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	if need := max(w-4, 1) * 2; need > c.used.Cap() {
		c.used.Resize(need)
		c.pauses.Resize(need)
	}
}

// AddStats records one cycle.
func (c *ChartModel) AddStats(s gcstats.Stats) {
	c.pauses.Push(float64(s.Pause))
	c.used.Push(float64(s.After.UsedHeapSize))
	c.lastUsed = s.After.UsedHeapSize
}

// Reset clears the history.
func (c *ChartModel) Reset() {
	c.pauses.Reset()
	c.used.Reset()
	c.lastUsed = 0
}

// View renders the chart panel.
func (c ChartModel) View() string {
	inner := max(c.width-4, 1)
	var b strings.Builder

	fmt.Fprintf(&b, " %s %s %s\n",
		metricLabelStyle.Render("Pause"),
		metricValueStyle.Render(format.FormatPause(uint64(c.pauses.Last()))),
		metricLabelStyle.Render("max "+format.FormatPause(uint64(c.pauses.Max()))))
	pauses := c.pauses.Slice()
	if len(pauses) > inner {
		pauses = pauses[len(pauses)-inner:]
	}
	b.WriteString(" " + pauseSparkStyle.Render(RenderSparkline(Normalize(pauses))) + "\n")

	fmt.Fprintf(&b, " %s %s %s",
		metricLabelStyle.Render("Used heap"),
		metricValueStyle.Render(format.FormatBytes(c.lastUsed)),
		metricLabelStyle.Render("peak "+format.FormatBytes(uint64(c.used.Max()))))

	if rows := c.height - 2 - 3; rows > 0 {
		for _, line := range RenderBrailleChart(Normalize(c.used.Slice()), inner, rows) {
			b.WriteString("\n " + heapChartStyle.Render(line))
		}
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(lipgloss.NewStyle().MaxWidth(max(c.width-2, 1)).Render(b.String()))
}
