package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/gcstats"
	"github.com/agbru/gcstats/internal/format"
	"github.com/agbru/gcstats/internal/metrics"
)

// MetricsModel shows session totals next to the runtime-wide counters, so
// cycles the runtime started by itself are visible even though no report
// covers them.
type MetricsModel struct {
	runtime      metrics.RuntimeSnapshot
	numGoroutine int
	rss          uint64
	cpuPercent   float64
	memPercent   float64

	cycles     uint64
	totalPause uint64
	reclaimed  uint64
	width      int
	height     int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats stores the latest runtime snapshot.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.runtime = msg.RuntimeSnapshot
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats stores the process footprint.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.rss = msg.RSS
	m.cpuPercent = msg.CPUPercent
	m.memPercent = msg.MemPercent
}

// AddStats folds one delivered cycle into the session totals.
func (m *MetricsModel) AddStats(s gcstats.Stats) {
	m.cycles++
	m.totalPause += s.Pause
	if s.Diff.UsedHeapSize < 0 {
		m.reclaimed += uint64(-s.Diff.UsedHeapSize)
	}
}

// MeanPause returns the average pause of the reported cycles in ns.
func (m MetricsModel) MeanPause() uint64 {
	if m.cycles == 0 {
		return 0
	}
	return m.totalPause / m.cycles
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	colWidth := max((m.width-6)/2, 0)

	left := []string{
		formatMetricCol("Cycles:", format.FormatUint(m.cycles), colWidth),
		formatMetricCol("Mean pause:", format.FormatPause(m.MeanPause()), colWidth),
		formatMetricCol("Reclaimed:", format.FormatBytes(m.reclaimed), colWidth),
	}
	right := []string{
		formatMetricCol("Runtime GC:", fmt.Sprintf("%d (%d bg)", m.runtime.NumGC, m.runtime.Background()), colWidth),
		formatMetricCol("Heap:", format.FormatBytes(m.runtime.HeapAlloc)+" / "+format.FormatBytes(m.runtime.HeapSys), colWidth),
		formatMetricCol("RSS:", format.FormatBytes(m.rss), colWidth),
	}

	var rows strings.Builder
	pipe := metricLabelStyle.Render(" | ")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s%s%s %s",
		metricLabelStyle.Render("Goroutines:"), metricValueStyle.Render(fmt.Sprintf("%d", m.numGoroutine)),
		pipe,
		metricLabelStyle.Render("CPU:"), metricValueStyle.Render(fmt.Sprintf("%.1f%%", m.cpuPercent)),
		pipe,
		metricLabelStyle.Render("Mem:"), metricValueStyle.Render(fmt.Sprintf("%.1f%%", m.memPercent))))
	for i := range left {
		rows.WriteString("\n")
		rows.WriteString(left[i])
		rows.WriteString(right[i])
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
