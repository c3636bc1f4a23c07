package tui

import (
	"context"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/gcstats/internal/metrics"
	"github.com/agbru/gcstats/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 8
	LogsPanelWidthPercent = 55
	MetricsPanelHeight    = 6
)

// sampleInterval paces runtime and process sampling.
const sampleInterval = 500 * time.Millisecond

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) logsWidth() int {
	return l.width * LogsPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.logsWidth()
}

func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Options configures the dashboard.
type Options struct {
	Version string
	Mode    string
	Cycles  uint64
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	LayoutManager

	ctx       context.Context
	collector *metrics.MemoryCollector
	sampler   *sysmon.ProcessSampler
	paused    bool
	done      bool
}

// NewModel creates a dashboard model bound to the session context. A nil
// sampler leaves the RSS figure at zero.
func NewModel(ctx context.Context, opts Options, sampler *sysmon.ProcessSampler) Model {
	km := DefaultKeyMap()
	return Model{
		header:    NewHeaderModel(opts.Version, opts.Mode, opts.Cycles),
		logs:      NewLogsModel(),
		metrics:   NewMetricsModel(),
		chart:     NewChartModel(),
		footer:    NewFooterModel(km),
		keymap:    km,
		ctx:       ctx,
		collector: metrics.NewMemoryCollector(),
		sampler:   sampler,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), watchContextCmd(m.ctx))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case StatsMsg:
		m.header.AddCycle()
		m.metrics.AddStats(msg.Stats)
		if !m.paused {
			m.logs.AddStats(msg.Stats)
			m.chart.AddStats(msg.Stats)
		}
		return m, nil

	case DoneMsg:
		if msg.Err != nil {
			m.logs.AddNote("driver stopped: " + msg.Err.Error())
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case TickMsg:
		if m.paused || m.done {
			return m, tickCmd()
		}
		return m, tea.Batch(m.sampleMemStatsCmd(), m.sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case ContextCancelledMsg:
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.logs.Reset()
		m.chart.Reset()
		m.metrics = NewMetricsModel()
		m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.logs.Scroll(1)
	case key.Matches(msg, m.keymap.Down):
		m.logs.Scroll(-1)
	case key.Matches(msg, m.keymap.PageUp):
		m.logs.Scroll(m.logs.visibleLines())
	case key.Matches(msg, m.keymap.PageDown):
		m.logs.Scroll(-m.logs.visibleLines())
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	logs := m.logs.renderToHeight(lipgloss.Height(rightCol))
	body := lipgloss.JoinHorizontal(lipgloss.Top, logs, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.logs.SetSize(m.logsWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run attaches the bridge and runs the dashboard until the user quits or ctx
// ends. Quitting does not cancel ctx; the caller stops the driver.
func Run(ctx context.Context, bridge *Bridge, opts Options) error {
	initTUIStyles()

	sampler, _ := sysmon.NewProcessSampler()
	model := NewModel(ctx, opts, sampler)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.ref.SetProgram(p)
	defer bridge.ref.SetProgram(nil)

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func tickCmd() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats off the UI goroutine.
func (m Model) sampleMemStatsCmd() tea.Cmd {
	collector := m.collector
	return func() tea.Msg {
		return MemStatsMsg{
			RuntimeSnapshot: collector.Snapshot(),
			NumGoroutine:    runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU/memory and the process RSS.
func (m Model) sampleSysStatsCmd() tea.Cmd {
	sampler := m.sampler
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
			RSS:        sampler.Sample().RSS,
		}
	}
}

// watchContextCmd waits for the session to end.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
