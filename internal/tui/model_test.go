package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/gcstats"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := NewModel(ctx, Options{Version: "v1.0.0", Mode: "alternate"}, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_StatsMsg(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, StatsMsg{Stats: gcstats.Stats{Seq: 1, Pause: 1_000_000, GCType: gcstats.GCTypeFull}})
	m, _ = update(t, m, StatsMsg{Stats: gcstats.Stats{Seq: 2, Pause: 2_000_000, GCType: gcstats.GCTypeScavenge}})

	if m.logs.Len() != 2 {
		t.Errorf("expected 2 log entries, got %d", m.logs.Len())
	}
	if m.chart.pauses.Len() != 2 {
		t.Errorf("expected 2 chart samples, got %d", m.chart.pauses.Len())
	}
	if m.metrics.cycles != 2 {
		t.Errorf("expected 2 cycles counted, got %d", m.metrics.cycles)
	}
}

func TestModel_PauseFreezesLogButCounts(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if !m.paused || m.footer.Status() != "PAUSED" {
		t.Fatal("expected paused dashboard")
	}

	m, _ = update(t, m, StatsMsg{Stats: gcstats.Stats{Seq: 1}})
	if m.logs.Len() != 0 {
		t.Errorf("expected frozen log, got %d entries", m.logs.Len())
	}
	if m.metrics.cycles != 1 {
		t.Errorf("expected the cycle to be counted while paused, got %d", m.metrics.cycles)
	}
}

func TestModel_ResetClearsHistory(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, StatsMsg{Stats: gcstats.Stats{Seq: 1}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if m.logs.Len() != 0 || m.metrics.cycles != 0 || m.chart.pauses.Len() != 0 {
		t.Error("expected reset to clear log, chart and totals")
	}
}

func TestModel_DoneMsg(t *testing.T) {
	m := newTestModel(t)
	m, cmd := update(t, m, DoneMsg{Err: errors.New("collector stopped")})

	if cmd != nil {
		t.Error("DoneMsg should keep the dashboard open")
	}
	if !m.done || m.footer.Status() != "DONE" {
		t.Error("expected done status")
	}
	if m.logs.Len() != 1 {
		t.Errorf("expected the driver error in the log, got %d entries", m.logs.Len())
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_ContextCancelledQuits(t *testing.T) {
	m := newTestModel(t)
	m, cmd := update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if !m.done {
		t.Error("expected done after cancellation")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(context.Background(), Options{}, nil)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("expected placeholder before sizing, got %q", got)
	}

	m = newTestModel(t)
	m, _ = update(t, m, StatsMsg{Stats: gcstats.Stats{Seq: 7, Pause: 3_000_000, GCType: gcstats.GCTypeFull}})
	view := m.View()
	for _, want := range []string{"gcstats v1.0.0", "mode alternate", "#7", "full", "COLLECTING"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestLayoutManager(t *testing.T) {
	l := LayoutManager{width: 100, height: 40}
	if l.logsWidth()+l.rightWidth() != 100 {
		t.Error("panels should span the full width")
	}
	if l.metricsHeight()+l.chartHeight() != l.bodyHeight() {
		t.Error("right column should fill the body height")
	}

	tiny := LayoutManager{width: 10, height: 3}
	if tiny.bodyHeight() != minBodyHeight {
		t.Errorf("expected min body height %d, got %d", minBodyHeight, tiny.bodyHeight())
	}
}
