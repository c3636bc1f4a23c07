package tui

import (
	"strings"
	"testing"

	"github.com/agbru/gcstats"
)

func TestChartModel_AddStats(t *testing.T) {
	chart := NewChartModel()
	chart.SetSize(50, 10)

	chart.AddStats(gcstats.Stats{Pause: 1_000_000, After: gcstats.HeapInfo{UsedHeapSize: 4 << 20}})
	chart.AddStats(gcstats.Stats{Pause: 3_000_000, After: gcstats.HeapInfo{UsedHeapSize: 2 << 20}})

	if chart.pauses.Len() != 2 || chart.used.Len() != 2 {
		t.Fatalf("expected 2 samples, got %d pauses and %d used", chart.pauses.Len(), chart.used.Len())
	}
	if chart.pauses.Max() != 3_000_000 {
		t.Errorf("expected max pause 3ms, got %f", chart.pauses.Max())
	}
	if chart.lastUsed != 2<<20 {
		t.Errorf("expected last used 2 MiB, got %d", chart.lastUsed)
	}
}

func TestChartModel_SetSize_GrowsHistory(t *testing.T) {
	chart := NewChartModel()
	chart.SetSize(200, 10)
	if chart.used.Cap() != (200-4)*2 {
		t.Errorf("expected history capacity %d, got %d", (200-4)*2, chart.used.Cap())
	}
	chart.SetSize(20, 10)
	if chart.used.Cap() != (200-4)*2 {
		t.Error("history should not shrink with the panel")
	}
}

func TestChartModel_Reset(t *testing.T) {
	chart := NewChartModel()
	chart.AddStats(gcstats.Stats{Pause: 1})
	chart.Reset()

	if chart.pauses.Len() != 0 || chart.used.Len() != 0 || chart.lastUsed != 0 {
		t.Error("expected empty chart after reset")
	}
}

func TestChartModel_View(t *testing.T) {
	chart := NewChartModel()
	chart.SetSize(60, 10)
	chart.AddStats(gcstats.Stats{Pause: 2_000_000, After: gcstats.HeapInfo{UsedHeapSize: 1 << 20}})

	view := chart.View()
	for _, want := range []string{"Pause", "Used heap", "2.000ms", "1.00 MiB"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
