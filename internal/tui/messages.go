package tui

import (
	"time"

	"github.com/agbru/gcstats"
	"github.com/agbru/gcstats/internal/metrics"
)

// StatsMsg carries one delivered collection report.
type StatsMsg struct {
	Stats gcstats.Stats
}

// DoneMsg reports that the driver stopped raising collections.
type DoneMsg struct {
	Err error
}

// TickMsg triggers periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime-wide snapshot, background cycles included.
type MemStatsMsg struct {
	metrics.RuntimeSnapshot
	NumGoroutine int
}

// SysStatsMsg carries system and process resource usage.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
	RSS        uint64
}

// ContextCancelledMsg is sent when the session context ends.
type ContextCancelledMsg struct {
	Err error
}
