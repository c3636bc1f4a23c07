package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/agbru/gcstats"
	"github.com/agbru/gcstats/internal/config"
	"github.com/agbru/gcstats/internal/format"
	"github.com/agbru/gcstats/internal/sysmon"
	"github.com/agbru/gcstats/internal/ui"
)

// Summary aggregates the cycles a Reporter has seen.
type Summary struct {
	Cycles     uint64
	Full       uint64
	Scavenge   uint64
	TotalPause uint64
	MaxPause   uint64
	// Reclaimed sums the used-heap decrease of every cycle that shrank it.
	Reclaimed uint64
}

func (s *Summary) add(st gcstats.Stats) {
	s.Cycles++
	switch st.GCType {
	case gcstats.GCTypeFull:
		s.Full++
	case gcstats.GCTypeScavenge:
		s.Scavenge++
	}
	s.TotalPause += st.Pause
	s.MaxPause = max(s.MaxPause, st.Pause)
	if st.Diff.UsedHeapSize < 0 {
		s.Reclaimed += uint64(-st.Diff.UsedHeapSize)
	}
}

// MeanPause is TotalPause / Cycles in nanoseconds, 0 without cycles.
func (s Summary) MeanPause() uint64 {
	if s.Cycles == 0 {
		return 0
	}
	return s.TotalPause / s.Cycles
}

// DisplaySummary prints the end-of-session totals, with the process
// footprint when proc is set.
func DisplaySummary(out io.Writer, s Summary, proc *sysmon.ProcessStats) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s--- GC Summary ---%s\n", th.Bold, th.Reset)
	fmt.Fprintf(out, "Cycles:     %s (%s%d full%s, %s%d scavenge%s)\n",
		format.FormatUint(s.Cycles), th.Full, s.Full, th.Reset, th.Scavenge, s.Scavenge, th.Reset)
	fmt.Fprintf(out, "Pause:      total %s, mean %s, max %s\n",
		format.FormatPause(s.TotalPause), format.FormatPause(s.MeanPause()), format.FormatPause(s.MaxPause))
	fmt.Fprintf(out, "Reclaimed:  %s%s%s\n", th.Shrink, format.FormatBytes(s.Reclaimed), th.Reset)
	if proc != nil {
		fmt.Fprintf(out, "Process:    RSS %s, CPU %.1f%%\n", format.FormatBytes(proc.RSS), proc.CPUPercent)
	}
}

// DisplaySessionConfig prints the session settings before the first cycle.
func DisplaySessionConfig(out io.Writer, cfg config.AppConfig, sys sysmon.Stats) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%s--- gcstats ---%s\n", th.Bold, th.Reset)
	cycles := "until interrupted"
	if cfg.Cycles > 0 {
		cycles = format.FormatUint(cfg.Cycles)
	}
	fmt.Fprintf(out, "Mode: %s%s%s, every %s, %s cycles\n", th.Bold, cfg.Mode, th.Reset,
		format.FormatExecutionDuration(cfg.Interval), cycles)
	fmt.Fprintf(out, "Churn: %d MiB per cycle, %d delivery workers\n", cfg.AllocMB, cfg.Workers)
	if cfg.GCPercent != 0 {
		fmt.Fprintf(out, "GOGC: %d\n", cfg.GCPercent)
	}
	if cfg.MemoryLimit != "" {
		fmt.Fprintf(out, "Memory limit: %s\n", cfg.MemoryLimit)
	}
	if sys.MemTotal > 0 {
		fmt.Fprintf(out, "System: %s RAM, %.1f%% used\n", format.FormatBytes(sys.MemTotal), sys.MemPercent)
	}
	if cfg.MetricsAddr != "" {
		fmt.Fprintf(out, "Metrics: http://%s/metrics\n", cfg.MetricsAddr)
	}
	fmt.Fprintf(out, "Started: %s\n\n", time.Now().Format(time.RFC3339))
}
