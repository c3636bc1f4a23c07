package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/agbru/gcstats"
	"github.com/agbru/gcstats/internal/config"
	"github.com/agbru/gcstats/internal/format"
	"github.com/agbru/gcstats/internal/ui"
)

// Reporter is a gcstats consumer that writes one entry per cycle and keeps
// a running Summary.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	json    bool
	enc     *json.Encoder
	summary Summary
}

var _ gcstats.Consumer = (*Reporter)(nil)

// NewReporter writes text or JSON lines to out, per config.FormatText and
// config.FormatJSON.
func NewReporter(out io.Writer, outputFormat string) *Reporter {
	r := &Reporter{out: out, json: outputFormat == config.FormatJSON}
	if r.json {
		r.enc = json.NewEncoder(out)
	}
	return r
}

// jsonLine is Stats plus the sequence number, which Stats keeps out of its
// own encoding.
type jsonLine struct {
	Seq uint64 `json:"seq"`
	gcstats.Stats
}

// HandleGCStats prints s and folds it into the summary.
func (r *Reporter) HandleGCStats(s gcstats.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.add(s)
	if r.json {
		return r.enc.Encode(jsonLine{Seq: s.Seq, Stats: s})
	}
	_, err := fmt.Fprintln(r.out, FormatStats(s, ui.GetCurrentTheme()))
	return err
}

// Summary returns the totals so far.
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// FormatStats renders one cycle on a single line:
//
//	#3 full      pause 5.000ms  used 40.00 MiB → 35.00 MiB (-5.00 MiB)  heap 120.00 MiB (+20 B)
func FormatStats(s gcstats.Stats, th ui.Theme) string {
	line := fmt.Sprintf("%s#%-4d%s %s%-8s%s pause %s%-9s%s used %s → %s (%s%s%s)  heap %s (%s%s%s)",
		th.Dim, s.Seq, th.Reset,
		th.KindColor(s.GCType), s.GCType, th.Reset,
		th.Bold, format.FormatPause(s.Pause), th.Reset,
		format.FormatBytes(s.Before.UsedHeapSize), format.FormatBytes(s.After.UsedHeapSize),
		th.DeltaColor(s.Diff.UsedHeapSize), format.FormatSignedBytes(s.Diff.UsedHeapSize), th.Reset,
		format.FormatBytes(s.After.TotalHeapSize),
		th.DeltaColor(s.Diff.TotalHeapSize), format.FormatSignedBytes(s.Diff.TotalHeapSize), th.Reset,
	)
	if s.Diff.TotalPhysicalSize != nil {
		line += fmt.Sprintf("  phys %s (%s%s%s)",
			format.FormatBytes(*s.After.TotalPhysicalSize),
			th.DeltaColor(*s.Diff.TotalPhysicalSize), format.FormatSignedBytes(*s.Diff.TotalPhysicalSize), th.Reset)
	}
	return line
}
