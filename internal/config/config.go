// Package config parses the gcstats command line into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/gcstats/internal/errors"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "GCSTATS_"

// Collection modes accepted by --mode.
const (
	ModeFull      = "full"
	ModeScavenge  = "scavenge"
	ModeAlternate = "alternate"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Defaults.
const (
	DefaultInterval = time.Second
	DefaultWorkers  = 4
	DefaultAllocMB  = 16
)

// AppConfig holds the settings of one gcstats session.
type AppConfig struct {
	// Interval between two collections raised by the host.
	Interval time.Duration
	// Cycles stops the session after that many collections. 0 runs until
	// interrupted.
	Cycles uint64
	// Mode picks the kind of each collection.
	Mode string
	// Format selects the per-cycle report layout on stdout.
	Format string
	// Workers bounds the background delivery pool.
	Workers int
	// AllocMB is the garbage allocated before every collection.
	AllocMB int
	// GCPercent is applied for the session when non-zero; negative turns
	// the runtime's own pacer off so only raised collections run.
	GCPercent int
	// MemoryLimit is a soft limit such as "512MiB", applied for the session.
	MemoryLimit string
	// MetricsAddr serves /metrics, /healthz and /stats/last when set.
	MetricsAddr string
	TUI         bool
	Verbose     bool
	Quiet       bool
}

// ParseConfig parses args with precedence CLI flags > environment > defaults.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errorWriter, "Raises garbage collections and reports the pause and heap change of each one.")
		fmt.Fprintln(errorWriter, "\nOptions:")
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEvery option can also be set with %s<NAME>, e.g. %sINTERVAL=500ms.\n", EnvPrefix, EnvPrefix)
	}

	config := AppConfig{}
	fs.DurationVar(&config.Interval, "interval", DefaultInterval, "Time between two collections.")
	fs.Uint64Var(&config.Cycles, "cycles", 0, "Stop after this many collections (0 = until interrupted).")
	fs.Uint64Var(&config.Cycles, "n", 0, "Shorthand for --cycles.")
	fs.StringVar(&config.Mode, "mode", ModeFull, "Collection kind: 'full', 'scavenge' or 'alternate'.")
	fs.StringVar(&config.Format, "format", FormatText, "Report format: 'text' or 'json'.")
	fs.IntVar(&config.Workers, "workers", DefaultWorkers, "Background delivery workers.")
	fs.IntVar(&config.AllocMB, "alloc-mb", DefaultAllocMB, "MiB of garbage allocated before each collection.")
	fs.IntVar(&config.GCPercent, "gc-percent", 0, "GOGC for the session (0 = unchanged, -1 = off).")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Soft memory limit for the session (e.g., 512MiB, 1GiB).")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9090).")
	fs.BoolVar(&config.TUI, "tui", false, "Show the interactive dashboard.")
	fs.BoolVar(&config.Verbose, "v", false, "Debug logging.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Debug logging.")
	fs.BoolVar(&config.Quiet, "q", false, "Only print reports.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Only print reports.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Mode = strings.ToLower(config.Mode)
	config.Format = strings.ToLower(config.Format)
	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	if c.Interval <= 0 {
		return apperrors.NewConfigError("interval must be positive, got %s", c.Interval)
	}
	if !slices.Contains([]string{ModeFull, ModeScavenge, ModeAlternate}, c.Mode) {
		return apperrors.NewConfigError("unknown mode: '%s'", c.Mode)
	}
	if !slices.Contains([]string{FormatText, FormatJSON}, c.Format) {
		return apperrors.NewConfigError("unknown format: '%s'", c.Format)
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1, got %d", c.Workers)
	}
	if c.AllocMB < 0 {
		return apperrors.NewConfigError("alloc-mb cannot be negative, got %d", c.AllocMB)
	}
	if c.TUI && c.Format == FormatJSON {
		return apperrors.NewConfigError("--tui and --format json are mutually exclusive")
	}
	return nil
}
