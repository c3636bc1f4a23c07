package config

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	apperrors "github.com/agbru/gcstats/internal/errors"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("gcstats", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %s, want %s", cfg.Interval, DefaultInterval)
	}
	if cfg.Mode != ModeFull || cfg.Format != FormatText {
		t.Errorf("Mode/Format = %q/%q, want full/text", cfg.Mode, cfg.Format)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.Cycles != 0 || cfg.TUI || cfg.MetricsAddr != "" {
		t.Errorf("unexpected non-default config: %+v", cfg)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	args := []string{"--interval", "250ms", "-n", "3", "--mode", "ALTERNATE", "--format", "json",
		"--workers", "2", "--alloc-mb", "0", "--gc-percent", "-1", "--memory-limit", "1GiB",
		"--metrics-addr", ":9090", "-q"}
	cfg, err := ParseConfig("gcstats", args, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := AppConfig{
		Interval:    250 * time.Millisecond,
		Cycles:      3,
		Mode:        ModeAlternate,
		Format:      FormatJSON,
		Workers:     2,
		AllocMB:     0,
		GCPercent:   -1,
		MemoryLimit: "1GiB",
		MetricsAddr: ":9090",
		Quiet:       true,
	}
	if cfg != want {
		t.Errorf("config = %+v, want %+v", cfg, want)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero interval", []string{"--interval", "0s"}},
		{"unknown mode", []string{"--mode", "minor"}},
		{"unknown format", []string{"--format", "xml"}},
		{"no workers", []string{"--workers", "0"}},
		{"negative churn", []string{"--alloc-mb", "-1"}},
		{"tui with json", []string{"--tui", "--format", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("gcstats", tt.args, io.Discard)
			var configErr apperrors.ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	_, err := ParseConfig("gcstats", []string{"--help"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL", "2s")
	t.Setenv(EnvPrefix+"CYCLES", "7")
	t.Setenv(EnvPrefix+"MODE", "scavenge")
	t.Setenv(EnvPrefix+"VERBOSE", "yes")
	t.Setenv(EnvPrefix+"WORKERS", "not-a-number")

	cfg, err := ParseConfig("gcstats", nil, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %s, want 2s", cfg.Interval)
	}
	if cfg.Cycles != 7 {
		t.Errorf("Cycles = %d, want 7", cfg.Cycles)
	}
	if cfg.Mode != ModeScavenge {
		t.Errorf("Mode = %q, want scavenge", cfg.Mode)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be set from the environment")
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("unparseable env value should keep the default, got %d", cfg.Workers)
	}
}

func TestParseConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"CYCLES", "7")
	t.Setenv(EnvPrefix+"QUIET", "true")

	cfg, err := ParseConfig("gcstats", []string{"--cycles", "2", "--quiet=false"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cycles != 2 {
		t.Errorf("Cycles = %d, want 2 from the flag", cfg.Cycles)
	}
	if cfg.Quiet {
		t.Error("explicit --quiet=false should win over the environment")
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"TRUE", false, true},
		{"1", false, true},
		{"no", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}
