// Package app wires the gcstats command: it builds the runtime host and the
// monitor, attaches the report sinks, and drives collections.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/gcstats"
	"github.com/agbru/gcstats/internal/cli"
	"github.com/agbru/gcstats/internal/config"
	apperrors "github.com/agbru/gcstats/internal/errors"
	"github.com/agbru/gcstats/internal/host"
	"github.com/agbru/gcstats/internal/logging"
	"github.com/agbru/gcstats/internal/metrics"
	"github.com/agbru/gcstats/internal/server"
	"github.com/agbru/gcstats/internal/sysmon"
	"github.com/agbru/gcstats/internal/telemetry"
	"github.com/agbru/gcstats/internal/tui"
	"github.com/agbru/gcstats/internal/ui"
	"github.com/agbru/gcstats/internal/workload"
)

// churnRetain is the share of each tick's churn kept alive until the next
// tick, so full collections have live data to trace.
const churnRetain = 0.25

// Application represents the gcstats application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	runtimeOpts []host.Option
	registry    *prometheus.Registry
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRuntimeOptions adds options to the runtime host built by Run.
func WithRuntimeOptions(opts ...host.Option) AppOption {
	return func(a *Application) { a.runtimeOpts = append(a.runtimeOpts, opts...) }
}

// WithRegistry makes Run register its collectors on reg instead of a fresh
// registry.
func WithRegistry(reg *prometheus.Registry) AppOption {
	return func(a *Application) { a.registry = reg }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "gcstats"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// sinks are the consumers fed by one session.
type sinks struct {
	reporter *cli.Reporter
	last     *server.LastStats
	bridge   *tui.Bridge
}

// Run executes one session and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	ui.InitTheme(cfg.Format == config.FormatJSON)
	logger := a.newLogger()

	memLimit, err := workload.ParseMemoryLimit(cfg.MemoryLimit)
	if err != nil {
		logger.Error("invalid configuration", err)
		return apperrors.ExitErrorConfig
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	gcCtl := workload.NewGCController(cfg.GCPercent, memLimit)
	gcCtl.SetLogger(logger.Zerolog())
	gcCtl.Begin()
	defer gcCtl.End()

	var uncaught atomic.Uint64
	rtOpts := append([]host.Option{
		host.WithWorkers(cfg.Workers),
		host.WithLogger(logger.With(logging.String("component", "host"))),
		host.WithLoopOptions(host.WithUncaughtHandler(func(err error) {
			uncaught.Add(1)
			logger.Error("gc stats consumer failed", err)
		})),
	}, a.runtimeOpts...)
	rt := host.NewGoRuntime(rtOpts...)

	// The loop outlives the session context so reports raised before an
	// interrupt are still delivered.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	rt.Start(loopCtx)

	monitor := gcstats.NewForRuntime(rt, gcstats.WithLogger(logger))

	reg := a.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	provider, err := telemetry.NewProvider(reg)
	if err != nil {
		logger.Error("telemetry setup failed", err)
		return apperrors.ExitErrorGeneric
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	s, emitter, err := a.buildSinks(out, reg, provider, monitor, logger)
	if err != nil {
		logger.Error("metrics setup failed", err)
		return apperrors.ExitErrorGeneric
	}
	if err := monitor.AfterGC(emitter); err != nil {
		logger.Error("consumer registration failed", err)
		return apperrors.ExitErrorGeneric
	}

	var srv *server.Server
	if cfg.MetricsAddr != "" {
		srv, err = server.New(cfg.MetricsAddr, reg, s.last,
			server.WithLogger(logger.With(logging.String("component", "server"))),
			server.WithDiagnostics(monitor.Diagnostics))
		if err == nil {
			err = srv.Listen()
		}
		if err != nil {
			logger.Error("metrics server setup failed", err)
			return apperrors.ExitErrorGeneric
		}
	}

	textOut := !cfg.Quiet && !cfg.TUI && cfg.Format == config.FormatText
	if textOut {
		cli.DisplaySessionConfig(out, cfg, sysmon.Sample())
	}

	churn := workload.NewChurn(cfg.AllocMB, churnRetain)
	defer churn.Release()

	runErr := a.runSession(ctx, rt, churn, srv, s)
	stopLoop()
	<-rt.Loop().Done()
	gcCtl.End()

	session := gcCtl.Stats()
	diag := monitor.Diagnostics()
	logger.Debug("session finished",
		logging.Uint64("reports", diag.Delivered),
		logging.Uint64("uncaught", uncaught.Load()),
		logging.Uint64("runtime_cycles", uint64(session.NumGC)),
		logging.Uint64("background_cycles", uint64(session.NumGC-min(session.NumForcedGC, session.NumGC))),
	)

	if textOut {
		proc := sysmon.ProcessStats{}
		if ps, err := sysmon.NewProcessSampler(); err == nil {
			proc = ps.Sample()
		}
		cli.DisplaySummary(out, s.reporter.Summary(), &proc)
	}

	switch {
	case runErr != nil:
		logger.Error("session failed", runErr)
		return apperrors.ExitErrorGeneric
	case ctx.Err() != nil:
		return apperrors.ExitErrorCanceled
	case uncaught.Load() > 0:
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// buildSinks creates every consumer of the session and fans them out
// through one Emitter.
func (a *Application) buildSinks(out io.Writer, reg prometheus.Registerer, provider *telemetry.Provider, monitor *gcstats.Monitor, logger *logging.ZerologAdapter) (sinks, *gcstats.Emitter, error) {
	var s sinks
	emitter := gcstats.NewEmitter()

	collector, err := metrics.NewGCCollector(reg)
	if err != nil {
		return s, nil, err
	}
	if err := metrics.RegisterPipeline(reg, monitor.Diagnostics); err != nil {
		return s, nil, err
	}
	instruments, err := telemetry.NewInstruments(provider.Meter(), metrics.NewMemoryCollector())
	if err != nil {
		return s, nil, err
	}

	reportOut := out
	if a.Config.TUI {
		reportOut = io.Discard
		s.bridge = tui.NewBridge()
	}
	s.reporter = cli.NewReporter(reportOut, a.Config.Format)
	s.last = &server.LastStats{}

	for _, c := range []gcstats.Consumer{s.reporter, collector, instruments, s.last} {
		emitter.Subscribe(subscriber(c, logger))
	}
	if s.bridge != nil {
		emitter.Subscribe(subscriber(s.bridge, logger))
	}
	return s, emitter, nil
}

// subscriber adapts a Consumer to an Emitter subscription; errors are
// logged since the emitter has no error path.
func subscriber(c gcstats.Consumer, logger logging.Logger) func(gcstats.Stats) {
	return func(st gcstats.Stats) {
		if err := c.HandleGCStats(st); err != nil {
			logger.Warn("report sink failed", logging.Err(err), logging.String("sink", fmt.Sprintf("%T", c)), logging.Uint64("seq", st.Seq))
		}
	}
}

// runSession drives collections and runs the server and dashboard next to
// them. It returns once every raised cycle has been delivered.
func (a *Application) runSession(ctx context.Context, rt *host.GoRuntime, churn *workload.Churn, srv *server.Server, s sinks) error {
	cfg := a.Config
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	if srv != nil {
		g.Go(func() error { return srv.Serve(gctx) })
	}

	g.Go(func() error {
		var beforeEach func()
		if cfg.AllocMB > 0 {
			beforeEach = func() { churn.Run() }
		}
		err := rt.Drive(gctx, cfg.Interval, cfg.Cycles, NextType(cfg.Mode), beforeEach)
		if apperrors.IsContextError(err) {
			err = nil
		}
		rt.Work().Wait()
		_ = rt.Loop().Flush(context.Background())

		if s.bridge != nil {
			s.bridge.Done(err)
			return err
		}
		stop()
		return err
	})

	if s.bridge != nil {
		g.Go(func() error {
			defer stop()
			return tui.Run(gctx, s.bridge, tui.Options{Version: Version, Mode: cfg.Mode, Cycles: cfg.Cycles})
		})
	}

	return g.Wait()
}

// NextType returns the collection picker for a --mode value. alternate
// starts with a full collection.
func NextType(mode string) func(n uint64) gcstats.GCType {
	switch mode {
	case config.ModeScavenge:
		return func(uint64) gcstats.GCType { return gcstats.GCTypeScavenge }
	case config.ModeAlternate:
		return func(n uint64) gcstats.GCType {
			if n%2 == 0 {
				return gcstats.GCTypeFull
			}
			return gcstats.GCTypeScavenge
		}
	default:
		return func(uint64) gcstats.GCType { return gcstats.GCTypeFull }
	}
}

// newLogger builds the console logger on ErrWriter. The dashboard owns the
// terminal, so logs are dropped in TUI mode.
func (a *Application) newLogger() *logging.ZerologAdapter {
	level := zerolog.InfoLevel
	switch {
	case a.Config.Verbose:
		level = zerolog.DebugLevel
	case a.Config.Quiet:
		level = zerolog.WarnLevel
	}
	w := a.ErrWriter
	if a.Config.TUI || w == nil {
		w = io.Discard
	}
	return logging.NewConsoleLogger(w, "gcstats", level)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
