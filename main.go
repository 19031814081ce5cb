package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"

	"github.com/meza/lcov-summary/cmd/lcovsum"
	"github.com/meza/lcov-summary/internal/constants"
	"github.com/meza/lcov-summary/internal/lifecycle"
	"github.com/meza/lcov-summary/internal/perf"
	"github.com/meza/lcov-summary/internal/telemetry"
	"github.com/meza/lcov-summary/internal/tui"
)

const (
	perfLifecycleStartup  = "app.lifecycle.startup"
	perfLifecycleExecute  = "app.lifecycle.execute"
	perfLifecycleShutdown = "app.lifecycle.shutdown"

	shutdownTimeout = 2 * time.Second
)

type shutdownTrigger string

const (
	shutdownTriggerExit   shutdownTrigger = "exit"
	shutdownTriggerSignal shutdownTrigger = "signal"
)

type runDeps struct {
	execute           func(context.Context) error
	telemetryInit     func()
	telemetryShutdown func(context.Context)
	register          func(lifecycle.Handler) lifecycle.HandlerID
	unregister        func(lifecycle.HandlerID)
	args              []string
	cwd               string
	fs                afero.Fs
	stderr            io.Writer
}

type perfExportConfig struct {
	enabled bool
	debug   bool
	baseDir string
	outDir  string
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	args := os.Args[1:]

	os.Exit(runWithDeps(runDeps{
		execute: func(ctx context.Context) error {
			return lcovsum.Execute(ctx, args)
		},
		telemetryInit:     telemetry.Init,
		telemetryShutdown: telemetry.Shutdown,
		register:          lifecycle.Register,
		unregister:        lifecycle.Unregister,
		args:              args,
		cwd:               cwd,
		fs:                afero.NewOsFs(),
		stderr:            os.Stderr,
	}))
}

func runWithDeps(deps runDeps) int {
	if deps.stderr == nil {
		deps.stderr = io.Discard
	}

	perfConfig := perfExportConfigFromArgs(deps.args, deps.cwd)
	if err := perf.Init(perf.Config{Enabled: perfConfig.enabled}); err != nil {
		_, _ = fmt.Fprintln(deps.stderr, err)
	}

	ctx, startupSpan := perf.StartSpan(context.Background(), perfLifecycleStartup)
	deps.telemetryInit()

	var shutdownOnce sync.Once
	shutdown := func(trigger shutdownTrigger, sig os.Signal) {
		shutdownOnce.Do(func() {
			_, span := perf.StartSpan(ctx, perfLifecycleShutdown, attribute.String("trigger", string(trigger)))
			if sig != nil {
				span.SetAttributes(attribute.String("signal", sig.String()))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			deps.telemetryShutdown(shutdownCtx)
			span.End()

			exportPerf(deps, perfConfig)
		})
	}

	handlerID := deps.register(func(sig os.Signal) {
		shutdown(shutdownTriggerSignal, sig)
	})
	startupSpan.End()

	executeCtx, executeSpan := perf.StartSpan(ctx, perfLifecycleExecute)
	err := deps.execute(executeCtx)
	executeSpan.SetAttributes(attribute.Bool("success", err == nil))
	executeSpan.End()

	shutdown(shutdownTriggerExit, nil)
	deps.unregister(handlerID)

	if err != nil {
		_, _ = fmt.Fprintln(deps.stderr, tui.ErrorStyle.Render(err.Error()))
		return 1
	}
	return 0
}

func exportPerf(deps runDeps, cfg perfExportConfig) {
	if !cfg.enabled || deps.fs == nil {
		return
	}

	spans, err := perf.GetSpans()
	if err != nil {
		_, _ = fmt.Fprintln(deps.stderr, err)
		return
	}

	path, err := perf.ExportToFile(deps.fs, cfg.outDir, cfg.baseDir, spans)
	if err != nil {
		_, _ = fmt.Fprintf(deps.stderr, "failed to write performance data: %v\n", err)
		return
	}
	if cfg.debug {
		_, _ = fmt.Fprintf(deps.stderr, "performance data written to %s\n", path)
	}
}

// perfExportConfigFromArgs looks ahead at the command line before cobra runs
// so tracing can cover the whole process. Output lands next to the config
// file unless --perf-out-dir says otherwise.
func perfExportConfigFromArgs(args []string, cwd string) perfExportConfig {
	flags := pflag.NewFlagSet("perf", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}

	enabled := flags.Bool("perf", false, "")
	debug := flags.Bool("debug", false, "")
	flags.BoolP("quiet", "q", false, "")
	configPath := flags.String("config", constants.DefaultConfigPath, "")
	outDir := flags.String("perf-out-dir", "", "")
	_ = flags.Parse(args)

	cfg := perfExportConfig{
		enabled: *enabled,
		debug:   *debug,
	}

	resolvedConfig := *configPath
	if !filepath.IsAbs(resolvedConfig) {
		resolvedConfig = filepath.Join(cwd, filepath.FromSlash(resolvedConfig))
	}
	if abs, err := filepath.Abs(resolvedConfig); err == nil {
		resolvedConfig = abs
	}
	cfg.baseDir = filepath.Dir(resolvedConfig)

	switch {
	case *outDir == "":
		cfg.outDir = cfg.baseDir
	case filepath.IsAbs(*outDir):
		cfg.outDir = *outDir
	default:
		cfg.outDir = filepath.Join(cfg.baseDir, filepath.FromSlash(*outDir))
	}

	return cfg
}
