package lcovsum

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/meza/lcov-summary/internal/config"
	"github.com/meza/lcov-summary/internal/constants"
	"github.com/meza/lcov-summary/internal/ignore"
	"github.com/meza/lcov-summary/internal/lcov"
	"github.com/meza/lcov-summary/internal/logger"
	"github.com/meza/lcov-summary/internal/perf"
	"github.com/meza/lcov-summary/internal/report"
	"github.com/meza/lcov-summary/internal/telemetry"
	"github.com/meza/lcov-summary/internal/tui"
)

type reportDeps struct {
	fs        afero.Fs
	logger    *logger.Logger
	telemetry func(telemetry.CommandTelemetry)
	runPager  func(ctx context.Context, title string, content string, in io.Reader, out io.Writer) error
}

// reportFlags is what the user typed. The *Set fields record whether a flag
// was given so that settings file values only fill the gaps.
type reportFlags struct {
	path        string
	configPath  string
	configSet   bool
	format      string
	formatSet   bool
	min         float64
	minSet      bool
	exclude     []string
	interactive bool
	quiet       bool
}

type reportOptions struct {
	path        string
	format      report.Format
	min         *float64
	exclude     []string
	interactive bool
	quiet       bool
}

func runReportCommand(cmd *cobra.Command, args []string) (err error) {
	ctx, span := perf.StartSpan(cmd.Context(), "app.command.report")
	defer func() {
		span.SetAttributes(attribute.Bool("success", err == nil))
		span.End()
	}()

	flags, err := readReportFlags(cmd, args)
	if err != nil {
		return err
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return err
	}

	deps := reportDeps{
		fs:        afero.NewOsFs(),
		logger:    logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), debug),
		telemetry: telemetry.CaptureCommand,
		runPager:  tui.RunPager,
	}

	return runReport(ctx, cmd, flags, deps)
}

func readReportFlags(cmd *cobra.Command, args []string) (reportFlags, error) {
	flags := cmd.Flags()
	result := reportFlags{}
	var err error

	if len(args) > 0 {
		result.path = args[0]
	}
	if result.configPath, err = flags.GetString("config"); err != nil {
		return result, err
	}
	if result.format, err = flags.GetString("format"); err != nil {
		return result, err
	}
	if result.min, err = flags.GetFloat64("min"); err != nil {
		return result, err
	}
	if result.exclude, err = flags.GetStringArray("exclude"); err != nil {
		return result, err
	}
	if result.interactive, err = flags.GetBool("interactive"); err != nil {
		return result, err
	}
	if result.quiet, err = flags.GetBool("quiet"); err != nil {
		return result, err
	}

	result.configSet = flags.Changed("config")
	result.formatSet = flags.Changed("format")
	result.minSet = flags.Changed("min")

	return result, nil
}

// resolveOptions layers flags over the settings file over built-in defaults.
func resolveOptions(flags reportFlags, settings config.Settings) (reportOptions, error) {
	options := reportOptions{
		path:        constants.DefaultReportPath,
		interactive: flags.interactive,
		quiet:       flags.quiet,
	}

	switch {
	case flags.path != "":
		options.path = flags.path
	case settings.Report != "":
		options.path = settings.Report
	}

	formatName := settings.Format
	if flags.formatSet || formatName == "" {
		formatName = flags.format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return reportOptions{}, err
	}
	options.format = format

	if flags.minSet {
		if flags.min < 0 || flags.min > 100 {
			return reportOptions{}, &InvalidThresholdError{Value: flags.min}
		}
		minimum := flags.min
		options.min = &minimum
	} else if settings.MinCoverage != nil {
		minimum := *settings.MinCoverage
		options.min = &minimum
	}

	options.exclude = append(options.exclude, settings.Exclude...)
	options.exclude = append(options.exclude, flags.exclude...)

	return options, nil
}

func runReport(ctx context.Context, cmd *cobra.Command, flags reportFlags, deps reportDeps) (err error) {
	files := 0
	defer func() {
		deps.telemetry(telemetry.CommandTelemetry{
			Command: "report",
			Success: err == nil,
			Error:   err,
			Extra: map[string]interface{}{
				"files": files,
			},
		})
	}()

	settings, err := config.Read(ctx, deps.fs, flags.configPath, flags.configSet)
	if err != nil {
		return err
	}

	options, err := resolveOptions(flags, settings)
	if err != nil {
		return err
	}

	deps.logger.ReadingReport(options.path)
	coverage, err := lcov.ReadReport(ctx, deps.fs, options.path)
	if err != nil {
		return err
	}
	deps.logger.Parsed(coverage)

	excluded := coverage.Exclude(options.exclude)
	deps.logger.Filtered("--exclude", coverage, excluded)
	coverage = excluded

	ignoreRoot := filepath.Dir(flags.configPath)
	patterns, err := ignore.ListPatterns(deps.fs, ignoreRoot)
	if err != nil {
		return err
	}
	if len(patterns) > 0 {
		ignored := coverage.Filter(func(record lcov.Record) bool {
			return !ignore.Matches(ignoreRoot, record.Path, patterns)
		})
		deps.logger.Filtered(filepath.Join(ignoreRoot, ignore.FileName), coverage, ignored)
		coverage = ignored
	}
	files = len(coverage.Files)

	out := deps.logger.Out()
	if err = presentReport(ctx, cmd, coverage, options, deps, out); err != nil {
		return err
	}

	if options.min != nil && !coverage.MeetsThreshold(*options.min) {
		return &ThresholdError{Actual: coverage.Percent, Minimum: *options.min}
	}

	return nil
}

func presentReport(ctx context.Context, cmd *cobra.Command, coverage lcov.Report, options reportOptions, deps reportDeps, out io.Writer) error {
	_, span := perf.StartSpan(ctx, "app.report.render", attribute.String("format", string(options.format)))
	defer span.End()

	if options.format == report.FormatText && options.interactive && tui.ShouldUseTUI(options.quiet, cmd.InOrStdin(), out) {
		span.SetAttributes(attribute.Bool("interactive", true))
		return deps.runPager(ctx, report.Summary(coverage), report.RenderStyled(coverage), cmd.InOrStdin(), out)
	}

	return report.Write(out, coverage, report.Options{
		Format:   options.format,
		Colorize: options.format == report.FormatText && tui.IsTerminalWriter(out),
	})
}
