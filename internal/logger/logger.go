// Package logger writes the diagnostics of a report run. The report itself
// goes to Out; diagnostics go to the error stream so piped JSON stays clean.
package logger

import (
	"fmt"
	"io"

	"github.com/meza/lcov-summary/internal/lcov"
)

type Logger struct {
	out   io.Writer
	err   io.Writer
	debug bool
}

func New(out io.Writer, err io.Writer, debug bool) *Logger {
	return &Logger{
		out:   out,
		err:   err,
		debug: debug,
	}
}

// Out is where the rendered report is written.
func (logger *Logger) Out() io.Writer {
	return logger.out
}

func (logger *Logger) Debug(format string, args ...any) {
	if !logger.debug {
		return
	}
	_, _ = fmt.Fprintln(logger.err, fmt.Sprintf(format, args...))
}

func (logger *Logger) ReadingReport(path string) {
	logger.Debug("Reading coverage report from %s", path)
}

// Parsed summarises what the parser kept. Incomplete records are only
// mentioned when there were some.
func (logger *Logger) Parsed(report lcov.Report) {
	logger.Debug("Parsed %d records (%d/%d lines hit)", len(report.Files), report.LinesHit, report.LinesFound)
	if report.Skipped > 0 {
		logger.Debug("Skipped %d incomplete records", report.Skipped)
	}
}

// Filtered notes how many files a filter named by source removed.
func (logger *Logger) Filtered(source string, before lcov.Report, after lcov.Report) {
	dropped := len(before.Files) - len(after.Files)
	if dropped <= 0 {
		return
	}
	logger.Debug("%s removed %d of %d files, coverage %.1f%% -> %.1f%%",
		source, dropped, len(before.Files), before.Percent, after.Percent)
}
