// Package report renders an lcov.Report for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/meza/lcov-summary/internal/lcov"
	"github.com/meza/lcov-summary/internal/tui"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// InvalidFormatError is returned for an output format that has no renderer.
type InvalidFormatError struct {
	Format string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("Unknown output format: %q (expected %q or %q)", e.Format, FormatText, FormatJSON)
}

// ParseFormat validates a user supplied format name. Empty means text.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", &InvalidFormatError{Format: value}
	}
}

type Options struct {
	Format   Format
	Colorize bool
}

// Write renders r to w using the renderer selected by opts.
func Write(w io.Writer, r lcov.Report, opts Options) error {
	var rendered string
	switch opts.Format {
	case FormatJSON:
		data, err := RenderJSON(r)
		if err != nil {
			return err
		}
		rendered = data
	case FormatText, "":
		if opts.Colorize {
			rendered = RenderStyled(r)
		} else {
			rendered = RenderText(r)
		}
	default:
		return &InvalidFormatError{Format: string(opts.Format)}
	}

	if _, err := io.WriteString(w, rendered); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}

type lineStyles struct {
	header  func(string) string
	percent func(float64, string) string
	subtle  func(string) string
}

var plainStyles = lineStyles{
	header:  func(s string) string { return s },
	percent: func(_ float64, s string) string { return s },
	subtle:  func(s string) string { return s },
}

var terminalStyles = lineStyles{
	header:  func(s string) string { return tui.TitleStyle.Render(s) },
	percent: func(p float64, s string) string { return tui.CoverageStyle(p).Render(s) },
	subtle:  func(s string) string { return tui.SubtleStyle.Render(s) },
}

// RenderText produces the plain report, one line per file in report order:
//
//	Overall Coverage: 64.3%
//	Total Lines: 14
//	Hit Lines: 9
//
//	File Coverage:
//	  a.py: 50.0% (5/10 lines)
//
// Every percentage keeps one decimal place, including files with no
// instrumented lines, which print as 0.0%.
func RenderText(r lcov.Report) string {
	return render(r, plainStyles)
}

// RenderStyled is RenderText with terminal colours on headers and percentages.
func RenderStyled(r lcov.Report) string {
	return render(r, terminalStyles)
}

// Summary is the first line of the text report.
func Summary(r lcov.Report) string {
	return fmt.Sprintf("Overall Coverage: %s", formatPercent(r.Percent))
}

func render(r lcov.Report, styles lineStyles) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "%s %s\n",
		styles.header("Overall Coverage:"),
		styles.percent(r.Percent, formatPercent(r.Percent)),
	)
	fmt.Fprintf(&builder, "Total Lines: %d\n", r.LinesFound)
	fmt.Fprintf(&builder, "Hit Lines: %d\n", r.LinesHit)
	builder.WriteString("\n")
	builder.WriteString(styles.header("File Coverage:"))
	builder.WriteString("\n")

	for _, file := range r.Files {
		fmt.Fprintf(&builder, "  %s: %s %s\n",
			file.Path,
			styles.percent(file.Percent, formatPercent(file.Percent)),
			styles.subtle(fmt.Sprintf("(%d/%d lines)", file.LinesHit, file.LinesFound)),
		)
	}

	return builder.String()
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

type jsonDocument struct {
	Files   []lcov.Record `json:"files"`
	Overall jsonOverall   `json:"overall"`
}

type jsonOverall struct {
	Total    int     `json:"total"`
	Hit      int     `json:"hit"`
	Coverage float64 `json:"coverage"`
}

// RenderJSON produces an indented document with the same shape the text
// report describes: files in report order plus overall totals.
func RenderJSON(r lcov.Report) (string, error) {
	files := r.Files
	if files == nil {
		files = []lcov.Record{}
	}

	data, err := json.MarshalIndent(jsonDocument{
		Files: files,
		Overall: jsonOverall{
			Total:    r.LinesFound,
			Hit:      r.LinesHit,
			Coverage: r.Percent,
		},
	}, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode report")
	}
	return string(data) + "\n", nil
}
