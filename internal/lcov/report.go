// Package lcov reads LCOV tracefiles and aggregates their line coverage.
package lcov

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Record is the line coverage of a single source file.
type Record struct {
	Path       string  `json:"file"`
	LinesFound int     `json:"total"`
	LinesHit   int     `json:"hit"`
	Percent    float64 `json:"coverage"`
}

// Report is the aggregate of every complete record in a tracefile.
// Files is ordered ascending by Percent; records with equal coverage keep
// the order they appeared in.
type Report struct {
	Files      []Record
	LinesFound int
	LinesHit   int
	Percent    float64
	// Skipped counts non-blank segments that lacked SF, LF or LH.
	Skipped int
}

// Percent returns hit/found*100 rounded to one decimal place, half away from
// zero. A zero found count yields 0.
func Percent(hit, found int) float64 {
	if found <= 0 {
		return 0
	}
	return math.Round(float64(hit)/float64(found)*100*10) / 10
}

func newRecord(path string, found, hit int) Record {
	return Record{
		Path:       path,
		LinesFound: found,
		LinesHit:   hit,
		Percent:    Percent(hit, found),
	}
}

func newReport(records []Record, skipped int) Report {
	files := make([]Record, len(records))
	copy(files, records)

	report := Report{Files: files, Skipped: skipped}
	for _, record := range files {
		report.LinesFound = addCount(report.LinesFound, record.LinesFound)
		report.LinesHit = addCount(report.LinesHit, record.LinesHit)
	}

	slices.SortStableFunc(report.Files, func(a, b Record) int {
		return cmp.Compare(a.Percent, b.Percent)
	})
	report.Percent = Percent(report.LinesHit, report.LinesFound)

	return report
}

// Filter returns a new report holding only the records keep accepts, with
// totals recomputed from them.
func (r Report) Filter(keep func(Record) bool) Report {
	kept := make([]Record, 0, len(r.Files))
	for _, record := range r.Files {
		if keep(record) {
			kept = append(kept, record)
		}
	}

	return newReport(kept, r.Skipped)
}

// addCount sums non-negative counts, saturating at math.MaxInt.
func addCount(total, count int) int {
	if count > math.MaxInt-total {
		return math.MaxInt
	}
	return total + count
}

// Exclude returns a new report without the records whose path contains any
// of the fragments. Separators are compared in slash form.
func (r Report) Exclude(fragments []string) Report {
	if len(fragments) == 0 {
		return r
	}

	return r.Filter(func(record Record) bool {
		return !shouldExcludePath(record.Path, fragments)
	})
}

// MeetsThreshold reports whether the overall coverage is at least minimum.
func (r Report) MeetsThreshold(minimum float64) bool {
	return r.Percent >= minimum
}

func shouldExcludePath(path string, fragments []string) bool {
	normalizedPath := strings.ReplaceAll(path, "\\", "/")
	for _, fragment := range fragments {
		if fragment == "" {
			continue
		}
		if strings.Contains(normalizedPath, strings.ReplaceAll(fragment, "\\", "/")) {
			return true
		}
	}
	return false
}
