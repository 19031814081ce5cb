package lcov

import (
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	endOfRecord      = "end_of_record"
	sourceFilePrefix = "SF:"
	linesFoundPrefix = "LF:"
	linesHitPrefix   = "LH:"
)

type segment struct {
	path     string
	hasPath  bool
	found    int
	hasFound bool
	hit      int
	hasHit   bool
	nonBlank bool
}

func (s *segment) consume(line string) {
	if strings.TrimSpace(line) != "" {
		s.nonBlank = true
	}

	switch {
	case !s.hasPath && strings.HasPrefix(line, sourceFilePrefix):
		if path := line[len(sourceFilePrefix):]; path != "" {
			s.path = path
			s.hasPath = true
		}
	case !s.hasFound && strings.HasPrefix(line, linesFoundPrefix):
		s.found, s.hasFound = parseCount(line[len(linesFoundPrefix):])
	case !s.hasHit && strings.HasPrefix(line, linesHitPrefix):
		s.hit, s.hasHit = parseCount(line[len(linesHitPrefix):])
	}
}

func (s *segment) complete() bool {
	return s.hasPath && s.hasFound && s.hasHit
}

// parseCount accepts only a non-empty run of ASCII digits. Values too large
// for an int saturate at math.MaxInt.
func parseCount(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, false
		}
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt, true
		}
		return 0, false
	}
	return count, true
}

// Parse reads an LCOV tracefile and builds its report. The only error
// returned is a failure to read from r.
func Parse(r io.Reader) (Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Report{}, errors.Wrap(err, "reading tracefile")
	}
	return ParseString(string(data)), nil
}

// ParseString builds the report for tracefile content already held in memory.
//
// Segments are delimited by end_of_record lines; trailing whitespace after the
// marker is allowed. A segment
// produces a record only when it holds an SF line, an LF line and an LH line;
// anything else in it is ignored and incomplete segments are skipped.
func ParseString(content string) Report {
	records := make([]Record, 0)
	skipped := 0
	current := &segment{}

	flush := func() {
		if current.complete() {
			records = append(records, newRecord(current.path, current.found, current.hit))
		} else if current.nonBlank {
			skipped++
		}
		current = &segment{}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimRightFunc(line, unicode.IsSpace) == endOfRecord {
			flush()
			continue
		}
		current.consume(line)
	}
	flush()

	return newReport(records, skipped)
}
