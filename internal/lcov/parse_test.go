package lcov

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFileTrace = `SF:a.py
LF:10
LH:5
end_of_record
SF:b.py
LF:4
LH:4
end_of_record
`

func TestParseStringTwoFiles(t *testing.T) {
	report := ParseString(twoFileTrace)

	assert.Equal(t, []Record{
		{Path: "a.py", LinesFound: 10, LinesHit: 5, Percent: 50.0},
		{Path: "b.py", LinesFound: 4, LinesHit: 4, Percent: 100.0},
	}, report.Files)
	assert.Equal(t, 14, report.LinesFound)
	assert.Equal(t, 9, report.LinesHit)
	assert.Equal(t, 64.3, report.Percent)
	assert.Equal(t, 0, report.Skipped)
}

func TestParseStringSortsAscendingAndStable(t *testing.T) {
	trace := `SF:full.go
LF:2
LH:2
end_of_record
SF:half-first.go
LF:4
LH:2
end_of_record
SF:low.go
LF:10
LH:1
end_of_record
SF:half-second.go
LF:2
LH:1
end_of_record
`
	report := ParseString(trace)

	paths := make([]string, 0, len(report.Files))
	for _, record := range report.Files {
		paths = append(paths, record.Path)
	}
	assert.Equal(t, []string{"low.go", "half-first.go", "half-second.go", "full.go"}, paths)

	for i := 1; i < len(report.Files); i++ {
		assert.LessOrEqual(t, report.Files[i-1].Percent, report.Files[i].Percent)
	}
}

func TestParseStringIgnoresOtherLines(t *testing.T) {
	trace := `TN:
SF:/src/lib/util.ts
FN:1,helper
FNDA:3,helper
FNF:1
FNH:1
DA:1,3
DA:2,0
BRDA:2,0,0,1
BRF:1
BRH:1
LH:1
LF:2
end_of_record
`
	report := ParseString(trace)

	require.Len(t, report.Files, 1)
	assert.Equal(t, Record{Path: "/src/lib/util.ts", LinesFound: 2, LinesHit: 1, Percent: 50.0}, report.Files[0])
}

func TestParseStringSkipsIncompleteSegments(t *testing.T) {
	trace := `SF:missing-hit.go
LF:10
end_of_record
SF:complete.go
LF:3
LH:1
end_of_record
LF:3
LH:3
end_of_record
SF:bad-count.go
LF:ten
LH:1
end_of_record
`
	report := ParseString(trace)

	require.Len(t, report.Files, 1)
	assert.Equal(t, "complete.go", report.Files[0].Path)
	assert.Equal(t, 3, report.LinesFound)
	assert.Equal(t, 1, report.LinesHit)
	assert.Equal(t, 33.3, report.Percent)
	assert.Equal(t, 3, report.Skipped)
}

func TestParseStringZeroLinesFound(t *testing.T) {
	report := ParseString("SF:empty.go\nLF:0\nLH:0\nend_of_record\n")

	require.Len(t, report.Files, 1)
	assert.Equal(t, 0.0, report.Files[0].Percent)
	assert.Equal(t, 0.0, report.Percent)
}

func TestParseStringEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n", "end_of_record\nend_of_record\n"} {
		report := ParseString(input)
		assert.Empty(t, report.Files)
		assert.Equal(t, 0, report.LinesFound)
		assert.Equal(t, 0, report.LinesHit)
		assert.Equal(t, 0.0, report.Percent)
		assert.Equal(t, 0, report.Skipped)
	}
}

func TestParseStringTrailingSegmentWithoutDelimiter(t *testing.T) {
	report := ParseString("SF:a.go\nLF:4\nLH:1\nend_of_record\nSF:b.go\nLF:2\nLH:2")

	require.Len(t, report.Files, 2)
	assert.Equal(t, "b.go", report.Files[1].Path)
}

func TestParseStringHandlesCRLF(t *testing.T) {
	report := ParseString("SF:win.cs\r\nLF:8\r\nLH:6\r\nend_of_record\r\n")

	require.Len(t, report.Files, 1)
	assert.Equal(t, Record{Path: "win.cs", LinesFound: 8, LinesHit: 6, Percent: 75.0}, report.Files[0])
}

func TestParseStringMatchesAtLineStartOnly(t *testing.T) {
	trace := " SF:indented.go\nxLF:4\nSF:real.go\nLF:4\nLH:4\nend_of_record\n"
	report := ParseString(trace)

	require.Len(t, report.Files, 1)
	assert.Equal(t, "real.go", report.Files[0].Path)
}

func TestParseStringFirstMatchWins(t *testing.T) {
	trace := "SF:first.go\nSF:second.go\nLF:abc\nLF:5\nLH:5\nLH:1\nend_of_record\n"
	report := ParseString(trace)

	require.Len(t, report.Files, 1)
	assert.Equal(t, Record{Path: "first.go", LinesFound: 5, LinesHit: 5, Percent: 100.0}, report.Files[0])
}

func TestParseStringDelimiterMustBeWholeLine(t *testing.T) {
	trace := "SF:a.go\nLF:1\nLH:1\nend_of_record_extra\nSF:b.go\nLF:1\nLH:0\nend_of_record\n"
	report := ParseString(trace)

	require.Len(t, report.Files, 1)
	assert.Equal(t, "a.go", report.Files[0].Path)
}

func TestParseStringDelimiterAllowsTrailingWhitespace(t *testing.T) {
	trace := "SF:a\nLF:10\nLH:3\nend_of_record \nSF:b\nLF:4\nLH:4\nend_of_record\t\r\n"
	report := ParseString(trace)

	require.Len(t, report.Files, 2)
	assert.Equal(t, "a", report.Files[0].Path)
	assert.Equal(t, "b", report.Files[1].Path)
	assert.Equal(t, 14, report.LinesFound)
	assert.Equal(t, 7, report.LinesHit)
	assert.Equal(t, 50.0, report.Percent)
	assert.Zero(t, report.Skipped)
}

func TestParseStringSaturatesHugeCounts(t *testing.T) {
	trace := "SF:huge.go\nLF:99999999999999999999\nLH:99999999999999999999\nend_of_record\n" +
		"SF:small.go\nLF:4\nLH:2\nend_of_record\n"
	report := ParseString(trace)

	require.Len(t, report.Files, 2)
	assert.Equal(t, math.MaxInt, report.LinesFound)
	assert.Equal(t, math.MaxInt, report.LinesHit)
	assert.Equal(t, 100.0, report.Percent)
	assert.Equal(t, "small.go", report.Files[0].Path)
}

func TestParseStringHitAboveFoundIsKept(t *testing.T) {
	report := ParseString("SF:odd.go\nLF:2\nLH:3\nend_of_record\n")

	require.Len(t, report.Files, 1)
	assert.Equal(t, 150.0, report.Files[0].Percent)
}

func TestParseStringOverallIsNotAverageOfFiles(t *testing.T) {
	report := ParseString("SF:a\nLF:1\nLH:1\nend_of_record\nSF:b\nLF:99\nLH:0\nend_of_record\n")

	assert.Equal(t, 1.0, report.Percent)
}

func TestParseStringIsIdempotent(t *testing.T) {
	assert.Equal(t, ParseString(twoFileTrace), ParseString(twoFileTrace))
}

func TestParseReader(t *testing.T) {
	report, err := Parse(strings.NewReader(twoFileTrace))
	require.NoError(t, err)
	assert.Equal(t, ParseString(twoFileTrace), report)
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, errors.New("read failure")
}

func TestParseReaderError(t *testing.T) {
	_, err := Parse(errorReader{})
	assert.ErrorContains(t, err, "read failure")
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input string
		value int
		ok    bool
	}{
		{"12", 12, true},
		{"0", 0, true},
		{"", 0, false},
		{"-1", 0, false},
		{"1 ", 0, false},
		{"99999999999999999999", math.MaxInt, true},
	}

	for _, tt := range tests {
		value, ok := parseCount(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.value, value, tt.input)
	}
}
