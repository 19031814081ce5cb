package tui

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ttyBuffer stands in for a stdin/stdout pair attached to a descriptor.
type ttyBuffer struct {
	bytes.Buffer
	fd uintptr
}

func (buffer *ttyBuffer) Fd() uintptr { return buffer.fd }

// withTerminals marks the listed descriptors as terminals for one test.
func withTerminals(t *testing.T, fds ...uintptr) {
	t.Helper()
	terminals := map[int]bool{}
	for _, fd := range fds {
		terminals[int(fd)] = true
	}
	t.Cleanup(SetIsTerminalFuncForTesting(func(fd int) bool { return terminals[fd] }))
}

func TestShouldUseTUI(t *testing.T) {
	stdin := &ttyBuffer{fd: 0}
	stdout := &ttyBuffer{fd: 1}

	tests := []struct {
		name      string
		terminals []uintptr
		quiet     bool
		in        io.Reader
		out       io.Writer
		expected  bool
	}{
		{"both streams on a terminal", []uintptr{0, 1}, false, stdin, stdout, true},
		{"quiet keeps the report inline", []uintptr{0, 1}, true, stdin, stdout, false},
		{"report piped to a file", []uintptr{0}, false, stdin, stdout, false},
		{"tracefile piped on stdin", []uintptr{1}, false, stdin, stdout, false},
		{"writer without descriptor", []uintptr{0, 1}, false, stdin, &strings.Builder{}, false},
		{"reader without descriptor", []uintptr{0, 1}, false, strings.NewReader("SF:a.go"), stdout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTerminals(t, tt.terminals...)
			assert.Equal(t, tt.expected, ShouldUseTUI(tt.quiet, tt.in, tt.out))
		})
	}
}

func TestProgramOptionsRendererFollowsTerminal(t *testing.T) {
	stdin := &ttyBuffer{fd: 0}
	stdout := &ttyBuffer{fd: 1}

	withTerminals(t, 0, 1)
	assert.Len(t, ProgramOptions(stdin, stdout), 2)

	withTerminals(t, 0)
	assert.Len(t, ProgramOptions(stdin, stdout), 3, "renderer is disabled when output is not a terminal")
}

func TestSetIsTerminalFuncForTestingRestores(t *testing.T) {
	stdout := &ttyBuffer{fd: 7}
	withTerminals(t)

	restore := SetIsTerminalFuncForTesting(func(int) bool { return true })
	assert.True(t, IsTerminalWriter(stdout))

	restore()
	assert.False(t, IsTerminalWriter(stdout))
}

func TestTerminalWidth(t *testing.T) {
	original := getSizeFunc
	t.Cleanup(func() { getSizeFunc = original })

	stdout := &ttyBuffer{fd: 1}
	withTerminals(t, 1)

	getSizeFunc = func(fd int) (int, int, error) {
		assert.Equal(t, 1, fd)
		return 132, 40, nil
	}
	assert.Equal(t, 132, TerminalWidth(stdout), "flag usage wraps at the terminal width")
	assert.Equal(t, 0, TerminalWidth(&ttyBuffer{fd: 2}), "no wrapping when not a terminal")
	assert.Equal(t, 0, TerminalWidth(&strings.Builder{}))

	getSizeFunc = func(int) (int, int, error) { return 0, 0, io.ErrUnexpectedEOF }
	assert.Equal(t, 0, TerminalWidth(stdout))
}
