package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	t.Setenv("LCOVSUM_TEST", "true")
	command := Command()

	assert.Equal(t, "version", command.Use)
	assert.Equal(t, "cmd.version.short, Arg 1: {Count: 0, Data: &map[appName:lcov-summary]}", command.Short)
}

func TestVersionOutput(t *testing.T) {
	t.Setenv("LCOVSUM_TEST", "true")
	b := &bytes.Buffer{}
	command := Command()
	command.SetOut(b)
	command.SetArgs([]string{})

	err := command.Execute()
	assert.NoError(t, err)
	assert.Equal(t, "REPL_VERSION\n", b.String())
}

func TestVersionRejectsArguments(t *testing.T) {
	t.Setenv("LCOVSUM_TEST", "true")
	command := Command()
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"extra"})

	assert.Error(t, command.Execute())
}
