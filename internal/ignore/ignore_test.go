package ignore

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPatternsWithoutFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	patterns, err := ListPatterns(fs, filepath.FromSlash("/project"))
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestListPatternsReadsAndTrimsIgnoreFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	rootDir := filepath.FromSlash("/project")
	content := "\n # generated code\n **/*_gen.go \n\nvendor/**\n"
	require.NoError(t, afero.WriteFile(fs, filepath.Join(rootDir, FileName), []byte(content), 0644))

	patterns, err := ListPatterns(fs, rootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*_gen.go", "vendor/**"}, patterns)
}

func TestGlobMatchSupportsDoubleStar(t *testing.T) {
	assert.True(t, globMatch("**/*_gen.go", "internal/api/types_gen.go"))
	assert.True(t, globMatch("**/*_gen.go", "types_gen.go"))
	assert.False(t, globMatch("**/*_gen.go", "internal/api/types.go"))
	assert.True(t, globMatch("vendor/**", "vendor/github.com/x/y.go"))
	assert.False(t, globMatch("src/*.go", "src/nested/a.go"))
}

func TestMatches(t *testing.T) {
	patterns := []string{"*.pb.go", "vendor/**"}

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"bare pattern matches at any depth", "api/v1/service.pb.go", true},
		{"bare pattern matches at the root", "service.pb.go", true},
		{"directory pattern", "vendor/lib/a.go", true},
		{"leading dot slash", "./vendor/lib/a.go", true},
		{"windows separators", `vendor\lib\a.go`, true},
		{"unmatched", "internal/lcov/parse.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches("", tt.path, patterns))
		})
	}
}

func TestMatchesAbsolutePathsRelativeToRoot(t *testing.T) {
	rootDir := filepath.FromSlash("/project")
	inside := filepath.Join(rootDir, "vendor", "lib", "a.go")
	outside := filepath.FromSlash("/elsewhere/vendor/lib/a.go")

	assert.True(t, Matches(rootDir, inside, []string{"vendor/**"}))
	assert.False(t, Matches(rootDir, outside, []string{"vendor/**"}))
}

func TestMatchesIgnoresBlankPatterns(t *testing.T) {
	assert.False(t, Matches("", "a.go", []string{"", "  "}))
}
