// Package ignore parses .lcovsumignore patterns and matches report paths
// against them.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const FileName = ".lcovsumignore"

// ListPatterns reads the ignore file in rootDir. A missing file means no
// patterns. Blank lines and lines starting with # are skipped.
func ListPatterns(fs afero.Fs, rootDir string) ([]string, error) {
	ignoreFile := filepath.Join(rootDir, FileName)
	exists, err := afero.Exists(fs, ignoreFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check ignore file")
	}
	if !exists {
		return nil, nil
	}

	data, err := afero.ReadFile(fs, ignoreFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read ignore file")
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}

	return patterns, nil
}

// Matches reports whether path is covered by any pattern. Paths under
// rootDir are matched relative to it. Patterns without a slash match the
// file name at any depth.
func Matches(rootDir string, path string, patterns []string) bool {
	target := relativeTo(rootDir, path)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if !strings.Contains(pattern, "/") {
			pattern = "**/" + pattern
		}
		if globMatch(pattern, target) {
			return true
		}
	}

	return false
}

func relativeTo(rootDir string, path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	if rootDir == "" || !filepath.IsAbs(filepath.FromSlash(normalized)) {
		return strings.TrimPrefix(normalized, "./")
	}

	root, err := filepath.Abs(rootDir)
	if err != nil {
		return normalized
	}
	rel, err := filepath.Rel(root, filepath.FromSlash(normalized))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalized
	}
	return filepath.ToSlash(rel)
}

func globMatch(pattern string, target string) bool {
	pattern = strings.TrimPrefix(pattern, "./")
	target = strings.TrimPrefix(target, "/")

	patternParts := strings.Split(pattern, "/")
	targetParts := strings.Split(target, "/")

	var match func(pi, ti int) bool
	match = func(pi, ti int) bool {
		if pi == len(patternParts) {
			return ti == len(targetParts)
		}

		part := patternParts[pi]
		if part == "**" {
			for skip := ti; skip <= len(targetParts); skip++ {
				if match(pi+1, skip) {
					return true
				}
			}
			return false
		}

		if ti >= len(targetParts) {
			return false
		}

		ok, err := filepath.Match(part, targetParts[ti])
		if err != nil || !ok {
			return false
		}
		return match(pi+1, ti+1)
	}

	return match(0, 0)
}
