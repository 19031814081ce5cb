// Package config reads the optional lcovsum settings file.
package config

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/meza/lcov-summary/internal/perf"
	"github.com/meza/lcov-summary/internal/report"
)

// Settings holds defaults that command line flags override.
type Settings struct {
	Report      string   `json:"report,omitempty"`
	Format      string   `json:"format,omitempty"`
	MinCoverage *float64 `json:"minCoverage,omitempty"`
	Exclude     []string `json:"exclude,omitempty"`
}

// Read loads the settings file at path. A missing file yields empty settings
// unless required is set, in which case ConfigFileNotFoundError is returned.
func Read(ctx context.Context, fs afero.Fs, path string, required bool) (Settings, error) {
	_, span := perf.StartSpan(ctx, "io.config.read")
	defer span.End()

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "failed to check configuration file")
	}
	if !exists {
		if required {
			return Settings{}, &ConfigFileNotFoundError{Path: path}
		}
		return Settings{}, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "failed to read configuration file")
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, &ConfigFileInvalidError{Path: path, Err: err}
	}

	if settings.MinCoverage != nil && (*settings.MinCoverage < 0 || *settings.MinCoverage > 100) {
		return Settings{}, &ConfigFileInvalidError{
			Path: path,
			Err:  errors.Errorf("minCoverage must be between 0 and 100, got %v", *settings.MinCoverage),
		}
	}

	if settings.Format != "" {
		if _, err := report.ParseFormat(settings.Format); err != nil {
			return Settings{}, &ConfigFileInvalidError{Path: path, Err: err}
		}
	}

	return settings, nil
}
