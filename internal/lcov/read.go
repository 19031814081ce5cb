package lcov

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/meza/lcov-summary/internal/perf"
)

// FileAccessError is returned when the tracefile cannot be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("Coverage report cannot be read: %s: %s", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ReadReport loads the tracefile at path from fs and parses it.
func ReadReport(ctx context.Context, fs afero.Fs, path string) (Report, error) {
	_, span := perf.StartSpan(ctx, "io.report.read", attribute.String("report_path", path))
	defer span.End()

	file, err := fs.Open(path)
	if err != nil {
		return Report{}, &FileAccessError{Path: path, Err: errors.WithStack(err)}
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return Report{}, &FileAccessError{Path: path, Err: errors.WithStack(err)}
	}
	if info.IsDir() {
		return Report{}, &FileAccessError{Path: path, Err: errors.New("is a directory")}
	}

	report, err := Parse(file)
	if err != nil {
		return Report{}, &FileAccessError{Path: path, Err: err}
	}

	span.SetAttributes(
		attribute.Int("records", len(report.Files)),
		attribute.Int("skipped", report.Skipped),
	)
	return report, nil
}
