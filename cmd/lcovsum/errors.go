package lcovsum

import (
	"fmt"

	"github.com/meza/lcov-summary/internal/i18n"
)

// ThresholdError is returned when overall coverage is below --min.
type ThresholdError struct {
	Actual  float64
	Minimum float64
}

func (e *ThresholdError) Error() string {
	return i18n.T("cmd.report.error.threshold", i18n.Tvars{
		Data: &i18n.TData{
			"actual":  fmt.Sprintf("%.1f", e.Actual),
			"minimum": fmt.Sprintf("%.1f", e.Minimum),
		},
	})
}

type InvalidThresholdError struct {
	Value float64
}

func (e *InvalidThresholdError) Error() string {
	return i18n.T("cmd.report.error.min_range", i18n.Tvars{
		Data: &i18n.TData{"value": fmt.Sprintf("%v", e.Value)},
	})
}
