// Package environment reads runtime environment configuration.
package environment

import (
	"os"
)

var (
	posthogAPIKeyDefault = "REPL_POSTHOG_API_KEY" // #nosec G101 -- build-time placeholder replaced in release builds.
)

const testEnvVar = "LCOVSUM_TEST"

func PosthogAPIKey() string {
	key, present := os.LookupEnv("POSTHOG_API_KEY")
	if present {
		return key
	}

	return posthogAPIKeyDefault
}

func AppVersion() string {
	return "REPL_VERSION"
}

func HelpURL() string {
	return "REPL_HELP_URL"
}

// IsTest reports whether the process runs under the test harness, in which
// case user-facing strings are not translated.
func IsTest() bool {
	_, present := os.LookupEnv(testEnvVar)
	return present
}
