// Package constants defines shared constant values.
package constants

// AppName is the project identifier used in logs and metadata.
const AppName = "lcov-summary"

// CommandName is the primary CLI command name.
const CommandName = "lcovsum"

// DefaultReportPath is read when no tracefile is given.
const DefaultReportPath = "coverage/lcov.info"

// DefaultConfigPath is the optional settings file looked up in the working directory.
const DefaultConfigPath = ".lcovsum.json"
