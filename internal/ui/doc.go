// Package ui provides terminal output components for fdctl.
//
// Components follow a "render once and print" pattern using Lipgloss:
//
//   - Result: success/failure boxes with ordered details and troubleshooting tips
//   - FieldTable: tabular listing of registry entries and dumped values
//   - ConfirmWrite: typed confirmation before factory data is modified
//
// Plain output (a bare value on stdout) is produced by the commands
// themselves so that fdctl stays usable in scripts; these components are
// used for human-facing output only.
//
// # Logging Integration
//
// Logging is controlled via FACTORYDATA_LOG_LEVEL and written to stderr, so
// it never interleaves with rendered boxes on stdout.
package ui
