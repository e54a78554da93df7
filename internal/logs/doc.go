// Package logs provides file tailing with offset tracking for the CLI.
//
// It reads log files with bounded memory, supports negative offsets for
// "tail last N lines" requests, and powers follow mode for `tubelens logs
// --follow`. Callers supply context deadlines so polling shuts down cleanly
// when the CLI exits.
package logs
