// Package logging provides slog-based structured logging for tubelens.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for log aggregation. When a log directory is
// configured, output is additionally written to a size-rotated file
// (lumberjack) alongside stdout.
//
// Components attach a stable "component" attribute via NewComponentLogger
// so console output reads as "component: message k=v".
package logging
