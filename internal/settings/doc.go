// Package settings persists user-tunable analysis settings in SQLite.
//
// Settings cover provider selection, API credentials, model overrides,
// caption language preferences and manual transcript mode. They are distinct
// from daemon configuration (internal/config): settings change at runtime
// through the CLI or IPC without a daemon restart.
//
// Operations read settings through Snapshot, which materializes a complete
// Settings value with defaults applied for unset keys. A snapshot taken at
// the start of an operation stays fixed for its duration; concurrent updates
// affect only later snapshots. Subscribers are notified after each change.
package settings
