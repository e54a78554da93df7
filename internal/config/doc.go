// Package config loads and validates the tubelens daemon configuration.
//
// Daemon configuration is a TOML file (default
// ~/.config/tubelens/config.toml) covering paths, logging, the IPC socket,
// platform API tuning and push notifications. It is distinct from the user
// settings store (internal/settings), which holds the mutable per-operation
// analysis settings: provider selection, credentials, language preferences.
//
// Configuration sections:
//   - Paths: data directory, log directory, IPC socket path
//   - Logging: output format and level
//   - YouTube: Data API base URL and request pacing
//   - Browser: bridge round-trip timeout for page extraction commands
//   - Notifications: ntfy push notification settings
package config
