// Package notifications delivers analysis lifecycle events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Progress events are intentionally never pushed; they would flood a phone
// with a notification per comment batch. Daemon logs already carry them.
//
// Extend this package if you need alternative transports; pipeline code
// depends only on the simple Service interface.
package notifications
