// Package memocache provides a small bounded in-memory cache with TTL
// expiry for analysis results.
//
// Every analysis surface (transcripts, comment insights, question answers)
// keeps its own cache instance so keys never collide across result types.
// Entries expire after a fixed TTL and the cache holds at most a fixed number
// of entries, evicting the oldest stored entry when full. The clock is
// injectable for tests.
package memocache
