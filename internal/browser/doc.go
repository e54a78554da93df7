// Package browser models the extension host that drives a YouTube tab.
//
// The daemon cannot touch the page itself; a thin browser-side host connects
// over IPC, polls for commands, executes them against the DOM, and posts the
// results back. The Bridge pairs each issued command with its response by
// UUID and exposes the exchange to the rest of the daemon as the synchronous
// Controller interface. Tests substitute a fake Controller and never touch a
// browser.
//
// Transcript panel HTML returned by the host is parsed here with goquery
// using the same selectors the page renders: ytd-transcript-segment-renderer
// elements carrying .segment-timestamp and .segment-text children.
package browser
