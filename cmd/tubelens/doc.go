// Package main hosts the tubelens CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the analysis daemon: transcript acquisition, comment sentiment
// analysis, question answering, fact checking, settings management, and
// configuration scaffolding. The serve command runs the daemon itself in the
// foreground.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
