// Package ipc exposes the analysis core over JSON-RPC Unix sockets and
// ships the matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs for
// the typed operations (transcript, comments, question answering, fact
// checking, settings). The browser extension host uses the bridge
// endpoints to poll for page commands and post their results back.
//
// Reuse these types when adding new RPC endpoints to keep the protocol
// stable and compatible with existing command implementations.
package ipc
