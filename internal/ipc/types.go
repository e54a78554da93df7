package ipc

import (
	"tubelens/internal/browser"
	"tubelens/internal/comments"
	"tubelens/internal/core"
	"tubelens/internal/rag"
)

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse reports daemon liveness and active configuration.
type StatusResponse struct {
	Running    bool   `json:"running"`
	PID        int    `json:"pid"`
	SocketPath string `json:"socket_path"`
	Provider   string `json:"provider"`
	HostOnline bool   `json:"host_online"`
}

// TranscriptRequest fetches a transcript for a video.
type TranscriptRequest struct {
	VideoID string `json:"video_id"`
}

// TranscriptResponse carries the flattened transcript result.
type TranscriptResponse struct {
	Result core.TranscriptResult `json:"result"`
}

// ManualTranscriptRequest registers pasted transcript text for a video.
type ManualTranscriptRequest struct {
	VideoID       string `json:"video_id"`
	Text          string `json:"text"`
	SaveAsDefault bool   `json:"save_as_default"`
}

// AnalyzeCommentsRequest runs sentiment analysis over a video's comments.
type AnalyzeCommentsRequest struct {
	VideoID string `json:"video_id"`
}

// AnalyzeCommentsResponse carries the aggregated analysis.
type AnalyzeCommentsResponse struct {
	Analysis comments.Analysis `json:"analysis"`
}

// AskRequest answers a free-form question about a video.
type AskRequest struct {
	VideoID string `json:"video_id"`
	Query   string `json:"query"`
}

// AskResponse carries the answer with its transcript sources.
type AskResponse struct {
	Answer rag.Answer `json:"answer"`
}

// FactCheckRequest verifies arbitrary text.
type FactCheckRequest struct {
	Text string `json:"text"`
}

// FactCheckResponse carries the structured verdict.
type FactCheckResponse struct {
	Result rag.FactCheckResult `json:"result"`
}

// SettingsGetRequest reads a single setting.
type SettingsGetRequest struct {
	Key string `json:"key"`
}

// SettingsGetResponse returns the stored value, empty when unset. Secret
// values are returned unmasked; masking is a presentation concern.
type SettingsGetResponse struct {
	Value string `json:"value"`
}

// SettingsSetRequest stores a setting value.
type SettingsSetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SettingsSetResponse acknowledges the write.
type SettingsSetResponse struct{}

// SettingsUnsetRequest reverts a setting to its default.
type SettingsUnsetRequest struct {
	Key string `json:"key"`
}

// SettingsUnsetResponse acknowledges the removal.
type SettingsUnsetResponse struct{}

// SettingsListRequest fetches every setting for display.
type SettingsListRequest struct{}

// SettingsListResponse maps keys to stored values with secrets masked.
type SettingsListResponse struct {
	Values map[string]string `json:"values"`
}

// BridgeNextRequest polls for the next browser command. WaitMillis bounds
// how long the server holds the poll open before returning empty.
type BridgeNextRequest struct {
	WaitMillis int `json:"wait_millis"`
}

// BridgeNextResponse returns at most one pending command.
type BridgeNextResponse struct {
	Found   bool            `json:"found"`
	Command browser.Command `json:"command"`
}

// BridgeResolveRequest posts a command result from the extension host.
type BridgeResolveRequest struct {
	Response browser.Response `json:"response"`
}

// BridgeResolveResponse acknowledges the result.
type BridgeResolveResponse struct{}
