package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("TubeLens.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTranscript fetches the transcript for a video.
func (c *Client) GetTranscript(videoID string) (*TranscriptResponse, error) {
	var resp TranscriptResponse
	req := TranscriptRequest{VideoID: videoID}
	if err := c.client.Call("TubeLens.GetTranscript", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UseManualTranscript registers pasted transcript text for a video.
func (c *Client) UseManualTranscript(videoID, text string, saveAsDefault bool) (*TranscriptResponse, error) {
	var resp TranscriptResponse
	req := ManualTranscriptRequest{VideoID: videoID, Text: text, SaveAsDefault: saveAsDefault}
	if err := c.client.Call("TubeLens.UseManualTranscript", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeComments runs sentiment analysis over a video's comments.
func (c *Client) AnalyzeComments(videoID string) (*AnalyzeCommentsResponse, error) {
	var resp AnalyzeCommentsResponse
	req := AnalyzeCommentsRequest{VideoID: videoID}
	if err := c.client.Call("TubeLens.AnalyzeComments", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ask answers a free-form question about a video.
func (c *Client) Ask(videoID, query string) (*AskResponse, error) {
	var resp AskResponse
	req := AskRequest{VideoID: videoID, Query: query}
	if err := c.client.Call("TubeLens.Ask", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FactCheck verifies arbitrary text.
func (c *Client) FactCheck(text string) (*FactCheckResponse, error) {
	var resp FactCheckResponse
	req := FactCheckRequest{Text: text}
	if err := c.client.Call("TubeLens.FactCheck", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingsGet reads a single setting value.
func (c *Client) SettingsGet(key string) (*SettingsGetResponse, error) {
	var resp SettingsGetResponse
	req := SettingsGetRequest{Key: key}
	if err := c.client.Call("TubeLens.SettingsGet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingsSet stores a setting value.
func (c *Client) SettingsSet(key, value string) error {
	var resp SettingsSetResponse
	req := SettingsSetRequest{Key: key, Value: value}
	return c.client.Call("TubeLens.SettingsSet", req, &resp)
}

// SettingsUnset reverts a setting to its default.
func (c *Client) SettingsUnset(key string) error {
	var resp SettingsUnsetResponse
	req := SettingsUnsetRequest{Key: key}
	return c.client.Call("TubeLens.SettingsUnset", req, &resp)
}

// SettingsList fetches every setting with secrets masked.
func (c *Client) SettingsList() (*SettingsListResponse, error) {
	var resp SettingsListResponse
	if err := c.client.Call("TubeLens.SettingsList", SettingsListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BridgeNext polls for the next browser command on behalf of the extension
// host.
func (c *Client) BridgeNext(waitMillis int) (*BridgeNextResponse, error) {
	var resp BridgeNextResponse
	req := BridgeNextRequest{WaitMillis: waitMillis}
	if err := c.client.Call("TubeLens.BridgeNext", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BridgeResolve posts a command result from the extension host.
func (c *Client) BridgeResolve(resp BridgeResolveRequest) error {
	var ack BridgeResolveResponse
	return c.client.Call("TubeLens.BridgeResolve", resp, &ack)
}
