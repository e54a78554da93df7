package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tubelens/internal/logging"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// ErrNoCaptions is returned when a video has no caption tracks at all.
var ErrNoCaptions = errors.New("no captions found for this video")

// APIError is a non-2xx response from the Data API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("youtube api: http %d", e.StatusCode)
	}
	return fmt.Sprintf("youtube api: http %d: %s", e.StatusCode, e.Message)
}

// CaptionTrack describes one caption track on a video.
type CaptionTrack struct {
	ID             string
	Language       string
	Name           string
	TrackKind      string
	AudioTrackType string
}

// IsASR reports whether the track is auto-generated speech recognition.
func (t CaptionTrack) IsASR() bool {
	return strings.EqualFold(t.TrackKind, "asr")
}

// Comment is one top-level comment.
type Comment struct {
	Text   string `json:"text"`
	Likes  int64  `json:"likes"`
	Author string `json:"author"`
}

// Client calls the YouTube Data API with rate limiting.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient constructs a client pacing requests at requestsPerMinute.
func NewClient(requestsPerMinute int, logger *slog.Logger, opts ...Option) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		logger:     logging.NewComponentLogger(logger, "youtube"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	endpoint := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("youtube request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("youtube request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: extractAPIErrorMessage(body)}
	}
	return body, nil
}

func extractAPIErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		return parsed.Error.Message
	}
	return ""
}

// ListCaptionTracks returns all caption tracks for a video. ErrNoCaptions is
// returned when the video has none.
func (c *Client) ListCaptionTracks(ctx context.Context, apiKey, videoID string) ([]CaptionTrack, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("videoId", videoID)
	query.Set("key", apiKey)

	body, err := c.get(ctx, "/captions", query)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Language       string `json:"language"`
				Name           string `json:"name"`
				TrackKind      string `json:"trackKind"`
				AudioTrackType string `json:"audioTrackType"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("youtube captions: decode response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, ErrNoCaptions
	}

	tracks := make([]CaptionTrack, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		tracks = append(tracks, CaptionTrack{
			ID:             item.ID,
			Language:       item.Snippet.Language,
			Name:           item.Snippet.Name,
			TrackKind:      item.Snippet.TrackKind,
			AudioTrackType: item.Snippet.AudioTrackType,
		})
	}
	c.logger.Debug("listed caption tracks",
		logging.String("video_id", videoID),
		logging.Int("track_count", len(tracks)))
	return tracks, nil
}

// DownloadCaptionTrack fetches one caption track as SRT text.
func (c *Client) DownloadCaptionTrack(ctx context.Context, apiKey, trackID string) (string, error) {
	query := url.Values{}
	query.Set("key", apiKey)
	query.Set("tfmt", "srt")

	body, err := c.get(ctx, "/captions/"+url.PathEscape(trackID), query)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// VideoMetadata carries the snippet fields used to enrich LLM prompts.
type VideoMetadata struct {
	Title        string
	ChannelTitle string
}

// ErrVideoNotFound reports a metadata lookup for an unknown video id.
var ErrVideoNotFound = errors.New("youtube: video not found")

// FetchVideoMetadata resolves a video's title and channel name.
func (c *Client) FetchVideoMetadata(ctx context.Context, apiKey, videoID string) (VideoMetadata, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("id", videoID)
	query.Set("key", apiKey)

	body, err := c.get(ctx, "/videos", query)
	if err != nil {
		return VideoMetadata{}, err
	}

	var parsed struct {
		Items []struct {
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return VideoMetadata{}, fmt.Errorf("youtube metadata: decode response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return VideoMetadata{}, ErrVideoNotFound
	}
	return VideoMetadata{
		Title:        parsed.Items[0].Snippet.Title,
		ChannelTitle: parsed.Items[0].Snippet.ChannelTitle,
	}, nil
}

// FetchComments pages through top-level comment threads until maxComments
// are collected or the pages run out. It returns the comments and the total
// number fetched from the API.
func (c *Client) FetchComments(ctx context.Context, apiKey, videoID string, maxComments int) ([]Comment, error) {
	if maxComments <= 0 {
		return nil, nil
	}

	var comments []Comment
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("part", "snippet")
		query.Set("videoId", videoID)
		query.Set("maxResults", "100")
		query.Set("key", apiKey)
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		body, err := c.get(ctx, "/commentThreads", query)
		if err != nil {
			return nil, err
		}

		var parsed struct {
			NextPageToken string `json:"nextPageToken"`
			Items         []struct {
				Snippet struct {
					TopLevelComment struct {
						Snippet struct {
							TextDisplay       string `json:"textDisplay"`
							LikeCount         int64  `json:"likeCount"`
							AuthorDisplayName string `json:"authorDisplayName"`
						} `json:"snippet"`
					} `json:"topLevelComment"`
				} `json:"snippet"`
			} `json:"items"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("youtube comments: decode response: %w", err)
		}

		for _, item := range parsed.Items {
			snippet := item.Snippet.TopLevelComment.Snippet
			comments = append(comments, Comment{
				Text:   snippet.TextDisplay,
				Likes:  snippet.LikeCount,
				Author: snippet.AuthorDisplayName,
			})
		}

		pageToken = parsed.NextPageToken
		if pageToken == "" || len(comments) >= maxComments {
			break
		}
	}

	if len(comments) > maxComments {
		comments = comments[:maxComments]
	}
	c.logger.Debug("fetched comments",
		logging.String("video_id", videoID),
		logging.Int("comment_count", len(comments)))
	return comments, nil
}
