package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tubelens/internal/logging"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(6000, logging.NewNop(), WithBaseURL(server.URL))
}

func TestListCaptionTracks(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/captions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("videoId"); got != "vid123" {
			t.Errorf("videoId = %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "yt-key" {
			t.Errorf("key = %q", got)
		}
		w.Write([]byte(`{"items":[
			{"id":"t1","snippet":{"language":"en","name":"English","trackKind":"standard"}},
			{"id":"t2","snippet":{"language":"es","name":"","trackKind":"asr"}}
		]}`))
	}))

	tracks, err := client.ListCaptionTracks(context.Background(), "yt-key", "vid123")
	if err != nil {
		t.Fatalf("ListCaptionTracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("tracks = %+v", tracks)
	}
	if tracks[0].ID != "t1" || tracks[0].Language != "en" || tracks[0].IsASR() {
		t.Errorf("track[0] = %+v", tracks[0])
	}
	if !tracks[1].IsASR() {
		t.Errorf("track[1] should be ASR: %+v", tracks[1])
	}
}

func TestListCaptionTracksEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))

	_, err := client.ListCaptionTracks(context.Background(), "k", "vid")
	if !errors.Is(err, ErrNoCaptions) {
		t.Fatalf("err = %v, want ErrNoCaptions", err)
	}
}

func TestListCaptionTracksAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))

	_, err := client.ListCaptionTracks(context.Background(), "k", "vid")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Message != "quota exceeded" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestDownloadCaptionTrack(t *testing.T) {
	const srt = "1\n00:00:01,000 --> 00:00:02,000\nhello\n"
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/captions/t1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("tfmt"); got != "srt" {
			t.Errorf("tfmt = %q", got)
		}
		w.Write([]byte(srt))
	}))

	got, err := client.DownloadCaptionTrack(context.Background(), "k", "t1")
	if err != nil {
		t.Fatalf("DownloadCaptionTrack: %v", err)
	}
	if got != srt {
		t.Fatalf("content = %q", got)
	}
}

func TestFetchCommentsPaginatesAndCaps(t *testing.T) {
	page := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/commentThreads" {
			t.Errorf("path = %q", r.URL.Path)
		}
		page++
		switch page {
		case 1:
			if got := r.URL.Query().Get("pageToken"); got != "" {
				t.Errorf("first page token = %q", got)
			}
			w.Write([]byte(commentPage(60, "page2")))
		case 2:
			if got := r.URL.Query().Get("pageToken"); got != "page2" {
				t.Errorf("second page token = %q", got)
			}
			w.Write([]byte(commentPage(60, "page3")))
		default:
			t.Error("fetched beyond the comment cap")
			w.Write([]byte(`{"items":[]}`))
		}
	}))

	comments, err := client.FetchComments(context.Background(), "k", "vid", 100)
	if err != nil {
		t.Fatalf("FetchComments: %v", err)
	}
	if len(comments) != 100 {
		t.Fatalf("len = %d, want 100", len(comments))
	}
	if page != 2 {
		t.Fatalf("pages fetched = %d, want 2", page)
	}
	if comments[0].Author != "author" || comments[0].Likes != 3 {
		t.Fatalf("comment[0] = %+v", comments[0])
	}
}

func TestFetchCommentsStopsWhenPagesRunOut(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(commentPage(10, "")))
	}))

	comments, err := client.FetchComments(context.Background(), "k", "vid", 100)
	if err != nil {
		t.Fatalf("FetchComments: %v", err)
	}
	if len(comments) != 10 {
		t.Fatalf("len = %d, want 10", len(comments))
	}
}

func commentPage(n int, nextToken string) string {
	body := `{"nextPageToken":"` + nextToken + `","items":[`
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		body += `{"snippet":{"topLevelComment":{"snippet":{"textDisplay":"great video","likeCount":3,"authorDisplayName":"author"}}}}`
	}
	return body + `]}`
}

func TestFetchVideoMetadata(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "vid" {
			t.Errorf("id = %q", got)
		}
		w.Write([]byte(`{"items":[{"snippet":{"title":"Sourdough Basics","channelTitle":"Bread Lab"}}]}`))
	}))

	meta, err := client.FetchVideoMetadata(context.Background(), "k", "vid")
	if err != nil {
		t.Fatalf("FetchVideoMetadata: %v", err)
	}
	if meta.Title != "Sourdough Basics" || meta.ChannelTitle != "Bread Lab" {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestFetchVideoMetadataNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))

	_, err := client.FetchVideoMetadata(context.Background(), "k", "missing")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("err = %v, want ErrVideoNotFound", err)
	}
}
