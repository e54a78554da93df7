package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tubelens/internal/logging"
)

// Command actions understood by the extension host.
const (
	ActionTranscriptPanelHTML = "transcript_panel_html"
	ActionListPlayerTracks    = "list_player_tracks"
	ActionSelectPlayerTrack   = "select_player_track"
	ActionSampleCaption       = "sample_caption"
)

// Command is one instruction for the extension host.
type Command struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	// Language carries the track code for select_player_track.
	Language string `json:"language,omitempty"`
}

// Response is the host's answer to a command.
type Response struct {
	ID       string        `json:"id"`
	Error    string        `json:"error,omitempty"`
	HTML     string        `json:"html,omitempty"`
	Tracks   []PlayerTrack `json:"tracks,omitempty"`
	Sighting *Sighting     `json:"sighting,omitempty"`
}

// ErrNoHost is returned when no extension host is polling for commands.
var ErrNoHost = errors.New("no browser host connected")

// Bridge implements Controller by exchanging commands with a connected
// extension host. Commands wait in a bounded queue until the host polls
// them; responses are matched to waiters by command ID.
type Bridge struct {
	timeout time.Duration
	logger  *slog.Logger

	queue chan Command

	mu      sync.Mutex
	pending map[string]chan Response
}

// NewBridge constructs a bridge. timeout bounds the full round trip of one
// command, from enqueue to response.
func NewBridge(timeout time.Duration, logger *slog.Logger) *Bridge {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Bridge{
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "browser"),
		queue:   make(chan Command, 16),
		pending: make(map[string]chan Response),
	}
}

// NextCommand blocks until a command is available for the host or the
// context ends.
func (b *Bridge) NextCommand(ctx context.Context) (Command, error) {
	select {
	case cmd := <-b.queue:
		return cmd, nil
	case <-ctx.Done():
		return Command{}, ctx.Err()
	}
}

// PostResponse delivers the host's answer to the waiting caller. Responses
// for unknown or already timed-out commands are dropped.
func (b *Bridge) PostResponse(resp Response) {
	b.mu.Lock()
	ch, ok := b.pending[resp.ID]
	if ok {
		delete(b.pending, resp.ID)
	}
	b.mu.Unlock()
	if !ok {
		b.logger.Debug("dropping response for unknown command",
			logging.String("command_id", resp.ID))
		return
	}
	ch <- resp
}

func (b *Bridge) roundTrip(ctx context.Context, cmd Command) (Response, error) {
	cmd.ID = uuid.NewString()
	respCh := make(chan Response, 1)

	b.mu.Lock()
	b.pending[cmd.ID] = respCh
	b.mu.Unlock()

	abandon := func() {
		b.mu.Lock()
		delete(b.pending, cmd.ID)
		b.mu.Unlock()
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	select {
	case b.queue <- cmd:
	case <-ctx.Done():
		abandon()
		return Response{}, fmt.Errorf("%w: %s", ErrNoHost, cmd.Action)
	}

	select {
	case resp := <-respCh:
		if resp.Error != "" {
			return Response{}, fmt.Errorf("browser %s: %s", cmd.Action, resp.Error)
		}
		return resp, nil
	case <-ctx.Done():
		abandon()
		return Response{}, fmt.Errorf("browser %s: %w", cmd.Action, ctx.Err())
	}
}

// TranscriptPanelHTML implements Controller.
func (b *Bridge) TranscriptPanelHTML(ctx context.Context) (string, error) {
	resp, err := b.roundTrip(ctx, Command{Action: ActionTranscriptPanelHTML})
	if err != nil {
		return "", err
	}
	return resp.HTML, nil
}

// ListPlayerTracks implements Controller.
func (b *Bridge) ListPlayerTracks(ctx context.Context) ([]PlayerTrack, error) {
	resp, err := b.roundTrip(ctx, Command{Action: ActionListPlayerTracks})
	if err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// SelectPlayerTrack implements Controller.
func (b *Bridge) SelectPlayerTrack(ctx context.Context, code string) error {
	_, err := b.roundTrip(ctx, Command{Action: ActionSelectPlayerTrack, Language: code})
	return err
}

// SampleCaption implements Controller.
func (b *Bridge) SampleCaption(ctx context.Context) (Sighting, error) {
	resp, err := b.roundTrip(ctx, Command{Action: ActionSampleCaption})
	if err != nil {
		return Sighting{}, err
	}
	if resp.Sighting == nil {
		return Sighting{}, fmt.Errorf("browser %s: response missing sighting", ActionSampleCaption)
	}
	return *resp.Sighting, nil
}
