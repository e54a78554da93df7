package captions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tubelens/internal/browser"
	"tubelens/internal/logging"
)

// ErrNoCaptionsObserved is returned when the player showed no captions
// within the grace period.
var ErrNoCaptionsObserved = errors.New("no captions observed in player")

// CollectorConfig tunes the player sampling loop.
type CollectorConfig struct {
	// PollInterval is the delay between overlay samples.
	PollInterval time.Duration
	// Grace bounds the wait for the first caption to appear.
	Grace time.Duration
	// Idle stops collection after this long without a new caption.
	Idle time.Duration
	// MaxDuration is the hard cap on one collection run.
	MaxDuration time.Duration
}

// DefaultCollectorConfig returns the standard sampling timings.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		PollInterval: 500 * time.Millisecond,
		Grace:        10 * time.Second,
		Idle:         5 * time.Second,
		MaxDuration:  30 * time.Second,
	}
}

func (c *CollectorConfig) applyDefaults() {
	defaults := DefaultCollectorConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.Grace <= 0 {
		c.Grace = defaults.Grace
	}
	if c.Idle <= 0 {
		c.Idle = defaults.Idle
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = defaults.MaxDuration
	}
}

// Collector samples the player caption overlay to reconstruct a transcript
// for one caption track. Elapsed time is tracked as poll count times the
// interval, so the loop is deterministic under test.
type Collector struct {
	ctrl   browser.Controller
	cfg    CollectorConfig
	logger *slog.Logger
	sleep  func(context.Context, time.Duration) error
}

// NewCollector constructs a collector around the browser controller.
func NewCollector(ctrl browser.Controller, cfg CollectorConfig, logger *slog.Logger) *Collector {
	cfg.applyDefaults()
	return &Collector{
		ctrl:   ctrl,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "collector"),
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Collect switches the player to the given track and samples the overlay
// until the idle window passes, the hard cap is reached, or the grace period
// expires with nothing seen. Consecutive duplicate captions are dropped.
func (c *Collector) Collect(ctx context.Context, code string) (string, error) {
	if err := c.ctrl.SelectPlayerTrack(ctx, code); err != nil {
		return "", fmt.Errorf("select track %q: %w", code, err)
	}

	var (
		lines    []string
		lastText string
		elapsed  time.Duration
		lastNew  time.Duration
	)

	for {
		sighting, err := c.ctrl.SampleCaption(ctx)
		if err != nil {
			return "", fmt.Errorf("sample caption: %w", err)
		}

		text := strings.TrimSpace(sighting.Text)
		if text != "" && text != lastText {
			lines = append(lines, fmt.Sprintf("[%s] %s", formatPlaybackTime(sighting.PlaybackSeconds), text))
			lastText = text
			lastNew = elapsed
		}

		if len(lines) == 0 && elapsed >= c.cfg.Grace {
			break
		}
		if len(lines) > 0 && elapsed-lastNew >= c.cfg.Idle {
			break
		}
		if elapsed >= c.cfg.MaxDuration {
			break
		}

		if err := c.sleep(ctx, c.cfg.PollInterval); err != nil {
			return "", err
		}
		elapsed += c.cfg.PollInterval
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("%w: track %q", ErrNoCaptionsObserved, code)
	}
	c.logger.Debug("collected player captions",
		logging.String("language", code),
		logging.Int("segment_count", len(lines)),
		logging.Duration("elapsed", elapsed))
	return strings.Join(lines, "\n"), nil
}

func formatPlaybackTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
