package captions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tubelens/internal/browser"
	"tubelens/internal/language"
	"tubelens/internal/logging"
	"tubelens/internal/youtube"
)

// ErrManualTranscriptRequired signals that manual mode is on and the caller
// must supply the transcript text.
var ErrManualTranscriptRequired = errors.New("manual transcript mode is enabled; supply the transcript text")

// SettingsView is the slice of user settings the pipeline needs.
type SettingsView struct {
	YouTubeKey           string
	PreferredLanguages   []string
	FetchAllLanguages    bool
	BrowserExtraction    bool
	ManualTranscriptMode bool
}

// Request identifies the video and optional manual transcript text.
type Request struct {
	VideoID          string
	ManualTranscript string
}

// Service runs the tiered caption acquisition pipeline.
type Service struct {
	yt           *youtube.Client
	ctrl         browser.Controller
	collectorCfg CollectorConfig
	logger       *slog.Logger
}

// NewService constructs the pipeline. ctrl may be nil when no browser host
// is available; the panel and player tiers are then skipped.
func NewService(yt *youtube.Client, ctrl browser.Controller, collectorCfg CollectorConfig, logger *slog.Logger) *Service {
	collectorCfg.applyDefaults()
	return &Service{
		yt:           yt,
		ctrl:         ctrl,
		collectorCfg: collectorCfg,
		logger:       logging.NewComponentLogger(logger, "captions"),
	}
}

// Acquire produces a caption bundle for the video. Manual mode short
// circuits before any network or browser access.
func (s *Service) Acquire(ctx context.Context, view SettingsView, req Request) (*Bundle, error) {
	if view.ManualTranscriptMode {
		return s.acquireManual(req)
	}

	preferred := view.PreferredLanguages
	if len(preferred) == 0 {
		preferred = language.DefaultPreferred()
	}

	var apiErr error
	if strings.TrimSpace(view.YouTubeKey) != "" && s.yt != nil {
		bundle, err := s.acquireViaAPI(ctx, view, req.VideoID, preferred)
		if err == nil {
			return bundle, nil
		}
		apiErr = err
		s.logger.Warn("api caption fetch failed, trying page extraction",
			logging.String("video_id", req.VideoID),
			logging.Error(err))
	}

	if s.ctrl != nil && view.BrowserExtraction {
		if bundle, err := s.acquireViaPlayer(ctx, req.VideoID, preferred); err == nil {
			return bundle, nil
		} else {
			s.logger.Warn("player collection failed, trying transcript panel",
				logging.String("video_id", req.VideoID),
				logging.Error(err))
		}

		if bundle, err := s.acquireViaPanel(ctx, req.VideoID); err == nil {
			return bundle, nil
		} else {
			s.logger.Warn("panel extraction failed",
				logging.String("video_id", req.VideoID),
				logging.Error(err))
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("could not acquire captions (try manual transcript mode): %w", apiErr)
	}
	return nil, errors.New("could not acquire captions: no YouTube API key and no browser host (try manual transcript mode)")
}

func (s *Service) acquireManual(req Request) (*Bundle, error) {
	text := strings.TrimSpace(req.ManualTranscript)
	if text == "" {
		return nil, ErrManualTranscriptRequired
	}
	bundle := newBundle(req.VideoID, MethodManual)
	bundle.add(LanguageCaption{
		Code:       "und",
		Name:       "Manual",
		Kind:       KindStandard,
		Transcript: text,
	})
	return bundle, nil
}

func (s *Service) acquireViaAPI(ctx context.Context, view SettingsView, videoID string, preferred []string) (*Bundle, error) {
	apiKey := view.YouTubeKey
	tracks, err := s.yt.ListCaptionTracks(ctx, apiKey, videoID)
	if err != nil {
		return nil, err
	}

	resolution := Resolve(tracks, preferred)
	if view.FetchAllLanguages {
		resolution.Tracks = ResolveAll(tracks)
	}

	bundle := newBundle(videoID, MethodAPI)
	bundle.TotalTracksFound = len(tracks)
	bundle.AvailableLanguages = resolution.Available
	bundle.MissingLanguages = resolution.Missing
	for _, missing := range resolution.Missing {
		if language.HasLimitedCaptionSupport(missing) {
			bundle.LimitedSupportLanguages = append(bundle.LimitedSupportLanguages, missing)
		}
	}

	for _, track := range resolution.Tracks {
		srt, err := s.yt.DownloadCaptionTrack(ctx, apiKey, track.ID)
		if err != nil {
			bundle.FetchErrors = append(bundle.FetchErrors, FetchError{
				Language: track.Language,
				Name:     track.Name,
				Err:      err.Error(),
			})
			continue
		}
		code := language.Normalize(track.Language)
		name := track.Name
		if name == "" {
			name = language.DisplayName(code)
		}
		bundle.add(LanguageCaption{
			Code:             code,
			Name:             name,
			Kind:             track.TrackKind,
			AudioTrackType:   track.AudioTrackType,
			Transcript:       TranscriptFromSRT(srt),
			IsAutoGenerated:  track.IsASR(),
			IsAutoTranslated: track.IsASR() && isNonPrimaryAudio(track.AudioTrackType),
		})
	}

	// Limited-support languages with no API track sometimes still have a
	// live player track; sample those before giving up on them.
	if len(bundle.LimitedSupportLanguages) > 0 && s.ctrl != nil && view.BrowserExtraction {
		s.collectLimitedSupport(ctx, bundle)
	}

	if len(bundle.Captions) == 0 {
		return nil, fmt.Errorf("failed to fetch any caption tracks (missing: %s; available: %s)",
			strings.Join(resolution.Missing, ", "), strings.Join(resolution.Available, ", "))
	}
	return bundle, nil
}

func (s *Service) collectLimitedSupport(ctx context.Context, bundle *Bundle) {
	collector := NewCollector(s.ctrl, s.collectorCfg, s.logger)
	var stillMissing []string
	for _, code := range bundle.LimitedSupportLanguages {
		transcript, err := collector.Collect(ctx, code)
		if err != nil {
			s.logger.Debug("player collection for limited-support language failed",
				logging.String("language", code),
				logging.Error(err))
			stillMissing = append(stillMissing, code)
			continue
		}
		bundle.add(LanguageCaption{
			Code:       code,
			Name:       language.DisplayName(code),
			Kind:       KindPlayerExtracted,
			Transcript: transcript,
		})
		bundle.MissingLanguages = removeString(bundle.MissingLanguages, code)
	}
	bundle.LimitedSupportLanguages = stillMissing
}

func (s *Service) acquireViaPanel(ctx context.Context, videoID string) (*Bundle, error) {
	html, err := s.ctrl.TranscriptPanelHTML(ctx)
	if err != nil {
		return nil, err
	}
	segments, err := browser.ParseTranscriptPanel(html)
	if err != nil {
		return nil, err
	}

	bundle := newBundle(videoID, MethodPanel)
	bundle.add(LanguageCaption{
		Code:       "und",
		Name:       "Transcript panel",
		Kind:       KindPanelExtracted,
		Transcript: browser.FormatSegments(segments),
	})
	return bundle, nil
}

func (s *Service) acquireViaPlayer(ctx context.Context, videoID string, preferred []string) (*Bundle, error) {
	playerTracks, err := s.ctrl.ListPlayerTracks(ctx)
	if err != nil {
		return nil, err
	}
	if len(playerTracks) == 0 {
		return nil, errors.New("player offers no caption tracks")
	}

	bundle := newBundle(videoID, MethodPlayer)
	for _, track := range playerTracks {
		bundle.AvailableLanguages = append(bundle.AvailableLanguages, track.Code)
	}
	bundle.TotalTracksFound = len(playerTracks)

	collector := NewCollector(s.ctrl, s.collectorCfg, s.logger)
	for _, want := range preferred {
		var match *browser.PlayerTrack
		for i := range playerTracks {
			if language.Matches(playerTracks[i].Code, want) {
				match = &playerTracks[i]
				break
			}
		}
		if match == nil {
			bundle.MissingLanguages = append(bundle.MissingLanguages, want)
			continue
		}
		transcript, err := collector.Collect(ctx, match.Code)
		if err != nil {
			bundle.FetchErrors = append(bundle.FetchErrors, FetchError{
				Language: match.Code,
				Name:     match.Name,
				Err:      err.Error(),
			})
			continue
		}
		code := language.Normalize(match.Code)
		name := match.Name
		if name == "" {
			name = language.DisplayName(code)
		}
		bundle.add(LanguageCaption{
			Code:       code,
			Name:       name,
			Kind:       KindPlayerExtracted,
			Transcript: transcript,
		})
	}

	if len(bundle.Captions) == 0 {
		return nil, errors.New("player collection produced no transcripts")
	}
	return bundle, nil
}

// isNonPrimaryAudio reports whether the API's audioTrackType marks a track
// built from something other than the video's primary audio.
func isNonPrimaryAudio(audioTrackType string) bool {
	switch strings.ToLower(strings.TrimSpace(audioTrackType)) {
	case "", "primary", "unknown":
		return false
	}
	return true
}

func removeString(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
