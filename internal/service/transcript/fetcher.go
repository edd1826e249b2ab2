package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	fetchTimeout   = 15 * time.Second
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	playerResponseMarker = "ytInitialPlayerResponse"
)

// Service fetches video transcripts by scraping the watch page for the
// player's caption track list and downloading the track as JSON3.
//
// Fetch has deliberately no error channel: a missing transcript is a normal
// state, and every failure mode (disabled captions, network fault, parse
// failure, unknown video) collapses to the same "unavailable" outcome.
type Service struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: fetchTimeout},
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
}

// NewServiceWithBaseURL points the scraper at a different host. Used by tests.
func NewServiceWithBaseURL(baseURL string, logger *zap.Logger) *Service {
	s := NewService(logger)
	s.baseURL = baseURL
	return s
}

type playerResponse struct {
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type transcriptEvents struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Fetch returns the full transcript text of the video, or ok=false when no
// transcript can be obtained for any reason.
func (s *Service) Fetch(ctx context.Context, videoID string) (string, bool) {
	track, err := s.findCaptionTrack(ctx, videoID)
	if err != nil {
		s.logger.Info("Transcript unavailable",
			zap.String("video_id", videoID),
			zap.Error(err))
		return "", false
	}

	text, err := s.downloadTrack(ctx, track)
	if err != nil {
		s.logger.Info("Transcript download failed",
			zap.String("video_id", videoID),
			zap.Error(err))
		return "", false
	}
	if text == "" {
		return "", false
	}

	s.logger.Info("Transcript fetched",
		zap.String("video_id", videoID),
		zap.Int("length", len(text)))
	return text, true
}

func (s *Service) findCaptionTrack(ctx context.Context, videoID string) (*captionTrack, error) {
	body, err := s.get(ctx, fmt.Sprintf("%s/watch?v=%s", s.baseURL, videoID))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	var raw string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		idx := strings.Index(text, playerResponseMarker)
		if idx < 0 {
			return true
		}
		if obj, ok := extractJSONObject(text[idx:]); ok {
			raw = obj
			return false
		}
		return true
	})
	if raw == "" {
		return nil, fmt.Errorf("player response not found")
	}

	var player playerResponse
	if err := json.Unmarshal([]byte(raw), &player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	tracks := player.Captions.Renderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no caption tracks")
	}
	return pickTrack(tracks), nil
}

// pickTrack prefers a human English track, then any English, then the first.
func pickTrack(tracks []captionTrack) *captionTrack {
	for i := range tracks {
		if strings.HasPrefix(tracks[i].LanguageCode, "en") && tracks[i].Kind != "asr" {
			return &tracks[i]
		}
	}
	for i := range tracks {
		if strings.HasPrefix(tracks[i].LanguageCode, "en") {
			return &tracks[i]
		}
	}
	return &tracks[0]
}

func (s *Service) downloadTrack(ctx context.Context, track *captionTrack) (string, error) {
	trackURL := track.BaseURL
	if strings.HasPrefix(trackURL, "/") {
		trackURL = s.baseURL + trackURL
	}
	if !strings.Contains(trackURL, "fmt=") {
		sep := "?"
		if strings.Contains(trackURL, "?") {
			sep = "&"
		}
		trackURL += sep + "fmt=json3"
	}

	body, err := s.get(ctx, trackURL)
	if err != nil {
		return "", err
	}

	var events transcriptEvents
	if err := json.Unmarshal(body, &events); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}

	var parts []string
	for _, event := range events.Events {
		for _, seg := range event.Segs {
			if t := strings.TrimSpace(seg.UTF8); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " "), nil
}

func (s *Service) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// extractJSONObject returns the first balanced {...} object in s, honoring
// string literals and escapes.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
