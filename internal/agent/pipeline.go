package agent

import (
	"context"
	"errors"
	"time"

	"github.com/kapu/youtube-summary-agent/internal/domain"
	"github.com/kapu/youtube-summary-agent/internal/service/cache"
	"go.uber.org/zap"
)

// Fixed summary strings for the two expected-empty outcomes. Both are success
// states, never errors.
const (
	NoVideosSummary              = "No videos found in the playlist."
	TranscriptUnavailableSummary = "Transcript unavailable."
)

// VideoResolver resolves the newest playlist video with statistics and
// comments.
type VideoResolver interface {
	Resolve(ctx context.Context, playlistID string) (*domain.AggregatedVideo, error)
}

// TranscriptFetcher returns the transcript text, or ok=false when none can be
// obtained. It has no error channel on purpose.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, bool)
}

// Summarizer produces the summary with a single model call.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// SummaryCache is optional; lookups that fail count as misses.
type SummaryCache interface {
	GetSummary(ctx context.Context, videoID string) (string, bool)
	SetSummary(ctx context.Context, videoID, summary string, ttl time.Duration)
}

// Pipeline sequences resolution, transcript fetch, summarization and result
// assembly. It is stateless per call: all stages run strictly sequentially
// and there is no stage-local retry. Only two failures are swallowed, both
// inside collaborators: comment lookup (resolver) and transcript fetch.
// Everything else propagates to the request boundary.
type Pipeline struct {
	resolver    VideoResolver
	transcripts TranscriptFetcher
	summarizer  Summarizer
	cache       SummaryCache
	logger      *zap.Logger
	now         func() time.Time
}

func NewPipeline(resolver VideoResolver, transcripts TranscriptFetcher, summarizer Summarizer, summaryCache SummaryCache, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		resolver:    resolver,
		transcripts: transcripts,
		summarizer:  summarizer,
		cache:       summaryCache,
		logger:      logger,
		now:         time.Now,
	}
}

// Process runs the whole pipeline for one playlist query.
func (p *Pipeline) Process(ctx context.Context, playlistID string) (*domain.AggregatedResult, error) {
	video, err := p.resolver.Resolve(ctx, playlistID)
	if errors.Is(err, domain.ErrNoVideoFound) {
		p.logger.Info("Playlist empty, returning placeholder",
			zap.String("playlist_id", playlistID))
		return p.noVideosResult(), nil
	}
	if err != nil {
		return nil, err
	}

	result := &domain.AggregatedResult{
		VideoRecord: video.VideoRecord,
		TopComments: video.TopComments,
	}

	text, ok := p.transcripts.Fetch(ctx, video.VideoID)
	if !ok {
		result.Summary = TranscriptUnavailableSummary
		return result, nil
	}

	summary, err := p.summarize(ctx, video.VideoID, text)
	if err != nil {
		return nil, err
	}
	result.Summary = summary
	return result, nil
}

func (p *Pipeline) summarize(ctx context.Context, videoID, text string) (string, error) {
	if p.cache != nil {
		if cached, hit := p.cache.GetSummary(ctx, videoID); hit {
			p.logger.Info("Summary cache hit", zap.String("video_id", videoID))
			return cached, nil
		}
	}

	summary, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		return "", err
	}

	if p.cache != nil {
		p.cache.SetSummary(ctx, videoID, summary, cache.DefaultSummaryTTL)
	}
	return summary, nil
}

// noVideosResult is the terminal success record for an empty playlist.
func (p *Pipeline) noVideosResult() *domain.AggregatedResult {
	return &domain.AggregatedResult{
		VideoRecord: domain.VideoRecord{
			Title:        "Error",
			Description:  NoVideosSummary,
			PublishedAt:  p.now().UTC().Format(time.RFC3339),
			ChannelName:  domain.StatNotAvailable,
			ViewCount:    domain.StatNotAvailable,
			LikeCount:    domain.StatNotAvailable,
			CommentCount: domain.StatNotAvailable,
		},
		TopComments: domain.CommentsFound([]domain.Comment{}),
		Summary:     NoVideosSummary,
	}
}
