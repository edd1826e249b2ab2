package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kapu/youtube-summary-agent/internal/domain"
	agenterrors "github.com/kapu/youtube-summary-agent/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const maxTopComments = 5

// dataAPI abstracts the three Data API calls the resolver issues, so the
// lookup and swallow branches can be exercised without the network.
type dataAPI interface {
	PlaylistHead(ctx context.Context, playlistID string) (*youtube.PlaylistItemListResponse, error)
	VideoDetails(ctx context.Context, videoID string) (*youtube.VideoListResponse, error)
	TopComments(ctx context.Context, videoID string, max int64) (*youtube.CommentThreadListResponse, error)
}

type dataAPIClient struct {
	service *youtube.Service
}

func (c *dataAPIClient) PlaylistHead(ctx context.Context, playlistID string) (*youtube.PlaylistItemListResponse, error) {
	return c.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(1).
		Context(ctx).Do()
}

func (c *dataAPIClient) VideoDetails(ctx context.Context, videoID string) (*youtube.VideoListResponse, error) {
	return c.service.Videos.List([]string{"statistics", "snippet"}).
		Id(videoID).
		Context(ctx).Do()
}

func (c *dataAPIClient) TopComments(ctx context.Context, videoID string, max int64) (*youtube.CommentThreadListResponse, error) {
	return c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		Order("relevance").
		MaxResults(max).
		Context(ctx).Do()
}

// Resolver looks up the newest video of a playlist together with its
// statistics and top comments.
type Resolver struct {
	api    dataAPI
	logger *zap.Logger
}

func NewResolver(ctx context.Context, apiKey string, logger *zap.Logger) (*Resolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Resolver{
		api:    &dataAPIClient{service: service},
		logger: logger,
	}, nil
}

// Resolve returns the most recent video of the playlist. An empty playlist
// (or a vanished video) yields domain.ErrNoVideoFound; every other API
// failure is an error. The comment lookup alone is best effort: its failure
// never aborts metadata retrieval.
func (r *Resolver) Resolve(ctx context.Context, playlistID string) (*domain.AggregatedVideo, error) {
	r.logger.Info("Fetching playlist items", zap.String("playlist_id", playlistID))

	playlistResp, err := r.api.PlaylistHead(ctx, playlistID)
	if err != nil {
		return nil, apiError("playlist lookup failed", err, map[string]any{
			"playlist_id": playlistID,
		})
	}

	if len(playlistResp.Items) == 0 {
		r.logger.Info("Playlist has no items", zap.String("playlist_id", playlistID))
		return nil, domain.ErrNoVideoFound
	}

	snippet := playlistResp.Items[0].Snippet
	if snippet == nil || snippet.ResourceId == nil || snippet.ResourceId.VideoId == "" {
		return nil, domain.ErrNoVideoFound
	}
	videoID := snippet.ResourceId.VideoId

	r.logger.Info("Fetching video statistics", zap.String("video_id", videoID))

	videoResp, err := r.api.VideoDetails(ctx, videoID)
	if err != nil {
		return nil, apiError("video lookup failed", err, map[string]any{
			"video_id": videoID,
		})
	}
	if len(videoResp.Items) == 0 {
		r.logger.Warn("No video details found", zap.String("video_id", videoID))
		return nil, domain.ErrNoVideoFound
	}

	record := domain.VideoRecord{
		VideoID:     videoID,
		Title:       snippet.Title,
		Description: snippet.Description,
		PublishedAt: snippet.PublishedAt,
		ChannelName: snippet.ChannelTitle,
	}
	fillStatistics(&record, videoResp.Items[0].Statistics)

	return &domain.AggregatedVideo{
		VideoRecord: record,
		TopComments: r.fetchTopComments(ctx, videoID),
	}, nil
}

// fetchTopComments swallows every failure, comments disabled included. The
// caller gets CommentsUnavailable and proceeds with the metadata it has.
func (r *Resolver) fetchTopComments(ctx context.Context, videoID string) domain.CommentsResult {
	resp, err := r.api.TopComments(ctx, videoID, maxTopComments)
	if err != nil {
		r.logger.Warn("Comment lookup failed",
			zap.String("video_id", videoID),
			zap.Error(err))
		return domain.CommentsUnavailable()
	}

	comments := make([]domain.Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		cs := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, domain.Comment{
			Author: cs.AuthorDisplayName,
			Text:   cs.TextDisplay,
			Likes:  cs.LikeCount,
		})
	}

	r.logger.Info("Comments fetched",
		zap.String("video_id", videoID),
		zap.Int("count", len(comments)))

	return domain.CommentsFound(comments)
}

// apiError wraps a Data API failure, carrying the provider's HTTP status
// when one is available.
func apiError(message string, cause error, context map[string]any) error {
	status := 500
	var gerr *googleapi.Error
	if errors.As(cause, &gerr) {
		status = gerr.Code
	}
	return agenterrors.NewAPIError(message, status, context).WithCause(cause)
}

// fillStatistics copies counts onto the record. The typed client does not
// expose field presence (an omitted count unmarshals to zero), so the
// sentinel only applies when the API returns no statistics block at all; a
// hidden like count inside a present block renders as "0".
func fillStatistics(record *domain.VideoRecord, stats *youtube.VideoStatistics) {
	record.ViewCount = domain.StatNotAvailable
	record.LikeCount = domain.StatNotAvailable
	record.CommentCount = domain.StatNotAvailable

	if stats == nil {
		return
	}
	record.ViewCount = strconv.FormatUint(stats.ViewCount, 10)
	record.LikeCount = strconv.FormatUint(stats.LikeCount, 10)
	record.CommentCount = strconv.FormatUint(stats.CommentCount, 10)
}
