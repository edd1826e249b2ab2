package youtube

import (
	"context"
	"errors"
	"testing"

	"github.com/kapu/youtube-summary-agent/internal/domain"
	agenterrors "github.com/kapu/youtube-summary-agent/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

type fakeDataAPI struct {
	playlist    *youtube.PlaylistItemListResponse
	playlistErr error
	video       *youtube.VideoListResponse
	videoErr    error
	comments    *youtube.CommentThreadListResponse
	commentsErr error
}

func (f *fakeDataAPI) PlaylistHead(_ context.Context, _ string) (*youtube.PlaylistItemListResponse, error) {
	return f.playlist, f.playlistErr
}

func (f *fakeDataAPI) VideoDetails(_ context.Context, _ string) (*youtube.VideoListResponse, error) {
	return f.video, f.videoErr
}

func (f *fakeDataAPI) TopComments(_ context.Context, _ string, _ int64) (*youtube.CommentThreadListResponse, error) {
	return f.comments, f.commentsErr
}

func playlistHead() *youtube.PlaylistItemListResponse {
	return &youtube.PlaylistItemListResponse{
		Items: []*youtube.PlaylistItem{{
			Snippet: &youtube.PlaylistItemSnippet{
				Title:        "Go Concurrency Patterns",
				Description:  "A talk about goroutines.",
				PublishedAt:  "2024-03-05T10:00:00Z",
				ChannelTitle: "GopherCon",
				ResourceId:   &youtube.ResourceId{VideoId: "vid1"},
			},
		}},
	}
}

func videoDetails() *youtube.VideoListResponse {
	return &youtube.VideoListResponse{
		Items: []*youtube.Video{{
			Statistics: &youtube.VideoStatistics{
				ViewCount:    1234567,
				LikeCount:    4200,
				CommentCount: 89,
			},
		}},
	}
}

func commentThreads() *youtube.CommentThreadListResponse {
	return &youtube.CommentThreadListResponse{
		Items: []*youtube.CommentThread{{
			Snippet: &youtube.CommentThreadSnippet{
				TopLevelComment: &youtube.Comment{
					Snippet: &youtube.CommentSnippet{
						AuthorDisplayName: "alice",
						TextDisplay:       "Great talk!",
						LikeCount:         10,
					},
				},
			},
		}},
	}
}

func newTestResolver(api dataAPI) *Resolver {
	return &Resolver{api: api, logger: zap.NewNop()}
}

func TestResolveAggregatesVideoAndComments(t *testing.T) {
	r := newTestResolver(&fakeDataAPI{
		playlist: playlistHead(),
		video:    videoDetails(),
		comments: commentThreads(),
	})

	video, err := r.Resolve(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if video.VideoID != "vid1" || video.Title != "Go Concurrency Patterns" || video.ChannelName != "GopherCon" {
		t.Errorf("unexpected record: %+v", video.VideoRecord)
	}
	if video.ViewCount != "1234567" || video.LikeCount != "4200" || video.CommentCount != "89" {
		t.Errorf("unexpected statistics: %+v", video.VideoRecord)
	}
	if !video.TopComments.Available || len(video.TopComments.Items) != 1 {
		t.Fatalf("unexpected comments: %+v", video.TopComments)
	}
	got := video.TopComments.Items[0]
	if got.Author != "alice" || got.Text != "Great talk!" || got.Likes != 10 {
		t.Errorf("unexpected comment: %+v", got)
	}
}

func TestResolveEmptyPlaylist(t *testing.T) {
	r := newTestResolver(&fakeDataAPI{
		playlist: &youtube.PlaylistItemListResponse{},
	})

	if _, err := r.Resolve(context.Background(), "PLempty"); !errors.Is(err, domain.ErrNoVideoFound) {
		t.Fatalf("want ErrNoVideoFound, got %v", err)
	}
}

func TestResolveVanishedVideo(t *testing.T) {
	r := newTestResolver(&fakeDataAPI{
		playlist: playlistHead(),
		video:    &youtube.VideoListResponse{},
	})

	if _, err := r.Resolve(context.Background(), "PL1"); !errors.Is(err, domain.ErrNoVideoFound) {
		t.Fatalf("want ErrNoVideoFound, got %v", err)
	}
}

func TestResolveLookupFailuresWrapAPIError(t *testing.T) {
	cases := map[string]*fakeDataAPI{
		"playlist lookup": {
			playlistErr: &googleapi.Error{Code: 403, Message: "quotaExceeded"},
		},
		"video lookup": {
			playlist: playlistHead(),
			videoErr: &googleapi.Error{Code: 403, Message: "quotaExceeded"},
		},
	}

	for name, api := range cases {
		r := newTestResolver(api)
		_, err := r.Resolve(context.Background(), "PL1")
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}

		var apiErr *agenterrors.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("%s: want *APIError, got %T: %v", name, err, err)
		}
		if apiErr.StatusCode != 403 {
			t.Errorf("%s: status = %d, want provider's 403", name, apiErr.StatusCode)
		}
		var gerr *googleapi.Error
		if !errors.As(err, &gerr) || gerr.Message != "quotaExceeded" {
			t.Errorf("%s: cause not preserved: %v", name, err)
		}
		if errors.Is(err, domain.ErrNoVideoFound) {
			t.Errorf("%s: lookup failure must not look like an empty playlist", name)
		}
	}
}

func TestResolveCommentFailureIsSwallowed(t *testing.T) {
	r := newTestResolver(&fakeDataAPI{
		playlist:    playlistHead(),
		video:       videoDetails(),
		commentsErr: &googleapi.Error{Code: 403, Message: "commentsDisabled"},
	})

	video, err := r.Resolve(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("comment failure must not abort resolution: %v", err)
	}
	if video.TopComments.Available {
		t.Error("want CommentsUnavailable after a failed comment lookup")
	}
	if video.Title != "Go Concurrency Patterns" || video.ViewCount != "1234567" {
		t.Errorf("metadata must survive comment failure: %+v", video.VideoRecord)
	}
}

func TestResolveZeroCommentsStaysFound(t *testing.T) {
	r := newTestResolver(&fakeDataAPI{
		playlist: playlistHead(),
		video:    videoDetails(),
		comments: &youtube.CommentThreadListResponse{},
	})

	video, err := r.Resolve(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !video.TopComments.Available || len(video.TopComments.Items) != 0 {
		t.Errorf("want empty found comments, got %+v", video.TopComments)
	}
}

func TestFillStatistics(t *testing.T) {
	record := domain.VideoRecord{VideoID: "vid1"}
	fillStatistics(&record, &youtube.VideoStatistics{
		ViewCount:    1234567,
		LikeCount:    4200,
		CommentCount: 89,
	})

	if record.ViewCount != "1234567" {
		t.Errorf("view count = %q", record.ViewCount)
	}
	if record.LikeCount != "4200" {
		t.Errorf("like count = %q", record.LikeCount)
	}
	if record.CommentCount != "89" {
		t.Errorf("comment count = %q", record.CommentCount)
	}
}

func TestFillStatisticsMissingBlock(t *testing.T) {
	record := domain.VideoRecord{VideoID: "vid1"}
	fillStatistics(&record, nil)

	for name, got := range map[string]string{
		"view":    record.ViewCount,
		"like":    record.LikeCount,
		"comment": record.CommentCount,
	} {
		if got != domain.StatNotAvailable {
			t.Errorf("%s count = %q, want %q", name, got, domain.StatNotAvailable)
		}
	}
}
