package domain

import "errors"

// StatNotAvailable is substituted for any statistic the YouTube API omits.
const StatNotAvailable = "N/A"

// ErrNoVideoFound marks the legitimate empty-playlist outcome. Callers must
// treat it as a terminal success state, not a provider failure.
var ErrNoVideoFound = errors.New("no videos found in playlist")

// VideoRecord holds the snippet and statistics of a single video. Counts stay
// strings because the API may omit them, in which case they carry
// StatNotAvailable instead.
type VideoRecord struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PublishedAt  string `json:"published_at"`
	ChannelName  string `json:"channel_name"`
	ViewCount    string `json:"view_count"`
	LikeCount    string `json:"like_count"`
	CommentCount string `json:"comment_count"`
}

// Comment is a single top-level comment in provider relevance order.
type Comment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Likes  int64  `json:"likes"`
}

// CommentsResult distinguishes "lookup succeeded with N comments" from
// "lookup failed and was swallowed". Conflating the two as an empty slice
// would make the failure-isolation rule untestable.
type CommentsResult struct {
	Available bool
	Items     []Comment
}

// CommentsFound wraps a successful comment lookup, zero items included.
func CommentsFound(items []Comment) CommentsResult {
	return CommentsResult{Available: true, Items: items}
}

// CommentsUnavailable marks a swallowed comment lookup failure.
func CommentsUnavailable() CommentsResult {
	return CommentsResult{Available: false}
}

// AggregatedVideo is the resolver output: metadata plus the comment outcome,
// before any transcript or summary work has happened.
type AggregatedVideo struct {
	VideoRecord
	TopComments CommentsResult
}

// AggregatedResult is the final pipeline record. Summary is never empty: it is
// a genuine summary, "Transcript unavailable.", or the no-video placeholder.
type AggregatedResult struct {
	VideoRecord
	TopComments CommentsResult
	Summary     string
}
