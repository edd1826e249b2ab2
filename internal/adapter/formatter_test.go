package adapter

import (
	"strings"
	"testing"

	"github.com/kapu/youtube-summary-agent/internal/domain"
)

func sampleResult() *domain.AggregatedResult {
	return &domain.AggregatedResult{
		VideoRecord: domain.VideoRecord{
			VideoID:      "abc123",
			Title:        "Go Concurrency Patterns",
			Description:  "A talk about goroutines.",
			PublishedAt:  "2024-03-05T10:00:00Z",
			ChannelName:  "GopherCon",
			ViewCount:    "1234567",
			LikeCount:    "4200",
			CommentCount: "89",
		},
		TopComments: domain.CommentsFound([]domain.Comment{
			{Author: "alice", Text: "Great talk!", Likes: 10},
			{Author: "bob", Text: "Very helpful", Likes: 5},
			{Author: "carol", Text: "Learned a lot", Likes: 2},
		}),
		Summary: "A tour of concurrency patterns in Go.",
	}
}

func TestFormatDigestRendersDateAndViews(t *testing.T) {
	f := NewDigestFormatter()

	digest, err := f.FormatDigest(sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"📺 Title: Go Concurrency Patterns",
		"👤 Channel: GopherCon",
		"📅 Upload Date: March 05, 2024",
		"👀 Views: 1,234,567",
		"📝 Summary:\nA tour of concurrency patterns in Go.",
	} {
		if !strings.Contains(digest, want) {
			t.Errorf("digest missing %q\n%s", want, digest)
		}
	}
}

func TestFormatDigestNumbersComments(t *testing.T) {
	f := NewDigestFormatter()

	digest, err := f.FormatDigest(sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"1. Great talk! - alice",
		"2. Very helpful - bob",
		"3. Learned a lot - carol",
	} {
		if !strings.Contains(digest, want) {
			t.Errorf("digest missing comment line %q", want)
		}
	}
	if strings.Contains(digest, "No comments available") {
		t.Error("digest should not contain the empty-comments line")
	}
}

func TestFormatDigestEmptyComments(t *testing.T) {
	f := NewDigestFormatter()

	for name, comments := range map[string]domain.CommentsResult{
		"found but zero": domain.CommentsFound(nil),
		"unavailable":    domain.CommentsUnavailable(),
	} {
		result := sampleResult()
		result.TopComments = comments

		digest, err := f.FormatDigest(result)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if !strings.Contains(digest, "💬 Top Comments:\nNo comments available") {
			t.Errorf("%s: digest missing empty-comments line\n%s", name, digest)
		}
	}
}

func TestFormatDigestSentinelViewCountPassesThrough(t *testing.T) {
	f := NewDigestFormatter()
	result := sampleResult()
	result.ViewCount = "N/A"

	digest, err := f.FormatDigest(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(digest, "👀 Views: N/A") {
		t.Errorf("sentinel view count not passed through:\n%s", digest)
	}
}

func TestFormatDigestIsIdempotent(t *testing.T) {
	f := NewDigestFormatter()
	result := sampleResult()

	first, err := f.FormatDigest(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.FormatDigest(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("formatting the same result twice produced different strings")
	}
}

func TestFormatDigestMalformedDate(t *testing.T) {
	f := NewDigestFormatter()
	result := sampleResult()
	result.PublishedAt = "yesterday"

	if _, err := f.FormatDigest(result); err == nil {
		t.Fatal("expected error for malformed published_at")
	}
}

func TestFormatViewCount(t *testing.T) {
	cases := map[string]string{
		"1234567": "1,234,567",
		"999":     "999",
		"1000":    "1,000",
		"0":       "0",
		"N/A":     "N/A",
	}
	for in, want := range cases {
		if got := formatViewCount(in); got != want {
			t.Errorf("formatViewCount(%q) = %q, want %q", in, got, want)
		}
	}
}
