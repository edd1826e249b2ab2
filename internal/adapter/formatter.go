package adapter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kapu/youtube-summary-agent/internal/domain"
	"github.com/kapu/youtube-summary-agent/internal/util"
)

// DigestFormatter renders the aggregated result into the fixed human-readable
// digest. Pure and deterministic: the same result always yields the same
// string.
type DigestFormatter struct{}

func NewDigestFormatter() *DigestFormatter {
	return &DigestFormatter{}
}

// FormatDigest renders the digest. The only failure mode is a malformed
// published_at timestamp, which is a caller defect and is surfaced, not
// masked.
func (f *DigestFormatter) FormatDigest(result *domain.AggregatedResult) (string, error) {
	date, err := formatDate(result.PublishedAt)
	if err != nil {
		return "", fmt.Errorf("malformed published_at %q: %w", result.PublishedAt, err)
	}

	var sb strings.Builder
	sb.WriteString("Here's a summary of the latest video:\n\n")
	sb.WriteString(fmt.Sprintf("📺 Title: %s\n", result.Title))
	sb.WriteString(fmt.Sprintf("👤 Channel: %s\n", result.ChannelName))
	sb.WriteString(fmt.Sprintf("📅 Upload Date: %s\n", date))
	sb.WriteString(fmt.Sprintf("👀 Views: %s\n", formatViewCount(result.ViewCount)))
	sb.WriteString("\n📝 Summary:\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n💬 Top Comments:")

	if len(result.TopComments.Items) > 0 {
		for i, comment := range result.TopComments.Items {
			sb.WriteString(fmt.Sprintf("\n%d. %s - %s", i+1, comment.Text, comment.Author))
		}
	} else {
		sb.WriteString("\nNo comments available")
	}

	return sb.String(), nil
}

// formatDate renders an RFC3339 timestamp as "March 05, 2024".
func formatDate(publishedAt string) (string, error) {
	t, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return "", err
	}
	return t.Format("January 02, 2006"), nil
}

// formatViewCount adds thousands separators iff the count is an integer;
// the "N/A" sentinel passes through unchanged.
func formatViewCount(viewCount string) string {
	n, err := strconv.ParseInt(viewCount, 10, 64)
	if err != nil {
		return viewCount
	}
	return util.FormatThousands(n)
}
