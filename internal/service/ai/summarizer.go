package ai

import "context"

// SystemPrompt is the fixed instruction sent with every summarization call.
const SystemPrompt = "Summarize this video transcript in a concise and informative manner."

// Summarizer turns a full transcript into a concise summary. Implementations
// make a single provider call: no retry, no truncation. Oversized input is the
// provider's problem and surfaces as an error.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
