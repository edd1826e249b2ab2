package ai

import (
	"context"
	"fmt"
	"strings"

	agenterrors "github.com/kapu/youtube-summary-agent/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiSummarizer is the alternate provider selected with
// SUMMARY_PROVIDER=gemini.
type GeminiSummarizer struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiSummarizer(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiSummarizer{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.logger.Debug("Summarizing with Gemini",
		zap.String("model", s.model),
		zap.Int("transcript_length", len(text)))

	resp, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: text},
			},
		},
	}, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: SystemPrompt},
			},
		},
	})
	if err != nil {
		s.logger.Error("Gemini summarization failed", zap.Error(err))
		return "", agenterrors.NewServiceError("gemini summarization failed", "gemini", "generate_content", err)
	}

	summary := extractText(resp)
	if summary == "" {
		return "", fmt.Errorf("empty summary from Gemini")
	}
	return summary, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}
