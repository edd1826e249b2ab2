package ai

import (
	"context"
	"fmt"

	agenterrors "github.com/kapu/youtube-summary-agent/pkg/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// OpenAISummarizer summarizes transcripts through the chat completions API.
type OpenAISummarizer struct {
	client *openai.Client
	model  openai.ChatModel
	logger *zap.Logger
}

func NewOpenAISummarizer(apiKey, model string, logger *zap.Logger) (*OpenAISummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	chatModel := openai.ChatModelGPT4Turbo
	if model != "" {
		chatModel = openai.ChatModel(model)
	}

	return &OpenAISummarizer{
		client: &client,
		model:  chatModel,
		logger: logger,
	}, nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.logger.Debug("Summarizing with OpenAI",
		zap.String("model", string(s.model)),
		zap.Int("transcript_length", len(text)))

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		s.logger.Error("OpenAI summarization failed", zap.Error(err))
		return "", agenterrors.NewServiceError("openai summarization failed", "openai", "chat_completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	summary := resp.Choices[0].Message.Content
	if summary == "" {
		return "", fmt.Errorf("empty summary from OpenAI")
	}
	return summary, nil
}
