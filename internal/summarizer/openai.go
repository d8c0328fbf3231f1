package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/transcribe-flow/internal/config"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
	"github.com/nguyentantai21042004/transcribe-flow/pkg/retry"
)

type implOpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rateLimiter
	logger  logger.Logger
}

// newOpenAI creates a summarizer against OpenAI or any Chat Completions
// compatible endpoint (base_url overrides the host).
func newOpenAI(cfg config.LLMConfig, log logger.Logger) Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &implOpenAI{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: callTimeout(cfg),
		limiter: newRateLimiter(rateInterval(cfg)),
		logger:  log,
	}
}

func (s *implOpenAI) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("transcript is empty")
	}

	if err := s.limiter.wait(ctx); err != nil {
		return "", err
	}

	var content string
	err := retry.Do(ctx, retry.APIPolicy(), func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: transcript},
			},
			Temperature: 0.2,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty completion response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	return strings.TrimSpace(content), nil
}
