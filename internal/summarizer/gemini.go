package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/transcribe-flow/internal/config"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
)

type implGemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	limiter    *rateLimiter
	logger     logger.Logger
}

// newGemini creates a summarizer that rotates through the supplied
// Gemini API keys when one is rate limited.
func newGemini(cfg config.LLMConfig, log logger.Logger) Summarizer {
	return &implGemini{
		apiKeys: cfg.APIKeys,
		model:   cfg.Model,
		limiter: newRateLimiter(rateInterval(cfg)),
		logger:  log,
	}
}

func (s *implGemini) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("transcript is empty")
	}

	if err := s.limiter.wait(ctx); err != nil {
		return "", err
	}

	prompt := systemPrompt + "\n\nTranscript:\n---\n" + transcript + "\n---"

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIndex := s.activeKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", keyIndex+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return strings.TrimSpace(text), nil
		}

		return "", fmt.Errorf("empty response from gemini")
	}

	return "", fmt.Errorf("all api keys exhausted: %w", lastErr)
}

func (s *implGemini) activeKey() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

func (s *implGemini) rotateKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}
