package summarizer

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/transcribe-flow/internal/config"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
)

const systemPrompt = `You are a note-taking assistant for long videos. Distill the full transcript below into structured notes containing:
1) Content summary: 3-5 bullet points
2) Key highlights or quotes: 2-4 bullet points
3) Conclusions and action items: 2-3 bullet points
Stay factual, keep numbers, formulas and key citations intact, and do not speculate beyond the transcript.`

// New builds the Summarizer for the configured provider.
func New(cfg config.LLMConfig, log logger.Logger) (Summarizer, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAI(cfg, log), nil
	case "gemini":
		return newGemini(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func rateInterval(cfg config.LLMConfig) time.Duration {
	return time.Duration(cfg.RateLimitSec) * time.Second
}

func callTimeout(cfg config.LLMConfig) time.Duration {
	return time.Duration(cfg.TimeoutSec) * time.Second
}
