package recognizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type implOpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a recognizer backed by the OpenAI audio
// transcriptions endpoint (or any compatible server when baseURL is
// set). The 25 MB upload limit of this API is why large files are
// chunked before transcription.
func NewOpenAI(apiKey, baseURL, model string) Recognizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &implOpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *implOpenAI) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	return resp.Text, nil
}
