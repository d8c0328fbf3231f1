package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/transcribe-flow/internal/audio"
	"github.com/nguyentantai21042004/transcribe-flow/internal/config"
	"github.com/nguyentantai21042004/transcribe-flow/internal/downloader"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
	"github.com/nguyentantai21042004/transcribe-flow/internal/recognizer"
	"github.com/nguyentantai21042004/transcribe-flow/internal/store"
	"github.com/nguyentantai21042004/transcribe-flow/internal/summarizer"
	"github.com/nguyentantai21042004/transcribe-flow/internal/transcriber"
	"github.com/nguyentantai21042004/transcribe-flow/pkg/executor"
)

type implPipeline struct {
	cfg    *config.Config
	store  *store.Store
	dl     downloader.Downloader
	pool   *recognizer.Pool
	summ   summarizer.Summarizer
	logger logger.Logger

	// openSource is swappable so tests can inject an audio source
	// without ffprobe.
	openSource func(ctx context.Context, path string) (transcriber.Source, error)
}

// New wires a Pipeline from its collaborators.
func New(cfg *config.Config, st *store.Store, dl downloader.Downloader,
	pool *recognizer.Pool, summ summarizer.Summarizer,
	exec executor.Executor, log logger.Logger) Pipeline {
	return &implPipeline{
		cfg:    cfg,
		store:  st,
		dl:     dl,
		pool:   pool,
		summ:   summ,
		logger: log,
		openSource: func(ctx context.Context, path string) (transcriber.Source, error) {
			return audio.Open(ctx, exec, path, cfg.Paths.Temp)
		},
	}
}

// ModelKey identifies the recognizer configuration in the model pool.
func ModelKey(cfg config.RecognizerConfig) string {
	if cfg.Backend == "openai" {
		return cfg.Backend + ":" + cfg.Model
	}
	return cfg.Backend + ":" + cfg.ModelPath
}

// NewRecognizerFactory builds pool entries for the configured backend.
func NewRecognizerFactory(cfg config.RecognizerConfig, exec executor.Executor) recognizer.Factory {
	return func(modelKey string) (recognizer.Recognizer, error) {
		if cfg.Backend == "openai" {
			return recognizer.NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
		}
		return recognizer.NewWhisperCPP(exec, cfg.BinaryPath, cfg.ModelPath, cfg.Threads), nil
	}
}
