package downloader

import (
	"github.com/nguyentantai21042004/transcribe-flow/internal/config"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
	"github.com/nguyentantai21042004/transcribe-flow/pkg/executor"
)

type implDownloader struct {
	cfg         config.DownloaderConfig
	downloadDir string
	exec        executor.Executor
	logger      logger.Logger
}

// New creates a yt-dlp backed Downloader saving into downloadDir.
func New(cfg config.DownloaderConfig, downloadDir string, exec executor.Executor, log logger.Logger) Downloader {
	return &implDownloader{
		cfg:         cfg,
		downloadDir: downloadDir,
		exec:        exec,
		logger:      log,
	}
}
