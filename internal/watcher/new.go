package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
)

// New creates a Watcher on watchDir with bounded concurrency.
func New(watchDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(watchDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		watchDir:  watchDir,
		handler:   handler,
		logger:    log,
		fsw:       fsw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}
