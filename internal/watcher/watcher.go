package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
)

// settleDelay gives the writer time to finish before we open the file.
const settleDelay = 500 * time.Millisecond

var audioExtensions = []string{".m4a", ".mp3", ".wav", ".flac", ".ogg", ".aac", ".opus"}

type implWatcher struct {
	watchDir  string
	handler   EventHandler
	logger    logger.Logger
	fsw       *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// Start blocks monitoring watchDir until ctx is cancelled. Each new
// audio file is handed to the handler in its own goroutine, bounded by
// the semaphore.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Watching %s for audio files (max concurrent: %d)", w.watchDir, cap(w.semaphore))
	w.logger.Info(ctx, "Accepted extensions: %s", strings.Join(audioExtensions, ", "))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for in-flight files to finish...")
			w.wg.Wait()
			w.logger.Info(ctx, "Watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New audio file: %s", event.Name)
			time.Sleep(settleDelay)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(filePath string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := w.handler(ctx, filePath); err != nil {
						w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
					}
				}(event.Name)
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *implWatcher) Stop() error {
	return w.fsw.Close()
}

func isAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range audioExtensions {
		if ext == a {
			return true
		}
	}
	return false
}
