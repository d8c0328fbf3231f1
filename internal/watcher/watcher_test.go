package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
)

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/drop/talk.m4a", true},
		{"/drop/TALK.MP3", true},
		{"/drop/song.flac", true},
		{"/drop/clip.opus", true},
		{"/drop/video.mp4", false},
		{"/drop/notes.txt", false},
		{"/drop/noext", false},
	}
	for _, tt := range tests {
		if got := isAudioFile(tt.path); got != tt.want {
			t.Errorf("isAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewMissingDirectory(t *testing.T) {
	handler := func(ctx context.Context, filePath string) error { return nil }
	if _, err := New("/does/not/exist", handler, logger.New("error"), 2); err == nil {
		t.Error("New() accepted a missing directory")
	}
}

func TestWatcherHandlesDroppedFile(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var seen []string
	handler := func(ctx context.Context, filePath string) error {
		mu.Lock()
		seen = append(seen, filePath)
		mu.Unlock()
		return nil
	}

	w, err := New(dir, handler, logger.New("error"), 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the watch loop a moment before dropping files.
	time.Sleep(100 * time.Millisecond)

	audioPath := filepath.Join(dir, "meeting.m4a")
	if err := os.WriteFile(audioPath, []byte("riff"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("handler never saw the dropped audio file")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != audioPath {
		t.Errorf("handler saw %q, want only %q", seen, audioPath)
	}
}
