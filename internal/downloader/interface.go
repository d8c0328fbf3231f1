package downloader

import "context"

// Result is a finished audio-only download.
type Result struct {
	AudioPath string
	Title     string
}

// Downloader fetches the audio track of a remote video to local disk.
type Downloader interface {
	Download(ctx context.Context, url string) (*Result, error)
}
