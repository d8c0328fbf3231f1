// Package downloader extracts the best audio stream of a remote video
// with yt-dlp. Only the audio ever touches disk; transient network
// failures are retried, unavailable videos are not.
package downloader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/transcribe-flow/pkg/retry"
)

// Download fetches the audio track of url and returns its local path and
// the video title.
func (d *implDownloader) Download(ctx context.Context, url string) (*Result, error) {
	if err := os.MkdirAll(d.downloadDir, 0755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	args := []string{
		"--extract-audio",
		"--audio-format", d.cfg.AudioFormat,
		"--audio-quality", d.cfg.AudioQuality,
		"--no-playlist",
		"--restrict-filenames",
		"--trim-filenames", "240",
		"--paths", d.downloadDir,
		"--output", "%(title).80s_%(epoch)s.%(ext)s",
		"--no-simulate",
		"--print", "title",
		"--print", "after_move:filepath",
		"--quiet",
		"--no-warnings",
	}
	if cookie := d.cookiePath(); cookie != "" {
		args = append(args, "--cookies", cookie)
	}
	args = append(args, url)

	d.logger.Info(ctx, "Downloading audio: %s", url)

	var out string
	err := retry.Do(ctx, retry.DownloadPolicy(), func() error {
		var execErr error
		out, execErr = d.exec.Execute(ctx, "yt-dlp", args...)
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("yt-dlp download: %w", err)
	}

	result, err := parseOutput(out)
	if err != nil {
		return nil, err
	}

	d.logger.Info(ctx, "Audio downloaded: %s", result.AudioPath)
	return result, nil
}

// cookiePath returns the configured cookie file if it exists, so member
// or age-restricted videos can be fetched with a logged-in session.
func (d *implDownloader) cookiePath() string {
	if d.cfg.CookieFile == "" {
		return ""
	}
	if _, err := os.Stat(d.cfg.CookieFile); err != nil {
		return ""
	}
	return d.cfg.CookieFile
}

// parseOutput reads the two --print lines yt-dlp emits per video: the
// title, then the final audio file path.
func parseOutput(out string) (*Result, error) {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("unexpected yt-dlp output: %q", out)
	}

	return &Result{
		Title:     lines[0],
		AudioPath: lines[len(lines)-1],
	}, nil
}
