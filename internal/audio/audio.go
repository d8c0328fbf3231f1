// Package audio exposes downloaded audio files as transcription sources:
// duration and size probing via ffprobe, time-bounded segment extraction
// via ffmpeg. Segments come out as 16kHz mono WAV, the format speech
// models work best with.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/transcribe-flow/pkg/executor"
)

// File is a probed local audio file.
type File struct {
	path     string
	duration float64
	size     int64
	tempDir  string
	exec     executor.Executor
}

// Open probes path with ffprobe and returns a File ready for segment
// extraction. Segment files are written under tempDir.
func Open(ctx context.Context, exec executor.Executor, path, tempDir string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat audio file: %w", err)
	}

	out, err := exec.Execute(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("probe duration: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return nil, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err)
	}

	return &File{
		path:     path,
		duration: duration,
		size:     info.Size(),
		tempDir:  tempDir,
		exec:     exec,
	}, nil
}

// Path returns the location of the audio file on disk.
func (f *File) Path() string { return f.path }

// DurationSeconds returns the probed total duration.
func (f *File) DurationSeconds() float64 { return f.duration }

// SizeBytes returns the file size on disk.
func (f *File) SizeBytes() int64 { return f.size }

// ExtractSegment writes the [startSec, endSec) slice of the audio to a
// temporary WAV file and returns its path. The caller removes the file
// when done.
func (f *File) ExtractSegment(ctx context.Context, startSec, endSec float64) (string, error) {
	if endSec <= startSec {
		return "", fmt.Errorf("invalid segment bounds [%v, %v)", startSec, endSec)
	}

	tmp, err := os.CreateTemp(f.tempDir, segmentPattern(f.path))
	if err != nil {
		return "", fmt.Errorf("create segment file: %w", err)
	}
	tmp.Close()

	// -ss before -i seeks on the demuxer, which is fast and accurate
	// enough for transcription boundaries.
	_, err = f.exec.Execute(ctx, "ffmpeg",
		"-ss", formatSeconds(startSec),
		"-t", formatSeconds(endSec-startSec),
		"-i", f.path,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-y",
		tmp.Name(),
	)
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("ffmpeg extract segment: %w", err)
	}

	return tmp.Name(), nil
}

func segmentPattern(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return base + "_seg_*.wav"
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
