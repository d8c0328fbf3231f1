// Package transcriber drives chunked transcription of one audio source:
// it plans the chunk sequence, runs the recognizer over each chunk in
// order, reports every completed chunk through a synchronous callback,
// and can resume from a previously persisted chunk sequence.
package transcriber

import "context"

// Source is a decodable audio stream with a known duration and size,
// able to produce bounded time segments of itself.
type Source interface {
	Path() string
	DurationSeconds() float64
	SizeBytes() int64
	// ExtractSegment writes the [startSec, endSec) slice to a temporary
	// file and returns its path. The caller removes the file.
	ExtractSegment(ctx context.Context, startSec, endSec float64) (string, error)
}

// Recognizer converts one audio file (or segment) to text. language is a
// hint and may be empty for auto-detection.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// ProgressFunc is called synchronously after each chunk completes, with
// the 1-indexed chunk number, the total chunk count, the chunk's text and
// its time bounds. It runs exactly once per newly completed chunk, in
// increasing order, before the next chunk starts. The callback is where
// the caller makes the chunk durable; returning an error aborts the run.
type ProgressFunc func(current, total int, chunkText string, startSec, endSec float64) error
