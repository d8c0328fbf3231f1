// Package store persists tasks and per-chunk transcription progress in
// SQLite. The chunk rows are the durable source of truth for resuming an
// interrupted transcription and for assembling partial transcripts.
package store

import (
	"time"

	"github.com/nguyentantai21042004/transcribe-flow/internal/chunk"
)

// Task statuses, in pipeline order.
const (
	StatusWaiting      = "waiting"
	StatusDownloading  = "downloading"
	StatusTranscribing = "transcribing"
	StatusSummarizing  = "summarizing"
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
)

// Task is one submitted piece of work: a source URL or local file, its
// downloaded audio, and the transcription/summary results.
type Task struct {
	ID            int64
	SourceURL     string
	VideoTitle    string
	AudioFilePath string
	Transcript    string
	Summary       string
	ErrorMessage  string
	Status        string
	CreatedAt     time.Time
}

// Progress is the durable aggregate of chunk completion for one task.
// Chunks is ordered by index and includes placeholder slots for chunks
// that have not completed yet.
type Progress struct {
	TotalChunks     int
	CompletedChunks int
	Chunks          []chunk.State
}

func validStatus(status string) bool {
	switch status {
	case StatusWaiting, StatusDownloading, StatusTranscribing,
		StatusSummarizing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
