package pipeline

import "context"

// Pipeline runs tasks end to end: download, chunked transcription with
// durable progress, summarization. Failed tasks keep their partial
// transcript and can be resumed from the first incomplete chunk.
type Pipeline interface {
	// Process handles a remote video URL and returns the task id, which
	// is valid even when processing fails partway.
	Process(ctx context.Context, url string) (int64, error)
	// ProcessLocal handles an audio file already on disk (drop-folder
	// mode), skipping the download stage.
	ProcessLocal(ctx context.Context, audioPath string) (int64, error)
	// Resume continues a failed task from its persisted chunk progress.
	Resume(ctx context.Context, taskID int64) error
}
