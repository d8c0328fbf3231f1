package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/transcribe-flow/internal/chunk"
)

// Defaults for the chunking policy, matching typical speech-to-text API
// limits: 5 minute segments, 25 MB upload ceiling.
const (
	DefaultChunkDurationSec   = 300
	DefaultFileSizeLimitBytes = 25 << 20
)

// ErrPlanMismatch is returned when a resume sequence does not line up
// with the freshly computed chunk plan, typically because the chunk
// duration changed between runs. Resuming against a different plan would
// silently misalign chunk indices, so this is a hard error.
var ErrPlanMismatch = errors.New("resume chunks do not match computed plan")

// Options configures one transcription run.
type Options struct {
	ChunkDurationSec   float64
	FileSizeLimitBytes int64
	Language           string
	OnProgress         ProgressFunc
	// ResumeFrom is the chunk sequence previously persisted for this
	// task. Chunks already completed are not re-transcribed.
	ResumeFrom []chunk.State
}

func (o *Options) applyDefaults() {
	if o.ChunkDurationSec == 0 {
		o.ChunkDurationSec = DefaultChunkDurationSec
	}
	if o.FileSizeLimitBytes == 0 {
		o.FileSizeLimitBytes = DefaultFileSizeLimitBytes
	}
}

// Transcribe converts src to text using rec, chunking when the source
// exceeds the duration or size threshold. Chunks run strictly
// sequentially; chunk i+1 never starts before chunk i's progress callback
// has returned. On failure the error propagates immediately: every chunk
// reported before the failure has already been made durable by the
// callback, so the caller can assemble a partial transcript or resume.
func Transcribe(ctx context.Context, src Source, rec Recognizer, opts Options) (string, error) {
	opts.applyDefaults()

	duration := src.DurationSeconds()
	if duration <= 0 {
		return "", fmt.Errorf("audio %s has no readable duration", src.Path())
	}

	if !chunk.NeedsChunking(duration, src.SizeBytes(), opts.ChunkDurationSec, opts.FileSizeLimitBytes) {
		text, err := rec.Transcribe(ctx, src.Path(), opts.Language)
		if err != nil {
			return "", fmt.Errorf("transcribe audio: %w", err)
		}
		text = strings.TrimSpace(text)
		if opts.OnProgress != nil {
			if err := opts.OnProgress(1, 1, text, 0, duration); err != nil {
				return "", fmt.Errorf("report progress: %w", err)
			}
		}
		return text, nil
	}

	spans := chunk.Plan(duration, opts.ChunkDurationSec)
	total := len(spans)

	texts := make([]string, 0, total)
	startIndex := 0
	if len(opts.ResumeFrom) > 0 {
		if len(opts.ResumeFrom) != total {
			return "", fmt.Errorf("%w: have %d chunks, plan has %d",
				ErrPlanMismatch, len(opts.ResumeFrom), total)
		}
		for _, st := range opts.ResumeFrom {
			if !st.Completed {
				break
			}
			texts = append(texts, st.Text)
			startIndex++
		}
	}

	for i := startIndex; i < total; i++ {
		span := spans[i]

		segPath, err := src.ExtractSegment(ctx, span.StartSec, span.EndSec)
		if err != nil {
			return "", fmt.Errorf("extract segment %d: %w", i, err)
		}

		text, err := rec.Transcribe(ctx, segPath, opts.Language)
		os.Remove(segPath)
		if err != nil {
			return "", fmt.Errorf("transcribe chunk %d/%d: %w", i+1, total, err)
		}

		text = strings.TrimSpace(text)
		texts = append(texts, text)

		if opts.OnProgress != nil {
			if err := opts.OnProgress(i+1, total, text, span.StartSec, span.EndSec); err != nil {
				return "", fmt.Errorf("report chunk %d/%d: %w", i+1, total, err)
			}
		}
	}

	return joinTexts(texts), nil
}

// joinTexts joins chunk texts with single spaces, skipping empty chunks.
func joinTexts(texts []string) string {
	nonEmpty := texts[:0]
	for _, t := range texts {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	return strings.TrimSpace(strings.Join(nonEmpty, " "))
}
