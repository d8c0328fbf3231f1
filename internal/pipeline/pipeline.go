package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/transcribe-flow/internal/chunk"
	"github.com/nguyentantai21042004/transcribe-flow/internal/store"
	"github.com/nguyentantai21042004/transcribe-flow/internal/summarizer"
	"github.com/nguyentantai21042004/transcribe-flow/internal/transcriber"
)

// Process downloads the audio of url, transcribes it in chunks and
// summarizes the transcript, advancing the task status at each stage.
func (p *implPipeline) Process(ctx context.Context, url string) (int64, error) {
	taskID, err := p.store.CreateTask(url, "")
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}

	startTime := time.Now()
	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Task #%d started: %s", taskID, url)

	if err := p.runFromDownload(ctx, taskID, url); err != nil {
		p.failTask(ctx, taskID, err)
		return taskID, err
	}

	p.logger.Info(ctx, "Task #%d completed in %s", taskID, time.Since(startTime))
	p.logger.Info(ctx, "========================================")
	return taskID, nil
}

// ProcessLocal runs the pipeline for an audio file already on disk.
func (p *implPipeline) ProcessLocal(ctx context.Context, audioPath string) (int64, error) {
	title := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	taskID, err := p.store.CreateTask("file://"+audioPath, title)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}

	p.logger.Info(ctx, "Task #%d started for local file: %s", taskID, audioPath)

	if err := p.store.UpdateContent(taskID, store.ContentUpdate{AudioFilePath: &audioPath}); err != nil {
		p.failTask(ctx, taskID, err)
		return taskID, err
	}

	if err := p.transcribeAndSummarize(ctx, taskID, title, audioPath, nil); err != nil {
		p.failTask(ctx, taskID, err)
		return taskID, err
	}

	p.logger.Info(ctx, "Task #%d completed", taskID)
	return taskID, nil
}

// Resume continues a previously failed task from the first incomplete
// chunk recorded in the ledger.
func (p *implPipeline) Resume(ctx context.Context, taskID int64) error {
	task, err := p.store.GetTask(taskID)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("task #%d does not exist", taskID)
	}
	if task.AudioFilePath == "" {
		return fmt.Errorf("task #%d has no downloaded audio to resume from", taskID)
	}

	progress, err := p.store.GetProgress(taskID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	var resume []chunk.State
	if progress != nil {
		resume = progress.Chunks
		p.logger.Info(ctx, "Task #%d resuming: %d/%d chunks already done",
			taskID, progress.CompletedChunks, progress.TotalChunks)
	}

	if err := p.transcribeAndSummarize(ctx, taskID, task.VideoTitle, task.AudioFilePath, resume); err != nil {
		p.failTask(ctx, taskID, err)
		return err
	}

	p.logger.Info(ctx, "Task #%d completed after resume", taskID)
	return nil
}

func (p *implPipeline) runFromDownload(ctx context.Context, taskID int64, url string) error {
	if err := p.store.UpdateStatus(taskID, store.StatusDownloading); err != nil {
		return err
	}

	result, err := p.dl.Download(ctx, url)
	if err != nil {
		return fmt.Errorf("download audio: %w", err)
	}

	upd := store.ContentUpdate{AudioFilePath: &result.AudioPath, VideoTitle: &result.Title}
	if err := p.store.UpdateContent(taskID, upd); err != nil {
		return err
	}

	return p.transcribeAndSummarize(ctx, taskID, result.Title, result.AudioPath, nil)
}

func (p *implPipeline) transcribeAndSummarize(ctx context.Context, taskID int64, title, audioPath string, resume []chunk.State) error {
	if err := p.store.UpdateStatus(taskID, store.StatusTranscribing); err != nil {
		return err
	}

	src, err := p.openSource(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}

	rec, release, err := p.pool.Acquire(ctx, ModelKey(p.cfg.Recognizer))
	if err != nil {
		return fmt.Errorf("acquire recognizer: %w", err)
	}
	defer release()

	transcript, err := transcriber.Transcribe(ctx, src, rec, transcriber.Options{
		ChunkDurationSec:   p.cfg.Chunking.ChunkDurationSec,
		FileSizeLimitBytes: p.cfg.Chunking.FileSizeLimitBytes(),
		Language:           p.cfg.Recognizer.Language,
		ResumeFrom:         resume,
		OnProgress: func(current, total int, text string, startSec, endSec float64) error {
			p.logger.Info(ctx, "Task #%d chunk %d/%d done [%.0fs - %.0fs]",
				taskID, current, total, startSec, endSec)
			// The upsert is the durability point: once it returns, this
			// chunk survives a crash and resume will skip it.
			return p.store.UpsertChunk(taskID, current-1, total, text, startSec, endSec)
		},
	})
	if err != nil {
		return err
	}

	if err := p.store.UpdateContent(taskID, store.ContentUpdate{Transcript: &transcript}); err != nil {
		return err
	}

	if err := p.store.UpdateStatus(taskID, store.StatusSummarizing); err != nil {
		return err
	}

	summary, err := p.summ.Summarize(ctx, transcript)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	if err := p.store.UpdateContent(taskID, store.ContentUpdate{Summary: &summary}); err != nil {
		return err
	}

	p.exportDocx(ctx, taskID, title, transcript, summary)

	return p.store.UpdateStatus(taskID, store.StatusCompleted)
}

// exportDocx writes the transcript and summary to the output directory.
// Export trouble is logged, not fatal; the results are already in the
// database.
func (p *implPipeline) exportDocx(ctx context.Context, taskID int64, title, transcript, summary string) {
	summaryPath := filepath.Join(p.cfg.Paths.Output, fmt.Sprintf("task_%d_summary.docx", taskID))
	if err := summarizer.WriteMarkdownDocx(title, summary, summaryPath); err != nil {
		p.logger.Warn(ctx, "Task #%d: write summary docx: %v", taskID, err)
	}

	transcriptPath := filepath.Join(p.cfg.Paths.Output, fmt.Sprintf("task_%d_transcript.docx", taskID))
	if err := summarizer.WriteTranscriptDocx(title, transcript, transcriptPath); err != nil {
		p.logger.Warn(ctx, "Task #%d: write transcript docx: %v", taskID, err)
	}
}

// failTask records the failure on the task. Whatever chunks completed
// before the failure are assembled into a partial transcript first, so
// the work done so far stays visible and resumable.
func (p *implPipeline) failTask(ctx context.Context, taskID int64, cause error) {
	p.logger.Error(ctx, "Task #%d failed: %v", taskID, cause)

	partial, err := p.store.AssemblePartial(taskID)
	if err != nil {
		p.logger.Warn(ctx, "Task #%d: assemble partial transcript: %v", taskID, err)
	} else if partial != "" {
		if err := p.store.UpdateContent(taskID, store.ContentUpdate{Transcript: &partial}); err != nil {
			p.logger.Warn(ctx, "Task #%d: save partial transcript: %v", taskID, err)
		}
	}

	if err := p.store.SetError(taskID, cause.Error()); err != nil {
		p.logger.Error(ctx, "Task #%d: record failure: %v", taskID, err)
	}
}
