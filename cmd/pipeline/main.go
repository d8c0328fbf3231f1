package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/transcribe-flow/internal/config"
	"github.com/nguyentantai21042004/transcribe-flow/internal/downloader"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
	"github.com/nguyentantai21042004/transcribe-flow/internal/pipeline"
	"github.com/nguyentantai21042004/transcribe-flow/internal/recognizer"
	"github.com/nguyentantai21042004/transcribe-flow/internal/store"
	"github.com/nguyentantai21042004/transcribe-flow/internal/summarizer"
	"github.com/nguyentantai21042004/transcribe-flow/internal/watcher"
	"github.com/nguyentantai21042004/transcribe-flow/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	resumeID := flag.Int64("resume", 0, "resume a failed task by id")
	watchMode := flag.Bool("watch", false, "watch the drop folder for audio files")
	listTasks := flag.Bool("list", false, "list recent tasks and exit")
	flag.Usage = usage
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcription Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s (%d cores)", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Recognizer: %s", cfg.Recognizer.Backend)
	log.Info(ctx, "Summarizer: %s (%s)", cfg.LLM.Provider, cfg.LLM.Model)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		log.Error(ctx, "Failed to open database: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	if *listTasks {
		if err := printTasks(st); err != nil {
			log.Error(ctx, "Failed to list tasks: %v", err)
			os.Exit(1)
		}
		return
	}

	exec := executor.New()
	dl := downloader.New(cfg.Downloader, cfg.Paths.Downloads, exec, log)
	pool := recognizer.NewPool(pipeline.NewRecognizerFactory(cfg.Recognizer, exec))
	summ, err := summarizer.New(cfg.LLM, log)
	if err != nil {
		log.Error(ctx, "Failed to build summarizer: %v", err)
		os.Exit(1)
	}

	pipe := pipeline.New(cfg, st, dl, pool, summ, exec, log)

	switch {
	case *resumeID > 0:
		if err := pipe.Resume(ctx, *resumeID); err != nil {
			log.Error(ctx, "Resume failed: %v", err)
			os.Exit(1)
		}

	case *watchMode:
		if err := runWatch(ctx, cfg, pipe, log); err != nil {
			log.Error(ctx, "Watcher error: %v", err)
			os.Exit(1)
		}

	case flag.NArg() == 1:
		if _, err := pipe.Process(ctx, flag.Arg(0)); err != nil {
			os.Exit(1)
		}

	default:
		usage()
		os.Exit(2)
	}
}

// runWatch blocks on the drop folder until an interrupt arrives.
func runWatch(ctx context.Context, cfg *config.Config, pipe pipeline.Pipeline, log logger.Logger) error {
	handler := func(ctx context.Context, filePath string) error {
		_, err := pipe.ProcessLocal(ctx, filePath)
		return err
	}

	w, err := watcher.New(cfg.Paths.Watch, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Watch)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
		cancel()
		return nil
	case err := <-errChan:
		return err
	}
}

func printTasks(st *store.Store) error {
	tasks, err := st.ListTasks(20)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return nil
	}
	for _, t := range tasks {
		title := t.VideoTitle
		if title == "" {
			title = t.SourceURL
		}
		fmt.Printf("#%-4d %-12s %s\n", t.ID, t.Status, title)
		if t.ErrorMessage != "" {
			fmt.Printf("      error: %s\n", t.ErrorMessage)
		}
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  %[1]s [flags] <video-url>   download, transcribe and summarize a video
  %[1]s -watch                process audio files dropped into the watch folder
  %[1]s -resume <task-id>     resume a failed task from its saved progress
  %[1]s -list                 show recent tasks

Flags:
`, "pipeline")
	flag.PrintDefaults()
}

// ensureDirectories creates the working directories if they don't exist.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Data,
		cfg.Paths.Downloads,
		cfg.Paths.Temp,
		cfg.Paths.Output,
		cfg.Paths.Watch,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
