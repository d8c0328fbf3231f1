package recognizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/transcribe-flow/pkg/executor"
)

type implWhisperCPP struct {
	binaryPath string
	modelPath  string
	threads    int
	exec       executor.Executor
}

// NewWhisperCPP creates a recognizer backed by a local whisper.cpp
// binary. One instance corresponds to one loaded model; callers wanting
// mutual exclusion on the model go through Pool.
func NewWhisperCPP(exec executor.Executor, binaryPath, modelPath string, threads int) Recognizer {
	if threads <= 0 {
		threads = 4
	}
	return &implWhisperCPP{
		binaryPath: binaryPath,
		modelPath:  modelPath,
		threads:    threads,
		exec:       exec,
	}
}

// Transcribe runs whisper.cpp over the audio file and returns the plain
// text output.
func (w *implWhisperCPP) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-otxt",
		"-t", strconv.Itoa(w.threads),
		"--output-file", outputPrefix,
	}
	if language != "" {
		args = append(args, "-l", language)
	}

	if _, err := w.exec.Execute(ctx, w.binaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	txtPath := outputPrefix + ".txt"
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	os.Remove(txtPath)

	return strings.TrimSpace(string(data)), nil
}
