// Package recognizer provides the speech-to-text capability consumed by
// the transcription driver: a local whisper.cpp backend, an OpenAI
// Whisper API backend, and a pool that serializes access to each loaded
// model.
package recognizer

import "context"

// Recognizer converts one audio file to text. language is a hint and may
// be empty for auto-detection.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}
