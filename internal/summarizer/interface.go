package summarizer

import "context"

// Summarizer turns a full transcript into structured notes via an LLM.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
