package recognizer

import (
	"context"
	"fmt"
	"sync"
)

// Factory builds the recognizer for a model key the first time it is
// requested. Loading a speech model is expensive, so each key is built
// once and reused.
type Factory func(modelKey string) (Recognizer, error)

type poolEntry struct {
	rec  Recognizer
	busy chan struct{}
}

// Pool caches one recognizer per model key and serializes access to it.
// The underlying models are not safe for concurrent inference, so at
// most one in-flight transcription holds a given entry at a time;
// other tasks block in Acquire until it is released.
type Pool struct {
	mu      sync.Mutex
	entries map[string]*poolEntry
	factory Factory
}

// NewPool creates a Pool that builds recognizers with factory.
func NewPool(factory Factory) *Pool {
	return &Pool{
		entries: make(map[string]*poolEntry),
		factory: factory,
	}
}

// Acquire checks out the recognizer for modelKey, building it on first
// use, and blocks while another transcription holds it. The returned
// release function must be called when the transcription finishes.
func (p *Pool) Acquire(ctx context.Context, modelKey string) (Recognizer, func(), error) {
	p.mu.Lock()
	entry, ok := p.entries[modelKey]
	if !ok {
		rec, err := p.factory(modelKey)
		if err != nil {
			p.mu.Unlock()
			return nil, nil, fmt.Errorf("load model %q: %w", modelKey, err)
		}
		entry = &poolEntry{rec: rec, busy: make(chan struct{}, 1)}
		p.entries[modelKey] = entry
	}
	p.mu.Unlock()

	select {
	case entry.busy <- struct{}{}:
		return entry.rec, func() { <-entry.busy }, nil
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}
