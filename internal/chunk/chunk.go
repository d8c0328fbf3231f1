// Package chunk contains the pure planning logic that decides whether an
// audio file must be split for transcription and, if so, where the split
// points fall. Planning is deterministic: the same duration and threshold
// always produce the same spans, which is what makes resuming an
// interrupted transcription safe.
package chunk

import "math"

// Span is a planned time slice of an audio source. The interval is
// half-open: [StartSec, EndSec).
type Span struct {
	Index    int
	StartSec float64
	EndSec   float64
}

// State is a span plus its transcription outcome, as stored in and
// returned by the progress ledger.
type State struct {
	Span
	Text      string
	Completed bool
}

// NeedsChunking reports whether the audio must be split before
// transcription. Either dimension alone is enough: a long file risks
// recognizer timeouts, a large file risks memory pressure.
func NeedsChunking(durationSec float64, sizeBytes int64, durationThresholdSec float64, sizeLimitBytes int64) bool {
	return durationSec > durationThresholdSec || sizeBytes > sizeLimitBytes
}

// Plan partitions [0, totalDurationSec) into consecutive spans of
// chunkDurationSec seconds. The final span is truncated to whatever
// remains and a trailing zero-length span is never emitted. A
// non-positive chunkDurationSec degrades to a single whole-file span.
func Plan(totalDurationSec, chunkDurationSec float64) []Span {
	if chunkDurationSec <= 0 {
		return []Span{{Index: 0, StartSec: 0, EndSec: totalDurationSec}}
	}

	// Boundaries come from the span index, not an accumulator, so
	// float rounding cannot drift the plan between runs.
	var spans []Span
	for i := 0; ; i++ {
		start := float64(i) * chunkDurationSec
		if start >= totalDurationSec {
			break
		}
		spans = append(spans, Span{
			Index:    i,
			StartSec: start,
			EndSec:   math.Min(float64(i+1)*chunkDurationSec, totalDurationSec),
		})
	}
	return spans
}
