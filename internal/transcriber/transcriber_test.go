package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/transcribe-flow/internal/chunk"
)

// fakeSource serves a fixed duration/size and writes marker files as
// segments so the recognizer can tell them apart.
type fakeSource struct {
	path       string
	duration   float64
	size       int64
	tmpDir     string
	extracted  []chunk.Span
	extractErr error
}

func (f *fakeSource) Path() string             { return f.path }
func (f *fakeSource) DurationSeconds() float64 { return f.duration }
func (f *fakeSource) SizeBytes() int64         { return f.size }

func (f *fakeSource) ExtractSegment(ctx context.Context, startSec, endSec float64) (string, error) {
	if f.extractErr != nil {
		return "", f.extractErr
	}
	f.extracted = append(f.extracted, chunk.Span{Index: len(f.extracted), StartSec: startSec, EndSec: endSec})
	p := filepath.Join(f.tmpDir, fmt.Sprintf("seg_%v_%v.wav", startSec, endSec))
	if err := os.WriteFile(p, []byte("segment"), 0644); err != nil {
		return "", err
	}
	return p, nil
}

// fakeRecognizer returns queued texts in order, or an error at a given
// call number.
type fakeRecognizer struct {
	texts  []string
	calls  int
	failAt int // 1-indexed call that fails; 0 means never
}

func (r *fakeRecognizer) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	r.calls++
	if r.failAt > 0 && r.calls == r.failAt {
		return "", errors.New("backend unavailable")
	}
	if r.calls > len(r.texts) {
		return "", fmt.Errorf("unexpected call %d", r.calls)
	}
	return r.texts[r.calls-1], nil
}

type progressRecord struct {
	current, total   int
	text             string
	startSec, endSec float64
}

func recordProgress(records *[]progressRecord) ProgressFunc {
	return func(current, total int, text string, startSec, endSec float64) error {
		*records = append(*records, progressRecord{current, total, text, startSec, endSec})
		return nil
	}
}

func TestTranscribeWithoutChunking(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 15, size: 1 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"  short talk  "}}

	var records []progressRecord
	text, err := Transcribe(context.Background(), src, rec, Options{
		OnProgress: recordProgress(&records),
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "short talk" {
		t.Errorf("text = %q, want %q", text, "short talk")
	}
	if rec.calls != 1 {
		t.Errorf("recognizer called %d times, want 1", rec.calls)
	}
	if len(src.extracted) != 0 {
		t.Errorf("segments extracted for unchunked audio: %v", src.extracted)
	}

	want := progressRecord{1, 1, "short talk", 0, 15}
	if len(records) != 1 || records[0] != want {
		t.Errorf("progress = %+v, want [%+v]", records, want)
	}
}

func TestTranscribeChunked(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 920, size: 1 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"one", "two", "three", "four"}}

	var records []progressRecord
	text, err := Transcribe(context.Background(), src, rec, Options{
		ChunkDurationSec: 300,
		OnProgress:       recordProgress(&records),
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "one two three four" {
		t.Errorf("text = %q", text)
	}
	if rec.calls != 4 {
		t.Errorf("recognizer called %d times, want 4", rec.calls)
	}

	wantBounds := [][2]float64{{0, 300}, {300, 600}, {600, 900}, {900, 920}}
	if len(records) != 4 {
		t.Fatalf("got %d progress records, want 4", len(records))
	}
	for i, r := range records {
		if r.current != i+1 || r.total != 4 {
			t.Errorf("record %d numbering = %d/%d", i, r.current, r.total)
		}
		if r.startSec != wantBounds[i][0] || r.endSec != wantBounds[i][1] {
			t.Errorf("record %d bounds = [%v, %v), want [%v, %v)",
				i, r.startSec, r.endSec, wantBounds[i][0], wantBounds[i][1])
		}
	}
}

func TestTranscribeChunkedBySizeAlone(t *testing.T) {
	// 15 seconds but over the size limit still chunks (one chunk).
	src := &fakeSource{path: "audio.m4a", duration: 15, size: 30 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"big file"}}

	text, err := Transcribe(context.Background(), src, rec, Options{ChunkDurationSec: 300})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "big file" {
		t.Errorf("text = %q", text)
	}
	if len(src.extracted) != 1 {
		t.Errorf("extracted %d segments, want 1", len(src.extracted))
	}
}

func TestTranscribeSkipsEmptyChunks(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 900, size: 1 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"start", "   ", "end"}}

	text, err := Transcribe(context.Background(), src, rec, Options{ChunkDurationSec: 300})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "start end" {
		t.Errorf("text = %q, want %q", text, "start end")
	}
}

func TestTranscribeZeroDuration(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 0, size: 100, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"never"}}

	if _, err := Transcribe(context.Background(), src, rec, Options{}); err == nil {
		t.Error("Transcribe() accepted zero-duration audio")
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times for unreadable audio", rec.calls)
	}
}

func TestTranscribeRecognizerFailureMidStream(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 900, size: 1 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"one", "two", "three"}, failAt: 3}

	var records []progressRecord
	_, err := Transcribe(context.Background(), src, rec, Options{
		ChunkDurationSec: 300,
		OnProgress:       recordProgress(&records),
	})
	if err == nil {
		t.Fatal("Transcribe() succeeded past a failing recognizer")
	}

	// Chunks before the failure were reported; the failed one was not.
	if len(records) != 2 {
		t.Fatalf("got %d progress records, want 2", len(records))
	}
	if records[1].current != 2 || records[1].text != "two" {
		t.Errorf("last record = %+v", records[1])
	}
}

func TestTranscribeCallbackFailure(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 900, size: 1 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"one", "two", "three"}}

	callbackErr := errors.New("disk full")
	calls := 0
	_, err := Transcribe(context.Background(), src, rec, Options{
		ChunkDurationSec: 300,
		OnProgress: func(current, total int, text string, startSec, endSec float64) error {
			calls++
			if calls == 2 {
				return callbackErr
			}
			return nil
		},
	})
	if !errors.Is(err, callbackErr) {
		t.Errorf("Transcribe() error = %v, want wrapped %v", err, callbackErr)
	}
	if rec.calls != 2 {
		t.Errorf("recognizer called %d times after callback failure, want 2", rec.calls)
	}
}

func TestTranscribeResume(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 900, size: 1 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"文本3"}}

	resume := []chunk.State{
		{Span: chunk.Span{Index: 0, StartSec: 0, EndSec: 300}, Text: "文本1", Completed: true},
		{Span: chunk.Span{Index: 1, StartSec: 300, EndSec: 600}, Text: "文本2", Completed: true},
		{Span: chunk.Span{Index: 2, StartSec: 600, EndSec: 900}},
	}

	var records []progressRecord
	text, err := Transcribe(context.Background(), src, rec, Options{
		ChunkDurationSec: 300,
		OnProgress:       recordProgress(&records),
		ResumeFrom:       resume,
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "文本1 文本2 文本3" {
		t.Errorf("text = %q, want %q", text, "文本1 文本2 文本3")
	}

	// Completed chunks are never re-transcribed or re-reported.
	if rec.calls != 1 {
		t.Errorf("recognizer called %d times, want 1", rec.calls)
	}
	if len(src.extracted) != 1 || src.extracted[0].StartSec != 600 {
		t.Errorf("extracted segments = %+v, want one at 600", src.extracted)
	}
	if len(records) != 1 || records[0].current != 3 {
		t.Errorf("progress records = %+v, want single 3/3", records)
	}
}

func TestTranscribeResumePlanMismatch(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 900, size: 1 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"never"}}

	// Persisted under a different chunk duration: 2 chunks vs planned 3.
	resume := []chunk.State{
		{Span: chunk.Span{Index: 0, StartSec: 0, EndSec: 450}, Text: "a", Completed: true},
		{Span: chunk.Span{Index: 1, StartSec: 450, EndSec: 900}, Text: "b", Completed: true},
	}

	_, err := Transcribe(context.Background(), src, rec, Options{
		ChunkDurationSec: 300,
		ResumeFrom:       resume,
	})
	if !errors.Is(err, ErrPlanMismatch) {
		t.Errorf("Transcribe() error = %v, want ErrPlanMismatch", err)
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times on mismatched plan", rec.calls)
	}
}

func TestTranscribeResumeStopsAtFirstIncomplete(t *testing.T) {
	src := &fakeSource{path: "audio.m4a", duration: 1200, size: 1 << 20, tmpDir: t.TempDir()}
	rec := &fakeRecognizer{texts: []string{"b2", "c", "d"}}

	// Chunk 1 incomplete: resume starts there even though chunk 2 has
	// stale text from an aborted write.
	resume := []chunk.State{
		{Span: chunk.Span{Index: 0, StartSec: 0, EndSec: 300}, Text: "a", Completed: true},
		{Span: chunk.Span{Index: 1, StartSec: 300, EndSec: 600}},
		{Span: chunk.Span{Index: 2, StartSec: 600, EndSec: 900}, Text: "stale", Completed: true},
		{Span: chunk.Span{Index: 3, StartSec: 900, EndSec: 1200}},
	}

	text, err := Transcribe(context.Background(), src, rec, Options{
		ChunkDurationSec: 300,
		ResumeFrom:       resume,
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "a b2 c d" {
		t.Errorf("text = %q, want %q", text, "a b2 c d")
	}
	if rec.calls != 3 {
		t.Errorf("recognizer called %d times, want 3", rec.calls)
	}
}

func TestTranscribeSegmentExtractionFailure(t *testing.T) {
	src := &fakeSource{
		path: "audio.m4a", duration: 900, size: 1 << 20, tmpDir: t.TempDir(),
		extractErr: errors.New("decode error"),
	}
	rec := &fakeRecognizer{texts: []string{"never"}}

	var records []progressRecord
	_, err := Transcribe(context.Background(), src, rec, Options{
		ChunkDurationSec: 300,
		OnProgress:       recordProgress(&records),
	})
	if err == nil {
		t.Fatal("Transcribe() succeeded past a failing extraction")
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times after extraction failure", rec.calls)
	}
	if len(records) != 0 {
		t.Errorf("progress reported for failed chunk: %+v", records)
	}
}

func TestTranscribeRemovesSegmentFiles(t *testing.T) {
	tmp := t.TempDir()
	src := &fakeSource{path: "audio.m4a", duration: 600, size: 1 << 20, tmpDir: tmp}
	rec := &fakeRecognizer{texts: []string{"one", "two"}}

	if _, err := Transcribe(context.Background(), src, rec, Options{ChunkDurationSec: 300}); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d segment files left behind", len(entries))
	}
}
