package audio

import (
	"context"
	"testing"

	"github.com/nguyentantai21042004/transcribe-flow/pkg/executor"
)

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), executor.New(), "does/not/exist.m4a", t.TempDir())
	if err == nil {
		t.Error("Open() accepted a missing file")
	}
}

func TestSegmentPattern(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/downloads/lecture.m4a", "lecture_seg_*.wav"},
		{"talk.mp3", "talk_seg_*.wav"},
		{"/a/b/no_ext", "no_ext_seg_*.wav"},
	}

	for _, tt := range tests {
		if got := segmentPattern(tt.path); got != tt.want {
			t.Errorf("segmentPattern(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.000"},
		{300, "300.000"},
		{12.5, "12.500"},
		{0.001, "0.001"},
	}

	for _, tt := range tests {
		if got := formatSeconds(tt.in); got != tt.want {
			t.Errorf("formatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
