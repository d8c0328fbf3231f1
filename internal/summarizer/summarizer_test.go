package summarizer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/transcribe-flow/internal/config"
	"github.com/nguyentantai21042004/transcribe-flow/internal/logger"
)

func TestNewProviders(t *testing.T) {
	log := logger.New("error")

	if _, err := New(config.LLMConfig{Provider: "openai", APIKey: "sk-test", Model: "gpt-4o-mini"}, log); err != nil {
		t.Errorf("New(openai) error = %v", err)
	}
	if _, err := New(config.LLMConfig{Provider: "gemini", APIKeys: []string{"k"}, Model: "gemini-2.5-flash"}, log); err != nil {
		t.Errorf("New(gemini) error = %v", err)
	}
	if _, err := New(config.LLMConfig{Provider: "smoke-signals"}, log); err == nil {
		t.Error("New() accepted an unknown provider")
	}
}

func TestSummarizeRejectsEmptyTranscript(t *testing.T) {
	s, err := New(config.LLMConfig{Provider: "openai", APIKey: "sk-test", Model: "gpt-4o-mini"}, logger.New("error"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Summarize(context.Background(), "   \n  "); err == nil {
		t.Error("Summarize() accepted an empty transcript")
	}
}

func TestRateLimiterSpacesCalls(t *testing.T) {
	limiter := newRateLimiter(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.wait(ctx); err != nil {
			t.Fatalf("wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("three calls took %v, want at least 60ms", elapsed)
	}
}

func TestRateLimiterHonorsCancellation(t *testing.T) {
	limiter := newRateLimiter(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.wait(ctx); err != nil {
		t.Fatalf("first wait() error = %v", err)
	}
	if err := limiter.wait(ctx); err == nil {
		t.Error("second wait() returned before a one-hour interval without ctx error")
	}
}

func TestSplitTranscript(t *testing.T) {
	t.Run("respects blank lines", func(t *testing.T) {
		paras := splitTranscript("first block\n\nsecond block")
		if len(paras) != 2 || paras[0] != "first block" || paras[1] != "second block" {
			t.Errorf("paras = %q", paras)
		}
	})

	t.Run("breaks long text at sentence ends", func(t *testing.T) {
		sentence := strings.Repeat("word ", 30) + "end. "
		long := strings.Repeat(sentence, 20)

		paras := splitTranscript(long)
		if len(paras) < 2 {
			t.Fatalf("long transcript stayed in %d paragraph(s)", len(paras))
		}
		for i, p := range paras {
			if i < len(paras)-1 && !strings.HasSuffix(p, "end.") {
				t.Errorf("paragraph %d does not end at a sentence: %q", i, p[len(p)-20:])
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if paras := splitTranscript("  \n\n  "); len(paras) != 0 {
			t.Errorf("paras = %q, want none", paras)
		}
	})
}

func TestCleanMarkdownInline(t *testing.T) {
	got := cleanMarkdownInline("**bold** and `code` and __under__")
	if got != "bold and code and under" {
		t.Errorf("cleanMarkdownInline() = %q", got)
	}
}
