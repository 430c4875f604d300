package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nikogura/tex-tailor/pkg/checker"
	"github.com/nikogura/tex-tailor/pkg/config"
	"github.com/nikogura/tex-tailor/pkg/llm"
	"github.com/nikogura/tex-tailor/pkg/tailor"
)

func TestNewEditor(t *testing.T) {
	tests := []struct {
		provider string
		check    func(editor tailor.Editor) bool
	}{
		{
			provider: config.ProviderClaude,
			check: func(editor tailor.Editor) bool {
				_, ok := editor.(*llm.ClaudeEditor)
				return ok
			},
		},
		{
			provider: config.ProviderOpenAI,
			check: func(editor tailor.Editor) bool {
				_, ok := editor.(*llm.OpenAIEditor)
				return ok
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := config.Config{
				Provider:        tt.provider,
				AnthropicAPIKey: "test-key",
				OpenAIAPIKey:    "test-key",
			}
			err := cfg.Validate()
			if err != nil {
				t.Fatalf("Validate() failed: %v", err)
			}

			editor, closeEditor, err := newEditor(context.Background(), cfg)
			if err != nil {
				t.Fatalf("newEditor failed: %v", err)
			}

			if !tt.check(editor) {
				t.Errorf("Unexpected editor type %T for provider %s", editor, tt.provider)
			}

			err = closeEditor()
			if err != nil {
				t.Errorf("Expected no-op close, got %v", err)
			}
		})
	}
}

func TestWriteJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume-acme.json")
	result := tailor.Result{
		Intro: "\\name{Jane}",
		Sections: []tailor.SectionResult{
			{Index: 0, Title: "Experience", Original: "\\section{Experience}", Text: "\\section{Experience} edited", Check: checker.Result{Score: 100}},
			{Index: 1, Title: "Skills", Original: "\\section{Skills}", Text: "\\section{Skills}", FellBack: true},
		},
	}

	err := writeJSONReport(result, path)
	if err != nil {
		t.Fatalf("writeJSONReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	var decoded tailor.Result
	err = json.Unmarshal(data, &decoded)
	if err != nil {
		t.Fatalf("Failed to parse report: %v", err)
	}

	if len(decoded.Sections) != 2 {
		t.Fatalf("Expected 2 sections in report, got %d", len(decoded.Sections))
	}

	if !decoded.Sections[1].FellBack {
		t.Error("Expected fallback to be recorded for the second section")
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{text: "", expected: 0},
		{text: "one", expected: 1},
		{text: "one\ntwo\nthree", expected: 3},
	}

	for _, tt := range tests {
		if got := lineCount(tt.text); got != tt.expected {
			t.Errorf("Expected %d lines for %q, got %d", tt.expected, tt.text, got)
		}
	}
}

func TestIndent(t *testing.T) {
	expected := "      a\n      b"
	if got := indent("a\nb"); got != expected {
		t.Errorf("Expected '%s', got '%s'", expected, got)
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := displayTitle(""); got != "(untitled)" {
		t.Errorf("Expected '(untitled)', got '%s'", got)
	}

	if got := displayTitle("Experience"); got != "Experience" {
		t.Errorf("Expected 'Experience', got '%s'", got)
	}
}

func TestSpinnerPrintsAboveWhileRunning(t *testing.T) {
	s := newSpinner("Tailoring...")
	s.start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.printf(warnColor, "line\n")
		}()
	}
	wg.Wait()

	// Let a tick redraw after the printed lines.
	time.Sleep(150 * time.Millisecond)
	s.stop()
	s.stop()

	if s.active {
		t.Error("Expected spinner to be inactive after stop")
	}

	// After stop, printf must not try to clear a spinner line.
	s.printf(okColor, "after\n")
}

func TestSectionReporterWithoutSpinner(t *testing.T) {
	reporter := &sectionReporter{total: 2}

	// Fallbacks print even without verbose output; a nil spinner prints directly.
	reporter.report(tailor.SectionResult{Index: 1, Title: "Skills", FellBack: true, Err: os.ErrDeadlineExceeded})
	reporter.report(tailor.SectionResult{Index: 0, Title: "Experience"})
}

func TestWithSpinnerPassesSpinner(t *testing.T) {
	var got *spinner
	withSpinner("Working...", func(s *spinner) {
		got = s
	})

	if got == nil {
		t.Fatal("Expected a spinner when not verbose")
	}

	if got.active {
		t.Error("Expected spinner to be stopped after withSpinner returns")
	}
}

func TestLoadJobDescriptionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	err := os.WriteFile(path, []byte("  Platform engineer, Go.\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to write JD: %v", err)
	}

	content, err := loadJobDescription(path)
	if err != nil {
		t.Fatalf("loadJobDescription failed: %v", err)
	}

	if content != "Platform engineer, Go." {
		t.Errorf("Expected trimmed JD, got '%s'", content)
	}

	_, err = loadJobDescription(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("Expected error for missing JD file, got nil")
	}
}
