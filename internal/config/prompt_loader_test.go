package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"talentscout/internal/errors"
)

func writePromptFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test prompt file: %v", err)
	}
	return path
}

func TestLoadOverrides(t *testing.T) {
	tempDir := t.TempDir()
	systemFile := writePromptFile(t, tempDir, "system.md", "  Custom system prompt\n")
	closingFile := writePromptFile(t, tempDir, "closing.md", "Custom closing for {name}")

	cfg := PromptsConfig{SystemFile: systemFile, ClosingFile: closingFile}

	overrides, err := cfg.LoadOverrides()
	if err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	if overrides.System != "Custom system prompt" {
		t.Errorf("Expected trimmed system prompt, got '%s'", overrides.System)
	}
	if overrides.Greeting != "" {
		t.Errorf("Expected no greeting override, got '%s'", overrides.Greeting)
	}
	if overrides.Closing != "Custom closing for {name}" {
		t.Errorf("Expected closing override, got '%s'", overrides.Closing)
	}
	if overrides.Count() != 2 {
		t.Errorf("Expected 2 overrides, got %d", overrides.Count())
	}
}

func TestLoadOverridesErrors(t *testing.T) {
	tempDir := t.TempDir()
	emptyFile := writePromptFile(t, tempDir, "empty.md", "   \n\t")

	tests := []struct {
		name    string
		cfg     PromptsConfig
		wantErr string
	}{
		{"missing file", PromptsConfig{GreetingFile: filepath.Join(tempDir, "nope.md")}, "greeting prompt file not found"},
		{"empty file", PromptsConfig{SystemFile: emptyFile}, "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.LoadOverrides()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing '%s', got '%v'", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()
	validFile := writePromptFile(t, tempDir, "valid.md", "Valid content")

	if err := (PromptsConfig{SystemFile: validFile}).validateFiles(); err != nil {
		t.Errorf("Expected no error for existing file, got %v", err)
	}

	err := (PromptsConfig{SystemFile: validFile, ClosingFile: filepath.Join(tempDir, "missing.md")}).validateFiles()
	if err == nil || !strings.Contains(err.Error(), "prompt file not found") {
		t.Errorf("Expected not found error, got %v", err)
	}

	if err := (PromptsConfig{}).validateFiles(); err != nil {
		t.Errorf("Expected no error when no files configured, got %v", err)
	}
}

func TestPromptWatcherReloadsOnWrite(t *testing.T) {
	tempDir := t.TempDir()
	systemFile := writePromptFile(t, tempDir, "system.md", "version one")

	reloaded := make(chan PromptOverrides, 4)
	watcher := NewPromptWatcher(PromptsConfig{
		SystemFile:    systemFile,
		DebounceDelay: 20 * time.Millisecond,
	}, func(o PromptOverrides) { reloaded <- o }, errors.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	// Give the watcher time to register the directory before writing
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(systemFile, []byte("version two"), 0600); err != nil {
		t.Fatalf("Failed to rewrite prompt file: %v", err)
	}

	select {
	case o := <-reloaded:
		if o.System != "version two" {
			t.Errorf("Expected reloaded system prompt 'version two', got '%s'", o.System)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for prompt reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watcher did not stop after cancel")
	}
}

func TestPromptWatcherWithoutFilesReturnsImmediately(t *testing.T) {
	watcher := NewPromptWatcher(PromptsConfig{}, func(PromptOverrides) {}, errors.NewNopLogger())
	if err := watcher.Run(context.Background()); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}
