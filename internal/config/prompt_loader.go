package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"talentscout/internal/prompts"
)

// PromptOverrides holds template text loaded from the configured prompt files.
// Empty fields mean the built-in template stays in effect.
type PromptOverrides struct {
	System   string
	Greeting string
	Closing  string
}

// Count returns how many templates are overridden
func (o PromptOverrides) Count() int {
	count := 0
	for _, content := range []string{o.System, o.Greeting, o.Closing} {
		if content != "" {
			count++
		}
	}
	return count
}

// Templates converts the overrides for prompts.Builder.Apply
func (o PromptOverrides) Templates() prompts.Templates {
	return prompts.Templates(o)
}

// Files returns the configured prompt file paths, skipping unset ones
func (p PromptsConfig) Files() []string {
	var files []string
	for _, file := range []string{p.SystemFile, p.GreetingFile, p.ClosingFile} {
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}

// LoadOverrides reads every configured prompt file
func (p PromptsConfig) LoadOverrides() (PromptOverrides, error) {
	var overrides PromptOverrides

	targets := []struct {
		file   string
		name   string
		target *string
	}{
		{p.SystemFile, "system", &overrides.System},
		{p.GreetingFile, "greeting", &overrides.Greeting},
		{p.ClosingFile, "closing", &overrides.Closing},
	}

	for _, t := range targets {
		if t.file == "" {
			continue
		}
		content, err := loadPromptFromFile(t.file, t.name)
		if err != nil {
			return PromptOverrides{}, err
		}
		*t.target = content
	}

	if count := overrides.Count(); count == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", count)
	}

	return overrides, nil
}

// loadPromptFromFile loads a prompt from a file, rejecting empty content
func loadPromptFromFile(filePath, name string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", name, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s prompt file not found: %s", name, absPath)
		}
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", name, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", name, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)", name, absPath, len(trimmed))
	return trimmed, nil
}

// validateFiles checks that every configured prompt file exists
func (p PromptsConfig) validateFiles() error {
	var validationErrors []string

	for _, file := range p.Files() {
		absPath, err := filepath.Abs(file)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid prompt path: %s", file))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("prompt file not found: %s", absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}
