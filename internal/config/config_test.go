package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	cfg, err := unmarshalConfig(v, "")
	if err != nil {
		t.Fatalf("Failed to load default configuration: %v", err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := loadDefaults(t)

	if cfg.AI.Provider != ProviderGemini {
		t.Errorf("Expected provider gemini, got %s", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("Expected default gemini model, got %s", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", cfg.AI.Temperature)
	}
	if cfg.AI.MaxTokens != 1024 {
		t.Errorf("Expected maxTokens 1024, got %d", cfg.AI.MaxTokens)
	}
	if cfg.Interview.MaxContextLength != 10 {
		t.Errorf("Expected maxContextLength 10, got %d", cfg.Interview.MaxContextLength)
	}
	if cfg.Interview.ExitMatch != "token" {
		t.Errorf("Expected exit match 'token', got %s", cfg.Interview.ExitMatch)
	}
	if cfg.Storage.DataFile != "data/candidates.json" {
		t.Errorf("Expected default data file, got %s", cfg.Storage.DataFile)
	}
	if cfg.Server.SessionIdleTTL != 2*time.Hour {
		t.Errorf("Expected 2h session idle TTL, got %v", cfg.Server.SessionIdleTTL)
	}
	if err := cfg.ValidateAI(); err == nil {
		t.Error("Expected ValidateAI to fail without an API key")
	}
}

func TestAIFallbacks(t *testing.T) {
	t.Run("groq model, base URL and key", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "groq-key")
		cfg := &Config{AI: AIConfig{Provider: ProviderGroq}}
		cfg.applyAIFallbacks()

		if cfg.AI.Model != "llama-3.3-70b-versatile" {
			t.Errorf("Expected groq default model, got %s", cfg.AI.Model)
		}
		if cfg.AI.BaseURL != defaultGroqBaseURL {
			t.Errorf("Expected groq base URL, got %s", cfg.AI.BaseURL)
		}
		if cfg.AI.APIKey != "groq-key" {
			t.Errorf("Expected API key from GROQ_API_KEY, got %s", cfg.AI.APIKey)
		}
	})

	t.Run("explicit values win", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		cfg := &Config{AI: AIConfig{Provider: ProviderGemini, Model: "gemini-pro", APIKey: "configured"}}
		cfg.applyAIFallbacks()

		if cfg.AI.Model != "gemini-pro" {
			t.Errorf("Expected configured model to be kept, got %s", cfg.AI.Model)
		}
		if cfg.AI.APIKey != "configured" {
			t.Errorf("Expected configured key to be kept, got %s", cfg.AI.APIKey)
		}
	})
}

func TestServerAPIKeyFallback(t *testing.T) {
	t.Setenv("TALENTSCOUT_SERVER_APIKEYS", " a , b,, c ")
	cfg := &Config{}
	cfg.applyServerAPIKeyFallbacks()

	want := []string{"a", "b", "c"}
	if len(cfg.Server.APIKeys) != len(want) {
		t.Fatalf("Expected %v, got %v", want, cfg.Server.APIKeys)
	}
	for i, key := range want {
		if cfg.Server.APIKeys[i] != key {
			t.Errorf("Expected key %d to be %s, got %s", i, key, cfg.Server.APIKeys[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.AI.Provider = "openai" }, "unsupported AI provider"},
		{"temperature too high", func(c *Config) { c.AI.Temperature = 2.5 }, "temperature"},
		{"zero max tokens", func(c *Config) { c.AI.MaxTokens = 0 }, "maxTokens"},
		{"zero context", func(c *Config) { c.Interview.MaxContextLength = 0 }, "maxContextLength"},
		{"unknown language", func(c *Config) { c.Interview.DefaultLanguage = "Klingon" }, "unsupported default language"},
		{"unknown exit mode", func(c *Config) { c.Interview.ExitMatch = "fuzzy" }, "exit match"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "mongo" }, "unsupported storage backend"},
		{"postgres without dsn", func(c *Config) { c.Storage.Backend = StoragePostgres }, "dsn is required"},
		{"bad default format", func(c *Config) { c.App.DefaultFormat = "yaml" }, "invalid default format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadDefaults(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing '%s', got %v", tt.wantErr, err)
			}
		})
	}
}
