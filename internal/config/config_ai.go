package config

import "os"

// Supported generation providers
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

// DefaultModelFor returns the model used when ai.model is not configured
func DefaultModelFor(provider string) string {
	if provider == ProviderGroq {
		return defaultGroqModel
	}
	return defaultGeminiModel
}

// providerKeyEnv names the provider's conventional API key variable
func providerKeyEnv(provider string) string {
	if provider == ProviderGroq {
		return "GROQ_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// applyAIFallbacks fills the model, base URL and API key from provider defaults
func (c *Config) applyAIFallbacks() {
	if c.AI.Model == "" {
		c.AI.Model = DefaultModelFor(c.AI.Provider)
	}
	if c.AI.Provider == ProviderGroq && c.AI.BaseURL == "" {
		c.AI.BaseURL = defaultGroqBaseURL
	}
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv(providerKeyEnv(c.AI.Provider))
	}
}

// applyAIKey sets the generation API key, used for secrets resolved after loading
func (c *Config) applyAIKey(key string) {
	c.AI.APIKey = key
}
