package ai

import (
	"context"

	"talentscout/internal/conversation"
)

// Generator produces free text from an ordered list of messages.
// A leading system message, if present, is the system instruction.
type Generator interface {
	Generate(ctx context.Context, messages []conversation.Message, opts GenerateOptions) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// GenerateOptions overrides sampling settings for one request.
// Zero values fall back to the configured defaults.
type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Provider    string `json:"provider"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// completion is what a provider call yields inside the breaker and retry wrappers
type completion struct {
	text  string
	usage *TokenUsage
}
