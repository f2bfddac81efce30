package ai

import (
	"context"
	"fmt"
	"strings"

	"talentscout/internal/config"
	"talentscout/internal/conversation"
	"talentscout/internal/errors"
	"talentscout/internal/types"
)

// Service fronts the configured generation provider
type Service struct {
	Provider Generator // Exported for access from server package
	config   *config.AIConfig
	logger   *errors.Logger
}

// Ensure Service implements Generator
var _ Generator = (*Service)(nil)

// NewService creates a generation service for the configured provider
func NewService(cfg *config.AIConfig, logger *errors.Logger) (*Service, error) {
	var provider Generator
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"max_tokens", cfg.MaxTokens,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries)

	switch cfg.Provider {
	case config.ProviderGemini:
		provider, err = NewGeminiProvider(cfg, logger)
	case config.ProviderGroq:
		provider, err = NewGroqProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, cfg, logger), nil
}

// NewServiceWithProvider wraps an existing provider
func NewServiceWithProvider(provider Generator, cfg *config.AIConfig, logger *errors.Logger) *Service {
	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}
}

// Generate delegates to the provider
func (s *Service) Generate(ctx context.Context, messages []conversation.Message, opts GenerateOptions) (string, *TokenUsage, error) {
	return s.Provider.Generate(ctx, messages, opts)
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.Provider.Close()
}

// CircuitBreakerStats reports breaker state when the provider exposes it
func (s *Service) CircuitBreakerStats() map[string]any {
	if p, ok := s.Provider.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
		return p.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// TestConnection asks the model for a fixed acknowledgement
func (s *Service) TestConnection(ctx context.Context) (bool, error) {
	messages := []conversation.Message{
		{Role: types.RoleSystem, Content: "You are a helpful assistant."},
		{Role: types.RoleUser, Content: "Say 'OK' if you can hear me."},
	}
	text, _, err := s.Provider.Generate(ctx, messages, GenerateOptions{})
	if err != nil {
		s.logger.LogError(err, "Connection test failed", "provider", s.config.Provider)
		return false, err
	}
	return strings.Contains(strings.ToUpper(text), "OK"), nil
}
