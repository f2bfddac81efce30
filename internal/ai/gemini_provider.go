package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talentscout/internal/config"
	"talentscout/internal/conversation"
	apperrors "talentscout/internal/errors"
	"talentscout/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const modelCheckTimeout = 10 * time.Second

// GeminiProvider implements Generator for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	config         *config.AIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *apperrors.Logger
}

// Ensure GeminiProvider implements Generator
var _ Generator = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.AIConfig, logger *apperrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(config.ProviderGemini, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(config.ProviderGemini, cfg, logger),
		logger:         logger,
	}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	info, err := g.modelBreaker.ExecuteModel(func() (*ModelInfo, error) {
		model, err := g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
		if err != nil {
			return nil, err
		}
		return &ModelInfo{
			Provider:    config.ProviderGemini,
			Name:        g.config.Model,
			DisplayName: model.DisplayName,
			Version:     model.Version,
			Available:   true,
		}, nil
	})
	if err != nil {
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", config.ProviderGemini,
			"error", err.Error())
		return &ModelInfo{
			Provider: config.ProviderGemini,
			Name:     g.config.Model,
			Error:    fmt.Sprintf("Failed to get model info: %v", err),
		}
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", info.DisplayName,
		"version", info.Version)
	return info
}

// Generate sends the conversation to Gemini. The system message becomes the
// system instruction and assistant turns are sent with the model role.
func (g *GeminiProvider) Generate(ctx context.Context, messages []conversation.Message, opts GenerateOptions) (string, *TokenUsage, error) {
	tracer := otel.Tracer("talentscout.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.generate")
	defer span.End()

	genaiConfig := g.buildConfig(opts)
	systemPrompt, contents := toGeminiContents(messages)
	if systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderGemini),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*genaiConfig.Temperature)),
		attribute.Int("ai.messages", len(contents)),
	)

	if len(contents) == 0 {
		err := apperrors.NewAIError(apperrors.ErrCodeInvalidRequest, "no user or assistant messages to send", nil)
		span.RecordError(err)
		return "", nil, err
	}

	result, err := g.circuitBreaker.Execute(func() (completion, error) {
		return executeWithRetry(ctx, g.logger, "gemini.generate", g.config.MaxRetries, func() (completion, error) {
			callCtx, cancel := withTimeout(ctx, g.config.Timeout)
			defer cancel()
			resp, err := g.client.Models.GenerateContent(callCtx, g.config.Model, contents, genaiConfig)
			if err != nil {
				return completion{}, err
			}
			return completion{text: strings.TrimSpace(resp.Text()), usage: extractTokenUsage(resp)}, nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to generate content", err)
	}

	if result.usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.usage.InputTokens),
			attribute.Int64("ai.tokens.output", result.usage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))
	return result.text, result.usage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return breakerStats(g.circuitBreaker, g.modelBreaker)
}

// Close implements Generator interface
func (g *GeminiProvider) Close() error {
	// The genai client holds no resources that need releasing
	return nil
}

// buildConfig applies sampling settings, falling back to configured defaults
func (g *GeminiProvider) buildConfig(opts GenerateOptions) *genai.GenerateContentConfig {
	temperature := g.config.Temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}
	maxTokens := g.config.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	return &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(maxTokens),
	}
}

// toGeminiContents splits out the system prompt and maps the remaining turns to Gemini roles
func toGeminiContents(messages []conversation.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			system = append(system, msg.Content)
		case types.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
