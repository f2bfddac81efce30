package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"talentscout/internal/config"
	"talentscout/internal/conversation"
	apperrors "talentscout/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const maxGroqErrorBody = 4096

// GroqProvider implements Generator against Groq's OpenAI-compatible chat completions API
type GroqProvider struct {
	httpClient     *http.Client
	baseURL        string
	config         *config.AIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *apperrors.Logger
}

// Ensure GroqProvider implements Generator
var _ Generator = (*GroqProvider)(nil)

type groqChatRequest struct {
	Model       string                 `json:"model"`
	Messages    []conversation.Message `json:"messages"`
	Temperature float32                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens"`
	TopP        float32                `json:"top_p"`
	Stream      bool                   `json:"stream"`
}

type groqChatResponse struct {
	Choices []struct {
		Message conversation.Message `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

type groqErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type groqModel struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by"`
}

// NewGroqProvider creates a provider for the configured base URL
func NewGroqProvider(cfg *config.AIConfig, logger *apperrors.Logger) (*GroqProvider, error) {
	if cfg.BaseURL == "" {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeInvalidConfig, "groq provider requires ai.baseURL", nil)
	}

	return &GroqProvider{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(config.ProviderGroq, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(config.ProviderGroq, cfg, logger),
		logger:         logger,
	}, nil
}

// Generate posts the conversation to the chat completions endpoint
func (g *GroqProvider) Generate(ctx context.Context, messages []conversation.Message, opts GenerateOptions) (string, *TokenUsage, error) {
	tracer := otel.Tracer("talentscout.ai.groq")
	ctx, span := tracer.Start(ctx, "groq.generate")
	defer span.End()

	req := groqChatRequest{
		Model:       g.config.Model,
		Messages:    messages,
		Temperature: g.config.Temperature,
		MaxTokens:   g.config.MaxTokens,
		TopP:        1,
	}
	if opts.Temperature > 0 {
		req.Temperature = opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	span.SetAttributes(
		attribute.String("ai.provider", config.ProviderGroq),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(req.Temperature)),
		attribute.Int("ai.messages", len(messages)),
	)

	body, err := json.Marshal(req)
	if err != nil {
		return "", nil, apperrors.NewInternalError(apperrors.ErrCodeInvalidRequest, "Failed to encode chat request", err)
	}

	result, err := g.circuitBreaker.Execute(func() (completion, error) {
		return executeWithRetry(ctx, g.logger, "groq.generate", g.config.MaxRetries, func() (completion, error) {
			return g.chatCompletion(ctx, body)
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

func (g *GroqProvider) chatCompletion(ctx context.Context, body []byte) (completion, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return completion{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return completion{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return completion{}, decodeGroqError(resp)
	}

	var chat groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return completion{}, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return completion{}, fmt.Errorf("chat response contained no choices")
	}

	result := completion{text: strings.TrimSpace(chat.Choices[0].Message.Content)}
	if chat.Usage != nil {
		result.usage = &TokenUsage{
			InputTokens:  chat.Usage.PromptTokens,
			OutputTokens: chat.Usage.CompletionTokens,
			TotalTokens:  chat.Usage.TotalTokens,
		}
	}
	return result, nil
}

// decodeGroqError turns a non-2xx reply into *HTTPStatusError
func decodeGroqError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxGroqErrorBody))
	statusErr := &HTTPStatusError{StatusCode: resp.StatusCode}

	var apiErr groqErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		statusErr.Message = apiErr.Error.Message
	} else {
		statusErr.Message = strings.TrimSpace(string(raw))
	}
	return statusErr
}

// GetModelInfo checks that the configured model is served
func (g *GroqProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	info, err := g.modelBreaker.ExecuteModel(func() (*ModelInfo, error) {
		req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, g.baseURL+"/models/"+g.config.Model, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, decodeGroqError(resp)
		}

		var model groqModel
		if err := json.NewDecoder(resp.Body).Decode(&model); err != nil {
			return nil, err
		}
		return &ModelInfo{
			Provider:    config.ProviderGroq,
			Name:        g.config.Model,
			DisplayName: model.ID,
			Version:     model.OwnedBy,
			Available:   true,
		}, nil
	})
	if err != nil {
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", config.ProviderGroq,
			"error", err.Error())
		return &ModelInfo{
			Provider: config.ProviderGroq,
			Name:     g.config.Model,
			Error:    fmt.Sprintf("Failed to get model info: %v", err),
		}
	}
	return info
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GroqProvider) GetCircuitBreakerStats() map[string]any {
	return breakerStats(g.circuitBreaker, g.modelBreaker)
}

// Close releases idle connections
func (g *GroqProvider) Close() error {
	g.httpClient.CloseIdleConnections()
	return nil
}
