package cli

import (
	"context"
	"fmt"

	"talentscout/internal/ai"
	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/interview"
	"talentscout/internal/prompts"
	"talentscout/internal/storage"
)

// components are the collaborators shared by chat and serve
type components struct {
	AI     *ai.Service
	Store  storage.Store
	Engine *interview.Engine
}

// Close releases the store and the AI client
func (c *components) Close() error {
	var firstErr error
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			firstErr = err
		}
	}
	if c.AI != nil {
		if err := c.AI.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// newPromptBuilder returns the built-in templates with any configured file
// overrides applied
func newPromptBuilder(cfg *config.Config, logger *errors.Logger) (*prompts.Builder, error) {
	builder := prompts.NewBuilder()
	overrides, err := cfg.Prompts.LoadOverrides()
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to load prompt overrides", err)
	}
	if applied := builder.Apply(overrides.Templates()); applied > 0 {
		logger.Info("Prompt overrides applied", "count", applied)
	}
	return builder, nil
}

// buildComponents wires the AI service, store and engine. metrics and events
// may be nil.
func buildComponents(ctx context.Context, cfg *config.Config, logger *errors.Logger, metrics interview.Metrics, events chan<- interview.Event) (*components, error) {
	if err := cfg.ValidateAI(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey, "AI is not configured", err)
	}

	settings, err := interview.SettingsFromConfig(cfg.Interview)
	if err != nil {
		return nil, err
	}

	builder, err := newPromptBuilder(cfg, logger)
	if err != nil {
		return nil, err
	}

	aiService, err := ai.NewService(&cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI service: %w", err)
	}

	store, err := storage.NewStore(ctx, cfg.Storage, logger)
	if err != nil {
		_ = aiService.Close()
		return nil, err
	}

	engine := interview.NewEngine(interview.Dependencies{
		Generator: aiService,
		Prompts:   builder,
		Store:     store,
		Exporter:  storage.NewTranscriptExporter(cfg.Storage.TranscriptDir),
		Events:    events,
		Metrics:   metrics,
	}, settings, logger)
	return &components{AI: aiService, Store: store, Engine: engine}, nil
}
