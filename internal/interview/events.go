package interview

import (
	"context"
	"time"

	"talentscout/internal/ai"
)

// EventType names something operators may want to observe about a session
type EventType string

const (
	EventStarted               EventType = "started"
	EventStageChanged          EventType = "stage_changed"
	EventValidationRejected    EventType = "validation_rejected"
	EventQuestionParseFallback EventType = "question_parse_fallback"
	EventGenerationFailed      EventType = "generation_failed"
	EventPersistenceFailed     EventType = "persistence_failed"
	EventCompleted             EventType = "completed"
)

// Event is delivered on the engine's event channel. Delivery never blocks a
// turn; events are dropped when the channel is full.
type Event struct {
	Type      EventType
	SessionID string
	Stage     Stage
	Detail    string
	Err       error
	At        time.Time
}

// Metrics receives counters from the engine
type Metrics interface {
	InterviewStarted(ctx context.Context)
	InterviewCompleted(ctx context.Context, exitedEarly bool)
	ValidationRejected(ctx context.Context, field, reason string)
	QuestionParseFallback(ctx context.Context)
	GenerationCompleted(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error)
}

type nopMetrics struct{}

func (nopMetrics) InterviewStarted(context.Context)                  {}
func (nopMetrics) InterviewCompleted(context.Context, bool)          {}
func (nopMetrics) ValidationRejected(context.Context, string, string) {}
func (nopMetrics) QuestionParseFallback(context.Context)             {}
func (nopMetrics) GenerationCompleted(context.Context, string, time.Duration, *ai.TokenUsage, error) {
}
