package observability

import (
	"context"
	"fmt"
	"time"

	"talentscout/internal/ai"
	"talentscout/internal/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for TalentScout
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Interview metrics
	InterviewsStarted     metric.Int64Counter
	InterviewsCompleted   metric.Int64Counter
	ValidationRejections  metric.Int64Counter
	QuestionParseFallback metric.Int64Counter

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter
}

// NewMetrics creates every instrument on the given meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"talentscout_ai_processing_duration_seconds",
		metric.WithDescription("Time spent waiting on the generation service"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&m.AIRequestCount, "talentscout_ai_requests_total", "Total number of generation requests"},
		{&m.AIErrorCount, "talentscout_ai_errors_total", "Total number of failed generation requests"},
		{&m.InterviewsStarted, "talentscout_interviews_started_total", "Total number of interviews started"},
		{&m.InterviewsCompleted, "talentscout_interviews_completed_total", "Total number of interviews completed"},
		{&m.ValidationRejections, "talentscout_validation_rejections_total", "Total number of rejected candidate answers"},
		{&m.QuestionParseFallback, "talentscout_question_parse_fallbacks_total", "Total number of technical question sets replaced by the open question"},
		{&m.RateLimitHits, "talentscout_rate_limit_hits_total", "Total number of rate limit hits"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s metric: %w", c.name, err)
		}
		*c.target = counter
	}

	if m.AITokenUsage, err = meter.Int64Histogram(
		"talentscout_ai_token_usage_total",
		metric.WithDescription("Token usage for generation requests (input, output, total)"),
		metric.WithUnit("tokens"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	return m, nil
}

// RecordRateLimitHit counts a request rejected by the rate limiter
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limitType string) {
	if m == nil || m.RateLimitHits == nil {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limit_type", limitType)))
}

// InterviewMetrics records engine callbacks onto Metrics
type InterviewMetrics struct {
	metrics *Metrics
	custom  *config.CustomMetricsConfig
}

// NewInterviewMetrics wraps metrics. A nil custom config records everything.
func NewInterviewMetrics(metrics *Metrics, custom *config.CustomMetricsConfig) *InterviewMetrics {
	if metrics == nil {
		metrics = &Metrics{}
	}
	return &InterviewMetrics{metrics: metrics, custom: custom}
}

func (im *InterviewMetrics) aiEnabled() bool {
	return im.custom == nil || im.custom.AIOperations.Enabled
}

func (im *InterviewMetrics) business(track func(config.BusinessMetricsConfig) bool) bool {
	if im.custom == nil {
		return true
	}
	return im.custom.BusinessMetrics.Enabled && track(im.custom.BusinessMetrics)
}

// InterviewStarted counts a greeting turn
func (im *InterviewMetrics) InterviewStarted(ctx context.Context) {
	if im.metrics.InterviewsStarted == nil || !im.business(trackInterviews) {
		return
	}
	im.metrics.InterviewsStarted.Add(ctx, 1)
}

// InterviewCompleted counts a finalised interview
func (im *InterviewMetrics) InterviewCompleted(ctx context.Context, exitedEarly bool) {
	if im.metrics.InterviewsCompleted == nil || !im.business(trackInterviews) {
		return
	}
	im.metrics.InterviewsCompleted.Add(ctx, 1, metric.WithAttributes(attribute.Bool("exited_early", exitedEarly)))
}

// ValidationRejected counts a rejected answer by field and reason
func (im *InterviewMetrics) ValidationRejected(ctx context.Context, field, reason string) {
	if im.metrics.ValidationRejections == nil || !im.business(func(b config.BusinessMetricsConfig) bool { return b.TrackValidation }) {
		return
	}
	im.metrics.ValidationRejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("field", field),
		attribute.String("reason", reason),
	))
}

// QuestionParseFallback counts a switch to the open question
func (im *InterviewMetrics) QuestionParseFallback(ctx context.Context) {
	if im.metrics.QuestionParseFallback == nil || !im.business(func(b config.BusinessMetricsConfig) bool { return b.TrackParseFallbacks }) {
		return
	}
	im.metrics.QuestionParseFallback.Add(ctx, 1)
}

// GenerationCompleted records duration, request and error counts, and token usage
func (im *InterviewMetrics) GenerationCompleted(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error) {
	if im.metrics.AIRequestCount == nil || !im.aiEnabled() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	opt := metric.WithAttributes(attrs...)

	if im.custom == nil || im.custom.AIOperations.TrackDuration {
		im.metrics.AIProcessingTime.Record(ctx, duration.Seconds(), opt)
	}
	im.metrics.AIRequestCount.Add(ctx, 1, opt)
	if err != nil {
		im.metrics.AIErrorCount.Add(ctx, 1, opt)
	}

	if usage == nil || (im.custom != nil && !im.custom.AIOperations.TrackTokenUsage) {
		return
	}
	for _, tokens := range []struct {
		kind  string
		value int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		im.metrics.AITokenUsage.Record(ctx, tokens.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tokens.kind),
		))
	}
}

func trackInterviews(b config.BusinessMetricsConfig) bool { return b.TrackInterviews }
