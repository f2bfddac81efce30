package ai

import (
	"context"
	"strings"
	"time"

	"talentscout/internal/conversation"
)

// DefaultRetryFallback is returned when no attempt yields an acceptable response
const DefaultRetryFallback = "I'm having trouble generating a response. Could you please rephrase your message?"

// BackoffSchedule returns the wait before the attempt after the given zero-based attempt
type BackoffSchedule func(attempt int) time.Duration

// ExponentialBackoff waits base, 2*base, 4*base, ...
func ExponentialBackoff(base time.Duration) BackoffSchedule {
	return func(attempt int) time.Duration {
		return base * time.Duration(1<<attempt)
	}
}

var errorPatterns = []string{"error", "failed", "unable to", "cannot process"}

const shortResponseLength = 100

// IsAcceptableResponse rejects empty text and short replies that read like an error message
func IsAcceptableResponse(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if len(text) >= shortResponseLength {
		return true
	}
	lower := strings.ToLower(text)
	for _, pattern := range errorPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}

// RetryPolicy is an opt-in bounded retry around a generation call
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffSchedule
	Accept      func(string) bool
	Fallback    string
	// Sleep waits between attempts; tests replace it to avoid real delays
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy makes up to attempts calls with exponential backoff from base
func DefaultRetryPolicy(attempts int, base time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: attempts,
		Backoff:     ExponentialBackoff(base),
		Accept:      IsAcceptableResponse,
		Fallback:    DefaultRetryFallback,
		Sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Generate returns the first accepted response. If the final attempt fails with
// an error the reply carries that error's apology; otherwise the fallback text.
func (p RetryPolicy) Generate(ctx context.Context, gen Generator, messages []conversation.Message, opts GenerateOptions) Reply {
	attempts := max(p.MaxAttempts, 1)
	accept := p.Accept
	if accept == nil {
		accept = IsAcceptableResponse
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	fallback := p.Fallback
	if fallback == "" {
		fallback = DefaultRetryFallback
	}

	var last Reply
	for attempt := 0; attempt < attempts; attempt++ {
		last = Respond(ctx, gen, messages, opts)
		last.Attempts = attempt + 1
		if !last.Failed() && accept(last.Text) {
			return last
		}
		if attempt == attempts-1 {
			break
		}
		if p.Backoff != nil {
			if err := sleep(ctx, p.Backoff(attempt)); err != nil {
				return Reply{Text: ApologyFor(err), Err: ClassifiedError(err), Attempts: last.Attempts}
			}
		}
	}

	if last.Failed() {
		return last
	}
	return Reply{Text: fallback, Usage: last.Usage, Attempts: last.Attempts}
}
