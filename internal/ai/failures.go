package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"talentscout/internal/conversation"
	"talentscout/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
)

// FailureCategory groups generation failures for user-facing replies
type FailureCategory string

const (
	FailureRateLimit  FailureCategory = "rate_limit"
	FailureAuth       FailureCategory = "auth"
	FailureTimeout    FailureCategory = "timeout"
	FailureConnection FailureCategory = "connection"
	FailureOther      FailureCategory = "other"
)

// ClassifyFailure inspects typed errors first and falls back to the error text
func ClassifyFailure(err error) FailureCategory {
	if err == nil {
		return FailureOther
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return FailureConnection
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		if category, ok := classifyStatus(apiErr.Code); ok {
			return category
		}
	}
	var statusErr *HTTPStatusError
	if stderrors.As(err, &statusErr) {
		if category, ok := classifyStatus(statusErr.StatusCode); ok {
			return category
		}
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureConnection
	}

	return classifyMessage(strings.ToLower(err.Error()))
}

func classifyStatus(code int) (FailureCategory, bool) {
	switch code {
	case http.StatusTooManyRequests:
		return FailureRateLimit, true
	case http.StatusUnauthorized, http.StatusForbidden:
		return FailureAuth, true
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return FailureTimeout, true
	}
	return "", false
}

func classifyMessage(msg string) FailureCategory {
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "resource_exhausted"), strings.Contains(msg, "quota"):
		return FailureRateLimit
	case strings.Contains(msg, "api key"), strings.Contains(msg, "unauthenticated"), strings.Contains(msg, "permission_denied"):
		return FailureAuth
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return FailureTimeout
	case strings.Contains(msg, "connection"):
		return FailureConnection
	default:
		return FailureOther
	}
}

// ApologyFor returns the canned reply shown to the candidate instead of generated text
func ApologyFor(err error) string {
	switch ClassifyFailure(err) {
	case FailureRateLimit:
		return "I'm processing many requests right now. Let me try again in a moment..."
	case FailureAuth:
		return "There's a configuration issue. Please contact support."
	case FailureTimeout:
		return "The request took too long. Could you please try again?"
	case FailureConnection:
		return "I'm having trouble connecting. Please check your internet connection."
	default:
		return fmt.Sprintf("I encountered an issue: %s. Let's continue - please repeat your last message.", rootMessage(err))
	}
}

// rootMessage strips wrapping so the candidate sees the provider's own message
func rootMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	for {
		next := stderrors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

var failureCodes = map[FailureCategory]string{
	FailureRateLimit:  errors.ErrCodeGenerationRateLimit,
	FailureAuth:       errors.ErrCodeGenerationAuth,
	FailureTimeout:    errors.ErrCodeGenerationTimeout,
	FailureConnection: errors.ErrCodeGenerationConnection,
	FailureOther:      errors.ErrCodeAIServiceFailed,
}

// ClassifiedError wraps err as an AI error whose code names its failure category
func ClassifiedError(err error) *errors.AppError {
	category := ClassifyFailure(err)
	return errors.NewAIError(failureCodes[category], "generation failed", err).
		WithContext("failure_category", string(category))
}

// Reply is the outcome of a main-path generation call
type Reply struct {
	Text  string
	Usage *TokenUsage
	// Err is set when Text is a canned apology rather than generated content
	Err *errors.AppError
	// Attempts counts generation calls made; only the retry policy makes more than one
	Attempts int
}

// Failed reports whether generation failed
func (r Reply) Failed() bool {
	return r.Err != nil
}

// Respond calls the generator once. On failure the reply carries the apology
// for the failure category and the classified error.
func Respond(ctx context.Context, gen Generator, messages []conversation.Message, opts GenerateOptions) Reply {
	text, usage, err := gen.Generate(ctx, messages, opts)
	if err != nil {
		return Reply{Text: ApologyFor(err), Err: ClassifiedError(err), Attempts: 1}
	}
	return Reply{Text: strings.TrimSpace(text), Usage: usage, Attempts: 1}
}
