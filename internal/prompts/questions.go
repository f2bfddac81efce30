package prompts

import (
	"fmt"
	"regexp"
	"strings"

	"talentscout/internal/errors"
)

const (
	// MinQuestions is the fewest parsed questions accepted from the generator
	MinQuestions = 3
	// MaxQuestions caps how many parsed questions are kept
	MaxQuestions = 5
)

var (
	// firstMarker opens the list wherever it appears, even mid-line after a preamble
	firstMarker = regexp.MustCompile(`\d+\.`)
	// nextMarker starts every later item on a new line
	nextMarker = regexp.MustCompile(`\n[ \t]*\d+\.`)
)

// DifficultyFor picks the question difficulty for a candidate's experience
func DifficultyFor(years float64) string {
	switch {
	case years >= 5:
		return "intermediate to advanced"
	case years >= 3:
		return "intermediate"
	default:
		return "beginner to intermediate"
	}
}

// ExperienceTone suggests the interviewer's tone for a candidate's seniority
func ExperienceTone(years float64) string {
	switch {
	case years < 2:
		return "Use an encouraging, mentoring tone suitable for junior candidates."
	case years < 5:
		return "Use a professional, collaborative tone suitable for mid-level candidates."
	default:
		return "Use a respectful, peer-level tone suitable for senior candidates."
	}
}

// RoleFocus suggests what the questions should emphasise for a position title
func RoleFocus(position string) string {
	role := strings.ToLower(position)
	switch {
	case strings.Contains(role, "senior") || strings.Contains(role, "lead"):
		return "Focus on leadership, architecture, and strategic thinking in questions."
	case strings.Contains(role, "junior") || strings.Contains(role, "entry"):
		return "Focus on fundamentals, learning ability, and potential in questions."
	default:
		return "Focus on practical skills and problem-solving ability in questions."
	}
}

// ParseNumberedList extracts the items of a "1. ... 2. ..." list. The first
// marker may follow a preamble on the same line; each later item starts at a
// line-initial marker, so items may span lines. Empty items are dropped.
func ParseNumberedList(text string) []string {
	first := firstMarker.FindStringIndex(text)
	if first == nil {
		return []string{}
	}
	body := text[first[1]:]

	markers := nextMarker.FindAllStringIndex(body, -1)
	items := make([]string, 0, len(markers)+1)
	start := 0
	for i := 0; i <= len(markers); i++ {
		end := len(body)
		if i < len(markers) {
			end = markers[i][0]
		}
		if item := strings.TrimSpace(body[start:end]); item != "" {
			items = append(items, item)
		}
		if i < len(markers) {
			start = markers[i][1]
		}
	}
	return items
}

// ParseError reports generated question text that did not yield enough questions
type ParseError struct {
	Raw   string
	Count int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsed %d questions, need at least %d", e.Count, MinQuestions)
}

// ParseQuestions parses generated question text, keeping at most MaxQuestions.
// Fewer than MinQuestions items is an error wrapping *ParseError; no partial list is returned.
func ParseQuestions(text string) ([]string, error) {
	items := ParseNumberedList(text)
	if len(items) < MinQuestions {
		parseErr := &ParseError{Raw: text, Count: len(items)}
		return nil, errors.NewAIError(errors.ErrCodeQuestionParseFailed, "generated questions could not be parsed", parseErr).
			WithContext("parsed_count", len(items))
	}
	if len(items) > MaxQuestions {
		items = items[:MaxQuestions]
	}
	return items, nil
}
