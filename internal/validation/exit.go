package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// ExitMatchMode controls how strictly user text must match an exit keyword
type ExitMatchMode string

const (
	// ExitMatchExact requires the whole message to be a keyword ("bye")
	ExitMatchExact ExitMatchMode = "exact"
	// ExitMatchToken requires a keyword as a whole word ("ok bye then")
	ExitMatchToken ExitMatchMode = "token"
	// ExitMatchSubstring accepts a keyword anywhere, so "backend" matches "end"
	ExitMatchSubstring ExitMatchMode = "substring"
)

// ExitKeywords end the conversation early
var ExitKeywords = []string{
	"exit", "quit", "bye", "goodbye", "end", "stop",
	"terminate", "close", "leave", "done",
}

// ParseExitMatchMode parses a configured mode; empty selects token matching
func ParseExitMatchMode(mode string) (ExitMatchMode, error) {
	switch ExitMatchMode(strings.ToLower(strings.TrimSpace(mode))) {
	case "", ExitMatchToken:
		return ExitMatchToken, nil
	case ExitMatchExact:
		return ExitMatchExact, nil
	case ExitMatchSubstring:
		return ExitMatchSubstring, nil
	default:
		return "", fmt.Errorf("invalid exit match mode: %s (must be 'exact', 'token', or 'substring')", mode)
	}
}

func isExitKeyword(word string) bool {
	for _, keyword := range ExitKeywords {
		if word == keyword {
			return true
		}
	}
	return false
}

// IsExitCommand reports whether text asks to end the conversation
func IsExitCommand(text string, mode ExitMatchMode) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}

	switch mode {
	case ExitMatchExact:
		return isExitKeyword(lower)
	case ExitMatchSubstring:
		for _, keyword := range ExitKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
		return false
	default:
		words := strings.FieldsFunc(lower, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, word := range words {
			if isExitKeyword(word) {
				return true
			}
		}
		return false
	}
}
