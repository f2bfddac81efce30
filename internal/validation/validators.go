// Package validation holds the pure field validators used while collecting candidate details.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Reason identifies why a validator rejected its input
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonEmpty         Reason = "empty"
	ReasonGreeting      Reason = "greeting"
	ReasonTooShort      Reason = "too_short"
	ReasonTooLong       Reason = "too_long"
	ReasonInvalidChars  Reason = "invalid_chars"
	ReasonInvalidFormat Reason = "invalid_format"
	ReasonMultipleAt    Reason = "multiple_at"
	ReasonNotDigits     Reason = "not_digits"
	ReasonDigitCount    Reason = "digit_count"
	ReasonNoNumber      Reason = "no_number"
	ReasonOutOfRange    Reason = "out_of_range"
	ReasonNoItems       Reason = "no_items"
)

// Result is the outcome of validating a single field
type Result struct {
	Valid   bool   `json:"valid"`
	Value   string `json:"value,omitempty"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	// Normalized carries a canonical form where one exists (digits-only phone)
	Normalized string `json:"normalized,omitempty"`
}

// ExperienceResult adds the parsed number of years
type ExperienceResult struct {
	Result
	Years float64 `json:"years"`
}

// Suggestion is a non-blocking "did you mean" hint for a tech stack entry
type Suggestion struct {
	Input      string `json:"input"`
	Suggestion string `json:"suggestion"`
}

// TechStackResult adds the accepted technologies and suggestions
type TechStackResult struct {
	Result
	Items       []string     `json:"items"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

func accept(value string) Result {
	return Result{Valid: true, Value: value}
}

func reject(reason Reason, message string) Result {
	return Result{Reason: reason, Message: message}
}

const (
	maxNameLength     = 100
	maxEmailLength    = 254
	maxPositionLength = 100
	maxLocationLength = 100
	minPhoneDigits    = 7
	maxPhoneDigits    = 15
	maxExperience     = 50
)

var (
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneFormatting  = regexp.MustCompile(`[\s\-()+]`)
	numberPattern    = regexp.MustCompile(`\d+\.?\d*`)
	namePattern      = regexp.MustCompile(`^[\p{L}\p{M}\s\-'.]+$`)
	techSeparators   = regexp.MustCompile(`[,;/\n]+`)
	greetingsAsNames = map[string]bool{
		"hi": true, "hello": true, "hey": true, "greetings": true,
		"good morning": true, "good afternoon": true, "good evening": true,
		"yo": true, "sup": true, "hola": true, "namaste": true,
		"bonjour": true, "hallo": true, "hii": true, "heyy": true,
	}
)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidateName accepts a full name. A bare greeting is rejected with ReasonGreeting
// so callers can re-prompt politely instead of treating it as an error.
func ValidateName(input string) Result {
	name := strings.TrimSpace(input)
	if name == "" {
		return reject(ReasonEmpty, "Name cannot be empty")
	}
	if greetingsAsNames[strings.ToLower(name)] {
		return reject(ReasonGreeting, "Please provide your full name, not just a greeting.")
	}
	if runeLen(name) < 2 {
		return reject(ReasonTooShort, "Name must be at least 2 characters")
	}
	if runeLen(name) > maxNameLength {
		return reject(ReasonTooLong, "Name is too long")
	}
	if !namePattern.MatchString(name) {
		return reject(ReasonInvalidChars, "Name should contain only letters, spaces, hyphens, and apostrophes")
	}
	return accept(name)
}

// ValidateEmail accepts a single address in the usual local@domain.tld shape
func ValidateEmail(input string) Result {
	email := strings.TrimSpace(input)
	if email == "" {
		return reject(ReasonEmpty, "Email cannot be empty")
	}
	if strings.Count(email, "@") > 1 {
		return reject(ReasonMultipleAt, "Email must contain exactly one @ symbol")
	}
	if len(email) > maxEmailLength {
		return reject(ReasonTooLong, "Email is too long")
	}
	if !emailPattern.MatchString(email) {
		return reject(ReasonInvalidFormat, "Please enter a valid email format (e.g., name@example.com)")
	}
	return accept(email)
}

// ValidatePhone accepts 7 to 15 digits with optional spaces, dashes, parentheses and plus signs.
// The trimmed original is kept as Value and the digits-only form as Normalized.
func ValidatePhone(input string) Result {
	phone := strings.TrimSpace(input)
	if phone == "" {
		return reject(ReasonEmpty, "Phone number cannot be empty")
	}
	digits := phoneFormatting.ReplaceAllString(phone, "")
	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return reject(ReasonNotDigits, "Phone number should contain only digits and formatting characters")
	}
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return reject(ReasonDigitCount, "Phone number should be between 7 and 15 digits")
	}
	result := accept(phone)
	result.Normalized = digits
	return result
}

// ValidateExperience extracts the first number from free text ("3.5 years")
// and accepts it when it lies in [0, 50]. A minus sign directly before the number makes it negative.
func ValidateExperience(input string) ExperienceResult {
	text := strings.TrimSpace(input)
	if text == "" {
		return ExperienceResult{Result: reject(ReasonEmpty, "Years of experience cannot be empty")}
	}

	loc := numberPattern.FindStringIndex(text)
	if loc == nil {
		return ExperienceResult{Result: reject(ReasonNoNumber, "Please enter a valid number of years (e.g., 3 or 3.5)")}
	}

	years, err := strconv.ParseFloat(strings.TrimSuffix(text[loc[0]:loc[1]], "."), 64)
	if err != nil {
		return ExperienceResult{Result: reject(ReasonNoNumber, "Please enter a valid number")}
	}
	if loc[0] > 0 && text[loc[0]-1] == '-' {
		years = -years
	}

	if years < 0 {
		return ExperienceResult{Result: reject(ReasonOutOfRange, "Years of experience cannot be negative")}
	}
	if years > maxExperience {
		return ExperienceResult{Result: reject(ReasonOutOfRange, "Please enter a realistic number of years (0-50)")}
	}

	return ExperienceResult{
		Result: accept(strconv.FormatFloat(years, 'f', -1, 64)),
		Years:  years,
	}
}

// ValidatePosition accepts a role title of 3 to 100 characters
func ValidatePosition(input string) Result {
	position := strings.TrimSpace(input)
	if position == "" {
		return reject(ReasonEmpty, "Position cannot be empty")
	}
	if runeLen(position) < 3 {
		return reject(ReasonTooShort, "Position must be at least 3 characters")
	}
	if runeLen(position) > maxPositionLength {
		return reject(ReasonTooLong, "Position description is too long")
	}
	return accept(position)
}

// ValidateLocation accepts a location of 2 to 100 characters
func ValidateLocation(input string) Result {
	location := strings.TrimSpace(input)
	if location == "" {
		return reject(ReasonEmpty, "Location cannot be empty")
	}
	if runeLen(location) < 2 {
		return reject(ReasonTooShort, "Location must be at least 2 characters")
	}
	if runeLen(location) > maxLocationLength {
		return reject(ReasonTooLong, "Location is too long")
	}
	return accept(location)
}

// ValidateTechStack splits on commas, semicolons, slashes and newlines,
// keeping entries longer than one character in listing order.
func ValidateTechStack(input string) TechStackResult {
	if strings.TrimSpace(input) == "" {
		return TechStackResult{Result: reject(ReasonEmpty, "Tech stack cannot be empty. Please list your technologies.")}
	}

	var items []string
	for _, token := range techSeparators.Split(input, -1) {
		token = strings.TrimSpace(token)
		if runeLen(token) > 1 {
			items = append(items, token)
		}
	}
	if len(items) == 0 {
		return TechStackResult{Result: reject(ReasonNoItems, "Please enter at least one technology")}
	}

	return TechStackResult{
		Result:      accept(strings.Join(items, ", ")),
		Items:       items,
		Suggestions: SuggestTechnologies(items),
	}
}

// SuggestTechnologies returns a hint for each entry that is not an exact catalog name
// but overlaps one by substring in either direction.
func SuggestTechnologies(items []string) []Suggestion {
	var suggestions []Suggestion
	for _, item := range items {
		lower := strings.ToLower(item)
		if _, ok := DefaultCatalog.Lookup(item); ok {
			continue
		}
		for _, known := range DefaultCatalog.All() {
			knownLower := strings.ToLower(known)
			if strings.Contains(lower, knownLower) || strings.Contains(knownLower, lower) {
				suggestions = append(suggestions, Suggestion{Input: item, Suggestion: known})
				break
			}
		}
	}
	return suggestions
}

// SanitizeInput collapses whitespace runs and strips <, >, {, } and backslashes
func SanitizeInput(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	text = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '{', '}', '\\':
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}
