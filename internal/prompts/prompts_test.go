package prompts

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"talentscout/internal/errors"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input  string
		want   Language
		wantOK bool
	}{
		{"English", English, true},
		{"hindi", Hindi, true},
		{" SPANISH ", Spanish, true},
		{"", English, true},
		{"Klingon", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseLanguage(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLanguage(%q): expected (%s, %v), got (%s, %v)", tt.input, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestFieldOrder(t *testing.T) {
	var order []Field
	field := FieldName
	for {
		order = append(order, field)
		next, ok := field.Next()
		if !ok {
			break
		}
		field = next
	}
	if !slices.Equal(order, Fields) {
		t.Errorf("Expected %v, got %v", Fields, order)
	}
}

func TestInfoPrompt(t *testing.T) {
	if got := InfoPrompt(English, FieldName); got != "Great! Now, could you please provide your email address?" {
		t.Errorf("Unexpected English name prompt: %s", got)
	}
	if got := InfoPrompt(Spanish, FieldEmail); !strings.Contains(got, "teléfono") {
		t.Errorf("Expected Spanish phone question, got %s", got)
	}
	if got := InfoPrompt(Language("Klingon"), FieldPhone); got != InfoPrompt(English, FieldPhone) {
		t.Errorf("Expected English fallback, got %s", got)
	}
	if got := InfoPrompt(German, Field("shoe_size")); got != "Please provide the requested information." {
		t.Errorf("Expected generic prompt, got %s", got)
	}

	for _, lang := range Languages {
		for _, field := range Fields {
			if InfoPrompt(lang, field) == "" {
				t.Errorf("Missing %s prompt for %s", lang, field)
			}
		}
		if !strings.Contains(InfoPrompt(lang, FieldLocation), "Python, Django") {
			t.Errorf("Expected %s location prompt to ask for a tech stack", lang)
		}
	}
}

func TestGreetingReprompt(t *testing.T) {
	if got := GreetingReprompt(Hindi); !strings.HasPrefix(got, "नमस्ते") {
		t.Errorf("Expected Hindi reprompt, got %s", got)
	}
	if got := GreetingReprompt(Language("")); got != GreetingReprompt(English) {
		t.Errorf("Expected English fallback, got %s", got)
	}
}

func TestDifficultyFor(t *testing.T) {
	tests := []struct {
		years float64
		want  string
	}{
		{0, "beginner to intermediate"},
		{2.9, "beginner to intermediate"},
		{3, "intermediate"},
		{4.5, "intermediate"},
		{5, "intermediate to advanced"},
		{20, "intermediate to advanced"},
	}
	for _, tt := range tests {
		if got := DifficultyFor(tt.years); got != tt.want {
			t.Errorf("DifficultyFor(%v): expected %s, got %s", tt.years, tt.want, got)
		}
	}
}

func TestPersonalisation(t *testing.T) {
	if got := ExperienceTone(1); !strings.Contains(got, "mentoring") {
		t.Errorf("Expected mentoring tone, got %s", got)
	}
	if got := ExperienceTone(7); !strings.Contains(got, "peer-level") {
		t.Errorf("Expected peer-level tone, got %s", got)
	}
	if got := RoleFocus("Senior Backend Engineer"); !strings.Contains(got, "leadership") {
		t.Errorf("Expected leadership focus, got %s", got)
	}
	if got := RoleFocus("Entry level developer"); !strings.Contains(got, "fundamentals") {
		t.Errorf("Expected fundamentals focus, got %s", got)
	}
	if got := RoleFocus("Data Engineer"); !strings.Contains(got, "practical skills") {
		t.Errorf("Expected practical focus, got %s", got)
	}
}

func TestBuilderPrompts(t *testing.T) {
	b := NewBuilder()

	if got := b.GreetingPrompt(English); got != DefaultTemplates.Greeting {
		t.Errorf("Expected unmodified English greeting prompt")
	}
	if got := b.GreetingPrompt(French); !strings.HasSuffix(got, "IMPORTANT: Please generate this greeting in French language.") {
		t.Errorf("Expected French language instruction, got %s", got)
	}

	questions := b.TechnicalQuestionsPrompt([]string{"Python", "Django", "PostgreSQL"}, 6, "Backend Engineer", English)
	for _, want := range []string{
		"6 years of experience in: Python, Django, PostgreSQL",
		"intermediate to advanced level",
		"Return ONLY a numbered list",
		"The candidate speaks English",
	} {
		if !strings.Contains(questions, want) {
			t.Errorf("Expected question prompt to contain %q", want)
		}
	}
	if strings.Contains(questions, "%!") {
		t.Errorf("Question prompt has formatting errors: %s", questions)
	}

	closing := b.ClosingPrompt("Ada Lovelace", Hindi)
	if !strings.Contains(closing, "for Ada Lovelace that") || !strings.Contains(closing, "Generate this message in Hindi.") {
		t.Errorf("Unexpected closing prompt: %s", closing)
	}
	if got := b.ClosingPrompt("", ""); !strings.Contains(got, "for candidate that") || !strings.Contains(got, "in English.") {
		t.Errorf("Expected defaults in closing prompt, got %s", got)
	}
}

func TestBuilderApply(t *testing.T) {
	b := NewBuilder()

	count := b.Apply(Templates{System: "Custom system", Closing: "Bye {name}, in {language}"})
	if count != 2 {
		t.Errorf("Expected 2 overrides, got %d", count)
	}
	if b.SystemPrompt() != "Custom system" {
		t.Errorf("Expected custom system prompt, got %s", b.SystemPrompt())
	}
	if b.Templates().Greeting != DefaultTemplates.Greeting {
		t.Errorf("Expected built-in greeting to remain")
	}
	if got := b.ClosingPrompt("Jo", Spanish); got != "Bye Jo, in Spanish" {
		t.Errorf("Expected placeholders replaced, got %s", got)
	}

	if count := b.Apply(Templates{}); count != 0 {
		t.Errorf("Expected 0 overrides, got %d", count)
	}
	if b.SystemPrompt() != DefaultTemplates.System {
		t.Errorf("Expected built-in system prompt restored")
	}
}

func TestParseNumberedList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple list",
			text: "1. What is a goroutine?\n2. Explain channels.\n3. What is a mutex?",
			want: []string{"What is a goroutine?", "Explain channels.", "What is a mutex?"},
		},
		{
			name: "preamble and multi-line items",
			text: "Here are your questions:\n1. Describe Django middleware\nand when to use it.\n2. How does PostgreSQL MVCC work?\n\n3.   What is Python 3.12's biggest change?",
			want: []string{
				"Describe Django middleware\nand when to use it.",
				"How does PostgreSQL MVCC work?",
				"What is Python 3.12's biggest change?",
			},
		},
		{
			name: "preamble on the marker line",
			text: "Here are your questions: 1. What is a goroutine?\n2. How do channels work?\n3. What is a mutex?",
			want: []string{"What is a goroutine?", "How do channels work?", "What is a mutex?"},
		},
		{
			name: "numbers inside items",
			text: "1. What changed in Go 1.22 loops?\n2. Compare HTTP/1.1 and HTTP/2.\n3. Why use 2. as a marker?",
			want: []string{"What changed in Go 1.22 loops?", "Compare HTTP/1.1 and HTTP/2.", "Why use 2. as a marker?"},
		},
		{
			name: "empty items dropped",
			text: "1. First\n2.\n3. Third",
			want: []string{"First", "Third"},
		},
		{
			name: "no list",
			text: "Sorry, I cannot help with that.",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumberedList(tt.text)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseQuestions(t *testing.T) {
	questions, err := ParseQuestions("1. A?\n2. B?\n3. C?\n4. D?\n5. E?\n6. F?\n7. G?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(questions) != MaxQuestions || questions[4] != "E?" {
		t.Errorf("Expected first 5 questions, got %q", questions)
	}

	four, err := ParseQuestions("1. A?\n2. B?\n3. C?\n4. D?")
	if err != nil || len(four) != 4 {
		t.Errorf("Expected 4 questions, got %d (%v)", len(four), err)
	}

	inline, err := ParseQuestions("Here are your questions: 1. A?\n2. B?\n3. C?")
	if err != nil || len(inline) != 3 || inline[0] != "A?" {
		t.Errorf("Expected 3 questions after an inline preamble, got %q (%v)", inline, err)
	}

	raw := "1. Only one\n2. And two"
	questions, err = ParseQuestions(raw)
	if err == nil {
		t.Fatal("Expected error for too few questions")
	}
	if questions != nil {
		t.Errorf("Expected no partial list, got %q", questions)
	}
	if errors.CodeOf(err) != errors.ErrCodeQuestionParseFailed {
		t.Errorf("Expected code %s, got %s", errors.ErrCodeQuestionParseFailed, errors.CodeOf(err))
	}

	var parseErr *ParseError
	if !stderrors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError in chain, got %T", err)
	}
	if parseErr.Count != 2 || parseErr.Raw != raw {
		t.Errorf("Expected count 2 with raw text, got %+v", parseErr)
	}
}
