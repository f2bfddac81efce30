package prompts

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Templates holds the overridable prompt texts. The closing template may use
// {name} and {language} placeholders.
type Templates struct {
	System   string
	Greeting string
	Closing  string
}

// DefaultTemplates provides the built-in prompt texts
var DefaultTemplates = Templates{
	System: `You are the TalentScout Hiring Assistant, an AI recruiter for TalentScout, a leading technology recruitment agency.

YOUR ROLE:
- Conduct initial candidate screening interviews
- Gather essential candidate information professionally
- Ask relevant technical questions based on candidate's tech stack
- Maintain a friendly yet professional tone
- Stay strictly focused on the hiring process

CRITICAL RULES:
1. NEVER deviate from your hiring assistant role
2. NEVER discuss topics unrelated to job screening (politics, personal advice, general questions)
3. NEVER generate inappropriate or off-topic content
4. If asked about non-hiring topics, politely redirect: "I'm here to help with your job application. Let's continue with the screening process."
5. Always maintain context and remember what the candidate has already told you
6. Be encouraging and supportive throughout the interview

CONVERSATION FLOW:
1. Greet and introduce yourself
2. Collect: Name, Email, Phone, Years of Experience, Desired Position, Location
3. Ask about their tech stack
4. Generate 3-5 relevant technical questions per technology
5. Thank them and explain next steps

Be conversational, warm, and professional. Make candidates feel comfortable while gathering quality information.`,

	Greeting: `Generate a warm, professional greeting for a candidate starting their screening interview with TalentScout.

Requirements:
- Welcome them to TalentScout
- Briefly explain you'll be gathering their information and asking technical questions
- Be friendly and encouraging
- Keep it concise (2-3 sentences)
- End by asking for their full name

Generate the greeting now:`,

	Closing: `Generate a professional closing message for {name} that:

1. Thanks them for completing the screening interview
2. Mentions that the TalentScout team will review their responses
3. States they'll hear back within 3-5 business days
4. Wishes them well
5. Keeps it warm and encouraging (2-3 sentences)

IMPORTANT: Generate this message in {language}.

Generate the closing message now:`,
}

const questionsTemplate = `Generate exactly 3 to 5 technical questions for a candidate with %s years of experience in: %s

IMPORTANT: The candidate speaks %[3]s. You MUST generate the questions in %[3]s.

REQUIREMENTS:
- Questions should be %[4]s level
- Each question should be clear, specific, and standalone
- Mix of conceptual and practical questions
- Avoid yes/no questions
- Each question tests real-world skills
- %[5]s
- %[6]s

FORMAT (IMPORTANT):
Return ONLY a numbered list. One question per line. No extra text.

Example:
1. [Question 1 in %[3]s]
2. [Question 2 in %[3]s]
3. [Question 3 in %[3]s]

Now generate 3-5 questions in %[3]s:`

// Builder renders prompts from the current templates. Templates can be
// swapped at runtime when prompt files are reloaded.
type Builder struct {
	mu        sync.RWMutex
	templates Templates
}

// NewBuilder creates a builder using the built-in templates
func NewBuilder() *Builder {
	return &Builder{templates: DefaultTemplates}
}

// Apply replaces every non-empty template in overrides and restores the
// built-in text for empty ones. It returns the number of overridden templates.
func (b *Builder) Apply(overrides Templates) int {
	next := DefaultTemplates
	count := 0
	for _, o := range []struct {
		value  string
		target *string
	}{
		{overrides.System, &next.System},
		{overrides.Greeting, &next.Greeting},
		{overrides.Closing, &next.Closing},
	} {
		if strings.TrimSpace(o.value) != "" {
			*o.target = o.value
			count++
		}
	}

	b.mu.Lock()
	b.templates = next
	b.mu.Unlock()
	return count
}

// Templates returns a copy of the templates in effect
func (b *Builder) Templates() Templates {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.templates
}

// SystemPrompt returns the system instruction sent with every request
func (b *Builder) SystemPrompt() string {
	return b.Templates().System
}

// GreetingPrompt asks for the opening greeting, in lang when it is not English
func (b *Builder) GreetingPrompt(lang Language) string {
	prompt := b.Templates().Greeting
	if lang != "" && lang != DefaultLanguage {
		prompt += fmt.Sprintf("\nIMPORTANT: Please generate this greeting in %s language.", lang)
	}
	return prompt
}

// TechnicalQuestionsPrompt asks for a numbered list of 3 to 5 questions
// matched to the candidate's stack and experience.
func (b *Builder) TechnicalQuestionsPrompt(techStack []string, years float64, position string, lang Language) string {
	if lang == "" {
		lang = DefaultLanguage
	}
	return fmt.Sprintf(questionsTemplate,
		formatYears(years),
		strings.Join(techStack, ", "),
		lang,
		DifficultyFor(years),
		ExperienceTone(years),
		RoleFocus(position),
	)
}

// ClosingPrompt asks for the closing message addressed to name
func (b *Builder) ClosingPrompt(name string, lang Language) string {
	if strings.TrimSpace(name) == "" {
		name = "candidate"
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	return strings.NewReplacer("{name}", name, "{language}", string(lang)).Replace(b.Templates().Closing)
}

func formatYears(years float64) string {
	return strconv.FormatFloat(years, 'f', -1, 64)
}
