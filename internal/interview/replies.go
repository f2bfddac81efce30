package interview

import "fmt"

const (
	greetingFallback = "Hello! Welcome to TalentScout. I'm your AI hiring assistant. To get started, could you please tell me your full name?"
	exitReply        = "I understand you'd like to end our conversation. Thank you for your time! If you'd like to continue your application later, please feel free to return."
	wrapUpReply      = "Thank you for your detailed responses to all the technical questions! Let me wrap up our interview."
	unknownStage     = "I'm here to help with your application. Let's continue!"
	// openQuestion replaces the numbered questions when none could be parsed
	openQuestion = "Can you tell me about your experience with the main technologies you listed?"
)

// fieldRejection wraps a validator message in the re-prompt for the awaited field
var fieldRejection = map[string]string{
	"name":       "I'm sorry, but %s. Could you please provide your full name?",
	"email":      "%s. Please try again.",
	"phone":      "%s. Please provide a valid phone number.",
	"experience": "%s. How many years of experience do you have?",
	"position":   "%s. What position are you applying for?",
	"location":   "%s. Where are you currently located?",
	"tech_stack": "%s Please list the technologies you're proficient in.",
}

func rejectionReply(field, message string) string {
	format, ok := fieldRejection[field]
	if !ok {
		return "Could you please provide that information again?"
	}
	return fmt.Sprintf(format, message)
}

func firstQuestionReply(stack string, total int, question string) string {
	return fmt.Sprintf("Great! I can see you work with %s. Let me ask you some technical questions to assess your skills.\n\n**Question 1 of %d:**\n\n%s",
		stack, total, question)
}

func openQuestionReply(stack string) string {
	return fmt.Sprintf("Great! I can see you work with %s. %s", stack, openQuestion)
}

func nextQuestionReply(number, total int, question string) string {
	return fmt.Sprintf("Thank you for your answer!\n\n**Question %d of %d:**\n\n%s", number, total, question)
}

// joinReplies separates non-empty parts with a blank line
func joinReplies(parts ...string) string {
	var out string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += p
	}
	return out
}
