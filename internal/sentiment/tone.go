package sentiment

import "strings"

var supportivePhrases = []string{
	"I understand this might be challenging. ",
	"No worries at all! ",
	"I appreciate your honesty. ",
	"That's completely okay. ",
}

// AdjustTone prepends one supportive prefix when the sample calls for support
// and the message does not already contain supportive wording.
func AdjustTone(message string, sample Sample) string {
	if !sample.NeedsSupport {
		return message
	}

	lower := strings.ToLower(message)
	for _, phrase := range supportivePhrases {
		if strings.Contains(lower, strings.ToLower(strings.TrimSpace(phrase))) {
			return message
		}
	}

	return supportPrefix(sample) + message
}

func supportPrefix(sample Sample) string {
	switch {
	case sample.HasEmotion(EmotionConfused) || sample.HasEmotion(EmotionUncertain):
		return "No problem, let me clarify. "
	case sample.HasEmotion(EmotionFrustrated):
		return "I understand this can be frustrating. "
	case sample.HasEmotion(EmotionAnxious):
		return "There's no need to worry! "
	default:
		return supportivePhrases[0]
	}
}
