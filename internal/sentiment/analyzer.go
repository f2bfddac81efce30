// Package sentiment scores candidate messages with a lexicon and keyword heuristics
// so replies can be softened when a candidate seems to struggle.
package sentiment

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// Label classifies the overall tone of a message
type Label string

const (
	LabelPositive         Label = "positive"
	LabelSlightlyPositive Label = "slightly_positive"
	LabelNeutral          Label = "neutral"
	LabelSlightlyNegative Label = "slightly_negative"
	LabelNegative         Label = "negative"
	LabelUncertain        Label = "uncertain"
)

// Emotion is a coarse emotion tag derived from keywords
type Emotion string

const (
	EmotionExcited    Emotion = "excited"
	EmotionGrateful   Emotion = "grateful"
	EmotionHappy      Emotion = "happy"
	EmotionConfused   Emotion = "confused"
	EmotionFrustrated Emotion = "frustrated"
	EmotionAngry      Emotion = "angry"
	EmotionAnxious    Emotion = "anxious"
	EmotionUnhappy    Emotion = "unhappy"
	EmotionUncertain  Emotion = "uncertain"
)

// Sample is the immutable result of analysing one message
type Sample struct {
	Polarity     float64   `json:"polarity"`
	Subjectivity float64   `json:"subjectivity"`
	Label        Label     `json:"label"`
	Emotions     []Emotion `json:"emotions"`
	Confidence   float64   `json:"confidence"`
	NeedsSupport bool      `json:"needsSupport"`
}

// HasEmotion reports whether e was detected
func (s Sample) HasEmotion(e Emotion) bool {
	return slices.Contains(s.Emotions, e)
}

// keywordRule maps the first keyword hit in a set to an emotion
type keywordRule struct {
	keywords []string
	emotion  func(keyword string) Emotion
}

var (
	positiveKeywords = []string{
		"great", "excited", "happy", "love", "awesome", "perfect",
		"excellent", "wonderful", "fantastic", "amazing", "good",
		"nice", "thanks", "appreciate", "glad", "pleased",
	}
	negativeKeywords = []string{
		"confused", "frustrated", "angry", "upset", "disappointed",
		"worried", "nervous", "anxious", "difficult", "hard",
		"struggle", "problem", "issue", "hate", "bad", "terrible",
	}
	uncertaintyKeywords = []string{
		"maybe", "perhaps", "not sure", "unsure", "confused",
		"don't know", "uncertain", "unclear", "guess",
	}
)

func positiveEmotion(keyword string) Emotion {
	switch keyword {
	case "excited", "love", "amazing", "fantastic":
		return EmotionExcited
	case "thanks", "appreciate":
		return EmotionGrateful
	default:
		return EmotionHappy
	}
}

func negativeEmotion(keyword string) Emotion {
	switch keyword {
	case "confused", "unclear":
		return EmotionConfused
	case "frustrated", "angry", "upset":
		return EmotionFrustrated
	case "worried", "nervous", "anxious":
		return EmotionAnxious
	default:
		return EmotionUnhappy
	}
}

// Analyzer scores messages. It holds no per-conversation state.
type Analyzer struct {
	lexicon map[string]lexiconEntry
	rules   []keywordRule
}

// NewAnalyzer creates an analyzer with the built-in lexicon and keyword sets
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		lexicon: defaultLexicon,
		rules: []keywordRule{
			{positiveKeywords, positiveEmotion},
			{negativeKeywords, negativeEmotion},
			{uncertaintyKeywords, func(string) Emotion { return EmotionUncertain }},
		},
	}
}

// neutralSample is returned for empty input
func neutralSample() Sample {
	return Sample{Label: LabelNeutral, Emotions: []Emotion{}, Confidence: 0.5}
}

// Analyze scores text. Empty or whitespace-only text yields a neutral sample.
func (a *Analyzer) Analyze(text string) Sample {
	if strings.TrimSpace(text) == "" {
		return neutralSample()
	}

	lower := strings.ToLower(text)
	polarity, subjectivity := a.score(lower)
	emotions := a.detectEmotions(lower)
	label := classify(polarity, emotions)

	return Sample{
		Polarity:     round2(polarity),
		Subjectivity: round2(subjectivity),
		Label:        label,
		Emotions:     emotions,
		Confidence:   confidence(polarity, subjectivity, emotions),
		NeedsSupport: needsSupport(label, emotions),
	}
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// score averages lexicon hits, applying intensifiers and negation
func (a *Analyzer) score(lower string) (float64, float64) {
	tokens := tokenize(lower)
	var polaritySum, subjectivitySum float64
	hits := 0

	for i, token := range tokens {
		entry, ok := a.lexicon[token]
		if !ok {
			continue
		}
		p, s := entry.polarity, entry.subjectivity

		if i > 0 {
			if factor, ok := intensifiers[tokens[i-1]]; ok {
				p = clamp(p*factor, -1, 1)
				s = clamp(s*factor, 0, 1)
			}
		}
		for j := max(0, i-negationWindow); j < i; j++ {
			if negations[tokens[j]] {
				p *= negationFactor
				break
			}
		}

		polaritySum += p
		subjectivitySum += s
		hits++
	}

	if hits == 0 {
		return 0, 0
	}
	return clamp(polaritySum/float64(hits), -1, 1), clamp(subjectivitySum/float64(hits), 0, 1)
}

// detectEmotions maps the first substring hit of each keyword set to an emotion
func (a *Analyzer) detectEmotions(lower string) []Emotion {
	emotions := []Emotion{}
	for _, rule := range a.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				emotion := rule.emotion(keyword)
				if !slices.Contains(emotions, emotion) {
					emotions = append(emotions, emotion)
				}
				break
			}
		}
	}
	slices.Sort(emotions)
	return emotions
}

func classify(polarity float64, emotions []Emotion) Label {
	has := func(e Emotion) bool { return slices.Contains(emotions, e) }

	switch {
	case has(EmotionFrustrated) || has(EmotionAngry):
		return LabelNegative
	case has(EmotionConfused) || has(EmotionUncertain):
		return LabelUncertain
	case has(EmotionExcited) || has(EmotionHappy):
		return LabelPositive
	}

	switch {
	case polarity >= 0.3:
		return LabelPositive
	case polarity <= -0.3:
		return LabelNegative
	case polarity >= -0.1 && polarity <= 0.1:
		return LabelNeutral
	case polarity > 0:
		return LabelSlightlyPositive
	default:
		return LabelSlightlyNegative
	}
}

func confidence(polarity, subjectivity float64, emotions []Emotion) float64 {
	c := 0.5
	switch abs := math.Abs(polarity); {
	case abs > 0.5:
		c += 0.3
	case abs > 0.3:
		c += 0.2
	}
	if len(emotions) > 0 {
		c += 0.2
		if subjectivity > 0.6 {
			c += 0.1
		}
	}
	return round2(math.Min(c, 1.0))
}

var supportEmotions = []Emotion{EmotionFrustrated, EmotionConfused, EmotionAnxious, EmotionUnhappy}

func needsSupport(label Label, emotions []Emotion) bool {
	if label == LabelNegative || label == LabelSlightlyNegative {
		return true
	}
	for _, e := range emotions {
		if slices.Contains(supportEmotions, e) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
