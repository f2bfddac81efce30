package sentiment

import (
	"math"
	"slices"
	"strings"
	"testing"
)

func TestAnalyzeEmptyIsNeutral(t *testing.T) {
	s := NewAnalyzer().Analyze("   ")
	if s.Label != LabelNeutral || s.NeedsSupport || len(s.Emotions) != 0 {
		t.Errorf("Expected neutral sample, got %+v", s)
	}
	if s.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %v", s.Confidence)
	}
}

func TestAnalyzeLabelsAndEmotions(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantLabel    Label
		wantEmotions []Emotion
		wantSupport  bool
	}{
		{"confusion", "I am really confused about this question", LabelUncertain, []Emotion{EmotionConfused, EmotionUncertain}, true},
		{"frustration", "I am so frustrated with this", LabelNegative, []Emotion{EmotionFrustrated}, true},
		{"nerves", "I'm a bit nervous honestly", LabelSlightlyNegative, []Emotion{EmotionAnxious}, true},
		{"gratitude and praise", "This is great, thanks!", LabelPositive, []Emotion{EmotionHappy}, false},
		{"thanks only", "Thanks for asking", LabelSlightlyPositive, []Emotion{EmotionGrateful}, false},
		{"lexicon only positive", "The weather is fine", LabelPositive, []Emotion{}, false},
		{"slightly positive", "slightly interesting", LabelSlightlyPositive, []Emotion{}, false},
		{"no signal", "I use Python daily", LabelNeutral, []Emotion{}, false},
	}

	analyzer := NewAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := analyzer.Analyze(tt.text)
			if s.Label != tt.wantLabel {
				t.Errorf("Expected label %s, got %s (polarity %v)", tt.wantLabel, s.Label, s.Polarity)
			}
			if !slices.Equal(s.Emotions, tt.wantEmotions) {
				t.Errorf("Expected emotions %v, got %v", tt.wantEmotions, s.Emotions)
			}
			if s.NeedsSupport != tt.wantSupport {
				t.Errorf("Expected needsSupport %v, got %v", tt.wantSupport, s.NeedsSupport)
			}
			if s.Polarity < -1 || s.Polarity > 1 || s.Subjectivity < 0 || s.Subjectivity > 1 {
				t.Errorf("Scores out of range: %+v", s)
			}
		})
	}
}

func TestNegationFlipsPolarity(t *testing.T) {
	analyzer := NewAnalyzer()
	positive := analyzer.Analyze("that was good")
	negated := analyzer.Analyze("that was not good")

	if positive.Polarity <= 0 {
		t.Errorf("Expected positive polarity, got %v", positive.Polarity)
	}
	if negated.Polarity >= 0 {
		t.Errorf("Expected negated polarity below zero, got %v", negated.Polarity)
	}
}

func TestConfidence(t *testing.T) {
	s := NewAnalyzer().Analyze("This is great, thanks!")
	if math.Abs(s.Confidence-0.9) > 1e-9 {
		t.Errorf("Expected confidence 0.9, got %v", s.Confidence)
	}

	if got := confidence(0.8, 0.9, []Emotion{EmotionHappy}); got != 1.0 {
		t.Errorf("Expected confidence capped at 1.0, got %v", got)
	}
	if got := confidence(0.0, 0.0, nil); got != 0.5 {
		t.Errorf("Expected base confidence 0.5, got %v", got)
	}
}

func TestAdjustTone(t *testing.T) {
	analyzer := NewAnalyzer()
	tests := []struct {
		name       string
		input      string
		message    string
		wantPrefix string
	}{
		{"confused", "I am confused", "Next question.", "No problem, let me clarify. "},
		{"frustrated", "this is frustrating and I am upset", "Next question.", "I understand this can be frustrating. "},
		{"anxious", "I am worried", "Next question.", "There's no need to worry! "},
		{"generic negative", "this is terrible", "Next question.", "I understand this might be challenging. "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustTone(tt.message, analyzer.Analyze(tt.input))
			if got != tt.wantPrefix+tt.message {
				t.Errorf("Expected '%s', got '%s'", tt.wantPrefix+tt.message, got)
			}
		})
	}

	confused := analyzer.Analyze("I am confused")
	existing := "No worries at all! Let's move on."
	if got := AdjustTone(existing, confused); got != existing {
		t.Errorf("Expected message with supportive wording unchanged, got '%s'", got)
	}

	calm := analyzer.Analyze("I use Go and Rust")
	if got := AdjustTone("Great.", calm); got != "Great." {
		t.Errorf("Expected unchanged message when no support needed, got '%s'", got)
	}

	// exactly one prefix
	once := AdjustTone("Next.", confused)
	if strings.Count(once, "let me clarify") != 1 {
		t.Errorf("Expected a single prefix, got '%s'", once)
	}
}

func TestTrackerTrend(t *testing.T) {
	tracker := NewTracker()
	if tracker.Trend() != TrendStable {
		t.Errorf("Expected stable with no history, got %s", tracker.Trend())
	}

	steps := []struct {
		polarity float64
		want     Trend
	}{
		{0.1, TrendStable},
		{-0.3, TrendDeclining},
		{0.5, TrendImproving},
		{0.55, TrendStable},
	}
	for _, step := range steps {
		tracker.Record(Sample{Polarity: step.polarity})
		if got := tracker.Trend(); got != step.want {
			t.Errorf("After %v expected %s, got %s", step.polarity, step.want, got)
		}
	}
	if tracker.Len() != 4 {
		t.Errorf("Expected 4 samples, got %d", tracker.Len())
	}
}

func TestTrackerAverage(t *testing.T) {
	tracker := NewTracker()
	if avg := tracker.Average(); avg.MessageCount != 0 || avg.Label != LabelNeutral {
		t.Errorf("Expected empty neutral average, got %+v", avg)
	}

	tracker.Record(Sample{Polarity: 0.2, Subjectivity: 0.4})
	tracker.Record(Sample{Polarity: 0.4, Subjectivity: 0.6})
	avg := tracker.Average()
	if avg.Polarity != 0.3 || avg.Subjectivity != 0.5 {
		t.Errorf("Expected 0.3/0.5, got %v/%v", avg.Polarity, avg.Subjectivity)
	}
	if avg.Label != LabelPositive || avg.MessageCount != 2 {
		t.Errorf("Expected positive over 2 messages, got %+v", avg)
	}
}

func TestEmotionSummary(t *testing.T) {
	tracker := NewTracker()
	if got := tracker.EmotionSummary(); got != "No emotions detected yet" {
		t.Errorf("Unexpected summary: %s", got)
	}

	tracker.Record(Sample{Emotions: []Emotion{}})
	if got := tracker.EmotionSummary(); got != "Neutral conversation tone" {
		t.Errorf("Unexpected summary: %s", got)
	}

	tracker.Record(Sample{Emotions: []Emotion{EmotionUncertain, EmotionConfused}})
	tracker.Record(Sample{Emotions: []Emotion{EmotionAnxious}})
	tracker.Record(Sample{Emotions: []Emotion{EmotionAnxious, EmotionUncertain}})
	if got := tracker.EmotionSummary(); got != "Predominantly anxious (2 occurrences)" {
		t.Errorf("Expected alphabetical tie-break, got %s", got)
	}
}
