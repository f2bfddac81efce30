package sentiment

import (
	"fmt"
	"sort"
)

// Trend describes the direction of recent polarity
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const trendThreshold = 0.2

// Average summarises a conversation's samples
type Average struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Label        Label   `json:"label"`
	MessageCount int     `json:"messageCount"`
}

// Tracker is the append-only sample history of one conversation.
// It is not safe for concurrent writers; a session has a single writer.
type Tracker struct {
	samples []Sample
}

// NewTracker creates an empty history
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record appends a sample
func (t *Tracker) Record(s Sample) {
	t.samples = append(t.samples, s)
}

// Samples returns a copy of the history
func (t *Tracker) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// Len returns the number of recorded samples
func (t *Tracker) Len() int {
	return len(t.samples)
}

// Trend compares the two most recent polarities
func (t *Tracker) Trend() Trend {
	n := len(t.samples)
	if n < 2 {
		return TrendStable
	}
	last, prev := t.samples[n-1].Polarity, t.samples[n-2].Polarity
	switch {
	case last > prev+trendThreshold:
		return TrendImproving
	case last < prev-trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Average returns the mean polarity and subjectivity, labelled by polarity alone
func (t *Tracker) Average() Average {
	if len(t.samples) == 0 {
		return Average{Label: LabelNeutral}
	}
	var p, s float64
	for _, sample := range t.samples {
		p += sample.Polarity
		s += sample.Subjectivity
	}
	n := float64(len(t.samples))
	return Average{
		Polarity:     round2(p / n),
		Subjectivity: round2(s / n),
		Label:        classify(p/n, nil),
		MessageCount: len(t.samples),
	}
}

// EmotionSummary names the most frequent emotion, breaking ties alphabetically
func (t *Tracker) EmotionSummary() string {
	if len(t.samples) == 0 {
		return "No emotions detected yet"
	}

	counts := map[Emotion]int{}
	for _, sample := range t.samples {
		for _, e := range sample.Emotions {
			counts[e]++
		}
	}
	if len(counts) == 0 {
		return "Neutral conversation tone"
	}

	emotions := make([]Emotion, 0, len(counts))
	for e := range counts {
		emotions = append(emotions, e)
	}
	sort.Slice(emotions, func(i, j int) bool {
		if counts[emotions[i]] != counts[emotions[j]] {
			return counts[emotions[i]] > counts[emotions[j]]
		}
		return emotions[i] < emotions[j]
	})

	top := emotions[0]
	return fmt.Sprintf("Predominantly %s (%d occurrences)", top, counts[top])
}
