package interview

import (
	"slices"
	"time"

	"talentscout/internal/conversation"
	"talentscout/internal/prompts"
	"talentscout/internal/sentiment"
	"talentscout/internal/types"
)

// Stage is a state of the interview
type Stage string

const (
	StageGreeting           Stage = "greeting"
	StageInfoGathering      Stage = "info_gathering"
	StageTechStack          Stage = "tech_stack"
	StageTechnicalQuestions Stage = "technical_questions"
	StageClosing            Stage = "closing"
	StageComplete           Stage = "complete"
)

const (
	techStackField       = "tech_stack"
	technicalAssessment  = "technical_assessment"
	requiredFieldsNeeded = 7
)

// Session is the state of one interview. It has exactly one writer at a time;
// the Registry serialises access for concurrent surfaces.
type Session struct {
	ID    string
	Stage Stage
	// AwaitedField is the field expected next during info gathering, empty otherwise
	AwaitedField       prompts.Field
	QuestionIndex      int
	Questions          []string
	TechQuestionsAsked bool
	// OpenQuestion is set when question generation fell back to one open prompt
	OpenQuestion string
	Record       types.CandidateRecord
	Context      *conversation.Manager
	// Transcript keeps every turn; Context only keeps the most recent ones
	Transcript []types.Message
	Language   prompts.Language
	Sentiment  *sentiment.Tracker
	Collected  []string
	Warnings   []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func newSession(id string, lang prompts.Language, systemPrompt string, capacity int) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Stage:     StageGreeting,
		Context:   conversation.NewManager(systemPrompt, capacity),
		Language:  lang,
		Sentiment: sentiment.NewTracker(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Complete reports whether the interview has finished
func (s *Session) Complete() bool {
	return s.Stage == StageComplete
}

func (s *Session) collect(field string) {
	if !slices.Contains(s.Collected, field) {
		s.Collected = append(s.Collected, field)
	}
}

func (s *Session) addTurn(role, content string) {
	s.Context.Add(role, content)
	s.Transcript = append(s.Transcript, types.Message{Role: role, Content: content})
}

// Progress reports how many required fields have been collected
type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Progress counts name, email, phone, experience, position, location and tech
// stack; the technical assessment joins both sides once questions were asked
func (s *Session) Progress() Progress {
	p := Progress{Completed: len(s.Collected), Total: requiredFieldsNeeded}
	if s.TechQuestionsAsked {
		p.Completed++
		p.Total++
	}
	p.Percent = float64(p.Completed) / float64(p.Total) * 100
	return p
}

// Snapshot is a read-only view of a session for API responses
type Snapshot struct {
	ID             string                `json:"sessionId"`
	Stage          Stage                 `json:"stage"`
	AwaitedField   prompts.Field         `json:"awaitedField,omitempty"`
	Language       prompts.Language      `json:"language"`
	Progress       Progress              `json:"progress"`
	QuestionIndex  int                   `json:"questionIndex"`
	TotalQuestions int                   `json:"totalQuestions"`
	Record         types.CandidateRecord `json:"record"`
	SentimentTrend sentiment.Trend       `json:"sentimentTrend"`
	Sentiment      sentiment.Average     `json:"sentiment"`
	Warnings       []string              `json:"warnings,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// Snapshot copies the externally visible state
func (s *Session) Snapshot() Snapshot {
	record := s.Record
	record.TechStack = slices.Clone(s.Record.TechStack)
	record.TechnicalQA = slices.Clone(s.Record.TechnicalQA)
	record.ConversationHistory = nil

	return Snapshot{
		ID:             s.ID,
		Stage:          s.Stage,
		AwaitedField:   s.AwaitedField,
		Language:       s.Language,
		Progress:       s.Progress(),
		QuestionIndex:  s.QuestionIndex,
		TotalQuestions: len(s.Questions),
		Record:         record,
		SentimentTrend: s.Sentiment.Trend(),
		Sentiment:      s.Sentiment.Average(),
		Warnings:       slices.Clone(s.Warnings),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
