package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QAPair records a technical question and the candidate's answer
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CandidateRecord accumulates the details collected in one interview.
// ID and CreatedAt are assigned when the record is persisted.
type CandidateRecord struct {
	ID                  string    `json:"candidateId,omitempty"`
	CreatedAt           time.Time `json:"timestamp,omitempty"`
	Name                string    `json:"name,omitempty"`
	Email               string    `json:"email,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	ExperienceYears     float64   `json:"experience"`
	Position            string    `json:"position,omitempty"`
	Location            string    `json:"location,omitempty"`
	TechStack           []string  `json:"techStack,omitempty"`
	TechnicalQA         []QAPair  `json:"technicalResponses,omitempty"`
	SentimentSummary    string    `json:"sentimentSummary,omitempty"`
	Language            string    `json:"language,omitempty"`
	ConversationHistory []Message `json:"conversationHistory,omitempty"`
	ExitedEarly         bool      `json:"exitedEarly,omitempty"`
}

// CreateSessionRequest starts a new interview session
type CreateSessionRequest struct {
	Language string `json:"language,omitempty" validate:"omitempty,oneof=English Hindi Spanish French German english hindi spanish french german"`
	// Greet asks the server to generate the opening greeting immediately
	Greet bool `json:"greet,omitempty"`
}

// Validate validates the CreateSessionRequest using the validator.
func (r *CreateSessionRequest) Validate() error {
	return validate.Struct(r)
}

// SendMessageRequest carries one candidate message
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// Validate validates the SendMessageRequest using the validator.
func (r *SendMessageRequest) Validate() error {
	return validate.Struct(r)
}

// ExportTranscriptRequest optionally names the transcript file
type ExportTranscriptRequest struct {
	Filename string `json:"filename,omitempty" validate:"omitempty,max=255,excludesall=/\\"`
}

// Validate validates the ExportTranscriptRequest using the validator.
func (r *ExportTranscriptRequest) Validate() error {
	return validate.Struct(r)
}

// CreateSessionResponse is returned when a session is created
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	Stage     string `json:"stage"`
	Reply     string `json:"reply,omitempty"`
}

// ExportTranscriptResponse reports where a transcript was written
type ExportTranscriptResponse struct {
	Path string `json:"path"`
}

var validate = validator.New()
