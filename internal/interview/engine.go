package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talentscout/internal/ai"
	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/prompts"
	"talentscout/internal/sentiment"
	"talentscout/internal/storage"
	"talentscout/internal/types"
	"talentscout/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Settings tunes the stage machine
type Settings struct {
	DefaultLanguage prompts.Language
	ExitMode        validation.ExitMatchMode
	ContextCapacity int
	// ResponseRetries > 0 routes generation through ai.RetryPolicy
	ResponseRetries int
	RetryBackoff    time.Duration
}

// SettingsFromConfig converts the interview config section
func SettingsFromConfig(cfg config.InterviewConfig) (Settings, error) {
	lang, ok := prompts.ParseLanguage(cfg.DefaultLanguage)
	if !ok {
		return Settings{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported interview language: %s", cfg.DefaultLanguage), nil)
	}
	mode, err := validation.ParseExitMatchMode(cfg.ExitMatch)
	if err != nil {
		return Settings{}, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid interview.exitMatch", err)
	}
	return Settings{
		DefaultLanguage: lang,
		ExitMode:        mode,
		ContextCapacity: cfg.MaxContextLength,
		ResponseRetries: cfg.ResponseRetries,
		RetryBackoff:    cfg.RetryBackoff,
	}, nil
}

// Dependencies are the collaborators of the engine. Store, Exporter, Events
// and Metrics are optional.
type Dependencies struct {
	Generator ai.Generator
	Prompts   *prompts.Builder
	Store     storage.Store
	Exporter  *storage.TranscriptExporter
	Events    chan<- Event
	Metrics   Metrics
}

// Engine drives sessions through the interview stages
type Engine struct {
	gen      ai.Generator
	prompts  *prompts.Builder
	store    storage.Store
	exporter *storage.TranscriptExporter
	analyzer *sentiment.Analyzer
	settings Settings
	retry    *ai.RetryPolicy
	events   chan<- Event
	metrics  Metrics
	logger   *errors.Logger
}

// NewEngine creates an engine; it holds no per-session state
func NewEngine(deps Dependencies, settings Settings, logger *errors.Logger) *Engine {
	if deps.Prompts == nil {
		deps.Prompts = prompts.NewBuilder()
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	if settings.DefaultLanguage == "" {
		settings.DefaultLanguage = prompts.DefaultLanguage
	}
	if settings.ExitMode == "" {
		settings.ExitMode = validation.ExitMatchToken
	}

	e := &Engine{
		gen:      deps.Generator,
		prompts:  deps.Prompts,
		store:    deps.Store,
		exporter: deps.Exporter,
		analyzer: sentiment.NewAnalyzer(),
		settings: settings,
		events:   deps.Events,
		metrics:  deps.Metrics,
		logger:   logger,
	}
	if settings.ResponseRetries > 0 {
		policy := ai.DefaultRetryPolicy(settings.ResponseRetries, settings.RetryBackoff)
		e.retry = &policy
	}
	return e
}

// Prompts returns the builder whose templates may be hot-reloaded
func (e *Engine) Prompts() *prompts.Builder {
	return e.prompts
}

// Store returns the configured persistence adapter, which may be nil
func (e *Engine) Store() storage.Store {
	return e.store
}

// NewSession starts a session in the greeting stage. An empty language uses the default.
func (e *Engine) NewSession(lang prompts.Language) *Session {
	if lang == "" {
		lang = e.settings.DefaultLanguage
	}
	return newSession(uuid.NewString(), lang, e.prompts.SystemPrompt(), e.settings.ContextCapacity)
}

// Turn is the engine's answer to one candidate message
type Turn struct {
	Reply        string                  `json:"reply"`
	Stage        Stage                   `json:"stage"`
	AwaitedField prompts.Field           `json:"awaitedField,omitempty"`
	Progress     Progress                `json:"progress"`
	Sample       *sentiment.Sample       `json:"sentiment,omitempty"`
	Suggestions  []validation.Suggestion `json:"suggestions,omitempty"`
	Warnings     []string                `json:"warnings,omitempty"`
	Complete     bool                    `json:"complete"`
}

// Start emits the generated greeting without waiting for a first message
func (e *Engine) Start(ctx context.Context, s *Session) (Turn, error) {
	if s.Stage != StageGreeting {
		return Turn{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("session already started (stage %s)", s.Stage), nil)
	}

	ctx, span := otel.Tracer("talentscout.interview").Start(ctx, "interview.start")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", s.ID))

	s.Context.SetSystemPrompt(e.prompts.SystemPrompt())
	reply := e.greet(ctx, s)
	s.addTurn(types.RoleAssistant, reply)
	s.UpdatedAt = time.Now()
	return e.turn(s, reply, nil, nil), nil
}

// HandleMessage processes one candidate message and returns the reply
func (e *Engine) HandleMessage(ctx context.Context, s *Session, input string) (Turn, error) {
	if s.Stage == StageComplete {
		return Turn{}, errors.NewValidationError(errors.ErrCodeSessionComplete,
			"interview is complete; start a new session", nil).WithContext("session_id", s.ID)
	}

	ctx, span := otel.Tracer("talentscout.interview").Start(ctx, "interview.turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("interview.stage", string(s.Stage)),
	)

	input = validation.SanitizeInput(input)
	s.Context.SetSystemPrompt(e.prompts.SystemPrompt())
	startStage := s.Stage

	var (
		reply       string
		sample      *sentiment.Sample
		suggestions []validation.Suggestion
	)

	if validation.IsExitCommand(input, e.exitModeFor(s.Stage)) {
		s.addTurn(types.RoleUser, input)
		s.Record.ExitedEarly = true
		s.Stage = StageClosing
		reply = exitReply
	} else {
		analysed := e.analyzer.Analyze(input)
		sample = &analysed
		s.Sentiment.Record(analysed)
		s.addTurn(types.RoleUser, input)
		reply, suggestions = e.dispatch(ctx, s, input)
	}

	if s.Stage == StageClosing {
		reply = joinReplies(reply, e.closingText(ctx, s))
	}
	if sample != nil && sample.NeedsSupport {
		reply = sentiment.AdjustTone(reply, *sample)
	}
	s.addTurn(types.RoleAssistant, reply)

	if s.Stage == StageClosing {
		e.finalize(ctx, s)
	}
	if s.Stage != startStage {
		e.emit(s, Event{Type: EventStageChanged, Detail: fmt.Sprintf("%s -> %s", startStage, s.Stage)})
	}

	s.UpdatedAt = time.Now()
	span.SetAttributes(attribute.String("interview.next_stage", string(s.Stage)))
	return e.turn(s, reply, sample, suggestions), nil
}

func (e *Engine) dispatch(ctx context.Context, s *Session, input string) (string, []validation.Suggestion) {
	switch s.Stage {
	case StageGreeting:
		return e.greet(ctx, s), nil
	case StageInfoGathering:
		return e.gatherInfo(ctx, s, input), nil
	case StageTechStack:
		return e.collectTechStack(ctx, s, input)
	case StageTechnicalQuestions:
		return e.recordAnswer(s, input), nil
	case StageClosing:
		// closing text is added by the caller
		return "", nil
	default:
		return unknownStage, nil
	}
}

func (e *Engine) greet(ctx context.Context, s *Session) string {
	messages := append(s.Context.MessagesForAPI(), types.Message{
		Role:    types.RoleUser,
		Content: e.prompts.GreetingPrompt(s.Language),
	})
	reply := e.generate(ctx, s, "greeting", messages)

	s.Stage = StageInfoGathering
	s.AwaitedField = prompts.FieldName
	e.metrics.InterviewStarted(ctx)
	e.emit(s, Event{Type: EventStarted})

	if reply.Failed() || reply.Text == "" {
		return greetingFallback
	}
	return reply.Text
}

func (e *Engine) gatherInfo(ctx context.Context, s *Session, input string) string {
	field := s.AwaitedField
	var result validation.Result

	switch field {
	case prompts.FieldName:
		result = validation.ValidateName(input)
		if result.Valid {
			s.Record.Name = result.Value
		}
	case prompts.FieldEmail:
		result = validation.ValidateEmail(input)
		if result.Valid {
			s.Record.Email = result.Value
		}
	case prompts.FieldPhone:
		result = validation.ValidatePhone(input)
		if result.Valid {
			s.Record.Phone = result.Value
		}
	case prompts.FieldExperience:
		exp := validation.ValidateExperience(input)
		result = exp.Result
		if result.Valid {
			s.Record.ExperienceYears = exp.Years
		}
	case prompts.FieldPosition:
		result = validation.ValidatePosition(input)
		if result.Valid {
			s.Record.Position = result.Value
		}
	case prompts.FieldLocation:
		result = validation.ValidateLocation(input)
		if result.Valid {
			s.Record.Location = result.Value
		}
	default:
		return rejectionReply(string(field), "")
	}

	if !result.Valid {
		if result.Reason == validation.ReasonGreeting {
			return prompts.GreetingReprompt(s.Language)
		}
		e.reject(ctx, s, string(field), result)
		return rejectionReply(string(field), result.Message)
	}

	s.collect(string(field))
	reply := prompts.InfoPrompt(s.Language, field)
	if next, ok := field.Next(); ok {
		s.AwaitedField = next
	} else {
		s.AwaitedField = ""
		s.Stage = StageTechStack
	}
	return reply
}

func (e *Engine) collectTechStack(ctx context.Context, s *Session, input string) (string, []validation.Suggestion) {
	result := validation.ValidateTechStack(input)
	if !result.Valid {
		e.reject(ctx, s, techStackField, result.Result)
		return rejectionReply(techStackField, result.Message), nil
	}

	s.Record.TechStack = result.Items
	s.collect(techStackField)
	stack := strings.Join(result.Items, ", ")

	messages := []types.Message{
		{Role: types.RoleSystem, Content: e.prompts.SystemPrompt()},
		{Role: types.RoleUser, Content: e.prompts.TechnicalQuestionsPrompt(result.Items, s.Record.ExperienceYears, s.Record.Position, s.Language)},
	}
	reply := e.generate(ctx, s, "technical_questions", messages)
	s.Stage = StageTechnicalQuestions

	var questions []string
	var err error
	if reply.Failed() {
		err = reply.Err
	} else {
		questions, err = prompts.ParseQuestions(reply.Text)
	}
	if err != nil {
		s.TechQuestionsAsked = true
		s.OpenQuestion = openQuestion
		e.logger.Warn("Technical questions unavailable, asking one open question",
			"session_id", s.ID,
			"error_code", errors.CodeOf(err),
			"error", err.Error())
		e.metrics.QuestionParseFallback(ctx)
		e.emit(s, Event{Type: EventQuestionParseFallback, Err: err})
		return openQuestionReply(stack), result.Suggestions
	}

	s.Questions = questions
	s.QuestionIndex = 0
	return firstQuestionReply(stack, len(questions), questions[0]), result.Suggestions
}

func (e *Engine) recordAnswer(s *Session, input string) string {
	if len(s.Questions) == 0 {
		s.Record.TechnicalQA = append(s.Record.TechnicalQA, types.QAPair{Question: s.OpenQuestion, Answer: input})
		s.Stage = StageClosing
		return wrapUpReply
	}

	s.Record.TechnicalQA = append(s.Record.TechnicalQA, types.QAPair{
		Question: s.Questions[s.QuestionIndex],
		Answer:   input,
	})
	s.QuestionIndex++
	if s.QuestionIndex < len(s.Questions) {
		return nextQuestionReply(s.QuestionIndex+1, len(s.Questions), s.Questions[s.QuestionIndex])
	}

	s.TechQuestionsAsked = true
	s.Stage = StageClosing
	return wrapUpReply
}

func (e *Engine) closingText(ctx context.Context, s *Session) string {
	messages := []types.Message{
		{Role: types.RoleSystem, Content: e.prompts.SystemPrompt()},
		{Role: types.RoleUser, Content: e.prompts.ClosingPrompt(s.Record.Name, s.Language)},
	}
	return e.generate(ctx, s, "closing", messages).Text
}

// finalize persists the record and completes the session. A failed save is
// a warning; the collected data stays on the session.
func (e *Engine) finalize(ctx context.Context, s *Session) {
	s.Record.ConversationHistory = s.Context.History()
	s.Record.SentimentSummary = s.Sentiment.EmotionSummary()
	s.Record.Language = string(s.Language)

	if e.store != nil {
		if err := e.store.SaveCandidate(ctx, &s.Record); err != nil {
			e.logger.LogError(err, "Failed to save candidate", "session_id", s.ID)
			s.Warnings = append(s.Warnings, fmt.Sprintf("Candidate data could not be saved: %v", err))
			e.emit(s, Event{Type: EventPersistenceFailed, Err: err})
		} else {
			e.logger.Info("Candidate saved", "session_id", s.ID, "candidate_id", s.Record.ID)
		}
	}

	s.Stage = StageComplete
	s.AwaitedField = ""
	e.metrics.InterviewCompleted(ctx, s.Record.ExitedEarly)
	e.emit(s, Event{Type: EventCompleted, Detail: s.Record.ID})
}

// ExportTranscript writes the full session transcript and returns its path
func (e *Engine) ExportTranscript(s *Session, filename string) (string, error) {
	if e.exporter == nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig, "transcript export is not configured", nil)
	}
	path, err := e.exporter.Export(s.Transcript, &s.Record, filename)
	if err != nil {
		return "", err
	}
	e.logger.Info("Transcript exported", "session_id", s.ID, "path", path)
	return path, nil
}

func (e *Engine) generate(ctx context.Context, s *Session, operation string, messages []types.Message) ai.Reply {
	opts := ai.GenerateOptions{}
	start := time.Now()

	var reply ai.Reply
	if e.retry != nil {
		reply = e.retry.Generate(ctx, e.gen, messages, opts)
	} else {
		reply = ai.Respond(ctx, e.gen, messages, opts)
	}

	var err error
	if reply.Failed() {
		err = reply.Err
		e.logger.LogError(reply.Err, "Generation failed",
			"session_id", s.ID,
			"operation", operation,
			"attempts", reply.Attempts)
		e.emit(s, Event{Type: EventGenerationFailed, Detail: operation, Err: reply.Err})
	}
	e.metrics.GenerationCompleted(ctx, operation, time.Since(start), reply.Usage, err)
	return reply
}

func (e *Engine) reject(ctx context.Context, s *Session, field string, result validation.Result) {
	e.logger.Debug("Input rejected",
		"session_id", s.ID,
		"field", field,
		"reason", string(result.Reason))
	e.metrics.ValidationRejected(ctx, field, string(result.Reason))
	e.emit(s, Event{Type: EventValidationRejected, Detail: field + ": " + string(result.Reason)})
}

func (e *Engine) emit(s *Session, ev Event) {
	if e.events == nil {
		return
	}
	ev.SessionID = s.ID
	ev.Stage = s.Stage
	ev.At = time.Now()
	select {
	case e.events <- ev:
	default:
		e.logger.Debug("Event dropped", "session_id", s.ID, "event", string(ev.Type))
	}
}

func (e *Engine) turn(s *Session, reply string, sample *sentiment.Sample, suggestions []validation.Suggestion) Turn {
	var warnings []string
	if len(s.Warnings) > 0 {
		warnings = append(warnings, s.Warnings...)
	}
	return Turn{
		Reply:        reply,
		Stage:        s.Stage,
		AwaitedField: s.AwaitedField,
		Progress:     s.Progress(),
		Sample:       sample,
		Suggestions:  suggestions,
		Warnings:     warnings,
		Complete:     s.Complete(),
	}
}

// exitModeFor only accepts a bare exit keyword while technical answers are
// being collected
func (e *Engine) exitModeFor(stage Stage) validation.ExitMatchMode {
	if stage == StageTechnicalQuestions {
		return validation.ExitMatchExact
	}
	return e.settings.ExitMode
}
