package server

import (
	"context"
	"encoding/json"
	"net/http"

	tsErrors "talentscout/internal/errors"
	"talentscout/internal/interview"
	"talentscout/internal/observability"
	"talentscout/internal/prompts"
	"talentscout/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createSessionHandler opens a session, optionally generating the greeting straight away
func (s *Server) createSessionHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("talentscout.api").Start(r.Context(), "api.create_session")
		defer span.End()

		var req types.CreateSessionRequest
		if r.ContentLength != 0 {
			if err := parseJSONRequest(r, &req); err != nil {
				span.RecordError(err)
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
				return
			}
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		var lang prompts.Language
		if req.Language != "" {
			lang, _ = prompts.ParseLanguage(req.Language)
		}
		session := s.Registry.Create(lang)
		span.SetAttributes(
			attribute.String("session.id", session.ID),
			attribute.String("session.language", string(session.Language)),
		)

		resp := types.CreateSessionResponse{SessionID: session.ID, Stage: string(session.Stage)}
		if req.Greet {
			err := s.Registry.WithSession(session.ID, func(sess *interview.Session) error {
				turn, err := s.Engine.Start(ctx, sess)
				if err != nil {
					return err
				}
				resp.Stage = string(turn.Stage)
				resp.Reply = turn.Reply
				return nil
			})
			if err != nil {
				span.RecordError(err)
				s.writeAppError(w, err)
				return
			}
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

// sendMessageHandler runs one interview turn
func (s *Server) sendMessageHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, span := om.Tracer("talentscout.api").Start(r.Context(), "api.send_message")
		defer span.End()
		span.SetAttributes(attribute.String("session.id", id))

		var req types.SendMessageRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		var turn interview.Turn
		err := s.Registry.WithSession(id, func(sess *interview.Session) error {
			var err error
			turn, err = s.Engine.HandleMessage(ctx, sess, req.Message)
			return err
		})
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.String("interview.stage", string(turn.Stage)),
			attribute.Bool("interview.complete", turn.Complete),
		)
		writeJSON(w, http.StatusOK, turn)
	}
}

// getSessionHandler returns the session snapshot
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// deleteSessionHandler discards a session
func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.Registry.Delete(id) {
		writeErrorResponse(w, "Session not found", id, http.StatusNotFound)
		return
	}
	s.Logger.Info("Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// exportTranscriptHandler writes the session transcript on the server
func (s *Server) exportTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	var req types.ExportTranscriptRequest
	if r.ContentLength != 0 {
		if err := parseJSONRequest(r, &req); err != nil {
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := req.Validate(); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}

	var path string
	err := s.Registry.WithSession(r.PathValue("id"), func(sess *interview.Session) error {
		var err error
		path, err = s.Engine.ExportTranscript(sess, req.Filename)
		return err
	})
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ExportTranscriptResponse{Path: path})
}

// candidateStatsHandler summarises the stored candidates
func (s *Server) candidateStatsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeErrorResponse(w, "Storage unavailable", "no candidate store is configured", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.healthCheckTimeout())
	defer cancel()

	stats, err := s.Store.Statistics(ctx)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeAppError maps an error to its HTTP status
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed")
	}

	resp := ErrorResponse{Error: http.StatusText(status), Message: err.Error(), Code: tsErrors.CodeOf(err)}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		s.Logger.LogError(encErr, "Failed to encode error response")
	}
}

func statusFor(err error) int {
	switch tsErrors.CodeOf(err) {
	case tsErrors.ErrCodeSessionNotFound, tsErrors.ErrCodeRecordNotFound:
		return http.StatusNotFound
	case tsErrors.ErrCodeSessionComplete:
		return http.StatusConflict
	}

	switch {
	case tsErrors.IsType(err, tsErrors.ErrorTypeValidation):
		return http.StatusBadRequest
	case tsErrors.IsType(err, tsErrors.ErrorTypeConfig):
		return http.StatusNotImplemented
	case tsErrors.IsType(err, tsErrors.ErrorTypeAI), tsErrors.IsType(err, tsErrors.ErrorTypeNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
