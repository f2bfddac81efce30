package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"
)

const defaultHealthCheckTimeout = 15 * time.Second

// healthCheckTimeout returns the configured health check timeout
func (s *Server) healthCheckTimeout() time.Duration {
	if s.AppConfig != nil && s.AppConfig.Observability.HealthCheck.Timeout > 0 {
		return s.AppConfig.Observability.HealthCheck.Timeout
	}
	return defaultHealthCheckTimeout
}

// healthHandler reports service health including the generation model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":   "healthy",
		"service":  "talentscout",
		"version":  s.Version,
		"sessions": s.Registry.Len(),
	}

	overallHealthy := true
	if s.AI != nil {
		timeout := s.healthCheckTimeout()
		if s.AppConfig != nil && s.AppConfig.Observability.HealthCheck.AIModelCheckTimeout > 0 {
			timeout = s.AppConfig.Observability.HealthCheck.AIModelCheckTimeout
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		modelInfo := s.AI.GetModelInfo(ctx)
		response["ai_model"] = modelInfo
		response["circuit_breakers"] = s.AI.CircuitBreakerStats()
		if modelInfo == nil || !modelInfo.Available {
			overallHealthy = false
		}
	}

	if s.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.healthCheckTimeout())
		defer cancel()
		if _, err := s.Store.Statistics(ctx); err != nil {
			response["storage"] = map[string]any{"available": false, "error": err.Error()}
			overallHealthy = false
		} else {
			response["storage"] = map[string]any{"available": true, "backend": s.storageBackend()}
		}
	}

	status := http.StatusOK
	if !overallHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

func (s *Server) storageBackend() string {
	if s.AppConfig == nil || s.AppConfig.Storage.Backend == "" {
		return "json"
	}
	return s.AppConfig.Storage.Backend
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "talentscout",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"active_sessions":        s.Registry.Len(),
			"session_idle_ttl":       s.SessionIdleTTL.String(),
			"api_keys_configured":    s.apiKeyCount(),
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
