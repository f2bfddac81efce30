package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"talentscout/internal/ai"
	"talentscout/internal/config"
	tsErrors "talentscout/internal/errors"
	"talentscout/internal/interview"
	"talentscout/internal/observability"
	"talentscout/internal/prompts"
	"talentscout/internal/storage"
	"talentscout/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGreeting = "Welcome to TalentScout! What is your full name?"

// stubGenerator returns canned text per prompt kind
type stubGenerator struct {
	available bool
}

func (g *stubGenerator) Generate(_ context.Context, messages []types.Message, _ ai.GenerateOptions) (string, *ai.TokenUsage, error) {
	last := messages[len(messages)-1].Content
	switch {
	case strings.Contains(last, "numbered list"):
		return "1. What is a goroutine?\n2. What is a channel?\n3. What is a mutex?", nil, nil
	case strings.Contains(last, "closing message"):
		return "Thanks for your time.", nil, nil
	default:
		return testGreeting, nil, nil
	}
}

func (g *stubGenerator) GetModelInfo(context.Context) *ai.ModelInfo {
	info := &ai.ModelInfo{Provider: "stub", Name: "stub-model", Available: g.available}
	if !g.available {
		info.Error = "model unavailable"
	}
	return info
}

func (g *stubGenerator) CircuitBreakerStats() map[string]any {
	return map[string]any{"state": "closed"}
}

func (g *stubGenerator) Close() error { return nil }

type testServer struct {
	server *Server
	http   *httptest.Server
	dir    string
	store  storage.Store
}

type serverOption func(*config.Config, *ServerConfig)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	dir := t.TempDir()
	logger := tsErrors.NewNopLogger()

	store, err := storage.NewJSONStore(filepath.Join(dir, "candidates.json"), logger)
	require.NoError(t, err)

	gen := &stubGenerator{available: true}
	engine := interview.NewEngine(interview.Dependencies{
		Generator: gen,
		Prompts:   prompts.NewBuilder(),
		Store:     store,
		Exporter:  storage.NewTranscriptExporter(dir),
	}, interview.Settings{ContextCapacity: 10}, logger)

	appCfg := &config.Config{}
	appCfg.Storage.Backend = storage.BackendJSON
	cfg := ServerConfig{Host: "127.0.0.1", Port: "0", Version: "test", MaxRequestSize: 4096}
	for _, opt := range opts {
		opt(appCfg, &cfg)
	}

	srv := NewServer(appCfg, cfg, Dependencies{
		Engine:   engine,
		Registry: interview.NewRegistry(engine, logger),
		AI:       gen,
	}, logger)

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{}, nil, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler(om))
	t.Cleanup(func() {
		ts.Close()
		if srv.RateLimiter != nil {
			srv.RateLimiter.Close()
		}
	})
	return &testServer{server: srv, http: ts, dir: dir, store: store}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.http.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := ts.http.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/sessions", map[string]any{"greet": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["sessionId"].(string)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/sessions", map[string]any{"language": "Spanish", "greet": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["sessionId"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, testGreeting, body["reply"])
	assert.Equal(t, "info_gathering", body["stage"])

	resp, body = ts.do(t, http.MethodPost, "/sessions/"+id+"/messages", map[string]any{"message": "Ada Lovelace"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, prompts.InfoPrompt(prompts.Spanish, prompts.FieldName), body["reply"])
	assert.Equal(t, "email", body["awaitedField"])
	assert.Equal(t, false, body["complete"])

	resp, body = ts.do(t, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Spanish", body["language"])
	record := body["record"].(map[string]any)
	assert.Equal(t, "Ada Lovelace", record["name"])

	resp, body = ts.do(t, http.MethodPost, "/sessions/"+id+"/transcript", map[string]any{"filename": "ada.txt"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, filepath.Join(ts.dir, "ada.txt"), body["path"])
	_, err := os.Stat(filepath.Join(ts.dir, "ada.txt"))
	assert.NoError(t, err)

	resp, body = ts.do(t, http.MethodPost, "/sessions/"+id+"/messages", map[string]any{"message": "bye"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["complete"])
	assert.Equal(t, "complete", body["stage"])

	resp, body = ts.do(t, http.MethodPost, "/sessions/"+id+"/messages", map[string]any{"message": "hello again"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, tsErrors.ErrCodeSessionComplete, body["code"])

	resp, body = ts.do(t, http.MethodGet, "/candidates/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_candidates"])

	resp, _ = ts.do(t, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, tsErrors.ErrCodeSessionNotFound, body["code"])
}

func TestCreateSessionWithoutBody(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "greeting", body["stage"])
	assert.Nil(t, body["reply"])

	// The first message triggers the greeting
	id := body["sessionId"].(string)
	resp, body = ts.do(t, http.MethodPost, "/sessions/"+id+"/messages", map[string]any{"message": "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testGreeting, body["reply"])
}

func TestRequestValidation(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown language", http.MethodPost, "/sessions", map[string]any{"language": "Klingon"}, http.StatusBadRequest},
		{"empty message", http.MethodPost, "/sessions/" + id + "/messages", map[string]any{"message": ""}, http.StatusBadRequest},
		{"message too long", http.MethodPost, "/sessions/" + id + "/messages", map[string]any{"message": strings.Repeat("a", 4001)}, http.StatusBadRequest},
		{"unknown session", http.MethodPost, "/sessions/nope/messages", map[string]any{"message": "hi"}, http.StatusNotFound},
		{"transcript path", http.MethodPost, "/sessions/" + id + "/transcript", map[string]any{"filename": "../etc/passwd"}, http.StatusBadRequest},
		{"delete unknown", http.MethodDelete, "/sessions/nope", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRequestFormatErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t)

	req, err := http.NewRequest(http.MethodPost, ts.http.URL+"/sessions/"+id+"/messages", strings.NewReader(`{"message":"hi"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	resp, err := ts.http.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPost, ts.http.URL+"/sessions/"+id+"/messages", strings.NewReader(`{"message":`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	resp, err = ts.http.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	big := fmt.Sprintf(`{"message":%q}`, strings.Repeat("x", 5000))
	req, err = http.NewRequest(http.MethodPost, ts.http.URL+"/sessions/"+id+"/messages", strings.NewReader(big))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = ts.http.Client().Do(req)
	require.NoError(t, err)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body.Message, "request body too large")
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t, func(_ *config.Config, cfg *ServerConfig) {
		cfg.APIKeys = []string{"key-one-123456", ""}
	})

	resp, body := ts.do(t, http.MethodPost, "/sessions", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Missing API key", body["error"])

	resp, body = ts.do(t, http.MethodPost, "/sessions", map[string]any{}, "X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid API key", body["error"])

	resp, _ = ts.do(t, http.MethodPost, "/sessions", map[string]any{}, "X-API-Key", "key-one-123456")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/sessions", map[string]any{}, "Authorization", "Bearer key-one-123456")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Health stays open
	resp, _ = ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Rotated keys replace the old ones
	ts.server.SetAPIKeys([]string{"key-two-654321"})
	resp, _ = ts.do(t, http.MethodPost, "/sessions", map[string]any{}, "X-API-Key", "key-one-123456")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPost, "/sessions", map[string]any{}, "X-API-Key", "key-two-654321")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRateLimiting(t *testing.T) {
	ts := newTestServer(t, func(_ *config.Config, cfg *ServerConfig) {
		cfg.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByIP: true}
	})

	resp, _ := ts.do(t, http.MethodPost, "/sessions", map[string]any{})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/sessions", map[string]any{})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Rate limit exceeded", body["error"])

	resp, body = ts.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	limiting := body["rate_limiting"].(map[string]any)
	assert.Equal(t, float64(1), limiting["rejected_requests"])
	assert.Equal(t, float64(1), limiting["active_limiters"])
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
	model := body["ai_model"].(map[string]any)
	assert.Equal(t, true, model["available"])
	storageStatus := body["storage"].(map[string]any)
	assert.Equal(t, "json", storageStatus["backend"])

	ts.server.AI = &stubGenerator{available: false}
	resp, body = ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
}

func TestCandidateStatsWithoutStore(t *testing.T) {
	ts := newTestServer(t)
	ts.server.Store = nil

	resp, _ := ts.do(t, http.MethodGet, "/candidates/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", tsErrors.NewValidationError(tsErrors.ErrCodeSessionNotFound, "x", nil), http.StatusNotFound},
		{"record not found", tsErrors.NewPersistenceError(tsErrors.ErrCodeRecordNotFound, "x", nil), http.StatusNotFound},
		{"session complete", tsErrors.NewValidationError(tsErrors.ErrCodeSessionComplete, "x", nil), http.StatusConflict},
		{"validation", tsErrors.NewValidationError(tsErrors.ErrCodeInvalidRequest, "x", nil), http.StatusBadRequest},
		{"config", tsErrors.NewConfigError(tsErrors.ErrCodeInvalidConfig, "x", nil), http.StatusNotImplemented},
		{"ai", tsErrors.NewAIError(tsErrors.ErrCodeAIServiceFailed, "x", nil), http.StatusBadGateway},
		{"persistence", tsErrors.NewPersistenceError(tsErrors.ErrCodePersistenceFailed, "x", nil), http.StatusInternalServerError},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.7")
	req.Header.Set("X-API-Key", "abcdefghijkl")

	if got := getRateLimitKey(req, true, true); got != "api:abcdefghijkl" {
		t.Errorf("Expected api key, got %s", got)
	}
	if got := getRateLimitKey(req, false, true); got != "ip:203.0.113.7" {
		t.Errorf("Expected forwarded ip, got %s", got)
	}
	if got := getRateLimitKey(req, false, false); got != "" {
		t.Errorf("Expected no key, got %s", got)
	}
	if got := maskRateLimitKey("api:abcdefghijkl"); got != "api:abcdefgh****" {
		t.Errorf("Expected masked key, got %s", got)
	}
}

func TestPruneInterval(t *testing.T) {
	tests := []struct {
		ttl  string
		want string
	}{
		{"2h", "30m0s"},
		{"2m", "1m0s"},
	}
	for _, tt := range tests {
		ttl, err := time.ParseDuration(tt.ttl)
		require.NoError(t, err)
		if got := pruneInterval(ttl).String(); got != tt.want {
			t.Errorf("pruneInterval(%s): expected %s, got %s", tt.ttl, tt.want, got)
		}
	}
}
