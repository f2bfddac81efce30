package server

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"talentscout/internal/ai"
	"talentscout/internal/config"
	tsErrors "talentscout/internal/errors"
	"talentscout/internal/interview"
	"talentscout/internal/storage"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ModelChecker reports generation model health
type ModelChecker interface {
	GetModelInfo(ctx context.Context) *ai.ModelInfo
	CircuitBreakerStats() map[string]any
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Interview collaborators
	Engine   *interview.Engine
	Registry *interview.Registry
	Store    storage.Store
	AI       ModelChecker

	// API Authentication, replaced when Vault rotates the keys
	apiKeysMu sync.RWMutex
	apiKeys   map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Idle sessions older than this are pruned (0 keeps them forever)
	SessionIdleTTL time.Duration

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *tsErrors.Logger

	// out receives the startup banner
	out io.Writer
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	SessionIdleTTL time.Duration
	RateLimit      *config.RateLimitConfig
}

// Dependencies are the interview components served over HTTP
type Dependencies struct {
	Engine   *interview.Engine
	Registry *interview.Registry
	AI       ModelChecker
}

// ServerConfigFrom converts the server config section
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	rateLimit := cfg.Server.RateLimit
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		SessionIdleTTL: cfg.Server.SessionIdleTTL,
		RateLimit:      &rateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Dependencies, logger *tsErrors.Logger) *Server {
	if logger == nil {
		logger = tsErrors.NewNopLogger()
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Engine:         deps.Engine,
		Registry:       deps.Registry,
		AI:             deps.AI,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		SessionIdleTTL: cfg.SessionIdleTTL,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		out:            os.Stdout,
	}
	if deps.Engine != nil {
		s.Store = deps.Engine.Store()
	}
	s.SetAPIKeys(cfg.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys
func (s *Server) SetAPIKeys(keys []string) {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	s.apiKeysMu.Lock()
	s.apiKeys = apiKeyMap
	s.apiKeysMu.Unlock()
}

func (s *Server) apiKeyCount() int {
	s.apiKeysMu.RLock()
	defer s.apiKeysMu.RUnlock()
	return len(s.apiKeys)
}

func (s *Server) validAPIKey(key string) bool {
	s.apiKeysMu.RLock()
	defer s.apiKeysMu.RUnlock()
	return s.apiKeys[key]
}
