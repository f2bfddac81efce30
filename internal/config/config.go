package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"talentscout/internal/prompts"
	"talentscout/internal/validation"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (TALENTSCOUT_AI_APIKEY, then GEMINI_API_KEY / GROQ_API_KEY)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Interview     InterviewConfig     `mapstructure:"interview"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Prompts       PromptsConfig       `mapstructure:"prompts"`
}

// AIConfig holds generation service configuration
type AIConfig struct {
	Provider       string               `mapstructure:"provider"`
	Model          string               `mapstructure:"model"`
	BaseURL        string               `mapstructure:"baseURL"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	APIKey         string               `mapstructure:"apiKey"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	Temperature    float32              `mapstructure:"temperature"`
	MaxTokens      int                  `mapstructure:"maxTokens"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// InterviewConfig holds stage machine configuration
type InterviewConfig struct {
	DefaultLanguage  string `mapstructure:"defaultLanguage"`
	MaxContextLength int    `mapstructure:"maxContextLength"`
	ExitMatch        string `mapstructure:"exitMatch"`
	// ResponseRetries enables the bounded retry policy for generated replies (0 disables it)
	ResponseRetries int           `mapstructure:"responseRetries"`
	RetryBackoff    time.Duration `mapstructure:"retryBackoff"`
}

// StorageConfig holds candidate persistence configuration
type StorageConfig struct {
	Backend       string         `mapstructure:"backend"` // "json" or "postgres"
	DataFile      string         `mapstructure:"dataFile"`
	TranscriptDir string         `mapstructure:"transcriptDir"`
	Postgres      PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds the connection settings for the postgres backend
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"maxConns"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`

	MaxRequestSize int64         `mapstructure:"maxRequestSize"`
	SessionIdleTTL time.Duration `mapstructure:"sessionIdleTTL"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int  `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int  `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
}

// PromptsConfig points at files whose content replaces the built-in prompt templates
type PromptsConfig struct {
	SystemFile    string        `mapstructure:"systemFile"`
	GreetingFile  string        `mapstructure:"greetingFile"`
	ClosingFile   string        `mapstructure:"closingFile"`
	Watch         bool          `mapstructure:"watch"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
	TrackModelInfo  bool `mapstructure:"trackModelInfo"`
}

// BusinessMetricsConfig holds interview metrics configuration
type BusinessMetricsConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	TrackInterviews      bool `mapstructure:"trackInterviews"`
	TrackValidation      bool `mapstructure:"trackValidation"`
	TrackParseFallbacks  bool `mapstructure:"trackParseFallbacks"`
	TrackPersistenceWarn bool `mapstructure:"trackPersistenceWarn"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix("TALENTSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'TALENTSCOUT'")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/talentscout/")
	v.AddConfigPath("$HOME/.talentscout")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/talentscout/, $HOME/.talentscout, .")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	return unmarshalConfig(v, configFileUsed)
}

func unmarshalConfig(v *viper.Viper, configFileUsed string) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	config.logConfigurationSources(configFileUsed)

	if err := config.Prompts.validateFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid.
// The AI API key is checked separately by ValidateAI so commands that never
// generate text (candidates, version) run without one.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini, ProviderGroq:
	default:
		return fmt.Errorf("unsupported AI provider: %s (must be '%s' or '%s')", c.AI.Provider, ProviderGemini, ProviderGroq)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI temperature must be between 0 and 2, got %v", c.AI.Temperature)
	}

	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("AI maxTokens must be positive")
	}

	if c.Interview.MaxContextLength <= 0 {
		return fmt.Errorf("interview maxContextLength must be positive")
	}

	if _, ok := prompts.ParseLanguage(c.Interview.DefaultLanguage); !ok {
		return fmt.Errorf("unsupported default language: %s", c.Interview.DefaultLanguage)
	}

	if _, err := validation.ParseExitMatchMode(c.Interview.ExitMatch); err != nil {
		return err
	}

	if c.Interview.ResponseRetries < 0 {
		return fmt.Errorf("interview responseRetries cannot be negative")
	}

	switch c.Storage.Backend {
	case StorageJSON:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("storage dataFile is required for the json backend")
		}
	case StoragePostgres:
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage postgres dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s (must be '%s' or '%s')", c.Storage.Backend, StorageJSON, StoragePostgres)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}

// ValidateAI checks the settings needed to reach the generation API
func (c *Config) ValidateAI() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("AI API key is required (set TALENTSCOUT_AI_APIKEY or %s)", providerKeyEnv(c.AI.Provider))
	}
	return nil
}

// Storage backends
const (
	StorageJSON     = "json"
	StoragePostgres = "postgres"
)
