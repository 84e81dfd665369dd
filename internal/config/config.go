// Package config provides environment configuration for the API server.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	CORSOrigins        []string

	// Booking engine
	CruiseBaseURL   string
	OutboundTimeout time.Duration
	OutboundRPS     float64
	OutboundRetries int

	// Property estimates
	EstimateBaseURL   string
	EstimateAPIKey    string
	EstimateCacheSize int
	EstimateCacheTTL  time.Duration

	// Guest identity
	GuestFirstName    string
	GuestLastName     string
	GuestStreet       string
	GuestZip          string
	GuestState        string
	GuestEmailDomain  string
	GuestGender       string
	GuestPartySize    int
	DefaultEmbarkPort string
	FallbackPhone     string

	// Sessions
	SessionBackend    string
	SessionTTL        time.Duration
	SessionMaxEntries int
	RedisAddr         string
	RedisPassword     string
	RedisDB           int

	// NATS settings
	EventsEnabled bool
	NATSURL       string
	NATSCAFile    string
	NATSCertFile  string
	NATSKeyFile   string
	NATSToken     string

	// JWT settings
	JWTSecret string

	// LLM settings
	AnthropicAPIKey string
	OpenAIAPIKey    string
	DefaultLLM      string
	LLMModel        string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
		CORSOrigins:        getListEnv("CORS_ORIGINS", nil),

		// Booking engine
		CruiseBaseURL:   getEnv("CRUISE_BASE_URL", "https://www.carnival.com"),
		OutboundTimeout: getDurationEnv("OUTBOUND_TIMEOUT", 15*time.Second),
		OutboundRPS:     getFloatEnv("OUTBOUND_RPS", 5),
		OutboundRetries: getIntEnv("OUTBOUND_RETRIES", 2),

		// Property estimates
		EstimateBaseURL:   getEnv("ESTIMATE_BASE_URL", "https://www.zillow.com/webservice"),
		EstimateAPIKey:    getEnv("ESTIMATE_API_KEY", ""),
		EstimateCacheSize: getIntEnv("ESTIMATE_CACHE_SIZE", 256),
		EstimateCacheTTL:  getDurationEnv("ESTIMATE_CACHE_TTL", 24*time.Hour),

		// Guest identity
		GuestFirstName:    getEnv("GUEST_FIRST_NAME", "John"),
		GuestLastName:     getEnv("GUEST_LAST_NAME", "Smith"),
		GuestStreet:       getEnv("GUEST_STREET", "3655 NW 87th Ave"),
		GuestZip:          getEnv("GUEST_ZIP", "33178"),
		GuestState:        getEnv("GUEST_STATE", "FL"),
		GuestEmailDomain:  getEnv("GUEST_EMAIL_DOMAIN", "example.com"),
		GuestGender:       getEnv("GUEST_GENDER", "M"),
		GuestPartySize:    getIntEnv("GUEST_PARTY_SIZE", 2),
		DefaultEmbarkPort: getEnv("DEFAULT_EMBARK_PORT", "MIA"),
		FallbackPhone:     getEnv("FALLBACK_PHONE", "3055595135"),

		// Sessions
		SessionBackend:    getEnv("SESSION_BACKEND", SessionBackendMemory),
		SessionTTL:        getDurationEnv("SESSION_TTL", 30*time.Minute),
		SessionMaxEntries: getIntEnv("SESSION_MAX_ENTRIES", 10000),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getIntEnv("REDIS_DB", 0),

		// NATS
		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),
		NATSURL:       getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:    getEnv("NATS_CA_FILE", ""),
		NATSCertFile:  getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:   getEnv("NATS_KEY_FILE", ""),
		NATSToken:     getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// LLM
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		DefaultLLM:      getEnv("DEFAULT_LLM", "anthropic"),
		LLMModel:        getEnv("LLM_MODEL", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.CruiseBaseURL == "" {
		errs = append(errs, errors.New("CRUISE_BASE_URL is required"))
	}
	if c.EstimateAPIKey == "" {
		errs = append(errs, errors.New("ESTIMATE_API_KEY is required"))
	}
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis session backend"))
		}
	default:
		errs = append(errs, errors.New("SESSION_BACKEND must be memory or redis"))
	}
	if c.GuestPartySize <= 0 {
		errs = append(errs, errors.New("GUEST_PARTY_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
