package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string
	LogLevel    string
	FrontendURL string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// LLM
	LLMProvider    string
	LLMModel       string
	LLMTemperature float32
	LLMMaxTokens   int // 0 leaves the output cap to the provider
	LLMTimeout     time.Duration
	GeminiAPIKey   string
	OpenAIKey      string
	GroqAPIKey     string
	DeepSeekAPIKey string
	ClaudeAPIKey   string

	// Assistant sessions
	MaxContextChars       int
	SessionIdleTTL        time.Duration
	SessionReaperSchedule string

	// Messaging (optional)
	RedisURL  string
	NATSURL   string
	NATSToken string

	// Rate limit
	RateLimitMax    int
	RateLimitWindow time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        envOr("PORT", "8080"),
		Env:         envOr("ENV", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		FrontendURL: os.Getenv("FRONTEND_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  envDuration("TOKEN_TTL", 24*time.Hour),

		LLMProvider:    strings.ToLower(envOr("LLM_PROVIDER", "gemini")),
		LLMModel:       os.Getenv("LLM_MODEL"),
		LLMTemperature: float32(envFloat("LLM_TEMPERATURE", 0.7)),
		LLMMaxTokens:   envInt("LLM_MAX_TOKENS", 0),
		LLMTimeout:     envDuration("LLM_TIMEOUT", 60*time.Second),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
		DeepSeekAPIKey: os.Getenv("DEEPSEEK_API_KEY"),
		ClaudeAPIKey:   os.Getenv("CLAUDE_API_KEY"),

		MaxContextChars:       envInt("ASSISTANT_MAX_CONTEXT_CHARS", 0),
		SessionIdleTTL:        envDuration("SESSION_IDLE_TTL", 30*time.Minute),
		SessionReaperSchedule: envOr("SESSION_REAPER_SCHEDULE", "@every 5m"),

		RedisURL:  os.Getenv("REDIS_URL"),
		NATSURL:   os.Getenv("NATS_URL"),
		NATSToken: os.Getenv("NATS_TOKEN"),

		RateLimitMax:    envInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
	}

	if cfg.JWTSecret == "" && cfg.Env == "development" {
		// Only acceptable for local development
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("⚠️ invalid integer, using default")
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("⚠️ invalid number, using default")
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("⚠️ invalid duration, using default")
		return fallback
	}
	return d
}
