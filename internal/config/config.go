package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/caarlos0/env/v6"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderOffline = "offline"
)

type Config struct {
	// Server
	Port            string        `env:"PORT"`
	Env             string        `env:"ENV"`
	LogLevel        string        `env:"LOG_LEVEL"`
	FrontendURL     string        `env:"FRONTEND_URL"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// Provider
	Provider        string        `env:"PROVIDER"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT"`

	// Gemini AI
	GeminiAPIKey      string  `env:"GEMINI_API_KEY"`
	GeminiTextModel   string  `env:"GEMINI_TEXT_MODEL"`
	GeminiVisionModel string  `env:"GEMINI_VISION_MODEL"`
	GeminiTemperature float32 `env:"GEMINI_TEMPERATURE"`

	// OpenAI
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL"`

	// Redis, optional
	RedisURL string `env:"REDIS_URL"`

	// Uploads
	PreviewTTL       time.Duration `env:"PREVIEW_TTL"`
	MaxUploadSizeRaw string        `env:"MAX_UPLOAD_SIZE"`
	MaxUploadSize    int64

	// Sessions
	SessionIdleTTL   time.Duration `env:"SESSION_IDLE_TTL"`
	SessionSweepCron string        `env:"SESSION_SWEEP_CRON"`
	SeedWelcome      bool          `env:"SEED_WELCOME"`
}

func Defaults() *Config {
	return &Config{
		Port:              "8080",
		Env:               "development",
		LogLevel:          "info",
		FrontendURL:       "http://localhost:3000",
		WriteTimeout:      90 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		Provider:          ProviderGemini,
		ProviderTimeout:   60 * time.Second,
		GeminiTextModel:   "gemini-1.5-flash",
		GeminiVisionModel: "gemini-1.5-flash",
		GeminiTemperature: 0.4,
		OpenAIModel:       "gpt-4o",
		PreviewTTL:        30 * time.Minute,
		MaxUploadSizeRaw:  "10MB",
		SessionIdleTTL:    2 * time.Hour,
		SessionSweepCron:  "*/10 * * * *",
		SeedWelcome:       true,
	}
}

// Load reads .env (if present) and the environment over the defaults. A
// missing provider key is not an error; the provider reports it per request.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderOffline:
	default:
		return fmt.Errorf("invalid PROVIDER %q: want gemini, openai or offline", c.Provider)
	}

	size, err := humanize.ParseBytes(c.MaxUploadSizeRaw)
	if err != nil {
		return fmt.Errorf("invalid MAX_UPLOAD_SIZE %q: %w", c.MaxUploadSizeRaw, err)
	}
	if size == 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	c.MaxUploadSize = int64(size)

	if !gronx.IsValid(c.SessionSweepCron) {
		return fmt.Errorf("invalid SESSION_SWEEP_CRON %q", c.SessionSweepCron)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if c.PreviewTTL <= 0 {
		return fmt.Errorf("PREVIEW_TTL must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
