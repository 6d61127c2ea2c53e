package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/starlenz/patent-assistant/internal/pkg/retry"
)

// Generation engine providers
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Database configuration. An empty URL runs without storage.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	MigrationsSource    string        `env:"MIGRATIONS_SOURCE" envDefault:"file://internal/repository/migrations"`

	// Generation engine configuration
	LLMProvider  string          `env:"LLM_PROVIDER" envDefault:"anthropic"`
	AnthropicCfg AnthropicConfig `envPrefix:"ANTHROPIC_"`
	GeminiCfg    GeminiConfig    `envPrefix:"GEMINI_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Conversation length before an idle wizard is forgotten
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// Optional YAML file overriding the result section mapping
	MapperSchemaFile string `env:"MAPPER_SCHEMA_FILE"`

	LinksCfg  LinksConfig  `envPrefix:"LINK_"`
	ExportCfg ExportConfig `envPrefix:"EXPORT_"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string               `env:"BOT_TOKEN"`
	UpdateTimeout      int                  `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int                  `env:"MAX_CONCURRENT_USERS" envDefault:"100"`
	RateLimitPerMinute int                  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int                  `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int                  `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	SendRetry          pkgRetry.RetryConfig `envPrefix:"SEND_RETRY_"`
}

// AnthropicConfig configures the Messages API connector
type AnthropicConfig struct {
	HTTPClientConfig
	APIKey    string `env:"API_KEY"`
	Model     string `env:"MODEL" envDefault:"claude-3-haiku-20240307"`
	Version   string `env:"VERSION" envDefault:"2023-06-01"`
	MaxTokens int    `env:"MAX_TOKENS" envDefault:"4000"`
	Endpoint  string `env:"ENDPOINT" envDefault:"/v1/messages"`
}

// GeminiConfig configures the Gemini connector
type GeminiConfig struct {
	APIKey    string `env:"API_KEY"`
	Model     string `env:"MODEL" envDefault:"gemini-1.5-flash"`
	MaxTokens int32  `env:"MAX_TOKENS" envDefault:"4000"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"120s"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api.anthropic.com"`
}

// LinksConfig holds the external destinations shown to users
type LinksConfig struct {
	Site            string `env:"SITE" envDefault:"http://starlenz.notion.site"`
	Share           string `env:"SHARE" envDefault:"https://t.me/share/url?url=https://t.me/starlenz_bot&text=✨아이디어 분석 도우미✨"`
	Admin           string `env:"ADMIN" envDefault:"tg://resolve?domain=starlenz_inc"`
	WelcomeImageURL string `env:"WELCOME_IMAGE"`
}

// ExportConfig controls document export
type ExportConfig struct {
	// PDFFontPath is a TTF font with Hangul glyphs. Without it PDF export is disabled.
	PDFFontPath string `env:"PDF_FONT_PATH"`
	// Formats offered as download buttons after an analysis
	Formats []string `env:"FORMATS" envSeparator:"," envDefault:"md,pdf"`
}

// LoadConfig parses the -env flag, loads the matching .env file and reads the environment
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads and validates the configuration from the process environment
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.TelegramCfg.SendRetry.Attempts == 0 {
		cfg.TelegramCfg.SendRetry = *pkgRetry.DefaultRetryConfig()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []error

	switch cfg.LLMProvider {
	case ProviderAnthropic:
		if cfg.AnthropicCfg.APIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic provider"))
		}
		if cfg.AnthropicCfg.MaxTokens < 1 {
			errs = append(errs, fmt.Errorf("ANTHROPIC_MAX_TOKENS must be positive, got %d", cfg.AnthropicCfg.MaxTokens))
		}
	case ProviderGemini:
		if cfg.GeminiCfg.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
		}
	case ProviderMock:
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be one of anthropic, gemini, mock, got %q", cfg.LLMProvider))
	}

	if cfg.SessionTTL < time.Minute {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be at least 1m, got %s", cfg.SessionTTL))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	for _, f := range cfg.ExportCfg.Formats {
		switch f {
		case "md", "pdf", "docx":
		default:
			errs = append(errs, fmt.Errorf("EXPORT_FORMATS contains unknown format %q", f))
		}
	}

	return errors.Join(errs...)
}

// ValidateTelegram checks the settings only the bot needs
func (c *Config) ValidateTelegram() error {
	var errs []error
	tg := c.TelegramCfg

	if tg.BotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}

	if tg.RateLimitPerMinute < 1 || tg.RateLimitPerMinute > 60 {
		errs = append(errs, fmt.Errorf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", tg.RateLimitPerMinute))
	}

	if tg.RateLimitBurst < 1 || tg.RateLimitBurst > 20 {
		errs = append(errs, fmt.Errorf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", tg.RateLimitBurst))
	}

	if tg.ShutdownTimeout < 1 || tg.ShutdownTimeout > 300 {
		errs = append(errs, fmt.Errorf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", tg.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
