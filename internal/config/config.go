// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// LLM provider names accepted by LLM_PROVIDER.
const (
	ProviderDashScope = "dashscope"
	ProviderOpenAI    = "openai"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"dev"`
	Port        int    `env:"PORT" envDefault:"5000"`
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB" envDefault:"100"`

	// LLMProvider selects the gateway: dashscope (native text-generation API)
	// or openai (OpenAI-compatible chat completions).
	LLMProvider         string `env:"LLM_PROVIDER" envDefault:"dashscope"`
	DashScopeAPIKey     string `env:"DASHSCOPE_API_KEY"`
	DashScopeBaseURL    string `env:"DASHSCOPE_BASE_URL" envDefault:"https://dashscope.aliyuncs.com/api/v1"`
	OpenAICompatBaseURL string `env:"OPENAI_COMPAT_BASE_URL" envDefault:"https://dashscope.aliyuncs.com/compatible-mode/v1"`

	AnalysisModel     string        `env:"ANALYSIS_MODEL" envDefault:"qwen-plus"`
	ScoringModel      string        `env:"SCORING_MODEL" envDefault:"qwen-max"`
	ExtractionModel   string        `env:"EXTRACTION_MODEL" envDefault:"qwen-plus"`
	AnalysisTimeout   time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"60s"`
	ShortTimeout      time.Duration `env:"SHORT_TIMEOUT" envDefault:"30s"`
	AnalysisMaxTokens int           `env:"ANALYSIS_MAX_TOKENS" envDefault:"2000"`

	// TikaURL specifies the base URL for the Apache Tika server used for text extraction
	TikaURL     string        `env:"TIKA_URL" envDefault:"http://tika:9998"`
	TikaTimeout time.Duration `env:"TIKA_TIMEOUT" envDefault:"30s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"work-report-agent"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" envDefault:"150s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"180s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// Extractor Backoff Configuration
	ExtractBackoffMaxElapsedTime  time.Duration `env:"EXTRACT_BACKOFF_MAX_ELAPSED_TIME" envDefault:"20s"`
	ExtractBackoffInitialInterval time.Duration `env:"EXTRACT_BACKOFF_INITIAL_INTERVAL" envDefault:"500ms"`
	ExtractBackoffMaxInterval     time.Duration `env:"EXTRACT_BACKOFF_MAX_INTERVAL" envDefault:"5s"`
	ExtractBackoffMultiplier      float64       `env:"EXTRACT_BACKOFF_MULTIPLIER" envDefault:"2.0"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	switch p := strings.ToLower(cfg.LLMProvider); p {
	case ProviderDashScope, ProviderOpenAI:
		cfg.LLMProvider = p
	default:
		return Config{}, fmt.Errorf("op=config.Load: unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	return cfg, nil
}

// LLMConfigured reports whether an API key is available for the gateway.
func (c Config) LLMConfigured() bool { return strings.TrimSpace(c.DashScopeAPIKey) != "" }

// WithAPIKey returns a copy of c bound to a different API key.
func (c Config) WithAPIKey(key string) Config {
	c.DashScopeAPIKey = key
	return c
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }
