// Package config loads the application configuration from the environment.
//
// Values are read from NETANOMICS_* variables (a `.env` file is loaded
// first when present), layered over the defaults in DefaultConfig, and
// validated before the rest of the application sees them.
//
// Nested keys are separated by a double underscore:
//
//	NETANOMICS_DATABASE__HOST      -> database.host
//	NETANOMICS_PIPELINE__BATCH_SIZE -> pipeline.batch_size
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix   = "NETANOMICS_"
	serviceName = "netanomics"
)

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth"`
	Integration   IntegrationConfig    `koanf:"integration"`
	LLM           LLMConfig            `koanf:"llm" validate:"required"`
	OCR           OCRConfig            `koanf:"ocr" validate:"required"`
	Inbox         InboxConfig          `koanf:"inbox" validate:"required"`
	Pipeline      PipelineConfig       `koanf:"pipeline" validate:"required"`
	Alerts        AlertsConfig         `koanf:"alerts"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port               string        `koanf:"port" validate:"required"`
	ReadTimeout        int           `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int           `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int           `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          float64       `koanf:"rate_limit" validate:"gte=0"`
	RateBurst          int           `koanf:"rate_burst" validate:"gte=0"`
	DashboardCacheTTL  time.Duration `koanf:"dashboard_cache_ttl"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// ConnMaxLifetime and ConnMaxIdleTime are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN renders the postgres:// connection string for the database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		d.Name,
		d.SSLMode,
	)
}

type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig holds the Clerk secret. Processing routes are left open when
// it is empty.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key"`
}

func (a AuthConfig) Enabled() bool {
	return a.SecretKey != ""
}

type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// LLMConfig points the model client at any OpenAI-compatible endpoint.
// The defaults target Gemini.
type LLMConfig struct {
	APIKey     string        `koanf:"api_key"`
	BaseURL    string        `koanf:"base_url" validate:"required,url"`
	Model      string        `koanf:"model" validate:"required"`
	Timeout    time.Duration `koanf:"timeout" validate:"min=1s"`
	MaxRetries int           `koanf:"max_retries" validate:"gte=0"`
}

type OCRConfig struct {
	PdftoppmPath  string `koanf:"pdftoppm_path" validate:"required"`
	TesseractPath string `koanf:"tesseract_path" validate:"required"`
	Language      string `koanf:"language" validate:"required"`
	DPI           int    `koanf:"dpi" validate:"min=72,max=1200"`
}

type InboxConfig struct {
	InboxDir     string `koanf:"inbox_dir" validate:"required"`
	ProcessedDir string `koanf:"processed_dir" validate:"required"`
	// SweepCron schedules a periodic inbox run on the worker. Empty disables it.
	SweepCron string `koanf:"sweep_cron"`
}

type PipelineConfig struct {
	BatchSize              int           `koanf:"batch_size" validate:"min=1"`
	MinBatchChars          int           `koanf:"min_batch_chars" validate:"gte=0"`
	BatchDelay             time.Duration `koanf:"batch_delay" validate:"gte=0"`
	DryRun                 bool          `koanf:"dry_run"`
	ConcentrationThreshold float64       `koanf:"concentration_threshold" validate:"gt=0,lte=100"`
	MinExpenditure         float64       `koanf:"min_expenditure" validate:"gte=0"`
}

// AlertsConfig controls the audit alert email sent when High findings appear.
type AlertsConfig struct {
	Enabled    bool     `koanf:"enabled"`
	Recipients []string `koanf:"recipients" validate:"omitempty,dive,email"`
}

// DefaultConfig returns the configuration used for every key the
// environment leaves unset.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8000",
			ReadTimeout:        30,
			WriteTimeout:       300,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
			RateLimit:          1,
			RateBurst:          5,
			DashboardCacheTTL:  10 * time.Minute,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "netanomics",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 300,
		},
		Redis: RedisConfig{Address: "localhost:6379"},
		Integration: IntegrationConfig{
			EmailFrom: "Neta-Nomics <alerts@resend.dev>",
		},
		LLM: LLMConfig{
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:      "gemini-2.0-flash",
			Timeout:    2 * time.Minute,
			MaxRetries: 2,
		},
		OCR: OCRConfig{
			PdftoppmPath:  "pdftoppm",
			TesseractPath: "tesseract",
			Language:      "eng",
			DPI:           200,
		},
		Inbox: InboxConfig{
			InboxDir:     "report_inbox",
			ProcessedDir: "processed_reports",
		},
		Pipeline: PipelineConfig{
			BatchSize:              4,
			MinBatchChars:          100,
			BatchDelay:             10 * time.Second,
			ConcentrationThreshold: 40,
			MinExpenditure:         1000,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig reads NETANOMICS_* variables over DefaultConfig and validates
// the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}
	cfg.Observability.ServiceName = serviceName
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return cfg, nil
}

// envKey maps NETANOMICS_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
