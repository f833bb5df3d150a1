package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus metrics server
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// openai api
	OpenAIBaseURL        string `toml:"openai_base_url"`
	OpenAIModel          string `toml:"openai_model"`
	OpenAITimeoutSeconds int    `toml:"openai_timeout_seconds"`

	// requests to /generate-workout are rate limited (on top of the
	// per-user generation quota)
	GenerateRateLimitAllowedPerMin int `toml:"generate_rate_limit_allowed_per_min"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func Load(env, path string) (*Config, error) {
	var tomlFile Toml
	if _, err := toml.DecodeFile(path, &tomlFile); err != nil {
		return nil, fmt.Errorf("decode toml config file: %w", err)
	}

	cfg, err := tomlFile.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.Environment = env
	return cfg, nil
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development", "ddev", "dockerdev":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Secrets holds everything that must never land in the TOML file.
// The OpenAI API key is required: the service is useless without it,
// so startup aborts when it is missing.
type Secrets struct {
	OpenAIAPIKey        string `env:"FITFORGE_OPENAI_API_KEY,required"`
	PostgresPassword    string `env:"FITFORGE_POSTGRES_PASSWORD"`
	RedisPassword       string `env:"FITFORGE_REDIS_PASSWORD"`
	StripeWebhookSecret string `env:"FITFORGE_STRIPE_WEBHOOK_SECRET"`
	SentryDSN           string `env:"SENTRY_DSN"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	var s Secrets
	if err := envconfig.Process(ctx, &s); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}
