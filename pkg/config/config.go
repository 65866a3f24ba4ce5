package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultConfigPath is read when CONFIG_PATH is not set.
const DefaultConfigPath = "config.yaml"

// Config holds all configuration for ekaya-growth.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, connection URLs) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8050"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// TLS configuration (optional - if both provided, server uses HTTPS)
	TLSCertPath string `yaml:"tls_cert_path" env:"TLS_CERT_PATH" env-default:""`
	TLSKeyPath  string `yaml:"tls_key_path" env:"TLS_KEY_PATH" env-default:""`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	// Build-time artifacts loaded once at startup
	Resources ResourcesConfig `yaml:"resources"`

	// Prediction form limits and caching
	Prediction PredictionConfig `yaml:"prediction"`

	// Optional Redis prediction cache
	Redis RedisConfig `yaml:"redis"`

	// Optional PostgreSQL prediction history
	History HistoryConfig `yaml:"history"`

	// MCP endpoint for agents
	MCP MCPConfig `yaml:"mcp"`

	// PNG chart export
	Render RenderConfig `yaml:"render"`
}

// ResourcesConfig names the artifact files inside Dir.
// File names are relative to Dir unless absolute.
type ResourcesConfig struct {
	Dir             string `yaml:"dir" env:"RESOURCES_DIR" env-default:"resources"`
	Profiles        string `yaml:"profiles" env:"RESOURCES_PROFILES" env-default:"final_probs.csv"`
	Growth          string `yaml:"growth" env:"RESOURCES_GROWTH" env-default:"profile_growth.csv"`
	Series          string `yaml:"series" env:"RESOURCES_SERIES" env-default:"series_df.csv"`
	Forecast        string `yaml:"forecast" env:"RESOURCES_FORECAST" env-default:"forecast_df.csv"`
	ModelComparison string `yaml:"model_comparison" env:"RESOURCES_MODEL_COMPARISON" env-default:"compare_models.csv"`
	EvalScores      string `yaml:"eval_scores" env:"RESOURCES_EVAL_SCORES" env-default:"eval_scores.json"`
	ROC             string `yaml:"roc" env:"RESOURCES_ROC" env-default:"roc_dict.json"`
	ConfusionMatrix string `yaml:"confusion_matrix" env:"RESOURCES_CONFUSION_MATRIX" env-default:"confusion_matrix.csv"`
	Coefficients    string `yaml:"coefficients" env:"RESOURCES_COEFFICIENTS" env-default:"coefficients.csv"`
	Transform       string `yaml:"transform" env:"RESOURCES_TRANSFORM" env-default:"preprocess.json"`
	Classifier      string `yaml:"classifier" env:"RESOURCES_CLASSIFIER" env-default:"final_model.json"`
	Logo            string `yaml:"logo" env:"RESOURCES_LOGO" env-default:"clean_instagram_logo2.png"`
}

// Path resolves an artifact file name against Dir.
func (c *ResourcesConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// PredictionConfig holds limits for the user-input form.
type PredictionConfig struct {
	// MaxCount is the largest accepted media/follower/followee count.
	MaxCount int `yaml:"max_count" env:"PREDICTION_MAX_COUNT" env-default:"1000"`
	// CacheTTL is how long a cached probability stays in Redis.
	CacheTTL time.Duration `yaml:"cache_ttl" env:"PREDICTION_CACHE_TTL" env-default:"24h"`
}

// RedisConfig holds Redis connection configuration.
// Redis is optional: an empty Host disables the prediction cache.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Enabled returns true if a Redis host is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// HistoryConfig holds PostgreSQL prediction history configuration.
// History is optional: an empty DatabaseURL disables it.
type HistoryConfig struct {
	DatabaseURL    string        `yaml:"-" env:"HISTORY_DATABASE_URL"` // Secret - not in YAML
	MaxConnections int32         `yaml:"max_connections" env:"HISTORY_MAX_CONNECTIONS" env-default:"5"`
	RetentionDays  int           `yaml:"retention_days" env:"HISTORY_RETENTION_DAYS" env-default:"90"`
	PruneInterval  time.Duration `yaml:"prune_interval" env:"HISTORY_PRUNE_INTERVAL" env-default:"24h"`
}

// Enabled returns true if a history database is configured.
func (c *HistoryConfig) Enabled() bool {
	return c.DatabaseURL != ""
}

// MCPConfig controls the agent-facing MCP endpoint.
type MCPConfig struct {
	Enabled bool `yaml:"enabled" env:"MCP_ENABLED" env-default:"true"`
}

// RenderConfig holds PNG export dimensions.
type RenderConfig struct {
	Width  int `yaml:"width" env:"RENDER_WIDTH" env-default:"900"`
	Height int `yaml:"height" env:"RENDER_HEIGHT" env-default:"500"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// When the YAML file does not exist, configuration comes from the environment only.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.validateTLS(); err != nil {
		return nil, fmt.Errorf("invalid TLS configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Auto-derive BaseURL from Port if not explicitly set
	// Use HTTPS scheme if TLS is configured
	if cfg.BaseURL == "" {
		scheme := "http"
		if cfg.TLSCertPath != "" {
			scheme = "https"
		}
		cfg.BaseURL = (&url.URL{
			Scheme: scheme,
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// validateTLS ensures TLS configuration is valid if provided.
// Both cert and key must be provided together, and files must exist.
func (c *Config) validateTLS() error {
	certSet := c.TLSCertPath != ""
	keySet := c.TLSKeyPath != ""

	if certSet != keySet {
		return fmt.Errorf("both tls_cert_path and tls_key_path must be provided together")
	}

	if certSet {
		if _, err := os.Stat(c.TLSCertPath); err != nil {
			return fmt.Errorf("TLS cert file does not exist: %w", err)
		}
		if _, err := os.Stat(c.TLSKeyPath); err != nil {
			return fmt.Errorf("TLS key file does not exist: %w", err)
		}
	}

	return nil
}

func (c *Config) validate() error {
	if c.Prediction.MaxCount <= 0 {
		return fmt.Errorf("prediction.max_count must be positive, got %d", c.Prediction.MaxCount)
	}
	if c.Render.Width < 100 || c.Render.Height < 100 {
		return fmt.Errorf("render size must be at least 100x100, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.History.Enabled() && c.History.PruneInterval <= 0 {
		return fmt.Errorf("history.prune_interval must be positive")
	}
	return nil
}

// TLSEnabled returns true when the server should listen with HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertPath != "" && c.TLSKeyPath != ""
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}

// Addr returns the host:port of the Redis server.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
