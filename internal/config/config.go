// Package config defines DiagBench's configuration structures. No I/O lives
// here; loading is in loader.go and defaults in defaults.go.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/DiagBench/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// CorpusConfig locates the protocol corpus and selects the language of the
// extraction rules.
type CorpusConfig struct {
	Path   string `mapstructure:"path"`
	Locale string `mapstructure:"locale"` // "ru" | "en"
}

// GenerationConfig controls test-set synthesis.
type GenerationConfig struct {
	OutputPath          string `mapstructure:"output_path"`
	MaxCasesPerDocument int    `mapstructure:"max_cases_per_document"`
	// DictionaryPath points to a YAML symptom dictionary replacing the
	// built-in one. Empty means built-in.
	DictionaryPath string `mapstructure:"dictionary_path"`
}

// ValidationConfig controls replay of a test set against the engine.
type ValidationConfig struct {
	TestSetPath string `mapstructure:"test_set_path"`
	// FailOnEmpty makes a run over zero cases exit non-zero.
	FailOnEmpty     bool `mapstructure:"fail_on_empty"`
	TopAlternatives int  `mapstructure:"top_alternatives"`
	PreviewRunes    int  `mapstructure:"preview_runes"`
}

// ServiceConfig describes the diagnosis engine under test.
type ServiceConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	DiagnosePath string `mapstructure:"diagnose_path"`
	ChatPath     string `mapstructure:"chat_path"`
	QueryField   string `mapstructure:"query_field"`
	APIKey       string `mapstructure:"api_key"`
	UserAgent    string `mapstructure:"user_agent"`
	// Timeout of zero means calls wait as long as the engine takes.
	Timeout   time.Duration `mapstructure:"timeout"`
	RetryMax  int           `mapstructure:"retry_max"`
	RetryWait time.Duration `mapstructure:"retry_wait"`
}

// RAGCheckConfig controls the keyword-coverage check of the chat endpoint.
type RAGCheckConfig struct {
	CasesPath string  `mapstructure:"cases_path"`
	Threshold float64 `mapstructure:"threshold"`
}

// LogConfig holds logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig controls Prometheus metrics. When PushgatewayURL is set the
// collected metrics are pushed at the end of each run.
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Namespace      string `mapstructure:"namespace"`
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// RedisConfig configures the optional diagnosis response cache.
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// MinIOConfig configures optional artifact upload.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// KafkaConfig configures optional per-outcome event publishing.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig configures the optional PostgreSQL run-history store.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// ServerConfig configures the reference engine started by `diagbench serve`.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxResults      int           `mapstructure:"max_results"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Generation GenerationConfig `mapstructure:"generation"`
	Validation ValidationConfig `mapstructure:"validation"`
	Service    ServiceConfig    `mapstructure:"service"`
	RAGCheck   RAGCheckConfig   `mapstructure:"ragcheck"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Server     ServerConfig     `mapstructure:"server"`
}

// DiagnoseURL joins the engine base URL with the diagnose path.
func (s ServiceConfig) DiagnoseURL() string {
	return strings.TrimRight(s.BaseURL, "/") + s.DiagnosePath
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a defaulted Config and returns the
// first problem found, wrapping errors.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.Corpus.Locale {
	case "ru", "en":
	default:
		return errors.InvalidConfig("corpus.locale %q is invalid; expected ru|en", c.Corpus.Locale)
	}

	if c.Generation.MaxCasesPerDocument < 1 {
		return errors.InvalidConfig("generation.max_cases_per_document must be >= 1, got %d", c.Generation.MaxCasesPerDocument)
	}

	if c.Validation.TopAlternatives < 0 {
		return errors.InvalidConfig("validation.top_alternatives must be >= 0, got %d", c.Validation.TopAlternatives)
	}

	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.InvalidConfig("service.base_url %q must be an absolute URL", c.Service.BaseURL)
	}
	if !strings.HasPrefix(c.Service.DiagnosePath, "/") {
		return errors.InvalidConfig("service.diagnose_path %q must start with /", c.Service.DiagnosePath)
	}
	if !strings.HasPrefix(c.Service.ChatPath, "/") {
		return errors.InvalidConfig("service.chat_path %q must start with /", c.Service.ChatPath)
	}
	if strings.TrimSpace(c.Service.QueryField) == "" {
		return errors.InvalidConfig("service.query_field is required")
	}
	if c.Service.Timeout < 0 {
		return errors.InvalidConfig("service.timeout must be >= 0, got %s", c.Service.Timeout)
	}
	if c.Service.RetryMax < 0 {
		return errors.InvalidConfig("service.retry_max must be >= 0, got %d", c.Service.RetryMax)
	}

	if c.RAGCheck.Threshold < 0 || c.RAGCheck.Threshold > 100 {
		return errors.InvalidConfig("ragcheck.threshold %.1f is out of range [0, 100]", c.RAGCheck.Threshold)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.InvalidConfig("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.InvalidConfig("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Metrics.PushgatewayURL != "" && c.Metrics.Job == "" {
		return errors.InvalidConfig("metrics.job is required when metrics.pushgateway_url is set")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.InvalidConfig("redis.addr is required when redis is enabled")
	}
	if c.Redis.DB < 0 {
		return errors.InvalidConfig("redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return errors.InvalidConfig("minio.endpoint is required when minio is enabled")
		}
		if c.MinIO.Bucket == "" {
			return errors.InvalidConfig("minio.bucket is required when minio is enabled")
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.InvalidConfig("kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return errors.InvalidConfig("kafka.topic is required when kafka is enabled")
		}
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return errors.InvalidConfig("database.host is required when database is enabled")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return errors.InvalidConfig("database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.DBName == "" {
			return errors.InvalidConfig("database.db_name is required when database is enabled")
		}
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return errors.InvalidConfig("server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	return nil
}

//Personal.AI order the ending
