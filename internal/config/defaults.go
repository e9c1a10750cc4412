package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultCorpusPath = "protocols_corpus.jsonl"
	DefaultLocale     = "ru"

	DefaultGenerationOutput    = "test_set_generated.jsonl"
	DefaultMaxCasesPerDocument = 3

	DefaultTestSetPath     = "test_set.jsonl"
	DefaultFailOnEmpty     = true
	DefaultTopAlternatives = 3
	DefaultPreviewRunes    = 60

	DefaultServiceBaseURL = "http://localhost:3000"
	DefaultDiagnosePath   = "/api/diagnose"
	DefaultChatPath       = "/api/chat"
	DefaultQueryField     = "symptoms"
	DefaultUserAgent      = "diagbench"
	DefaultRetryWait      = 500 * time.Millisecond

	DefaultRAGThreshold = 60.0

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultMetricsNamespace = "diagbench"
	DefaultMetricsJob       = "diagbench"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "diagbench:diagnose:"
	DefaultRedisTTL       = 24 * time.Hour

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "diagbench-artifacts"

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaTopic        = "diagbench.outcomes"
	DefaultKafkaWriteTimeout = 10 * time.Second

	DefaultDBHost            = "localhost"
	DefaultDBPort            = 5432
	DefaultDBName            = "diagbench"
	DefaultDBSSLMode         = "disable"
	DefaultDBMaxOpenConns    = 4
	DefaultDBMaxIdleConns    = 2
	DefaultDBConnMaxLifetime = 30 * time.Minute

	DefaultServerAddr            = ":3000"
	DefaultServerMode            = "release"
	DefaultServerShutdownTimeout = 10 * time.Second
	DefaultServerMaxResults      = 5
)

// NewDefaultConfig returns a Config populated entirely with defaults. It is
// what the CLI runs with when no config file is found.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Validation.FailOnEmpty = DefaultFailOnEmpty
	cfg.Database.AutoMigrate = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-value fields with defaults. Explicit values win.
// Booleans are not touched here; their defaults are registered with viper
// in setViperDefaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Corpus / generation ──────────────────────────────────────────────────
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = DefaultCorpusPath
	}
	if cfg.Corpus.Locale == "" {
		cfg.Corpus.Locale = DefaultLocale
	}
	if cfg.Generation.OutputPath == "" {
		cfg.Generation.OutputPath = DefaultGenerationOutput
	}
	if cfg.Generation.MaxCasesPerDocument <= 0 {
		cfg.Generation.MaxCasesPerDocument = DefaultMaxCasesPerDocument
	}

	// ── Validation ───────────────────────────────────────────────────────────
	if cfg.Validation.TestSetPath == "" {
		cfg.Validation.TestSetPath = DefaultTestSetPath
	}
	if cfg.Validation.TopAlternatives == 0 {
		cfg.Validation.TopAlternatives = DefaultTopAlternatives
	}
	if cfg.Validation.PreviewRunes <= 0 {
		cfg.Validation.PreviewRunes = DefaultPreviewRunes
	}

	// ── Service ──────────────────────────────────────────────────────────────
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = DefaultServiceBaseURL
	}
	if cfg.Service.DiagnosePath == "" {
		cfg.Service.DiagnosePath = DefaultDiagnosePath
	}
	if cfg.Service.ChatPath == "" {
		cfg.Service.ChatPath = DefaultChatPath
	}
	if cfg.Service.QueryField == "" {
		cfg.Service.QueryField = DefaultQueryField
	}
	if cfg.Service.UserAgent == "" {
		cfg.Service.UserAgent = DefaultUserAgent
	}
	if cfg.Service.RetryWait == 0 {
		cfg.Service.RetryWait = DefaultRetryWait
	}

	// ── RAG check ────────────────────────────────────────────────────────────
	if cfg.RAGCheck.Threshold == 0 {
		cfg.RAGCheck.Threshold = DefaultRAGThreshold
	}

	// ── Log / metrics ────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = DefaultMetricsJob
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = DefaultRedisTTL
	}

	// ── MinIO ────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Kafka ────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}

	// ── Database ─────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDBMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDBMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = DefaultDBConnMaxLifetime
	}

	// ── Server ───────────────────────────────────────────────────────────────
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxResults <= 0 {
		cfg.Server.MaxResults = DefaultServerMaxResults
	}
}

// setViperDefaults registers every key with viper. Besides seeding booleans
// that ApplyDefaults cannot, it makes AutomaticEnv see keys that appear in no
// config file, so DIAGBENCH_SERVICE_BASE_URL works on its own.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("corpus.path", d.Corpus.Path)
	v.SetDefault("corpus.locale", d.Corpus.Locale)

	v.SetDefault("generation.output_path", d.Generation.OutputPath)
	v.SetDefault("generation.max_cases_per_document", d.Generation.MaxCasesPerDocument)
	v.SetDefault("generation.dictionary_path", "")

	v.SetDefault("validation.test_set_path", d.Validation.TestSetPath)
	v.SetDefault("validation.fail_on_empty", d.Validation.FailOnEmpty)
	v.SetDefault("validation.top_alternatives", d.Validation.TopAlternatives)
	v.SetDefault("validation.preview_runes", d.Validation.PreviewRunes)

	v.SetDefault("service.base_url", d.Service.BaseURL)
	v.SetDefault("service.diagnose_path", d.Service.DiagnosePath)
	v.SetDefault("service.chat_path", d.Service.ChatPath)
	v.SetDefault("service.query_field", d.Service.QueryField)
	v.SetDefault("service.api_key", "")
	v.SetDefault("service.user_agent", d.Service.UserAgent)
	v.SetDefault("service.timeout", time.Duration(0))
	v.SetDefault("service.retry_max", 0)
	v.SetDefault("service.retry_wait", d.Service.RetryWait)

	v.SetDefault("ragcheck.cases_path", "")
	v.SetDefault("ragcheck.threshold", d.RAGCheck.Threshold)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", d.Metrics.Job)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", d.Redis.KeyPrefix)
	v.SetDefault("redis.ttl", d.Redis.TTL)

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", d.MinIO.Endpoint)
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.bucket", d.MinIO.Bucket)
	v.SetDefault("minio.prefix", "")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", d.Kafka.Brokers)
	v.SetDefault("kafka.topic", d.Kafka.Topic)
	v.SetDefault("kafka.write_timeout", d.Kafka.WriteTimeout)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.db_name", d.Database.DBName)
	v.SetDefault("database.ssl_mode", d.Database.SSLMode)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", d.Database.ConnMaxLifetime)
	v.SetDefault("database.auto_migrate", d.Database.AutoMigrate)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max_results", d.Server.MaxResults)
}

//Personal.AI order the ending
