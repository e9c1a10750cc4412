package cli

import (
	"context"

	"github.com/turtacn/DiagBench/internal/config"
	"github.com/turtacn/DiagBench/internal/infrastructure/database/postgres"
	"github.com/turtacn/DiagBench/internal/infrastructure/database/redis"
	"github.com/turtacn/DiagBench/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/internal/infrastructure/storage/minio"
	"github.com/turtacn/DiagBench/internal/intelligence/symptom_extractor"
)

// ─────────────────────────────────────────────────────────────────────────────
// Optional backends. Each opener returns a close func that is always safe to
// call.
// ─────────────────────────────────────────────────────────────────────────────

func noopClose() {}

func openResponseCache(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*redis.ResponseCache, func(), error) {
	c, err := redis.NewClient(ctx, redis.RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, logger)
	if err != nil {
		return nil, noopClose, err
	}
	cache := redis.NewResponseCache(c, logger, redis.WithPrefix(cfg.KeyPrefix), redis.WithTTL(cfg.TTL))
	return cache, func() { _ = c.Close() }, nil
}

func openOutcomePublisher(cfg config.KafkaConfig, logger logging.Logger) (*kafka.OutcomePublisher, func(), error) {
	p, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Brokers,
		Acks:         "all",
		WriteTimeout: cfg.WriteTimeout,
	}, logger)
	if err != nil {
		return nil, noopClose, err
	}
	return kafka.NewOutcomePublisher(p, cfg.Topic, logger), func() { _ = p.Close() }, nil
}

// openRunStore connects to Postgres and applies migrations when
// database.auto_migrate is set.
func openRunStore(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*postgres.RunStore, func(), error) {
	conn, err := postgres.NewConnection(ctx, postgres.PostgresConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Database:        cfg.DBName,
		Username:        cfg.User,
		Password:        cfg.Password,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, noopClose, err
	}
	if cfg.AutoMigrate {
		if err := conn.RunMigrations(); err != nil {
			_ = conn.Close()
			return nil, noopClose, err
		}
	}
	return postgres.NewRunStore(conn.DB(), logger), func() { _ = conn.Close() }, nil
}

func openArtifactStore(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger) (*minio.MinIOClient, error) {
	return minio.NewMinIOClient(ctx, minio.MinIOConfig{
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKey,
		SecretAccessKey: cfg.SecretKey,
		UseSSL:          cfg.UseSSL,
		Region:          cfg.Region,
		Bucket:          cfg.Bucket,
		Prefix:          cfg.Prefix,
	}, logger)
}

// loadDictionary returns the configured dictionary, or the built-in one.
func loadDictionary(path string) (*symptom_extractor.Dictionary, error) {
	if path == "" {
		return symptom_extractor.DefaultDictionary(), nil
	}
	return symptom_extractor.LoadDictionary(path)
}

//Personal.AI order the ending
