package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/DiagBench/internal/application/validation"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

// ResponseCache stores engine answers as JSON strings under prefix+key.
type ResponseCache struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

type CacheOption func(*ResponseCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *ResponseCache) { c.prefix = prefix }
}

// WithTTL sets the entry lifetime; zero keeps entries forever.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *ResponseCache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

func NewResponseCache(client *Client, log logging.Logger, opts ...CacheOption) *ResponseCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &ResponseCache{
		client: client,
		logger: log,
		prefix: "diagbench:diagnose:",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ResponseCache) fullKey(key string) string {
	return c.prefix + key
}

// Get reports a miss as found == false with a nil error.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]diagnosis.Candidate, bool, error) {
	raw, err := c.client.get(ctx, c.fullKey(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeCacheError, "redis get")
	}

	var out []diagnosis.Candidate
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Warn("discarding undecodable cache entry", logging.String("key", key), logging.Err(err))
		return nil, false, nil
	}
	if out == nil {
		out = []diagnosis.Candidate{}
	}
	return out, true, nil
}

func (c *ResponseCache) Set(ctx context.Context, key string, candidates []diagnosis.Candidate) error {
	if candidates == nil {
		candidates = []diagnosis.Candidate{}
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode cache entry")
	}
	if err := c.client.set(ctx, c.fullKey(key), raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis set")
	}
	return nil
}

var _ validation.ResponseCache = (*ResponseCache)(nil)

//Personal.AI order the ending
