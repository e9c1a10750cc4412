package validation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

// ResponseCache stores engine answers by key. Get reports a miss with
// found == false and a nil error.
type ResponseCache interface {
	Get(ctx context.Context, key string) (candidates []diagnosis.Candidate, found bool, err error)
	Set(ctx context.Context, key string, candidates []diagnosis.Candidate) error
}

// CachedDiagnoser answers repeated queries from a ResponseCache. Only
// successful engine answers are stored; cache failures are logged and the
// engine is called as if the cache were absent.
type CachedDiagnoser struct {
	next     Diagnoser
	cache    ResponseCache
	logger   logging.Logger
	onLookup func(result string)
}

// Lookup results passed to the OnLookup hook.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// NewCachedDiagnoser wraps next with cache.
func NewCachedDiagnoser(next Diagnoser, cache ResponseCache, logger logging.Logger) *CachedDiagnoser {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedDiagnoser{next: next, cache: cache, logger: logger, onLookup: func(string) {}}
}

// OnLookup registers fn to be told the result of every cache read.
func (c *CachedDiagnoser) OnLookup(fn func(result string)) *CachedDiagnoser {
	if fn != nil {
		c.onLookup = fn
	}
	return c
}

// CacheKey is the hex SHA-256 of the query.
func CacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

func (c *CachedDiagnoser) Diagnose(ctx context.Context, query string) ([]diagnosis.Candidate, error) {
	key := CacheKey(query)

	cached, found, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.onLookup(LookupError)
		c.logger.Warn("response cache read failed", logging.Err(err))
	case found:
		c.onLookup(LookupHit)
		c.logger.Debug("response cache hit", logging.String("key", key))
		return cached, nil
	default:
		c.onLookup(LookupMiss)
	}

	candidates, err := c.next.Diagnose(ctx, query)
	if err != nil {
		return nil, err
	}
	if serr := c.cache.Set(ctx, key, candidates); serr != nil {
		c.logger.Warn("response cache write failed", logging.Err(serr))
	}
	return candidates, nil
}

//Personal.AI order the ending
