package redis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/DiagBench/internal/testutil"
	"github.com/turtacn/DiagBench/pkg/errors"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

type CacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache *ResponseCache
	log   *testutil.MockLogger
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.log = testutil.NewMockLogger()
	s.cache = NewResponseCache(NewClientFromRDB(db, s.log), s.log, WithPrefix("test:"))
}

func (s *CacheTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CacheTestSuite) TestGet_Hit() {
	s.mock.ExpectGet("test:k1").SetVal(`[{"icd_codes":["I21"],"diagnosis":"ОИМ","likelihood_percent":80}]`)

	got, found, err := s.cache.Get(context.Background(), "k1")
	s.NoError(err)
	s.True(found)
	s.Equal([]diagnosis.Candidate{{ICDCodes: []string{"I21"}, Diagnosis: "ОИМ", LikelihoodPercent: 80}}, got)
}

func (s *CacheTestSuite) TestGet_EmptyListIsAHit() {
	s.mock.ExpectGet("test:k1").SetVal(`[]`)

	got, found, err := s.cache.Get(context.Background(), "k1")
	s.NoError(err)
	s.True(found)
	s.NotNil(got)
	s.Empty(got)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:k2").RedisNil()

	got, found, err := s.cache.Get(context.Background(), "k2")
	s.NoError(err)
	s.False(found)
	s.Nil(got)
}

func (s *CacheTestSuite) TestGet_Error() {
	s.mock.ExpectGet("test:k3").SetErr(stderrors.New("connection reset"))

	_, found, err := s.cache.Get(context.Background(), "k3")
	s.Error(err)
	s.False(found)
	s.True(errors.IsCode(err, errors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestGet_CorruptEntryIsAMiss() {
	s.mock.ExpectGet("test:k4").SetVal(`{not json`)

	_, found, err := s.cache.Get(context.Background(), "k4")
	s.NoError(err)
	s.False(found)
	s.True(s.log.HasMessage("warn", "discarding undecodable cache entry"))
}

func (s *CacheTestSuite) TestSet_Error() {
	s.mock.ExpectSet("test:k5", []byte(`[]`), 24*time.Hour).SetErr(stderrors.New("readonly"))

	err := s.cache.Set(context.Background(), "k5", nil)
	s.True(errors.IsCode(err, errors.ErrCodeCacheError))
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestResponseCache_RoundTripWithTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := NewClientFromRDB(rdb, nil)
	defer client.Close()

	cache := NewResponseCache(client, nil, WithTTL(time.Hour))
	ctx := context.Background()
	in := []diagnosis.Candidate{{ICDCodes: []string{"O14.2", "O14.1"}, Diagnosis: "HELLP", LikelihoodPercent: 91.5}}

	require.NoError(t, cache.Set(ctx, "abc", in))
	assert.True(t, mr.Exists("diagbench:diagnose:abc"))
	assert.Equal(t, time.Hour, mr.TTL("diagbench:diagnose:abc"))

	out, found, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	mr.FastForward(2 * time.Hour)
	_, found, err = cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResponseCache_ClosedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClientFromRDB(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), nil)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	cache := NewResponseCache(client, nil)
	_, _, err := cache.Get(context.Background(), "x")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
	assert.Error(t, cache.Set(context.Background(), "x", nil))
	assert.ErrorIs(t, client.Ping(context.Background()), ErrClientClosed)
}

//Personal.AI order the ending
