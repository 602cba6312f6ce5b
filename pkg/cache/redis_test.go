package cache

import (
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	opts = append([]RedisOption{WithRedisHost(mr.Host()), WithRedisPort(port)}, opts...)
	s, err := NewRedisStore(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStoreSaveLoadExists(t *testing.T) {
	s, mr := newRedisStore(t)

	assert.False(t, s.Exists("portfolio_cache.json"))
	require.NoError(t, s.Save([]byte(`{"data":{}}`), "portfolio_cache.json"))
	assert.True(t, s.Exists("portfolio_cache.json"))

	got, err := s.Load("portfolio_cache.json")
	require.NoError(t, err)
	assert.Equal(t, `{"data":{}}`, string(got))

	// default prefix, no expiry
	stored, err := mr.Get("stockpull:portfolio_cache.json")
	require.NoError(t, err)
	assert.Equal(t, `{"data":{}}`, stored)
	assert.Zero(t, mr.TTL("stockpull:portfolio_cache.json"))
}

func TestRedisStoreOverwrite(t *testing.T) {
	s, _ := newRedisStore(t)

	require.NoError(t, s.Save([]byte("old"), "k"))
	require.NoError(t, s.Save([]byte("new"), "k"))

	got, err := s.Load("k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestRedisStoreMissIsErrCacheMiss(t *testing.T) {
	s, _ := newRedisStore(t)

	_, err := s.Load("absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStoreCustomPrefix(t *testing.T) {
	s, mr := newRedisStore(t, WithRedisPrefix("tenant"))

	require.NoError(t, s.Save([]byte("v"), "k"))
	assert.True(t, mr.Exists("tenant:k"))
	assert.False(t, mr.Exists("stockpull:k"))
}

func TestRedisStoreServerDown(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, s.Save([]byte("v"), "k"))
	mr.Close()

	assert.False(t, s.Exists("k"), "an unreachable server reads as absent")
	_, err := s.Load("k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisStorePingFails(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	_, err = NewRedisStore(WithRedisHost(mr.Host()), WithRedisPort(port))
	assert.ErrorContains(t, err, "redis ping")
}

func TestRedisStoreWrapKey(t *testing.T) {
	assert.Equal(t, "stockpull:portfolio_cache.json", (&RedisStore{prefix: "stockpull"}).wrapKey("portfolio_cache.json"))
	assert.Equal(t, "portfolio_cache.json", (&RedisStore{}).wrapKey("portfolio_cache.json"))
}

func TestRedisStoreRejectsEmptyKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	s := &RedisStore{client: client}
	assert.ErrorIs(t, s.Save([]byte("x"), ""), ErrInvalidKey)
}
