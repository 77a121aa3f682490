package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/config"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func newDiscordServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("Authorization") != "Bot secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"401: Unauthorized"}`))
			return
		}
		switch r.URL.Path {
		case "/users/80351110224678912":
			_, _ = w.Write([]byte(`{"id":"80351110224678912","username":"Nelly","discriminator":"1337","avatar":"8342729096ea3675442027381ff50dfe"}`))
		case "/users/1":
			_, _ = w.Write([]byte(`{"id":"1","username":"NoAvatar","discriminator":"0","avatar":null}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Unknown User"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) config.DiscordConfig {
	return config.DiscordConfig{
		APIToken: "secret",
		BaseURL:  baseURL,
		Rate:     100,
		Burst:    10,
		CacheTTL: time.Minute,
		Timeout:  time.Second,
	}
}

func TestGetUser(t *testing.T) {
	var hits int32
	srv := newDiscordServer(t, &hits)
	client := NewClient(testConfig(srv.URL), nil)

	user, err := client.GetUser(context.Background(), "80351110224678912")
	require.NoError(t, err)
	assert.Equal(t, "Nelly", user.Username)
	assert.Equal(t, "1337", user.Discriminator)
	require.NotNil(t, user.AvatarURL)
	assert.Equal(t, "https://cdn.discordapp.com/avatars/80351110224678912/8342729096ea3675442027381ff50dfe.png", *user.AvatarURL)

	user, err = client.GetUser(context.Background(), "1")
	require.NoError(t, err)
	assert.Nil(t, user.AvatarURL)
}

func TestGetUserErrorStatus(t *testing.T) {
	var hits int32
	srv := newDiscordServer(t, &hits)
	client := NewClient(testConfig(srv.URL), nil)

	_, err := client.GetUser(context.Background(), "404")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	cfg := testConfig(srv.URL)
	cfg.APIToken = "wrong"
	_, err = NewClient(cfg, nil).GetUser(context.Background(), "1")
	require.Error(t, err)
}

func TestGetUserUsesCache(t *testing.T) {
	var hits int32
	srv := newDiscordServer(t, &hits)
	client := NewClient(testConfig(srv.URL), newMemoryCache())

	for i := 0; i < 3; i++ {
		user, err := client.GetUser(context.Background(), "80351110224678912")
		require.NoError(t, err)
		assert.Equal(t, "Nelly", user.Username)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetUserHonorsRateLimit(t *testing.T) {
	var hits int32
	srv := newDiscordServer(t, &hits)
	cfg := testConfig(srv.URL)
	cfg.Rate = 0.01
	cfg.Burst = 1
	client := NewClient(cfg, nil)

	_, err := client.GetUser(context.Background(), "1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.GetUser(ctx, "1")
	require.Error(t, err, "second call must wait longer than the deadline")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url")
	require.Error(t, err)

	cache, err := NewRedisCache("redis://localhost:6379/0")
	require.NoError(t, err)
	require.NoError(t, cache.Close())
}
