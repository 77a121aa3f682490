// Package discord looks up Discord user profiles through the Discord REST API.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tripsit/tripsit-api/internal/config"
	"github.com/tripsit/tripsit-api/internal/metrics"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const avatarURLFormat = "https://cdn.discordapp.com/avatars/%s/%s.png"

// User is the public profile of a Discord account.
type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
}

// API looks up Discord users.
type API interface {
	GetUser(ctx context.Context, id string) (*User, error)
}

// Cache stores serialized profiles. A miss returns ok == false and no error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// APIError is a non-2xx response from Discord.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api: status %d: %s", e.Status, e.Body)
}

// Client is a rate limited Discord REST client, safe for concurrent use.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	cache    Cache
	cacheTTL time.Duration
}

// NewClient builds a client from cfg. cache may be nil.
func NewClient(cfg config.DiscordConfig, cache Cache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := rate.Limit(cfg.Rate)
	if cfg.Rate <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.APIToken,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, burst),
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
	}
}

type apiUser struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	Avatar        *string `json:"avatar"`
}

func cacheKey(id string) string {
	return "discord:user:" + id
}

// GetUser returns the profile of the Discord user id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	if user, ok := c.cached(ctx, id); ok {
		metrics.RecordDiscordLookup(metrics.LookupCacheHit)
		return user, nil
	}

	user, err := c.fetchUser(ctx, id)
	if err != nil {
		metrics.RecordDiscordLookup(metrics.LookupError)
		return nil, err
	}
	metrics.RecordDiscordLookup(metrics.LookupFetched)

	c.store(ctx, user)
	return user, nil
}

func (c *Client) fetchUser(ctx context.Context, id string) (*User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("discord rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var raw apiUser
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode discord user: %w", err)
	}

	user := &User{ID: raw.ID, Username: raw.Username, Discriminator: raw.Discriminator}
	if raw.Avatar != nil && *raw.Avatar != "" {
		url := fmt.Sprintf(avatarURLFormat, raw.ID, *raw.Avatar)
		user.AvatarURL = &url
	}
	return user, nil
}

func (c *Client) cached(ctx context.Context, id string) (*User, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, ok, err := c.cache.Get(ctx, cacheKey(id))
	if err != nil {
		logger.Warn("discord cache read failed", zap.String("discord_id", id), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}

func (c *Client) store(ctx context.Context, user *User) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey(user.ID), raw, c.cacheTTL); err != nil {
		logger.Warn("discord cache write failed", zap.String("discord_id", user.ID), zap.Error(err))
	}
}
