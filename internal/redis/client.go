package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"canteen_manager/internal/auth"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "session:"

// Client stores login sessions in Redis and satisfies auth.SessionStore.
type Client struct {
	rdb *redis.Client
}

var _ auth.SessionStore = (*Client)(nil)

func Initialize(ctx context.Context, redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) SetSession(ctx context.Context, sessionID string, data *auth.SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}
	return c.rdb.Set(ctx, sessionPrefix+sessionID, payload, ttl).Err()
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*auth.SessionData, error) {
	val, err := c.rdb.Get(ctx, sessionPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session auth.SessionData
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return &session, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionPrefix+sessionID).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
