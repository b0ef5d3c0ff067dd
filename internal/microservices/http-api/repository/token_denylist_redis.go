package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist remembers access-token ids that were logged out before they expired.
type TokenDenylist interface {
	Deny(ctx context.Context, jti string, ttl time.Duration) error
	IsDenied(ctx context.Context, jti string) (bool, error)
}

// TokenDenylistRedis keeps denied ids as expiring keys. A nil receiver or a nil
// client turns every call into a no-op, which is how the denylist is disabled.
type TokenDenylistRedis struct {
	client *redis.Client
}

// NewTokenDenylistRedis connects to redisURL (redis://...) and verifies the connection.
func NewTokenDenylistRedis(redisURL, password string) (*TokenDenylistRedis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &TokenDenylistRedis{client: rdb}, nil
}

func denylistKey(jti string) string {
	return "denylist:jti:" + jti
}

func (r *TokenDenylistRedis) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	if r == nil || r.client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		// token already expired, nothing to remember
		return nil
	}
	return r.client.Set(ctx, denylistKey(jti), 1, ttl).Err()
}

func (r *TokenDenylistRedis) IsDenied(ctx context.Context, jti string) (bool, error) {
	if r == nil || r.client == nil || jti == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, denylistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TokenDenylistRedis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
