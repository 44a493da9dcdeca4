// Package session stores opaque session tokens in Redis.  Each token maps
// to a user id under the key auth_<token> with a fixed TTL; an absent key is
// the only representation of a logged-out or expired session.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/utils"
)

const keyPrefix = "auth_"

// DefaultTTL is the lifetime of a session when none is configured.
const DefaultTTL = 24 * time.Hour

// Cache issues, resolves and revokes session tokens.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewCache returns a Cache backed by rdb.  A non-positive ttl selects
// DefaultTTL.
func NewCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

func key(token string) string { return keyPrefix + token }

// Create stores a fresh token for userID and returns it.  Existing sessions
// of the same user are left untouched.
func (c *Cache) Create(ctx context.Context, userID string) (string, error) {
	token, err := utils.RandomToken(utils.SessionTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	// Never overwrite a live token.
	ok, err := c.rdb.SetNX(ctx, key(token), userID, c.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return "", errors.New("store session: token collision")
	}
	return token, nil
}

// Resolve returns the user id bound to token.  Unknown, expired and
// unreadable tokens all report ok == false: a degraded cache never
// authenticates anyone.
func (c *Cache) Resolve(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	userID, err := c.rdb.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.log.Warn("session lookup failed", zap.Error(err))
		return "", false
	}
	if userID == "" {
		return "", false
	}
	return userID, true
}

// Revoke deletes token immediately.  Revoking an absent token is a no-op.
func (c *Cache) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := c.rdb.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Alive reports whether Redis answers a PING.
func (c *Cache) Alive(ctx context.Context) bool {
	return c.rdb.Ping(ctx).Err() == nil
}
