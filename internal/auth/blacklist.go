package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// blacklistPrefix namespaces revoked-token keys in Redis.
const blacklistPrefix = "jwt:blacklist:"

// Blacklist stores revoked tokens in Redis until their natural expiration,
// giving logout real semantics for otherwise stateless bearer tokens.
type Blacklist struct {
	client *redis.Client
}

// NewBlacklist returns a Blacklist backed by the given Redis client.
func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

// Revoke marks a token as invalid until it would have expired anyway.
// Already-expired tokens are ignored.
func (b *Blacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
}

// IsRevoked reports whether a token was revoked before natural expiration.
// On a Redis error it fails open to avoid locking out every caller.
func (b *Blacklist) IsRevoked(ctx context.Context, token string) bool {
	n, err := b.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// ConnectRedis creates a Redis client and verifies the connection with a ping.
func ConnectRedis(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
