package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/nexus/internal/tailscale"
)

// SetIdentity caches a whois answer. A zero ttl stores nothing.
func (s *Store) SetIdentity(ctx context.Context, ip string, p *tailscale.UserProfile, ttl time.Duration) error {
	if ttl <= 0 || p == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := s.client.Set(ctx, IdentityKey(ip), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache identity: %w", err)
	}
	return nil
}

// GetIdentity returns a cached whois answer; ok is false on a miss.
func (s *Store) GetIdentity(ctx context.Context, ip string) (*tailscale.UserProfile, bool, error) {
	data, err := s.client.Get(ctx, IdentityKey(ip)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached identity: %w", err)
	}

	var p tailscale.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal identity: %w", err)
	}
	return &p, true, nil
}
