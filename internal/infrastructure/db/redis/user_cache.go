package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/theagilemonkeys/crm-api/internal/api/metrics"
	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// UserCache is one named projection of user-with-roles snapshots backed by
// Redis. Entries are stored as JSON under "<name>:<key>" without a TTL;
// only Evict or Clear removes them.
type UserCache struct {
	client *redis.Client
	name   string
}

// NewUserCache creates a cache handle for the given projection name
// (usersByLogin or usersByEmail).
func NewUserCache(client *redis.Client, name string) *UserCache {
	return &UserCache{client: client, name: name}
}

// Get loads the cached snapshot. A missing key is an ordinary miss; a
// backend failure or an undecodable entry is reported as an error so the
// caller can fall back to the repository.
func (c *UserCache) Get(ctx context.Context, key string) (*domain.User, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.UserCacheTotal.WithLabelValues(c.name, "miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache %s get: %w", c.name, err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false, fmt.Errorf("cache %s decode: %w", c.name, err)
	}
	metrics.UserCacheTotal.WithLabelValues(c.name, "hit").Inc()
	return &user, true, nil
}

func (c *UserCache) Put(ctx context.Context, key string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("cache %s encode: %w", c.name, err)
	}
	if err := c.client.Set(ctx, c.key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("cache %s put: %w", c.name, err)
	}
	return nil
}

func (c *UserCache) Evict(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("cache %s evict: %w", c.name, err)
	}
	metrics.UserCacheEvictionsTotal.WithLabelValues(c.name).Inc()
	return nil
}

// Clear removes every entry of this projection.
func (c *UserCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.name+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache %s clear: %w", c.name, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache %s clear: %w", c.name, err)
	}
	return nil
}

func (c *UserCache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.name, key)
}
