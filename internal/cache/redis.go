package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 2 * time.Second

// redisStore keeps cache entries in a shared redis instance so multiple
// machines pointing at the same hub can reuse each other's lookups. TTL is
// enforced by redis expiry rather than timestamps.
type redisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func newRedisStore(addr, key, baseURL, hubID string, ttl time.Duration) *redisStore {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Fall back to treating the value as a bare host:port.
		opts = &redis.Options{Addr: addr}
	}
	return &redisStore{
		client: redis.NewClient(opts),
		key:    fmt.Sprintf("vxhub:cache:%s:%s", key, scopeSuffix(baseURL, hubID)),
		ttl:    ttl,
	}
}

func (s *redisStore) Get(dst any) bool {
	if disabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *redisStore) Put(items any) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	_ = s.client.Set(ctx, s.key, raw, s.ttl).Err()
}

func (s *redisStore) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	_ = s.client.Del(ctx, s.key).Err()
}
