package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "linkedin_session:"

type redisEntry struct {
	Cookies   []Cookie   `json:"cookies"`
	UserAgent string     `json:"userAgent,omitempty"`
	Platform  string     `json:"platform,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// RedisRepository stores one JSON value per owner. Expiry is delegated to
// Redis key TTLs.
type RedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (r *RedisRepository) Save(ctx context.Context, s *Session) error {
	key := redisKeyPrefix + s.OwnerID

	// keep the original creation time across re-uploads
	if prev, err := r.Load(ctx, s.OwnerID); err == nil {
		s.CreatedAt = prev.CreatedAt
	}

	var ttl time.Duration
	if s.ExpiresAt != nil {
		ttl = s.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Delete(ctx, s.OwnerID)
		}
	}

	data, err := json.Marshal(redisEntry{
		Cookies:   s.Cookies,
		UserAgent: s.UserAgent,
		Platform:  s.Platform,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *RedisRepository) Load(ctx context.Context, ownerID string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+ownerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var entry redisEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	s := &Session{
		OwnerID:   ownerID,
		Cookies:   entry.Cookies,
		UserAgent: entry.UserAgent,
		Platform:  entry.Platform,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
		ExpiresAt: entry.ExpiresAt,
	}
	if !s.Usable(r.now()) {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, ownerID string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+ownerID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis drops expired keys on its own.
func (r *RedisRepository) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
