package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps credentials in one Redis hash per client profile, so
// several machines of the same user can share a session.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	profile string
	ttl     time.Duration
}

type RedisOption func(*RedisStore)

// WithTTL expires stored credentials after d. Zero keeps them forever.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithProfile separates credential sets on a shared Redis.
func WithProfile(profile string) RedisOption {
	return func(s *RedisStore) { s.profile = profile }
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "moodjournal:", profile: "default"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key() string {
	return s.prefix + "credentials:" + s.profile
}

func (s *RedisStore) Load(ctx context.Context) (Credentials, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return Credentials{}, false, fmt.Errorf("load credentials: %w", err)
	}
	if fields[KeyAccessCredential] == "" {
		return Credentials{}, false, nil
	}
	return Credentials{
		AccessToken:  fields[KeyAccessCredential],
		RefreshToken: fields[KeyRefreshCredential],
		Username:     fields[KeyDisplayUsername],
	}, true, nil
}

func (s *RedisStore) Save(ctx context.Context, c Credentials) error {
	key := s.key()
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key,
			KeyAccessCredential, c.AccessToken,
			KeyRefreshCredential, c.RefreshToken,
			KeyDisplayUsername, c.Username,
		)
		if s.ttl > 0 {
			p.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
