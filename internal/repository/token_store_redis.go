package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"comic-auth/internal/model"
)

const tokenKeyPrefix = "token:"

// RedisTokenStore keeps token sessions in Redis so they survive restarts and
// can be shared across instances. The sliding expiry rides on GETEX: every
// successful resolve resets the key TTL.
type RedisTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTokenStore(client *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, ttl: ttl}
}

func (s *RedisTokenStore) Save(ctx context.Context, token string, user model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal token payload: %w", err)
	}

	if err := s.client.Set(ctx, tokenKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Resolve(ctx context.Context, token string) (model.User, bool, error) {
	payload, err := s.client.GetEx(ctx, tokenKeyPrefix+token, s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.User{}, false, nil
		}
		return model.User{}, false, fmt.Errorf("resolve token: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return model.User{}, false, fmt.Errorf("unmarshal token payload: %w", err)
	}
	return user, true, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
