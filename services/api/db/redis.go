package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/naturalist-tools/inat-tz/services/api/lookup"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second

	tokenKeyPrefix = "tokens:"
	tokenField     = "status"
)

// NewRedisClient returns a configured go-redis client and validates the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// RedisTokenStore keeps token statuses in hashes keyed tokens:<token>.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore returns a redis-backed token store.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

// TokenStatus returns the status field of the token hash.
func (s *RedisTokenStore) TokenStatus(ctx context.Context, token string) (string, error) {
	status, err := s.client.HGet(ctx, tokenKey(token), tokenField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", lookup.ErrTokenNotFound
		}
		return "", classify(err)
	}
	return status, nil
}

