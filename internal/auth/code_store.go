package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound is returned when no code is outstanding for a user, either
// because none was requested or because it expired or was already redeemed.
var ErrCodeNotFound = errors.New("confirmation code not found")

// CodeStore keeps the outstanding confirmation-code hash per user. A code is
// single-use: Delete is called on successful exchange, and the TTL bounds how
// long an unredeemed code stays valid.
type CodeStore interface {
	Save(ctx context.Context, userID, codeHash string) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type redisCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCodeStore connects to Redis and verifies the connection.
func NewRedisCodeStore(redisURL, password string, ttl time.Duration) (CodeStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCodeStore{client: rdb, ttl: ttl}, nil
}

func codeKey(userID string) string {
	return fmt.Sprintf("signup:code:%s", userID)
}

// Save stores the code hash, replacing any outstanding code for the user.
func (s *redisCodeStore) Save(ctx context.Context, userID, codeHash string) error {
	if err := s.client.Set(ctx, codeKey(userID), codeHash, s.ttl).Err(); err != nil {
		return fmt.Errorf("save confirmation code: %w", err)
	}
	return nil
}

func (s *redisCodeStore) Get(ctx context.Context, userID string) (string, error) {
	hash, err := s.client.Get(ctx, codeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get confirmation code: %w", err)
	}
	return hash, nil
}

func (s *redisCodeStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, codeKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete confirmation code: %w", err)
	}
	return nil
}
