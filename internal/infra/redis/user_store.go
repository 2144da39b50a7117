package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"ieee-quiz-service/internal/domain"
)

const userKeyPrefix = "user:"

// UserStore keeps user records as JSON strings under user:{id}.
type UserStore struct {
	client    *redis.Client
	scanCount int64
}

func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client, scanCount: 100}
}

func (s *UserStore) Get(ctx context.Context, userID string) (domain.UserRecord, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	var user domain.UserRecord
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.UserRecord{}, fmt.Errorf("unmarshal user %s: %w", userID, err)
	}
	return user, nil
}

func (s *UserStore) Put(ctx context.Context, user domain.UserRecord) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", user.ID, err)
	}
	if err := s.client.Set(ctx, s.key(user.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("set user %s: %w", user.ID, err)
	}
	return nil
}

// List scans every user:* key. Keys deleted between SCAN and MGET are skipped.
func (s *UserStore) List(ctx context.Context) ([]domain.UserRecord, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, userKeyPrefix+"*", s.scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	if len(keys) == 0 {
		return []domain.UserRecord{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget users: %w", err)
	}
	users := make([]domain.UserRecord, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var user domain.UserRecord
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", keys[i], err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *UserStore) key(userID string) string {
	return userKeyPrefix + userID
}
