package memory

import (
	"context"
	"sync"

	"ieee-quiz-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.UserRecord
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]domain.UserRecord),
	}
}

func (s *UserStore) Get(_ context.Context, userID string) (domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	return clone(user), nil
}

func (s *UserStore) Put(_ context.Context, user domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = clone(user)
	return nil
}

func (s *UserStore) List(_ context.Context) ([]domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.UserRecord, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, clone(user))
	}
	return users, nil
}

// clone detaches slices and pointers so callers cannot mutate stored records.
func clone(user domain.UserRecord) domain.UserRecord {
	out := user
	out.Badges = append([]string{}, user.Badges...)
	if user.LastQuizAt != nil {
		at := *user.LastQuizAt
		out.LastQuizAt = &at
	}
	if user.TimeSpent != nil {
		spent := *user.TimeSpent
		out.TimeSpent = &spent
	}
	return out
}
