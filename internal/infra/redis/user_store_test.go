package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"ieee-quiz-service/internal/domain"
)

func TestUserStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewUserStore(newClient(mr))

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	at := time.Date(2024, 11, 22, 9, 30, 0, 0, time.UTC)
	spent := 95
	user := domain.UserRecord{
		ID:         "u1",
		Name:       "Alice",
		Score:      115,
		XP:         360,
		Badges:     []string{domain.BadgePerfectScore, domain.BadgeSpeedDemon},
		LastQuizAt: &at,
		TimeSpent:  &spent,
		CreatedAt:  at.Add(-time.Hour),
	}
	if err := store.Put(ctx, user); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("user:u1") {
		t.Fatalf("expected user:u1 key")
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 115 || got.XP != 360 || len(got.Badges) != 2 || *got.TimeSpent != 95 || !got.LastQuizAt.Equal(at) {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestUserStoreListOnlyUserKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewUserStore(newClient(mr))
	for _, id := range []string{"a", "b", "c"} {
		if err := store.Put(ctx, domain.UserRecord{ID: id, Name: id}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}
	// Unrelated keys sharing the keyspace must not show up.
	if err := mr.Set("quiz:bank:ieee", "[]"); err != nil {
		t.Fatalf("seed unrelated key: %v", err)
	}

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}
