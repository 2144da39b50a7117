package app

import (
	"sort"
	"sync"
	"time"

	"ieee-quiz-service/internal/domain"
)

// Rank orders every user who has scored by best score, then XP, then earliest completion.
// It is a pure function of the snapshot; callers must pass fresh store contents.
func Rank(users []domain.UserRecord) []domain.LeaderboardEntry {
	ranked := make([]domain.UserRecord, 0, len(users))
	for _, u := range users {
		if u.Score > 0 {
			ranked = append(ranked, u)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.XP != b.XP {
			return a.XP > b.XP
		}
		if ca, cb := a.CompletedAt(), b.CompletedAt(); !ca.Equal(cb) {
			return ca.Before(cb)
		}
		// Store iteration order is unspecified; fall back to the ID for a total order.
		return a.ID < b.ID
	})

	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, u := range ranked {
		badges := make([]string, len(u.Badges))
		copy(badges, u.Badges)
		var spent *int
		if u.TimeSpent != nil && *u.TimeSpent != 0 {
			s := *u.TimeSpent
			spent = &s
		}
		entries = append(entries, domain.LeaderboardEntry{
			Rank:      i + 1,
			ID:        u.ID,
			Name:      u.Name,
			Avatar:    u.Avatar,
			Score:     u.Score,
			XP:        u.XP,
			Badges:    badges,
			TimeSpent: spent,
		})
	}
	return entries
}

// LeaderboardFeed fans fresh rankings out to live subscribers.
type LeaderboardFeed struct {
	mu          sync.Mutex
	now         func() time.Time
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardFeed(now func() time.Time) *LeaderboardFeed {
	if now == nil {
		now = time.Now
	}
	return &LeaderboardFeed{
		now:         now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Subscribe returns a channel that receives an initial snapshot and every later publish.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *LeaderboardFeed) Subscribe(initial domain.Leaderboard) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	// The buffer is empty, so this send cannot block while the lock is held.
	f.mu.Lock()
	ch <- initial
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish sends entries to every subscriber, dropping the oldest queued update for slow ones.
func (f *LeaderboardFeed) Publish(entries []domain.LeaderboardEntry) domain.Leaderboard {
	f.mu.Lock()
	defer f.mu.Unlock()

	lb := domain.Leaderboard{Entries: entries, UpdatedAt: f.now()}
	for ch := range f.subscribers {
		select {
		case ch <- lb:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return lb
}

// Subscribers reports how many live subscriptions are open.
func (f *LeaderboardFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
