package app_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"ieee-quiz-service/internal/app"
	"ieee-quiz-service/internal/domain"
	"ieee-quiz-service/internal/infra/memory"
)

func TestScenarioPerfectFreshUser(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC))
	service, _ := newTestService(clock)
	register(t, service, "u1", "Alice")

	questions, err := service.Questions(ctx, "u1")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(questions))
	}

	bank := domain.DefaultBank()
	result, err := service.Submit(ctx, "u1", domain.Submission{Answers: correctAnswers(bank), TimeSpent: intPtr(90)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 115 || result.CorrectAnswers != 10 || result.TotalQuestions != 10 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.XPEarned != 230+100+30 {
		t.Fatalf("expected 360 xp, got %d", result.XPEarned)
	}
	assertBadges(t, result.EarnedBadges, domain.BadgePerfectScore, domain.BadgeSpeedDemon)
	if result.User.Score != 115 || result.User.XP != 360 || !result.User.LastQuizAt.Equal(clock.Now()) {
		t.Fatalf("unexpected merged user %+v", result.User)
	}

	stored, err := service.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if stored.Score != 115 || stored.XP != 360 || len(stored.Badges) != 2 {
		t.Fatalf("merged record was not persisted: %+v", stored)
	}
}

func TestScenarioSecondAttemptSameDay(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC))
	service, _ := newTestService(clock)
	register(t, service, "u1", "Alice")

	bank := domain.DefaultBank()
	if _, err := service.Submit(ctx, "u1", domain.Submission{Answers: correctAnswers(bank[:5]), TimeSpent: intPtr(300)}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	attemptedAt := clock.Now()

	clock.Advance(3 * time.Hour)
	_, err := service.Questions(ctx, "u1")
	if !errors.Is(err, domain.ErrAlreadyAttemptedToday) {
		t.Fatalf("expected ErrAlreadyAttemptedToday, got %v", err)
	}
	var attempted *domain.AlreadyAttemptedError
	if !errors.As(err, &attempted) || !attempted.LastAttempt.Equal(attemptedAt) {
		t.Fatalf("expected prior attempt timestamp, got %v", err)
	}

	if _, err := service.Submit(ctx, "u1", domain.Submission{Answers: correctAnswers(bank)}); !errors.Is(err, domain.ErrAlreadyAttemptedToday) {
		t.Fatalf("expected a second same-day submission to be rejected, got %v", err)
	}

	eligibility, err := service.Eligibility(ctx, "u1")
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if eligibility.CanTakeQuiz || eligibility.LastAttempt == nil {
		t.Fatalf("expected ineligible with last attempt, got %+v", eligibility)
	}

	clock.Advance(24 * time.Hour)
	if _, err := service.Questions(ctx, "u1"); err != nil {
		t.Fatalf("expected next-day fetch to pass, got %v", err)
	}
}

func TestSubmitMonotonicAcrossDays(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC))
	service, _ := newTestService(clock)
	register(t, service, "u1", "Alice")
	bank := domain.DefaultBank()

	first, err := service.Submit(ctx, "u1", domain.Submission{Answers: correctAnswers(bank[:9]), TimeSpent: intPtr(100)})
	if err != nil {
		t.Fatalf("submit day 1: %v", err)
	}

	clock.Advance(24 * time.Hour)
	second, err := service.Submit(ctx, "u1", domain.Submission{Answers: correctAnswers(bank[:2]), TimeSpent: intPtr(400)})
	if err != nil {
		t.Fatalf("submit day 2: %v", err)
	}

	prev, next := first.User, second.User
	if next.Score < prev.Score || next.XP < prev.XP {
		t.Fatalf("stats regressed: %+v -> %+v", prev, next)
	}
	for _, badge := range prev.Badges {
		if !next.HasBadge(badge) {
			t.Fatalf("badge %q was revoked", badge)
		}
	}
	if next.Score != first.Score || next.XP != first.XPEarned+second.XPEarned {
		t.Fatalf("unexpected merge %+v", next)
	}
	if *next.TimeSpent != 400 {
		t.Fatalf("expected latest time spent, got %d", *next.TimeSpent)
	}
}

func TestQuestionsHideAnswersAndShuffle(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC))
	service, _ := newTestService(clock, app.WithRand(rand.New(rand.NewSource(7))))
	register(t, service, "u1", "Alice")

	bank := domain.DefaultBank()
	byID := make(map[int]domain.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}

	shuffled := false
	for round := 0; round < 5; round++ {
		questions, err := service.Questions(ctx, "u1")
		if err != nil {
			t.Fatalf("questions: %v", err)
		}
		seen := make(map[int]bool)
		for i, q := range questions {
			orig := byID[q.ID]
			if q.Question != orig.Question || q.Points != orig.Points {
				t.Fatalf("question %d altered: %+v", q.ID, q)
			}
			for j := range orig.Options {
				if q.Options[j] != orig.Options[j] {
					t.Fatalf("option order changed for question %d", q.ID)
				}
			}
			seen[q.ID] = true
			if q.ID != bank[i].ID {
				shuffled = true
			}
		}
		if len(seen) != len(bank) {
			t.Fatalf("expected a permutation of the bank, got %d distinct questions", len(seen))
		}
	}
	if !shuffled {
		t.Fatalf("expected question order to be shuffled")
	}
}

func TestSubmitErrors(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC))
	service, _ := newTestService(clock)

	if _, err := service.Submit(ctx, "ghost", domain.Submission{Answers: []domain.Answer{}}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := service.Questions(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	register(t, service, "u1", "Alice")
	if _, err := service.Submit(ctx, "u1", domain.Submission{}); !errors.Is(err, domain.ErrMalformedSubmission) {
		t.Fatalf("expected ErrMalformedSubmission for missing answers, got %v", err)
	}
	if _, err := service.Submit(ctx, "u1", domain.Submission{Answers: []domain.Answer{}, TimeSpent: intPtr(-5)}); !errors.Is(err, domain.ErrMalformedSubmission) {
		t.Fatalf("expected ErrMalformedSubmission for negative time, got %v", err)
	}

	// Rejected submissions must not consume the daily attempt.
	if _, err := service.Questions(ctx, "u1"); err != nil {
		t.Fatalf("expected eligibility to survive rejected submissions, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC))
	service, _ := newTestService(clock)

	user, err := service.Register(ctx, domain.Registration{UserID: "u1", Name: " Ada Lovelace ", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Name != "Ada Lovelace" || user.MembershipType != domain.DefaultMembershipType {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.Avatar != "https://api.dicebear.com/7.x/avataaars/svg?seed=Ada+Lovelace" {
		t.Fatalf("unexpected avatar %q", user.Avatar)
	}
	if user.Score != 0 || user.XP != 0 || len(user.Badges) != 0 || user.LastQuizAt != nil || !user.CreatedAt.Equal(clock.Now()) {
		t.Fatalf("expected a zeroed record, got %+v", user)
	}

	if _, err := service.Register(ctx, domain.Registration{UserID: "u1", Name: "Ada", Email: "ada@example.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := service.Register(ctx, domain.Registration{UserID: "u2", Name: "", Email: "nope"}); !errors.Is(err, domain.ErrInvalidRegistration) {
		t.Fatalf("expected ErrInvalidRegistration, got %v", err)
	}
}

func TestLeaderboardScenario(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC))
	service, users := newTestService(clock)

	at := clock.Now()
	for _, u := range []domain.UserRecord{
		{ID: "first", Name: "First", Score: 80, XP: 10, LastQuizAt: &at},
		{ID: "second", Name: "Second", Score: 80, XP: 20, LastQuizAt: &at},
		{ID: "third", Name: "Third", Score: 50, XP: 5, LastQuizAt: &at},
		{ID: "fresh", Name: "Fresh"},
	} {
		if err := users.Put(ctx, u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	entries, err := service.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 3 || entries[0].ID != "second" || entries[1].ID != "first" || entries[2].ID != "third" {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC))
	service, _ := newTestService(clock)
	register(t, service, "u1", "Alice")

	ch, cancel, err := service.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	initial := <-ch
	if len(initial.Entries) != 0 {
		t.Fatalf("expected empty initial leaderboard, got %+v", initial.Entries)
	}

	if _, err := service.Submit(ctx, "u1", domain.Submission{Answers: correctAnswers(domain.DefaultBank()[:4])}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	update := <-ch
	if len(update.Entries) != 1 || update.Entries[0].ID != "u1" || update.Entries[0].Score != 40 {
		t.Fatalf("expected updated score 40, got %+v", update.Entries)
	}
}

type testClock struct {
	now time.Time
}

func newTestClock(start time.Time) *testClock { return &testClock{now: start} }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(clock *testClock, opts ...app.Option) (*app.QuizService, *memory.UserStore) {
	users := memory.NewUserStore()
	bank := memory.NewBankRepository(memory.NewDefaultBankLoader(), 5*time.Minute)
	opts = append([]app.Option{app.WithClock(clock.Now), app.WithLocation(time.UTC)}, opts...)
	return app.NewQuizService(users, bank, opts...), users
}

func register(t *testing.T, service *app.QuizService, userID, name string) {
	t.Helper()
	if _, err := service.Register(context.Background(), domain.Registration{
		UserID: userID,
		Name:   name,
		Email:  userID + "@example.com",
	}); err != nil {
		t.Fatalf("register %s: %v", userID, err)
	}
}
