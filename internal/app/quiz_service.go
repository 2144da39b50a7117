package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"ieee-quiz-service/internal/domain"
)

// UserStore abstracts where user records live (in-memory, Redis, Postgres).
// Get returns domain.ErrUserNotFound when the id has no record.
type UserStore interface {
	Get(ctx context.Context, userID string) (domain.UserRecord, error)
	Put(ctx context.Context, user domain.UserRecord) error
	List(ctx context.Context) ([]domain.UserRecord, error)
}

// BankRepository loads question bank content (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) ([]domain.Question, error)
}

// IdentityResolver maps an opaque credential to a stable user id.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// QuizService contains the daily quiz use cases.
type QuizService struct {
	users    UserStore
	bank     BankRepository
	bankID   string
	location *time.Location
	now      func() time.Time
	feed     *LeaderboardFeed
	validate *validator.Validate

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithClock overrides time.Now, mainly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithRand injects the source used to shuffle question order.
func WithRand(rnd *rand.Rand) Option {
	return func(s *QuizService) { s.rnd = rnd }
}

// WithLocation sets the time zone in which calendar days are compared.
func WithLocation(loc *time.Location) Option {
	return func(s *QuizService) { s.location = loc }
}

// WithBankID selects which question bank attempts are drawn from.
func WithBankID(bankID string) Option {
	return func(s *QuizService) { s.bankID = bankID }
}

func NewQuizService(users UserStore, bank BankRepository, opts ...Option) *QuizService {
	s := &QuizService{
		users:    users,
		bank:     bank,
		bankID:   domain.DefaultBankID,
		location: time.Local,
		now:      time.Now,
		validate: validator.New(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.feed = NewLeaderboardFeed(s.now)
	return s
}

// Register creates the user record for a freshly signed-up identity.
func (s *QuizService) Register(ctx context.Context, reg domain.Registration) (domain.UserRecord, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := s.validate.Struct(reg); err != nil {
		return domain.UserRecord{}, fmt.Errorf("%w: %v", domain.ErrInvalidRegistration, err)
	}

	_, err := s.users.Get(ctx, reg.UserID)
	switch {
	case err == nil:
		return domain.UserRecord{}, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return domain.UserRecord{}, err
	}

	membership := reg.MembershipType
	if membership == "" {
		membership = domain.DefaultMembershipType
	}
	user := domain.UserRecord{
		ID:             reg.UserID,
		Name:           reg.Name,
		Email:          reg.Email,
		MembershipType: membership,
		Avatar:         avatarURL(reg.Name),
		Badges:         []string{},
		CreatedAt:      s.now(),
	}
	if err := s.users.Put(ctx, user); err != nil {
		return domain.UserRecord{}, err
	}
	return user, nil
}

// Profile returns the stored record of an authenticated user.
func (s *QuizService) Profile(ctx context.Context, userID string) (domain.UserRecord, error) {
	return s.users.Get(ctx, userID)
}

// Eligibility reports whether the user may start today's quiz without failing.
func (s *QuizService) Eligibility(ctx context.Context, userID string) (domain.Eligibility, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.Eligibility{}, err
	}
	if CanAttempt(user.LastQuizAt, s.now(), s.location) {
		return domain.Eligibility{CanTakeQuiz: true}, nil
	}
	return domain.Eligibility{
		CanTakeQuiz: false,
		Message:     domain.ErrAlreadyAttemptedToday.Error(),
		LastAttempt: user.LastQuizAt,
	}, nil
}

// Questions returns today's questions in random order with the correct answers stripped.
func (s *QuizService) Questions(ctx context.Context, userID string) ([]domain.PublicQuestion, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkGate(user); err != nil {
		return nil, err
	}

	bank, err := s.bank.GetBank(ctx, s.bankID)
	if err != nil {
		return nil, err
	}

	public := make([]domain.PublicQuestion, len(bank))
	for i, q := range bank {
		public[i] = q.Public()
	}
	s.shuffle(public)
	return public, nil
}

// Submit scores an attempt, folds it into the user's record and publishes a fresh leaderboard.
func (s *QuizService) Submit(ctx context.Context, userID string, submission domain.Submission) (domain.AttemptResult, error) {
	if err := s.validate.Struct(submission); err != nil {
		return domain.AttemptResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedSubmission, err)
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.AttemptResult{}, err
	}
	if err := s.checkGate(user); err != nil {
		return domain.AttemptResult{}, err
	}

	bank, err := s.bank.GetBank(ctx, s.bankID)
	if err != nil {
		return domain.AttemptResult{}, err
	}

	attempt := Score(bank, submission.Answers, submission.TimeSpent)
	updated := Merge(user, attempt, submission.TimeSpent, s.now())
	if err := s.users.Put(ctx, updated); err != nil {
		return domain.AttemptResult{}, err
	}

	if _, err := s.publish(ctx); err != nil {
		// The attempt is already persisted; live subscribers catch up on the next publish.
		log.Printf("publish leaderboard after submission by %s: %v", userID, err)
	}

	return domain.AttemptResult{
		Score:          attempt.Score,
		CorrectAnswers: attempt.CorrectAnswers,
		TotalQuestions: attempt.TotalQuestions,
		XPEarned:       attempt.XPEarned,
		EarnedBadges:   attempt.EarnedBadges,
		User:           updated,
	}, nil
}

// Leaderboard ranks every stored user from a fresh read of the store.
func (s *QuizService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(users), nil
}

// Subscribe returns a channel that receives leaderboard updates after each accepted submission.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	entries, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.Subscribe(domain.Leaderboard{Entries: entries, UpdatedAt: s.now()})
	return ch, cancel, nil
}

func (s *QuizService) publish(ctx context.Context) (domain.Leaderboard, error) {
	entries, err := s.Leaderboard(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return s.feed.Publish(entries), nil
}

func (s *QuizService) checkGate(user domain.UserRecord) error {
	if CanAttempt(user.LastQuizAt, s.now(), s.location) {
		return nil
	}
	return &domain.AlreadyAttemptedError{LastAttempt: *user.LastQuizAt}
}

func (s *QuizService) shuffle(questions []domain.PublicQuestion) {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	s.rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

func avatarURL(name string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name)
}
