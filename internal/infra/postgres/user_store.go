package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"ieee-quiz-service/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:user_records,alias:u"`

	ID             string     `bun:"id,pk"`
	Name           string     `bun:"name,notnull"`
	Email          string     `bun:"email,notnull"`
	MembershipType string     `bun:"membership_type,notnull"`
	Avatar         string     `bun:"avatar,notnull"`
	Score          int        `bun:"score,notnull"`
	XP             int        `bun:"xp,notnull"`
	Badges         []string   `bun:"badges,type:jsonb,notnull"`
	LastQuizAt     *time.Time `bun:"last_quiz_at"`
	TimeSpent      *int       `bun:"time_spent"`
	CreatedAt      time.Time  `bun:"created_at,notnull"`
}

// UserStore persists user records in the user_records table.
type UserStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Get(ctx context.Context, userID string) (domain.UserRecord, error) {
	var row userRow
	err := s.db.NewSelect().Model(&row).Where("u.id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserRecord{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return row.toDomain(), nil
}

func (s *UserStore) Put(ctx context.Context, user domain.UserRecord) error {
	row := fromDomain(user)
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("email = EXCLUDED.email").
		Set("membership_type = EXCLUDED.membership_type").
		Set("avatar = EXCLUDED.avatar").
		Set("score = EXCLUDED.score").
		Set("xp = EXCLUDED.xp").
		Set("badges = EXCLUDED.badges").
		Set("last_quiz_at = EXCLUDED.last_quiz_at").
		Set("time_spent = EXCLUDED.time_spent").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("put user %s: %w", user.ID, err)
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.UserRecord, error) {
	var rows []userRow
	if err := s.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.UserRecord, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}

func fromDomain(u domain.UserRecord) userRow {
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return userRow{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		MembershipType: u.MembershipType,
		Avatar:         u.Avatar,
		Score:          u.Score,
		XP:             u.XP,
		Badges:         badges,
		LastQuizAt:     u.LastQuizAt,
		TimeSpent:      u.TimeSpent,
		CreatedAt:      u.CreatedAt,
	}
}

func (r userRow) toDomain() domain.UserRecord {
	badges := r.Badges
	if badges == nil {
		badges = []string{}
	}
	return domain.UserRecord{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		MembershipType: r.MembershipType,
		Avatar:         r.Avatar,
		Score:          r.Score,
		XP:             r.XP,
		Badges:         badges,
		LastQuizAt:     r.LastQuizAt,
		TimeSpent:      r.TimeSpent,
		CreatedAt:      r.CreatedAt,
	}
}
