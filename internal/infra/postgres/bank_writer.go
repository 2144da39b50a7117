package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"ieee-quiz-service/internal/domain"
)

type bankRow struct {
	bun.BaseModel `bun:"table:question_banks"`

	ID        string            `bun:"id,pk"`
	Data      []domain.Question `bun:"data,type:jsonb,notnull"`
	UpdatedAt time.Time         `bun:"updated_at,notnull"`
}

// SaveBank upserts a question bank so the pgx loader can serve it.
func SaveBank(ctx context.Context, db *bun.DB, bankID string, questions []domain.Question) error {
	row := bankRow{ID: bankID, Data: questions, UpdatedAt: time.Now().UTC()}
	_, err := db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save bank %s: %w", bankID, err)
	}
	return nil
}
