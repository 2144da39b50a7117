package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"ieee-quiz-service/internal/config"
	"ieee-quiz-service/internal/domain"
	"ieee-quiz-service/internal/infra/postgres"
)

// NewSeedCmd stores the shipped question bank in Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the built-in IEEE question bank into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	bankID := bankIDFrom(cfg)
	db := postgres.OpenBun(cfg.Postgres.URL)
	defer db.Close()

	bank := domain.DefaultBank()
	if err := postgres.SaveBank(ctx, db, bankID, bank); err != nil {
		return err
	}
	log.Printf("seeded bank %q with %d questions", bankID, len(bank))
	return nil
}

func bankIDFrom(cfg config.Config) string {
	if cfg.Quiz.Bank == "" {
		return domain.DefaultBankID
	}
	return cfg.Quiz.Bank
}
