package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AnhKhoa14/bakery/internal/config"
	"github.com/AnhKhoa14/bakery/internal/database"
	"github.com/AnhKhoa14/bakery/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data (roles, categories, order statuses, payment methods)",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(cmd.Context(), &cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := store.NewStores(db).Seed(cmd.Context()); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}
	log.Info().Msg("reference data seeded")
	return nil
}
