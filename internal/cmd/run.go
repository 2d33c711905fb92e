package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AnhKhoa14/bakery/internal/auth"
	"github.com/AnhKhoa14/bakery/internal/config"
	"github.com/AnhKhoa14/bakery/internal/database"
	"github.com/AnhKhoa14/bakery/internal/mail"
	"github.com/AnhKhoa14/bakery/internal/server"
	"github.com/AnhKhoa14/bakery/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bakery API server",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
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
	log.Info().Str("database", cfg.Mongo.Database).Msg("database connected")

	stores := store.NewStores(db)
	codec := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	mailer := mail.New(cfg.Mail)

	srv := server.NewServer(db, stores, codec, mailer)
	log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
