package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"rtw/internal/domain/auth"
	"rtw/internal/platform/config"
)

// Seed ensures the configured admin user exists. Safe to run on every
// start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		slog.Info("seed admin not configured, skipping")
		return nil
	}

	var exists bool
	if err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", cfg.SeedAdminEmail).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role)
    VALUES ($1,$2,$3)
  `, cfg.SeedAdminEmail, hash, auth.RoleAdmin)
	if err != nil {
		return err
	}
	slog.Info("seeded admin user", "email", cfg.SeedAdminEmail)
	return nil
}
