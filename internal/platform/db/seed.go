package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/auth"
	"hrpay/internal/platform/config"
)

// Seed brings the authorization tables and the bootstrap admin account up to
// date. It is safe to run on every start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePermissions(ctx, pool); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if err := ensureRoles(ctx, pool); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := ensureRolePermissions(ctx, pool); err != nil {
		return fmt.Errorf("seed role permissions: %w", err)
	}
	if err := ensureAdminUser(ctx, pool, cfg); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range auth.DefaultPermissions {
		_, err := pool.Exec(ctx, `
      INSERT INTO permissions (key) VALUES ($1)
      ON CONFLICT (key) DO NOTHING
    `, name)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) error {
	for role := range auth.RolePermissions {
		_, err := pool.Exec(ctx, `
      INSERT INTO roles (name) VALUES ($1)
      ON CONFLICT (name) DO NOTHING
    `, role)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for role, perms := range auth.RolePermissions {
		for _, perm := range perms {
			_, err := pool.Exec(ctx, `
        INSERT INTO role_permissions (role_id, permission_id)
        SELECT r.id, p.id FROM roles r, permissions p
        WHERE r.name = $1 AND p.key = $2
        ON CONFLICT (role_id, permission_id) DO NOTHING
      `, role, perm)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" {
		return nil
	}

	var exists bool
	if err := pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	password := cfg.SeedAdminPassword
	if password == "" {
		password = "changeme"
		slog.Warn("seeding admin with default password, set SEED_ADMIN_PASSWORD", "email", email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, name, password_hash, role_id)
    SELECT $1, $2, $3, r.id FROM roles r WHERE r.name = $4
  `, email, "System Administrator", hash, auth.RoleSuperAdmin)
	return err
}
