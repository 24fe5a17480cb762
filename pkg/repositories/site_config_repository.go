package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/DevWeb31/phuong-long-sub002/pkg/database"
)

// SiteConfigRepository defines the interface for mutable site-wide flags.
// Flags are read through on every gating decision, never cached across
// requests, so an administrative toggle takes effect within one request.
type SiteConfigRepository interface {
	// GetFlag reads one boolean flag. A missing key reads as false.
	GetFlag(ctx context.Context, key string) (bool, error)

	// SetFlag upserts one boolean flag.
	SetFlag(ctx context.Context, key string, value bool) error
}

// siteConfigRepository implements SiteConfigRepository using PostgreSQL.
type siteConfigRepository struct {
	db *database.DB
}

// NewSiteConfigRepository creates a new site config repository.
func NewSiteConfigRepository(db *database.DB) SiteConfigRepository {
	return &siteConfigRepository{db: db}
}

// GetFlag reads one flag.
func (r *siteConfigRepository) GetFlag(ctx context.Context, key string) (bool, error) {
	query := `SELECT value FROM site_config WHERE key = $1`

	var value bool
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get config flag %q: %w", key, err)
	}

	return value, nil
}

// SetFlag upserts one flag.
func (r *siteConfigRepository) SetFlag(ctx context.Context, key string, value bool) error {
	query := `
		INSERT INTO site_config (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set config flag %q: %w", key, err)
	}

	return nil
}

// Ensure siteConfigRepository implements SiteConfigRepository at compile time.
var _ SiteConfigRepository = (*siteConfigRepository)(nil)
