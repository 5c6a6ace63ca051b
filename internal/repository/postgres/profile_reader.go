package postgres

import (
	"context"
	"errors"
	"fmt"
	"go-workspace-portal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// elevatedProfileReader reads the users table with service-role
// credentials, bypassing row-level security. Used only as the fallback
// tier of the profile loader.
type elevatedProfileReader struct {
	db *pgxpool.Pool
}

func NewElevatedProfileReader(db *pgxpool.Pool) domain.ProfileReader {
	return &elevatedProfileReader{db: db}
}

func (r *elevatedProfileReader) ReadProfile(ctx context.Context, userID, _ string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.QueryRow(ctx,
		`SELECT role, workspace_id FROM users WHERE id = $1`, userID,
	).Scan(&profile.Role, &profile.WorkspaceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("elevated profile read: %w", err)
	}
	return &profile, nil
}
