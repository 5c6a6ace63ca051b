package postgres

import (
	"context"
	"errors"
	"fmt"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type workspaceRepo struct {
	db *pgxpool.Pool
}

func NewWorkspaceRepository(db *pgxpool.Pool) domain.WorkspaceRepository {
	return &workspaceRepo{db: db}
}

// CreateForOwner inserts the workspace and links users.workspace_id in a
// single transaction. The owner_id unique constraint is the backstop
// against two tabs racing the creation form.
func (r *workspaceRepo) CreateForOwner(ctx context.Context, ws *domain.Workspace) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO workspaces (name, subdomain, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, ws.Name, ws.Subdomain, ws.OwnerID, ws.CreatedAt, ws.UpdatedAt).Scan(&ws.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("A workspace already exists for this owner")
		}
		return apperror.Internal(err)
	}

	tag, err := tx.Exec(ctx, `UPDATE users SET workspace_id = $1, updated_at = $2 WHERE id = $3`,
		ws.ID, ws.UpdatedAt, ws.OwnerID)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.Internal(fmt.Errorf("owner %s has no user row to link", ws.OwnerID))
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *workspaceRepo) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	query := `SELECT id, name, subdomain, owner_id, created_at, updated_at FROM workspaces WHERE id = $1`
	var ws domain.Workspace
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ws.ID, &ws.Name, &ws.Subdomain, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &ws, nil
}

func (r *workspaceRepo) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Workspace, error) {
	query := `SELECT id, name, subdomain, owner_id, created_at, updated_at FROM workspaces WHERE owner_id = $1`
	var ws domain.Workspace
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&ws.ID, &ws.Name, &ws.Subdomain, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace by owner: %w", err)
	}
	return &ws, nil
}

func (r *workspaceRepo) Update(ctx context.Context, ws *domain.Workspace) error {
	query := `UPDATE workspaces SET name = $2, subdomain = $3, updated_at = $4 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, ws.ID, ws.Name, ws.Subdomain, ws.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("Subdomain is already taken")
		}
		return apperror.Internal(err)
	}
	return nil
}
