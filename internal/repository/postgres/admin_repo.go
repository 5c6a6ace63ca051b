package postgres

import (
	"context"
	"fmt"
	"go-workspace-portal/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type adminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) domain.AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{}

	err := r.db.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE role = 'admin'),
			count(*) FILTER (WHERE role = 'client')
		FROM users
	`).Scan(&stats.TotalUsers, &stats.UsersByRole.Admin, &stats.UsersByRole.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT count(*) FROM workspaces`).Scan(&stats.TotalWorkspaces)
	if err != nil {
		return nil, fmt.Errorf("failed to count workspaces: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'in_progress'),
			count(*) FILTER (WHERE status = 'submitted'),
			count(*) FILTER (WHERE status = 'approved'),
			count(*) FILTER (WHERE status = 'rejected')
		FROM onboarding_records
	`).Scan(
		&stats.OnboardingByStatus.Pending,
		&stats.OnboardingByStatus.InProgress,
		&stats.OnboardingByStatus.Submitted,
		&stats.OnboardingByStatus.Approved,
		&stats.OnboardingByStatus.Rejected,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count onboarding records: %w", err)
	}

	return stats, nil
}

func (r *adminRepo) ListUsers(ctx context.Context, role string, page, pageSize int) ([]domain.AdminUser, int64, error) {
	where := ""
	args := []interface{}{}
	if role != "" {
		where = "WHERE role = $1"
		args = append(args, role)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (page - 1) * pageSize
	listArgs := append(args, pageSize, offset)
	query := fmt.Sprintf(`
		SELECT id, email, role, workspace_id, is_disabled,
		       to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		       to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM users %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.AdminUser
	for rows.Next() {
		var u domain.AdminUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.WorkspaceID, &u.IsDisabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, total, nil
}

func (r *adminRepo) UpdateUserRole(ctx context.Context, userID string, role string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, userID, role)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

func (r *adminRepo) DisableUser(ctx context.Context, userID string, disable bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_disabled = $2, updated_at = now() WHERE id = $1`, userID, disable)
	if err != nil {
		return fmt.Errorf("failed to update user disabled flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

func (r *adminRepo) ListWorkspaces(ctx context.Context, onboardingStatus string, page, pageSize int) ([]domain.AdminWorkspace, int64, error) {
	where := ""
	args := []interface{}{}
	if onboardingStatus != "" {
		where = "WHERE o.status = $1"
		args = append(args, onboardingStatus)
	}

	var total int64
	countQuery := `
		SELECT count(*)
		FROM workspaces w
		LEFT JOIN onboarding_records o ON o.workspace_id = w.id ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count workspaces: %w", err)
	}

	offset := (page - 1) * pageSize
	listArgs := append(args, pageSize, offset)
	query := fmt.Sprintf(`
		SELECT w.id, w.name, coalesce(w.subdomain, ''), w.owner_id, u.email,
		       coalesce(o.status, 'pending'),
		       to_char(w.created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		       to_char(w.updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM workspaces w
		JOIN users u ON u.id = w.owner_id
		LEFT JOIN onboarding_records o ON o.workspace_id = w.id
		%s
		ORDER BY w.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.AdminWorkspace
	for rows.Next() {
		var w domain.AdminWorkspace
		if err := rows.Scan(&w.ID, &w.Name, &w.Subdomain, &w.OwnerID, &w.OwnerEmail, &w.OnboardingStatus, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan workspace row: %w", err)
		}
		workspaces = append(workspaces, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating workspace rows: %w", err)
	}

	return workspaces, total, nil
}
