package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-workspace-portal/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type onboardingRepo struct {
	db *pgxpool.Pool
}

func NewOnboardingRepository(db *pgxpool.Pool) domain.OnboardingRepository {
	return &onboardingRepo{db: db}
}

const onboardingColumns = `id, workspace_id, answers, status, idempotency_key, submitted_at, reviewed_at, review_reason, created_at, updated_at`

func scanOnboarding(row pgx.Row) (*domain.OnboardingRecord, error) {
	var rec domain.OnboardingRecord
	err := row.Scan(
		&rec.ID, &rec.WorkspaceID, &rec.Answers, &rec.Status, &rec.IdempotencyKey,
		&rec.SubmittedAt, &rec.ReviewedAt, &rec.ReviewReason, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *onboardingRepo) GetOrCreate(ctx context.Context, workspaceID int64) (*domain.OnboardingRecord, error) {
	// ON CONFLICT DO NOTHING + follow-up select keeps the lazy creation
	// race-safe between two tabs hitting the flow at once.
	_, err := r.db.Exec(ctx, `
		INSERT INTO onboarding_records (workspace_id, answers, status, created_at, updated_at)
		VALUES ($1, '{}'::jsonb, $2, now(), now())
		ON CONFLICT (workspace_id) DO NOTHING
	`, workspaceID, domain.OnboardingPending)
	if err != nil {
		return nil, fmt.Errorf("failed to init onboarding record: %w", err)
	}
	return r.GetByWorkspaceID(ctx, workspaceID)
}

func (r *onboardingRepo) GetByWorkspaceID(ctx context.Context, workspaceID int64) (*domain.OnboardingRecord, error) {
	rec, err := scanOnboarding(r.db.QueryRow(ctx,
		`SELECT `+onboardingColumns+` FROM onboarding_records WHERE workspace_id = $1`, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get onboarding record: %w", err)
	}
	return rec, nil
}

func (r *onboardingRepo) SaveAnswers(ctx context.Context, workspaceID int64, answers json.RawMessage) (*domain.OnboardingRecord, error) {
	rec, err := scanOnboarding(r.db.QueryRow(ctx, `
		UPDATE onboarding_records
		SET answers = $2, status = $3, updated_at = now()
		WHERE workspace_id = $1
		RETURNING `+onboardingColumns, workspaceID, answers, domain.OnboardingInProgress))
	if err != nil {
		return nil, fmt.Errorf("failed to save onboarding answers: %w", err)
	}
	return rec, nil
}

func (r *onboardingRepo) Submit(ctx context.Context, workspaceID int64, idempotencyKey string, at time.Time) (*domain.OnboardingRecord, error) {
	// The status guard in the WHERE clause makes a concurrent double
	// submit update zero rows; the follow-up read then returns the record
	// the winner produced.
	rec, err := scanOnboarding(r.db.QueryRow(ctx, `
		UPDATE onboarding_records
		SET status = $2, idempotency_key = $3, submitted_at = $4, updated_at = now()
		WHERE workspace_id = $1 AND status IN ($5, $6, $7)
		RETURNING `+onboardingColumns,
		workspaceID, domain.OnboardingSubmitted, idempotencyKey, at,
		domain.OnboardingPending, domain.OnboardingInProgress, domain.OnboardingRejected))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByWorkspaceID(ctx, workspaceID)
		}
		return nil, fmt.Errorf("failed to submit onboarding: %w", err)
	}
	return rec, nil
}

func (r *onboardingRepo) Review(ctx context.Context, workspaceID int64, status domain.OnboardingStatus, reason string, at time.Time) (*domain.OnboardingRecord, error) {
	var reasonArg *string
	if reason != "" {
		reasonArg = &reason
	}
	rec, err := scanOnboarding(r.db.QueryRow(ctx, `
		UPDATE onboarding_records
		SET status = $2, review_reason = $3, reviewed_at = $4, updated_at = now()
		WHERE workspace_id = $1 AND status = $5
		RETURNING `+onboardingColumns,
		workspaceID, status, reasonArg, at, domain.OnboardingSubmitted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("onboarding for workspace %d is not awaiting review", workspaceID)
		}
		return nil, fmt.Errorf("failed to review onboarding: %w", err)
	}
	return rec, nil
}
