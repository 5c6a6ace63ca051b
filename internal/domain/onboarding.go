package domain

import (
	"context"
	"encoding/json"
	"time"
)

// OnboardingStatus tracks the questionnaire review lifecycle.
type OnboardingStatus string

const (
	OnboardingPending    OnboardingStatus = "pending"
	OnboardingInProgress OnboardingStatus = "in_progress"
	OnboardingSubmitted  OnboardingStatus = "submitted"
	OnboardingApproved   OnboardingStatus = "approved"
	OnboardingRejected   OnboardingStatus = "rejected"
)

func ValidOnboardingStatuses() []OnboardingStatus {
	return []OnboardingStatus{
		OnboardingPending,
		OnboardingInProgress,
		OnboardingSubmitted,
		OnboardingApproved,
		OnboardingRejected,
	}
}

func (s OnboardingStatus) IsValid() bool {
	for _, valid := range ValidOnboardingStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// CanSubmit reports whether a record in this status may move to submitted.
// Rejected records may be corrected and resubmitted.
func (s OnboardingStatus) CanSubmit() bool {
	return s == OnboardingPending || s == OnboardingInProgress || s == OnboardingRejected
}

// CanReview reports whether an admin may approve or reject this record.
func (s OnboardingStatus) CanReview() bool {
	return s == OnboardingSubmitted
}

// OnboardingRecord is one-to-one with a Workspace. Answers are an opaque
// JSON shape owned by the frontend questionnaire.
type OnboardingRecord struct {
	ID             int64            `json:"id"`
	WorkspaceID    int64            `json:"workspace_id"`
	Answers        json.RawMessage  `json:"answers"`
	Status         OnboardingStatus `json:"status"`
	IdempotencyKey *string          `json:"-"`
	SubmittedAt    *time.Time       `json:"submitted_at,omitempty"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	ReviewReason   *string          `json:"review_reason,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type SaveOnboardingRequest struct {
	Answers json.RawMessage `json:"answers" validate:"required"`
}

type ReviewOnboardingRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

type OnboardingRepository interface {
	// GetOrCreate returns the workspace's record, lazily creating a
	// pending one on first access.
	GetOrCreate(ctx context.Context, workspaceID int64) (*OnboardingRecord, error)
	GetByWorkspaceID(ctx context.Context, workspaceID int64) (*OnboardingRecord, error)
	// SaveAnswers stores the answers and moves the record to in_progress.
	SaveAnswers(ctx context.Context, workspaceID int64, answers json.RawMessage) (*OnboardingRecord, error)
	// Submit marks the record submitted, stamping the idempotency key.
	// A repeat call carrying a key already stored is a no-op.
	Submit(ctx context.Context, workspaceID int64, idempotencyKey string, at time.Time) (*OnboardingRecord, error)
	// Review finalizes a submitted record as approved or rejected.
	Review(ctx context.Context, workspaceID int64, status OnboardingStatus, reason string, at time.Time) (*OnboardingRecord, error)
}

type OnboardingUsecase interface {
	GetOnboarding(ctx context.Context, userID string) (*OnboardingRecord, error)
	SaveAnswers(ctx context.Context, userID string, req *SaveOnboardingRequest) (*OnboardingRecord, error)
	Submit(ctx context.Context, userID string, idempotencyKey string) (*OnboardingRecord, error)
}
