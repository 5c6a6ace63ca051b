package usecase

import (
	"context"
	"encoding/json"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/apperror"
	"go-workspace-portal/pkg/email"
	"go-workspace-portal/pkg/logger"
	"go-workspace-portal/pkg/validation"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type onboardingUsecase struct {
	repo          domain.OnboardingRepository
	workspaceRepo domain.WorkspaceRepository
	emailService  *email.EmailService
	validate      *validator.Validate
}

func NewOnboardingUsecase(repo domain.OnboardingRepository, workspaceRepo domain.WorkspaceRepository, emailService *email.EmailService, validate *validator.Validate) domain.OnboardingUsecase {
	return &onboardingUsecase{
		repo:          repo,
		workspaceRepo: workspaceRepo,
		emailService:  emailService,
		validate:      validate,
	}
}

// callerWorkspace resolves the authenticated caller's workspace, enforcing
// that onboarding is only ever touched through one's own tenant.
func (u *onboardingUsecase) callerWorkspace(ctx context.Context, userID string) (*domain.Workspace, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return nil, apperror.Forbidden("You can only access your own onboarding")
	}

	ws, err := u.workspaceRepo.GetByOwnerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, apperror.NotFound("Create a workspace before starting onboarding")
	}
	return ws, nil
}

func (u *onboardingUsecase) GetOnboarding(ctx context.Context, userID string) (*domain.OnboardingRecord, error) {
	ws, err := u.callerWorkspace(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Lazily created as pending on first access
	record, err := u.repo.GetOrCreate(ctx, ws.ID)
	if err != nil {
		return nil, apperror.New(500, "Failed to load onboarding record", err)
	}
	return record, nil
}

func (u *onboardingUsecase) SaveAnswers(ctx context.Context, userID string, req *domain.SaveOnboardingRequest) (*domain.OnboardingRecord, error) {
	ws, err := u.callerWorkspace(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + validation.Message(err))
	}
	// Answers are an opaque questionnaire shape, but they must at least
	// be a JSON object.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(req.Answers, &probe); err != nil {
		return nil, apperror.BadRequest("Answers must be a JSON object")
	}

	record, err := u.repo.GetOrCreate(ctx, ws.ID)
	if err != nil {
		return nil, apperror.New(500, "Failed to load onboarding record", err)
	}
	if record.Status == domain.OnboardingSubmitted || record.Status == domain.OnboardingApproved {
		return nil, apperror.Conflict("Onboarding is already " + string(record.Status) + " and can no longer be edited")
	}

	record, err = u.repo.SaveAnswers(ctx, ws.ID, req.Answers)
	if err != nil {
		return nil, apperror.New(500, "Failed to save onboarding answers", err)
	}
	return record, nil
}

func (u *onboardingUsecase) Submit(ctx context.Context, userID string, idempotencyKey string) (*domain.OnboardingRecord, error) {
	ws, err := u.callerWorkspace(ctx, userID)
	if err != nil {
		return nil, err
	}

	record, err := u.repo.GetOrCreate(ctx, ws.ID)
	if err != nil {
		return nil, apperror.New(500, "Failed to load onboarding record", err)
	}

	// Double submits from racing tabs carry the same key, or hit a record
	// already past submission; both are no-op successes.
	if record.Status == domain.OnboardingSubmitted || record.Status == domain.OnboardingApproved {
		return record, nil
	}
	if !record.Status.CanSubmit() {
		return nil, apperror.Conflict("Onboarding cannot be submitted from status " + string(record.Status))
	}
	if len(record.Answers) == 0 || string(record.Answers) == "null" || string(record.Answers) == "{}" {
		return nil, apperror.BadRequest("Complete the questionnaire before submitting")
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	} else if _, err := uuid.Parse(idempotencyKey); err != nil {
		return nil, apperror.BadRequest("Idempotency-Key must be a UUID")
	}

	record, err = u.repo.Submit(ctx, ws.ID, idempotencyKey, time.Now())
	if err != nil {
		return nil, apperror.New(500, "Failed to submit onboarding", err)
	}

	// Notification is best effort; a review inbox outage must not fail
	// the submission.
	if u.emailService != nil && u.emailService.IsConfigured() {
		ownerEmail, _ := ctx.Value(domain.KeyUserEmail).(string)
		go func(data email.ReviewEmailData) {
			if err := u.emailService.SendReviewNotification(data); err != nil {
				logger.Log.Warn("review notification failed", "workspace_id", ws.ID, "error", err)
			}
		}(email.ReviewEmailData{
			WorkspaceName: ws.Name,
			OwnerEmail:    ownerEmail,
			SubmittedAt:   record.SubmittedAt.Format(time.RFC3339),
		})
	}

	return record, nil
}
