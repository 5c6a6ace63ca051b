package usecase

import (
	"context"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/apperror"
	"go-workspace-portal/pkg/validation"
	"time"

	"github.com/go-playground/validator/v10"
)

type workspaceUsecase struct {
	repo     domain.WorkspaceRepository
	userRepo domain.UserRepository
	validate *validator.Validate
}

func NewWorkspaceUsecase(repo domain.WorkspaceRepository, userRepo domain.UserRepository, validate *validator.Validate) domain.WorkspaceUsecase {
	return &workspaceUsecase{
		repo:     repo,
		userRepo: userRepo,
		validate: validate,
	}
}

func (u *workspaceUsecase) CreateWorkspace(ctx context.Context, ownerID string, req *domain.CreateWorkspaceRequest) (*domain.Workspace, error) {
	// Security: Verify context user matches requested owner
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != ownerID {
		return nil, apperror.Forbidden("You can only create your own workspace")
	}

	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + validation.Message(err))
	}

	// One workspace per owner. The unique constraint is the real guard
	// against racing tabs; this check just gives a friendlier answer.
	existing, err := u.repo.GetByOwnerID(ctx, ownerID)
	if err == nil && existing != nil {
		return nil, apperror.Conflict("You already have a workspace")
	}

	now := time.Now()
	ws := &domain.Workspace{
		Name:      req.Name,
		Subdomain: req.Subdomain,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Insert + user link happen in one transaction inside the repository.
	if err := u.repo.CreateForOwner(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (u *workspaceUsecase) GetMyWorkspace(ctx context.Context, userID string) (*domain.Workspace, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return nil, apperror.Forbidden("You can only view your own workspace")
	}

	ws, err := u.repo.GetByOwnerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, apperror.NotFound("Workspace not found")
	}
	return ws, nil
}

func (u *workspaceUsecase) UpdateMyWorkspace(ctx context.Context, userID string, req *domain.UpdateWorkspaceRequest) (*domain.Workspace, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return nil, apperror.Forbidden("You can only update your own workspace")
	}

	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + validation.Message(err))
	}

	ws, err := u.repo.GetByOwnerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, apperror.NotFound("Workspace not found")
	}

	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.Subdomain != nil {
		ws.Subdomain = req.Subdomain
	}
	ws.UpdatedAt = time.Now()

	if err := u.repo.Update(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}
