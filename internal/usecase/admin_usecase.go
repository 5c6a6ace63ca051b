package usecase

import (
	"context"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/apperror"
	"go-workspace-portal/pkg/validation"
	"time"

	"github.com/go-playground/validator/v10"
)

type adminUsecase struct {
	repo           domain.AdminRepository
	userRepo       domain.UserRepository
	onboardingRepo domain.OnboardingRepository
	validate       *validator.Validate
}

func NewAdminUsecase(repo domain.AdminRepository, userRepo domain.UserRepository, onboardingRepo domain.OnboardingRepository, validate *validator.Validate) domain.AdminUsecase {
	return &adminUsecase{
		repo:           repo,
		userRepo:       userRepo,
		onboardingRepo: onboardingRepo,
		validate:       validate,
	}
}

// requireAdmin guards every admin operation with the context role.
// Fails safe when the role is absent.
func requireAdmin(ctx context.Context) error {
	role, ok := ctx.Value(domain.KeyUserRole).(string)
	if !ok || role != domain.RoleAdmin {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func (u *adminUsecase) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	stats, err := u.repo.GetStats(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	stats.SystemHealth = domain.SystemHealth{
		Status:      "healthy",
		LastChecked: time.Now().UTC().Format(time.RFC3339),
	}
	return stats, nil
}

func (u *adminUsecase) ListUsers(ctx context.Context, role string, page, pageSize int) (*domain.PaginatedResult[domain.AdminUser], error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if role != "" && role != domain.RoleAdmin && role != domain.RoleClient {
		return nil, apperror.BadRequest("Unknown role filter: " + role)
	}
	page, pageSize = normalizePage(page, pageSize)

	users, total, err := u.repo.ListUsers(ctx, role, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return paginate(users, total, page, pageSize), nil
}

func (u *adminUsecase) UpdateUserRole(ctx context.Context, userID string, role string) (*domain.User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && role != domain.RoleClient {
		return nil, apperror.BadRequest("Role must be admin or client")
	}

	// Admins must not demote themselves and lock everyone out
	if ctxUserID, _ := ctx.Value(domain.KeyUserID).(string); ctxUserID == userID && role != domain.RoleAdmin {
		return nil, apperror.BadRequest("You cannot remove your own admin role")
	}

	if err := u.repo.UpdateUserRole(ctx, userID, role); err != nil {
		return nil, err
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (u *adminUsecase) DisableUser(ctx context.Context, userID string, disable bool) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if ctxUserID, _ := ctx.Value(domain.KeyUserID).(string); ctxUserID == userID && disable {
		return apperror.BadRequest("You cannot disable your own account")
	}
	return u.repo.DisableUser(ctx, userID, disable)
}

func (u *adminUsecase) ListWorkspaces(ctx context.Context, onboardingStatus string, page, pageSize int) (*domain.PaginatedResult[domain.AdminWorkspace], error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if onboardingStatus != "" && !domain.OnboardingStatus(onboardingStatus).IsValid() {
		return nil, apperror.BadRequest("Unknown onboarding status filter: " + onboardingStatus)
	}
	page, pageSize = normalizePage(page, pageSize)

	workspaces, total, err := u.repo.ListWorkspaces(ctx, onboardingStatus, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return paginate(workspaces, total, page, pageSize), nil
}

func (u *adminUsecase) ReviewOnboarding(ctx context.Context, workspaceID int64, req *domain.ReviewOnboardingRequest) (*domain.OnboardingRecord, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	var target domain.OnboardingStatus
	switch req.Action {
	case "approve":
		target = domain.OnboardingApproved
	case "reject":
		target = domain.OnboardingRejected
		if req.Reason == "" {
			return nil, apperror.BadRequest("A reason is required when rejecting")
		}
	default:
		return nil, apperror.BadRequest("Action must be approve or reject")
	}

	record, err := u.onboardingRepo.GetByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if record == nil {
		return nil, apperror.NotFound("Onboarding record not found")
	}
	if !record.Status.CanReview() {
		return nil, apperror.Conflict("Only submitted onboarding can be reviewed; current status is " + string(record.Status))
	}

	record, err = u.onboardingRepo.Review(ctx, workspaceID, target, req.Reason, time.Now())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return record, nil
}

func paginate[T any](data []T, total int64, page, pageSize int) *domain.PaginatedResult[T] {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
