package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go-workspace-portal/internal/domain"
	"go-workspace-portal/internal/usecase"
	"go-workspace-portal/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	validation.RegisterValidators(validate)
	return validate
}

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockWorkspaceRepo struct {
	mock.Mock
}

func (m *MockWorkspaceRepo) CreateForOwner(ctx context.Context, ws *domain.Workspace) error {
	return m.Called(ctx, ws).Error(0)
}
func (m *MockWorkspaceRepo) GetByID(ctx context.Context, id int64) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}
func (m *MockWorkspaceRepo) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Workspace, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}
func (m *MockWorkspaceRepo) Update(ctx context.Context, ws *domain.Workspace) error {
	return m.Called(ctx, ws).Error(0)
}

type MockOnboardingRepo struct {
	mock.Mock
}

func (m *MockOnboardingRepo) GetOrCreate(ctx context.Context, workspaceID int64) (*domain.OnboardingRecord, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingRecord), args.Error(1)
}
func (m *MockOnboardingRepo) GetByWorkspaceID(ctx context.Context, workspaceID int64) (*domain.OnboardingRecord, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingRecord), args.Error(1)
}
func (m *MockOnboardingRepo) SaveAnswers(ctx context.Context, workspaceID int64, answers json.RawMessage) (*domain.OnboardingRecord, error) {
	args := m.Called(ctx, workspaceID, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingRecord), args.Error(1)
}
func (m *MockOnboardingRepo) Submit(ctx context.Context, workspaceID int64, idempotencyKey string, at time.Time) (*domain.OnboardingRecord, error) {
	args := m.Called(ctx, workspaceID, idempotencyKey, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingRecord), args.Error(1)
}
func (m *MockOnboardingRepo) Review(ctx context.Context, workspaceID int64, status domain.OnboardingStatus, reason string, at time.Time) (*domain.OnboardingRecord, error) {
	args := m.Called(ctx, workspaceID, status, reason, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingRecord), args.Error(1)
}

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminStats), args.Error(1)
}
func (m *MockAdminRepo) ListUsers(ctx context.Context, role string, page, pageSize int) ([]domain.AdminUser, int64, error) {
	args := m.Called(ctx, role, page, pageSize)
	return args.Get(0).([]domain.AdminUser), args.Get(1).(int64), args.Error(2)
}
func (m *MockAdminRepo) UpdateUserRole(ctx context.Context, userID string, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}
func (m *MockAdminRepo) DisableUser(ctx context.Context, userID string, disable bool) error {
	return m.Called(ctx, userID, disable).Error(0)
}
func (m *MockAdminRepo) ListWorkspaces(ctx context.Context, status string, page, pageSize int) ([]domain.AdminWorkspace, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.AdminWorkspace), args.Get(1).(int64), args.Error(2)
}

func clientCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, userID)
	ctx = context.WithValue(ctx, domain.KeyUserRole, domain.RoleClient)
	return ctx
}

func adminCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, userID)
	ctx = context.WithValue(ctx, domain.KeyUserRole, domain.RoleAdmin)
	return ctx
}

func TestWorkspaceIDOR(t *testing.T) {
	mockRepo := new(MockWorkspaceRepo)
	mockUserRepo := new(MockUserRepo)
	uc := usecase.NewWorkspaceUsecase(mockRepo, mockUserRepo, newValidator())

	t.Run("Should fail when Context UserID does not match Argument UserID", func(t *testing.T) {
		_, err := uc.CreateWorkspace(clientCtx("user1"), "user2", &domain.CreateWorkspaceRequest{Name: "Acme"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only create your own workspace")
	})

	t.Run("Should fail safely when Context UserID is nil", func(t *testing.T) {
		ctx := context.Background() // keys missing
		_, err := uc.GetMyWorkspace(ctx, "user1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "User not authenticated")
	})
}

func TestWorkspaceCreateConflict(t *testing.T) {
	mockRepo := new(MockWorkspaceRepo)
	mockUserRepo := new(MockUserRepo)
	uc := usecase.NewWorkspaceUsecase(mockRepo, mockUserRepo, newValidator())

	existing := &domain.Workspace{ID: 7, Name: "Acme", OwnerID: "user1"}
	mockRepo.On("GetByOwnerID", mock.Anything, "user1").Return(existing, nil)

	_, err := uc.CreateWorkspace(clientCtx("user1"), "user1", &domain.CreateWorkspaceRequest{Name: "Second"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already have a workspace")
	mockRepo.AssertNotCalled(t, "CreateForOwner", mock.Anything, mock.Anything)
}

func TestWorkspaceNameValidation(t *testing.T) {
	mockRepo := new(MockWorkspaceRepo)
	mockUserRepo := new(MockUserRepo)
	uc := usecase.NewWorkspaceUsecase(mockRepo, mockUserRepo, newValidator())

	t.Run("Should reject names with emoji", func(t *testing.T) {
		_, err := uc.CreateWorkspace(clientCtx("user1"), "user1", &domain.CreateWorkspaceRequest{Name: "Acme 🚀"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Validation failed")
		mockRepo.AssertNotCalled(t, "CreateForOwner", mock.Anything, mock.Anything)
	})

	t.Run("Should reject names with special symbols", func(t *testing.T) {
		_, err := uc.CreateWorkspace(clientCtx("user1"), "user1", &domain.CreateWorkspaceRequest{Name: "Acme <script>"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Validation failed")
	})
}

func TestAdminPrivilege(t *testing.T) {
	mockRepo := new(MockAdminRepo)
	mockUserRepo := new(MockUserRepo)
	mockOnboardingRepo := new(MockOnboardingRepo)
	uc := usecase.NewAdminUsecase(mockRepo, mockUserRepo, mockOnboardingRepo, newValidator())

	t.Run("Should fail if role is not admin", func(t *testing.T) {
		_, err := uc.GetStats(clientCtx("user1"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Admin access required")
	})

	t.Run("Should fail safe if role is nil", func(t *testing.T) {
		_, err := uc.ListUsers(context.Background(), "", 1, 20)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Admin access required")
	})

	t.Run("Should not allow admins to demote themselves", func(t *testing.T) {
		_, err := uc.UpdateUserRole(adminCtx("admin1"), "admin1", domain.RoleClient)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot remove your own admin role")
	})

	t.Run("Should not allow admins to disable themselves", func(t *testing.T) {
		err := uc.DisableUser(adminCtx("admin1"), "admin1", true)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot disable your own account")
	})
}

func TestEnsureUserExists(t *testing.T) {
	t.Run("Should create a missing user with the client role", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo)

		mockRepo.On("GetByID", mock.Anything, "user1").Return(nil, pgx.ErrNoRows)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user := &domain.User{ID: "user1", Email: "user1@example.com"}
		err := uc.EnsureUserExists(context.Background(), user)
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleClient, user.Role)
		assert.False(t, user.CreatedAt.IsZero())
		mockRepo.AssertCalled(t, "Create", mock.Anything, user)
	})

	t.Run("Should be a no-op when the user is already in sync", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo)

		existing := &domain.User{ID: "user1", Email: "user1@example.com", Role: domain.RoleClient}
		mockRepo.On("GetByID", mock.Anything, "user1").Return(existing, nil)

		err := uc.EnsureUserExists(context.Background(), &domain.User{ID: "user1", Role: domain.RoleClient})
		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Should sync the role when the incoming one differs", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo)

		existing := &domain.User{ID: "user1", Email: "user1@example.com", Role: domain.RoleClient}
		mockRepo.On("GetByID", mock.Anything, "user1").Return(existing, nil)
		mockRepo.On("Update", mock.Anything, existing).Return(nil)

		err := uc.EnsureUserExists(context.Background(), &domain.User{ID: "user1", Role: domain.RoleAdmin})
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, existing.Role)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCheckEmailExists(t *testing.T) {
	t.Run("Should report true for a known email", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo)

		mockRepo.On("GetByEmail", mock.Anything, "known@example.com").Return(&domain.User{ID: "user1"}, nil)

		exists, err := uc.CheckEmailExists(context.Background(), "known@example.com")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Should report false without error when no row exists", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo)

		mockRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, pgx.ErrNoRows)

		exists, err := uc.CheckEmailExists(context.Background(), "new@example.com")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Should surface lookup failures", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo)

		mockRepo.On("GetByEmail", mock.Anything, "any@example.com").Return(nil, errors.New("connection refused"))

		_, err := uc.CheckEmailExists(context.Background(), "any@example.com")
		assert.Error(t, err)
	})
}

func TestAuthPrivilege(t *testing.T) {
	mockRepo := new(MockUserRepo)
	uc := usecase.NewAuthUsecase(mockRepo)

	t.Run("Should fail if role is not admin", func(t *testing.T) {
		err := uc.AssignRole(clientCtx("user1"), "target_user", domain.RoleAdmin)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Only admins can assign roles")
	})

	t.Run("Should fail safe if role is nil", func(t *testing.T) {
		err := uc.AssignRole(context.Background(), "target_user", domain.RoleAdmin)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Only admins can assign roles")
	})
}

func TestOnboardingSubmit(t *testing.T) {
	answers := json.RawMessage(`{"company_size":"10-50"}`)
	ws := &domain.Workspace{ID: 3, Name: "Acme", OwnerID: "user1"}

	t.Run("Submitting an already submitted record is a no-op", func(t *testing.T) {
		mockRepo := new(MockOnboardingRepo)
		mockWsRepo := new(MockWorkspaceRepo)
		uc := usecase.NewOnboardingUsecase(mockRepo, mockWsRepo, nil, newValidator())

		submitted := &domain.OnboardingRecord{WorkspaceID: 3, Answers: answers, Status: domain.OnboardingSubmitted}
		mockWsRepo.On("GetByOwnerID", mock.Anything, "user1").Return(ws, nil)
		mockRepo.On("GetOrCreate", mock.Anything, int64(3)).Return(submitted, nil)

		record, err := uc.Submit(clientCtx("user1"), "user1", "")
		assert.NoError(t, err)
		assert.Equal(t, domain.OnboardingSubmitted, record.Status)
		mockRepo.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty answers cannot be submitted", func(t *testing.T) {
		mockRepo := new(MockOnboardingRepo)
		mockWsRepo := new(MockWorkspaceRepo)
		uc := usecase.NewOnboardingUsecase(mockRepo, mockWsRepo, nil, newValidator())

		blank := &domain.OnboardingRecord{WorkspaceID: 3, Answers: json.RawMessage(`{}`), Status: domain.OnboardingPending}
		mockWsRepo.On("GetByOwnerID", mock.Anything, "user1").Return(ws, nil)
		mockRepo.On("GetOrCreate", mock.Anything, int64(3)).Return(blank, nil)

		_, err := uc.Submit(clientCtx("user1"), "user1", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Complete the questionnaire")
	})

	t.Run("Rejected records may be resubmitted", func(t *testing.T) {
		mockRepo := new(MockOnboardingRepo)
		mockWsRepo := new(MockWorkspaceRepo)
		uc := usecase.NewOnboardingUsecase(mockRepo, mockWsRepo, nil, newValidator())

		rejected := &domain.OnboardingRecord{WorkspaceID: 3, Answers: answers, Status: domain.OnboardingRejected}
		now := time.Now()
		resubmitted := &domain.OnboardingRecord{WorkspaceID: 3, Answers: answers, Status: domain.OnboardingSubmitted, SubmittedAt: &now}
		mockWsRepo.On("GetByOwnerID", mock.Anything, "user1").Return(ws, nil)
		mockRepo.On("GetOrCreate", mock.Anything, int64(3)).Return(rejected, nil)
		mockRepo.On("Submit", mock.Anything, int64(3), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(resubmitted, nil)

		record, err := uc.Submit(clientCtx("user1"), "user1", "")
		assert.NoError(t, err)
		assert.Equal(t, domain.OnboardingSubmitted, record.Status)
	})

	t.Run("Malformed idempotency key is rejected", func(t *testing.T) {
		mockRepo := new(MockOnboardingRepo)
		mockWsRepo := new(MockWorkspaceRepo)
		uc := usecase.NewOnboardingUsecase(mockRepo, mockWsRepo, nil, newValidator())

		draft := &domain.OnboardingRecord{WorkspaceID: 3, Answers: answers, Status: domain.OnboardingInProgress}
		mockWsRepo.On("GetByOwnerID", mock.Anything, "user1").Return(ws, nil)
		mockRepo.On("GetOrCreate", mock.Anything, int64(3)).Return(draft, nil)

		_, err := uc.Submit(clientCtx("user1"), "user1", "not-a-uuid")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Idempotency-Key")
	})
}

func TestReviewOnboarding(t *testing.T) {
	mockRepo := new(MockAdminRepo)
	mockUserRepo := new(MockUserRepo)
	mockOnboardingRepo := new(MockOnboardingRepo)
	uc := usecase.NewAdminUsecase(mockRepo, mockUserRepo, mockOnboardingRepo, newValidator())

	t.Run("Only submitted records can be reviewed", func(t *testing.T) {
		pending := &domain.OnboardingRecord{WorkspaceID: 5, Status: domain.OnboardingPending}
		mockOnboardingRepo.On("GetByWorkspaceID", mock.Anything, int64(5)).Return(pending, nil).Once()

		_, err := uc.ReviewOnboarding(adminCtx("admin1"), 5, &domain.ReviewOnboardingRequest{Action: "approve"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Only submitted onboarding can be reviewed")
	})

	t.Run("Rejection requires a reason", func(t *testing.T) {
		_, err := uc.ReviewOnboarding(adminCtx("admin1"), 5, &domain.ReviewOnboardingRequest{Action: "reject"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "reason is required")
	})

	t.Run("Overlong reasons are rejected", func(t *testing.T) {
		long := strings.Repeat("x", 501)
		_, err := uc.ReviewOnboarding(adminCtx("admin1"), 5, &domain.ReviewOnboardingRequest{Action: "reject", Reason: long})
		assert.Error(t, err)
		mockOnboardingRepo.AssertNotCalled(t, "Review", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown actions are rejected", func(t *testing.T) {
		_, err := uc.ReviewOnboarding(adminCtx("admin1"), 5, &domain.ReviewOnboardingRequest{Action: "escalate"})
		assert.Error(t, err)
	})

	t.Run("Clients cannot review", func(t *testing.T) {
		_, err := uc.ReviewOnboarding(clientCtx("user1"), 5, &domain.ReviewOnboardingRequest{Action: "approve"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Admin access required")
	})
}
