package domain

import "context"

// AdminStats contains dashboard statistics
type AdminStats struct {
	TotalUsers         int64              `json:"totalUsers"`
	UsersByRole        UsersByRole        `json:"usersByRole"`
	TotalWorkspaces    int64              `json:"totalWorkspaces"`
	OnboardingByStatus OnboardingByStatus `json:"onboardingByStatus"`
	SystemHealth       SystemHealth       `json:"systemHealth"`
}

type UsersByRole struct {
	Admin  int64 `json:"admin"`
	Client int64 `json:"client"`
}

type OnboardingByStatus struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Submitted  int64 `json:"submitted"`
	Approved   int64 `json:"approved"`
	Rejected   int64 `json:"rejected"`
}

type SystemHealth struct {
	Status      string `json:"status"`      // "healthy", "degraded", "down"
	LastChecked string `json:"lastChecked"` // ISO8601 timestamp
}

// AdminUser represents a user for admin management
type AdminUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	WorkspaceID *int64 `json:"workspaceId,omitempty"`
	IsDisabled  bool   `json:"isDisabled"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// AdminWorkspace represents a workspace for admin review
type AdminWorkspace struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Subdomain        string `json:"subdomain,omitempty"`
	OwnerID          string `json:"ownerId"`
	OwnerEmail       string `json:"ownerEmail"`
	OnboardingStatus string `json:"onboardingStatus"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin client"`
}

type DisableUserRequest struct {
	Disable bool `json:"disable"`
}

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// AdminRepository defines admin-specific data access
type AdminRepository interface {
	GetStats(ctx context.Context) (*AdminStats, error)

	ListUsers(ctx context.Context, role string, page, pageSize int) ([]AdminUser, int64, error)
	UpdateUserRole(ctx context.Context, userID string, role string) error
	DisableUser(ctx context.Context, userID string, disable bool) error

	ListWorkspaces(ctx context.Context, onboardingStatus string, page, pageSize int) ([]AdminWorkspace, int64, error)
}

// AdminUsecase defines admin business logic
type AdminUsecase interface {
	GetStats(ctx context.Context) (*AdminStats, error)

	ListUsers(ctx context.Context, role string, page, pageSize int) (*PaginatedResult[AdminUser], error)
	UpdateUserRole(ctx context.Context, userID string, role string) (*User, error)
	DisableUser(ctx context.Context, userID string, disable bool) error

	ListWorkspaces(ctx context.Context, onboardingStatus string, page, pageSize int) (*PaginatedResult[AdminWorkspace], error)
	ReviewOnboarding(ctx context.Context, workspaceID int64, req *ReviewOnboardingRequest) (*OnboardingRecord, error)
}
