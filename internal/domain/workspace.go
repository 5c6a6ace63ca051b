package domain

import (
	"context"
	"time"
)

// Workspace is the tenant unit. Each client user owns at most one.
type Workspace struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subdomain *string   `json:"subdomain,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateWorkspaceRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=100,valid_name,no_emoji"`
	Subdomain *string `json:"subdomain,omitempty" validate:"omitempty,hostname_rfc1123,max=63"`
}

type UpdateWorkspaceRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=100,valid_name,no_emoji"`
	Subdomain *string `json:"subdomain,omitempty" validate:"omitempty,hostname_rfc1123,max=63"`
}

type WorkspaceRepository interface {
	// CreateForOwner inserts the workspace and links users.workspace_id in
	// one transaction, so a created workspace never dangles without the
	// owner referencing it.
	CreateForOwner(ctx context.Context, ws *Workspace) error
	GetByID(ctx context.Context, id int64) (*Workspace, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*Workspace, error)
	Update(ctx context.Context, ws *Workspace) error
}

type WorkspaceUsecase interface {
	CreateWorkspace(ctx context.Context, ownerID string, req *CreateWorkspaceRequest) (*Workspace, error)
	GetMyWorkspace(ctx context.Context, userID string) (*Workspace, error)
	UpdateMyWorkspace(ctx context.Context, userID string, req *UpdateWorkspaceRequest) (*Workspace, error)
}
