package domain

import (
	"context"
	"errors"
)

// Profile is the access-control projection of a User: just enough for a
// routing decision.
type Profile struct {
	Role        string `json:"role"`
	WorkspaceID *int64 `json:"workspace_id,omitempty"`
}

func (p *Profile) HasWorkspace() bool {
	return p != nil && p.WorkspaceID != nil
}

var (
	// ErrProfileNotFound means the elevated read succeeded but no row
	// exists: a new user whose profile has not been created yet. The gate
	// handles this as "needs workspace", not as an error.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileUnavailable means both the restricted and the elevated
	// reads failed. The gate fails closed on this.
	ErrProfileUnavailable = errors.New("profile unavailable")
)

// ProfileReader fetches the profile row for an identity. The restricted
// implementation runs under the caller's own credentials (row-level
// security applies); the elevated implementation runs with service-role
// privileges. accessToken is the caller's session token; elevated readers
// ignore it.
type ProfileReader interface {
	ReadProfile(ctx context.Context, userID, accessToken string) (*Profile, error)
}

// ProfileLoader resolves an identity to a profile using the two-tier read
// policy: restricted first, elevated on any failure. Never trust the first
// failure as "no profile" without attempting the elevated read.
type ProfileLoader interface {
	Load(ctx context.Context, userID, accessToken string) (*Profile, error)
}
