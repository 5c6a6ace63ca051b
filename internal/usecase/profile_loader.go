package usecase

import (
	"context"
	"errors"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/logger"
)

// profileLoader applies the two-tier read policy. The restricted reader
// runs under the caller's own credentials and may legitimately be blocked
// by row-level security, or lag behind the identity provider right after
// signup. So a failed or empty restricted read is never taken at face
// value: the elevated reader gets the final word.
type profileLoader struct {
	restricted domain.ProfileReader
	elevated   domain.ProfileReader
}

func NewProfileLoader(restricted, elevated domain.ProfileReader) domain.ProfileLoader {
	return &profileLoader{restricted: restricted, elevated: elevated}
}

func (l *profileLoader) Load(ctx context.Context, userID, accessToken string) (*domain.Profile, error) {
	profile, err := l.restricted.ReadProfile(ctx, userID, accessToken)
	if err == nil && profile != nil {
		return profile, nil
	}
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		logger.Log.Debug("restricted profile read failed, falling back to elevated", "user_id", userID, "error", err)
	}

	profile, err = l.elevated.ReadProfile(ctx, userID, accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			// Elevated read succeeded but found nothing: genuinely a new
			// user without a profile row. Not an error condition.
			return nil, domain.ErrProfileNotFound
		}
		logger.Log.Error("elevated profile read failed", "user_id", userID, "error", err)
		return nil, domain.ErrProfileUnavailable
	}
	return profile, nil
}
