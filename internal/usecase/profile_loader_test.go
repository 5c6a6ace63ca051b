package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-workspace-portal/internal/domain"
	"go-workspace-portal/internal/usecase"
	"go-workspace-portal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	logger.Init()
}

type MockProfileReader struct {
	mock.Mock
}

func (m *MockProfileReader) ReadProfile(ctx context.Context, userID, accessToken string) (*domain.Profile, error) {
	args := m.Called(ctx, userID, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func TestProfileLoaderTwoTierRead(t *testing.T) {
	wsID := int64(9)
	profile := &domain.Profile{Role: "client", WorkspaceID: &wsID}

	t.Run("Restricted read success needs no fallback", func(t *testing.T) {
		restricted := new(MockProfileReader)
		elevated := new(MockProfileReader)
		restricted.On("ReadProfile", mock.Anything, "user1", "tok").Return(profile, nil)

		loader := usecase.NewProfileLoader(restricted, elevated)
		got, err := loader.Load(context.Background(), "user1", "tok")
		assert.NoError(t, err)
		assert.Equal(t, profile, got)
		elevated.AssertNotCalled(t, "ReadProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Restricted failure falls back to elevated", func(t *testing.T) {
		restricted := new(MockProfileReader)
		elevated := new(MockProfileReader)
		restricted.On("ReadProfile", mock.Anything, "user1", "tok").Return(nil, errors.New("rls blocked"))
		elevated.On("ReadProfile", mock.Anything, "user1", "tok").Return(profile, nil)

		loader := usecase.NewProfileLoader(restricted, elevated)
		got, err := loader.Load(context.Background(), "user1", "tok")
		assert.NoError(t, err)
		assert.Equal(t, profile, got)
	})

	t.Run("Restricted zero rows is not trusted as final", func(t *testing.T) {
		restricted := new(MockProfileReader)
		elevated := new(MockProfileReader)
		restricted.On("ReadProfile", mock.Anything, "user1", "tok").Return(nil, domain.ErrProfileNotFound)
		elevated.On("ReadProfile", mock.Anything, "user1", "tok").Return(profile, nil)

		loader := usecase.NewProfileLoader(restricted, elevated)
		got, err := loader.Load(context.Background(), "user1", "tok")
		assert.NoError(t, err)
		assert.Equal(t, profile, got)
	})

	t.Run("Elevated empty read means profile genuinely missing", func(t *testing.T) {
		restricted := new(MockProfileReader)
		elevated := new(MockProfileReader)
		restricted.On("ReadProfile", mock.Anything, "user1", "tok").Return(nil, domain.ErrProfileNotFound)
		elevated.On("ReadProfile", mock.Anything, "user1", "tok").Return(nil, domain.ErrProfileNotFound)

		loader := usecase.NewProfileLoader(restricted, elevated)
		_, err := loader.Load(context.Background(), "user1", "tok")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("Both reads failing is unavailable, not missing", func(t *testing.T) {
		restricted := new(MockProfileReader)
		elevated := new(MockProfileReader)
		restricted.On("ReadProfile", mock.Anything, "user1", "tok").Return(nil, errors.New("network down"))
		elevated.On("ReadProfile", mock.Anything, "user1", "tok").Return(nil, errors.New("db down"))

		loader := usecase.NewProfileLoader(restricted, elevated)
		_, err := loader.Load(context.Background(), "user1", "tok")
		assert.ErrorIs(t, err, domain.ErrProfileUnavailable)
	})
}
