package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceImpl_CreateUser(t *testing.T) {
	t.Run("should generate uid and store user", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())

		// when
		created, err := service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Anna"})

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.Uid)
		assert.NotZero(t, created.Id)
		stored, err := service.GetUserByUid(context.Background(), created.Uid)
		require.NoError(t, err)
		assert.Equal(t, "anna", stored.Username)
	})

	t.Run("should reject duplicated username", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())
		_, err := service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Anna"})
		require.NoError(t, err)

		// when
		_, err = service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Other"})

		// then
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("should reject unknown timezone", func(t *testing.T) {
		service := NewUserService(NewStubUserRepository())

		_, err := service.CreateUser(context.Background(), User{
			Username:    "anna",
			DisplayName: "Anna",
			Settings:    Settings{Timezone: "Mars/Olympus"},
		})

		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})
}

func TestUserServiceImpl_GetCurrentUser(t *testing.T) {
	t.Run("should return error when context has no user", func(t *testing.T) {
		service := NewUserService(NewStubUserRepository())

		_, err := service.GetCurrentUser(context.Background())

		assert.ErrorIs(t, err, ErrNoUser)
		assert.Contains(t, err.Error(), "failed to get current user")
	})

	t.Run("should return user stored in context", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())
		created, err := service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Anna"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)

		// when
		current, err := service.GetCurrentUser(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, created.Id, current.Id)
	})
}

func TestSettings_Location(t *testing.T) {
	assert.Equal(t, "UTC", Settings{}.Location().String())
	assert.Equal(t, "UTC", Settings{Timezone: "Nowhere/Else"}.Location().String())
	assert.Equal(t, "Europe/Warsaw", Settings{Timezone: "Europe/Warsaw"}.Location().String())
}
