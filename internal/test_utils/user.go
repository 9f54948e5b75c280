package test_utils

import (
	"context"
	"testing"

	"github.com/finflow/finflow/pkg/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewTestUser stores a fresh user so that rows referencing users(id) can be inserted.
func NewTestUser(t *testing.T, db *pgxpool.Pool) user.User {
	t.Helper()
	u := user.User{
		Uid:         uuid.NewString(),
		Username:    "test_" + uuid.NewString()[:8],
		DisplayName: "Test User",
		Settings:    user.Settings{Timezone: "Europe/Warsaw"},
	}
	id, err := user.NewUserRepo(db).CreateUser(context.Background(), u)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	u.Id = id
	return u
}
