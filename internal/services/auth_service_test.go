package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository/memory"
)

func TestAuthService_RegisterLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	resp, err := env.auth.Register(ctx, RegisterInput{
		Username: " Ada ",
		Email:    "ADA@example.com",
		FullName: "Ada Lovelace",
		Password: "analytical-engine",
		Role:     models.RoleInstructor,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", resp.User.Username)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, models.RoleInstructor, resp.User.Role)
	assert.NotEqual(t, "analytical-engine", resp.User.PasswordHash)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims["user_id"])
	assert.Equal(t, "instructor", claims["role"])

	login, err := env.auth.Login(ctx, "ADA", "analytical-engine")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), login.ExpiresAt, time.Minute)
}

func TestAuthService_RegisterRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.auth.Register(ctx, RegisterInput{Username: "grace", Email: "grace@example.com", Password: "cobol-rules"})
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, RegisterInput{Username: "grace", Email: "other@example.com", Password: "cobol-rules"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = env.auth.Register(ctx, RegisterInput{Username: "mallory", Email: "m@example.com", Password: "letmein!", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAuthService_LoginRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.auth.Register(ctx, RegisterInput{Username: "linus", Email: "linus@example.com", Password: "penguin"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "linus", "wrong")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = env.auth.Login(ctx, "nobody", "penguin")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.auth.EnsureAdmin(ctx, "root", "", "s3cure-admin"))
	require.NoError(t, env.auth.EnsureAdmin(ctx, "root", "", "ignored"))

	admin, err := env.store.UserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, "root@localhost", admin.Email)

	_, err = env.auth.Login(ctx, "root", "s3cure-admin")
	assert.NoError(t, err)

	assert.NoError(t, env.auth.EnsureAdmin(ctx, "", "", ""))
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	auth := NewAuthService(memory.New(), rdb, fastHasher(), "test-secret", 2*time.Hour)

	t.Run("blacklists token", func(t *testing.T) {
		mock.ExpectSet(BlacklistKey("tok-1"), "1", 2*time.Hour).SetVal("OK")
		assert.NoError(t, auth.Logout(ctx, "tok-1"))
	})

	t.Run("redis failure", func(t *testing.T) {
		mock.ExpectSet(BlacklistKey("tok-2"), "1", 2*time.Hour).SetErr(errors.New("connection refused"))
		assert.Error(t, auth.Logout(ctx, "tok-2"))
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		assert.NoError(t, auth.Logout(ctx, ""))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
