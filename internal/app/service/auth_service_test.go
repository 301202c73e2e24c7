package service

import (
	"context"
	"os"
	"testing"

	"contestjam/internal/common"
	"contestjam/internal/common/security"
	"contestjam/internal/domain/model"
	"contestjam/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

func TestSignupAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleUser, resp.User.Role)
	assert.Empty(t, resp.User.HashedPassword)

	// Login by email and by username
	for _, field := range []string{"alice@example.com", "alice"} {
		resp, err := svc.Login(ctx, LoginRequest{LoginField: field, Password: "hunter22"})
		require.NoError(t, err, "login via %s", field)
		assert.Equal(t, "alice", resp.User.Username)
		assert.NotEmpty(t, resp.Token)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), SignupRequest{Username: "x"})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestSignupDuplicate(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Username: "alice", Email: "other@example.com", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Email: "alice@example.com", Password: "correct"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{LoginField: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{LoginField: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
