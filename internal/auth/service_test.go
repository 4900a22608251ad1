package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/shared"
)

type memAuthRepo struct {
	accounts map[string]*Account
}

func (r *memAuthRepo) FindByEmail(_ context.Context, email string) (*Account, error) {
	account, ok := r.accounts[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

func newTestService(t *testing.T) (*Service, *TokenStore, *memAuthRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := NewTokenStore(client, time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memAuthRepo{accounts: map[string]*Account{
		"owner@example.com": {
			ID:           1,
			Email:        "owner@example.com",
			PasswordHash: string(hash),
			Role:         authz.RoleOwner,
			IsActive:     true,
		},
		"disabled@example.com": {
			ID:           2,
			Email:        "disabled@example.com",
			PasswordHash: string(hash),
			Role:         authz.RoleStaff,
			IsActive:     false,
		},
	}}
	return NewService(repo, tokens), tokens, repo
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	ctx := context.Background()

	token, actor, err := svc.Login(ctx, "owner@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, authz.RoleOwner, actor.Role)

	userID, err := tokens.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "owner@example.com", "wrong-password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "disabled@example.com", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "owner@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = tokens.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := NewTokenStore(client, time.Minute)
	ctx := context.Background()

	token, err := tokens.Issue(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = tokens.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}
