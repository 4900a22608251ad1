package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates email/password credentials and issues a bearer token.
// Inactive accounts fail exactly like bad credentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, authz.Actor, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", authz.Actor{}, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return "", authz.Actor{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", authz.Actor{}, shared.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, account.ID)
	if err != nil {
		return "", authz.Actor{}, err
	}
	return token, account.Actor(), nil
}

// Logout revokes the bearer token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
