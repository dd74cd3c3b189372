package usecase

import (
	"context"

	"predu/internal/domain/entity"
)

type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthTokens, error)
	SignInAnonymously(ctx context.Context) (*entity.AuthTokens, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
	VerifyToken(ctx context.Context, idToken string) (*entity.Identity, error)
}

// identityCoder is implemented by identity provider errors that carry one of
// the auth/* codes.
type identityCoder interface {
	IdentityCode() string
}
