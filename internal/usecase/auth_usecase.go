package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
	"predu/pkg/logger"
)

const (
	IdentityInvalidCredential   = "auth/invalid-credential"
	IdentityUserNotFound        = "auth/user-not-found"
	IdentityWeakPassword        = "auth/weak-password"
	IdentityEmailInUse          = "auth/email-already-in-use"
	IdentityOperationNotAllowed = "auth/operation-not-allowed"
	IdentityTooManyRequests     = "auth/too-many-requests"
	IdentityUserDisabled        = "auth/user-disabled"
	IdentityUnknown             = "auth/unknown"
)

const minPasswordLength = 6

var identityMessages = map[string]string{
	IdentityInvalidCredential:   "Correo o contraseña incorrectos.",
	IdentityUserNotFound:        "No existe una cuenta con ese correo.",
	IdentityWeakPassword:        "La contraseña debe tener al menos 6 caracteres.",
	IdentityEmailInUse:          "Ese correo ya está registrado.",
	IdentityOperationNotAllowed: "Este método de acceso no está habilitado.",
	IdentityTooManyRequests:     "Demasiados intentos. Inténtalo más tarde.",
	IdentityUserDisabled:        "Esta cuenta fue deshabilitada.",
}

// IdentityMessage returns the user-facing message for an auth/* code.
func IdentityMessage(code string) string {
	if msg, ok := identityMessages[code]; ok {
		return msg
	}
	return "Ocurrió un error de autenticación. Inténtalo de nuevo."
}

func identityError(err error) *errors.AppError {
	code := IdentityUnknown
	var coder identityCoder
	if stderrors.As(err, &coder) {
		code = coder.IdentityCode()
	}
	return errors.Identity(code, IdentityMessage(code), err)
}

type AuthUseCase struct {
	profileRepo repository.ProfileRepository
	identity    IdentityProvider
	hub         *NotificationHub
}

func NewAuthUseCase(profileRepo repository.ProfileRepository, identity IdentityProvider, hub *NotificationHub) *AuthUseCase {
	return &AuthUseCase{
		profileRepo: profileRepo,
		identity:    identity,
		hub:         hub,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type AuthResult struct {
	Profile *entity.UserProfile `json:"profile"`
	Tokens  *entity.AuthTokens  `json:"tokens"`
}

// Register creates the identity and a profile document with no role, then
// signs the user in.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if len(input.Password) < minPasswordLength {
		return nil, errors.Identity(IdentityWeakPassword, IdentityMessage(IdentityWeakPassword), nil)
	}

	uid, err := uc.identity.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, identityError(err)
	}

	now := time.Now()
	profile := &entity.UserProfile{
		ID:                uid,
		Email:             input.Email,
		DisplayName:       input.DisplayName,
		IsProfileComplete: entity.BoolPtr(false),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, errors.Internal("Failed to create user profile", err)
	}

	tokens, err := uc.identity.SignInWithEmailPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, identityError(err)
	}

	uc.welcome(uid)
	return &AuthResult{Profile: profile, Tokens: tokens}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	tokens, err := uc.identity.SignInWithEmailPassword(ctx, email, password)
	if err != nil {
		logger.Info("Login failed for %s: %v", email, err)
		return nil, identityError(err)
	}

	profile, err := uc.profileRepo.GetByID(ctx, tokens.UID)
	if err != nil {
		if !errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Internal("Failed to load user profile", err)
		}
		profile = &entity.UserProfile{ID: tokens.UID, Email: email}
	}

	uc.welcome(tokens.UID)
	return &AuthResult{Profile: profile, Tokens: tokens}, nil
}

// Guest starts an anonymous session. Guests get no profile document and no
// notifications.
func (uc *AuthUseCase) Guest(ctx context.Context) (*entity.AuthTokens, error) {
	tokens, err := uc.identity.SignInAnonymously(ctx)
	if err != nil {
		return nil, identityError(err)
	}
	return tokens, nil
}

// SendPasswordReset generates the reset link; delivery is done by the
// identity provider's email templates.
func (uc *AuthUseCase) SendPasswordReset(ctx context.Context, email string) error {
	if _, err := uc.identity.PasswordResetLink(ctx, email); err != nil {
		return identityError(err)
	}
	return nil
}

// VerifyToken resolves an ID token to an identity. Invalid tokens are
// reported as UNAUTHORIZED.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, idToken string) (*entity.Identity, error) {
	identity, err := uc.identity.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	return identity, nil
}

func (uc *AuthUseCase) welcome(userID string) {
	if uc.hub != nil {
		uc.hub.Welcome(userID)
	}
}
