package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"predu/internal/domain/entity"
)

const anonymousProvider = "anonymous"

// IdentityError carries one of the auth/* codes understood by the use cases.
type IdentityError struct {
	Code string
	Err  error
}

func (e *IdentityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *IdentityError) Unwrap() error        { return e.Err }
func (e *IdentityError) IdentityCode() string { return e.Code }

type FirebaseAuthClient struct {
	client *auth.Client
	rest   *identityToolkit
}

// NewFirebaseAuthClient pairs the Admin SDK with the Identity Toolkit REST
// API, which is the only way to check a password server-side.
func NewFirebaseAuthClient(client *auth.Client, apiKey, toolkitURL string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
		rest:   newIdentityToolkit(apiKey, toolkitURL),
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", adminError(err)
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*entity.Identity, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	identity := &entity.Identity{
		UID:       result.UID,
		Anonymous: result.Firebase.SignInProvider == anonymousProvider,
	}
	if email, ok := result.Claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}

func (f *FirebaseAuthClient) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := f.client.PasswordResetLink(ctx, email)
	if err != nil {
		return "", adminError(err)
	}
	return link, nil
}

func (f *FirebaseAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthTokens, error) {
	return f.rest.signInWithPassword(ctx, email, password)
}

// SignInAnonymously creates a guest account and returns its tokens.
func (f *FirebaseAuthClient) SignInAnonymously(ctx context.Context) (*entity.AuthTokens, error) {
	return f.rest.signUpAnonymous(ctx)
}

func adminError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return &IdentityError{Code: "auth/email-already-in-use", Err: err}
	case auth.IsUserNotFound(err):
		return &IdentityError{Code: "auth/user-not-found", Err: err}
	default:
		return &IdentityError{Code: "auth/unknown", Err: err}
	}
}
