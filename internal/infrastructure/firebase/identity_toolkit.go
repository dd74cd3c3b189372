package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"predu/internal/domain/entity"
)

var toolkitCodes = map[string]string{
	"EMAIL_NOT_FOUND":             "auth/user-not-found",
	"INVALID_PASSWORD":            "auth/invalid-credential",
	"INVALID_LOGIN_CREDENTIALS":   "auth/invalid-credential",
	"INVALID_EMAIL":               "auth/invalid-credential",
	"USER_DISABLED":               "auth/user-disabled",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "auth/too-many-requests",
	"OPERATION_NOT_ALLOWED":       "auth/operation-not-allowed",
	"ADMIN_ONLY_OPERATION":        "auth/operation-not-allowed",
	"EMAIL_EXISTS":                "auth/email-already-in-use",
	"WEAK_PASSWORD":               "auth/weak-password",
}

type identityToolkit struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newIdentityToolkit(apiKey, baseURL string) *identityToolkit {
	return &identityToolkit{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type toolkitTokens struct {
	LocalID      string `json:"localId"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type toolkitError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (t *identityToolkit) signInWithPassword(ctx context.Context, email, password string) (*entity.AuthTokens, error) {
	return t.call(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (t *identityToolkit) signUpAnonymous(ctx context.Context) (*entity.AuthTokens, error) {
	return t.call(ctx, "accounts:signUp", map[string]interface{}{
		"returnSecureToken": true,
	})
}

func (t *identityToolkit) call(ctx context.Context, method string, payload map[string]interface{}) (*entity.AuthTokens, error) {
	if t.apiKey == "" {
		return nil, &IdentityError{Code: "auth/operation-not-allowed", Err: fmt.Errorf("firebase API key is not configured")}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", t.baseURL, method, t.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &IdentityError{Code: "auth/unknown", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr toolkitError
		if err := json.Unmarshal(body, &apiErr); err != nil {
			return nil, &IdentityError{Code: "auth/unknown", Err: fmt.Errorf("identity toolkit returned status %d", resp.StatusCode)}
		}
		return nil, toolkitFailure(apiErr.Error.Message)
	}

	var tokens toolkitTokens
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	return &entity.AuthTokens{
		UID:          tokens.LocalID,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

// toolkitFailure maps messages such as "TOO_MANY_ATTEMPTS_TRY_LATER : Access
// to this account has been temporarily disabled" to an auth/* code.
func toolkitFailure(message string) error {
	reason := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	code, ok := toolkitCodes[reason]
	if !ok {
		code = "auth/unknown"
	}
	return &IdentityError{Code: code, Err: fmt.Errorf("identity toolkit: %s", message)}
}
