package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedAppError(t *testing.T) {
	err := fmt.Errorf("resolving: %w", ResolveUnavailable(fmt.Errorf("deadline exceeded")))

	assert.True(t, Is(err, CodeResolveUnavailable))
	assert.False(t, Is(err, CodeNotFound))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Status)
}

func TestIdentityStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Identity("auth/invalid-credential", "x", nil).Status)
	assert.Equal(t, http.StatusConflict, Identity("auth/email-already-in-use", "x", nil).Status)
	assert.Equal(t, http.StatusBadRequest, Identity("auth/weak-password", "x", nil).Status)
	assert.Equal(t, http.StatusTooManyRequests, Identity("auth/too-many-requests", "x", nil).Status)
}
