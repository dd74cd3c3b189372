package middleware

import (
	"github.com/labstack/echo/v4"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/pkg/errors"
	"predu/pkg/response"
)

type AdminMiddleware struct {
	profileRepo repository.ProfileRepository
}

func NewAdminMiddleware(profileRepo repository.ProfileRepository) *AdminMiddleware {
	return &AdminMiddleware{
		profileRepo: profileRepo,
	}
}

// AdminOnly must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get(ContextKeyUID).(string)
		if !ok {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		profile, err := m.profileRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				return response.Error(c, errors.Forbidden("Admin privileges required", nil))
			}
			return response.Error(c, errors.Internal("Failed to verify admin privileges", err))
		}

		if profile.Role != entity.RoleAdmin {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}
