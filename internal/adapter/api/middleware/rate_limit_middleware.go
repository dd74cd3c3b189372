package middleware

import (
	"fmt"
	"math"
	"time"

	"github.com/labstack/echo/v4"

	"predu/pkg/errors"
	"predu/pkg/logger"
	"predu/pkg/response"
)

type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// RateLimit throttles requests per client IP for one limiter action.
func RateLimit(limiter Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, wait := limiter.Allow(ip, action)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("RATE LIMIT: blocked %s request from IP %s (retry in %v)", action, ip, wait)
				c.Response().Header().Set("Retry-After", fmt.Sprint(retryAfter))
				return response.Error(c, errors.TooManyRequests(fmt.Sprintf("Too many requests. Try again in %d seconds", retryAfter)))
			}

			return next(c)
		}
	}
}
