package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/pkg/utils"
)

// RateLimit - ограничение запросов с одного IP: max за окно window
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.SendError(c, errors.ErrRateLimited(), false)
		},
	})
}
