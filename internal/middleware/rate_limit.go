package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Fallbacks sized for a single instructor working through a roster; bulk
// imports are the only endpoints that plausibly hit them.
const (
	defaultRateLimitMax    = 10
	defaultRateLimitWindow = time.Second
)

// RateLimit creates a per-user rate limiter keyed on the authenticated
// instructor, falling back to the client IP for unauthenticated requests.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = defaultRateLimitMax
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID := fmt.Sprintf("%v", c.Locals("user_id"))
			if userID == "" || userID == "<nil>" {
				userID = c.IP()
			}
			return fmt.Sprintf("%s:%s", identifier, userID)
		},
	})
}
