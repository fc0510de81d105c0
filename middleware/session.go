// middleware/session.go
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type contextKey string

const (
	SessionKeyContextKey contextKey = "sessionKey"
	UserContextKey       contextKey = "user"
)

const SessionCookieName = "sessionid"

// SessionMiddleware gives every browser an opaque session id cookie and
// exposes it to handlers via SessionKey. Anything that is not a uuid is
// replaced, so clients cannot pick keys in the store.
func SessionMiddleware(ttl time.Duration, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Cookies(SessionCookieName)
		if _, err := uuid.Parse(key); err != nil || key == "" {
			key = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    key,
				Path:     "/",
				Expires:  time.Now().Add(ttl),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(string(SessionKeyContextKey), key)
		return c.Next()
	}
}

// SessionKey returns the id set by SessionMiddleware, or "".
func SessionKey(c *fiber.Ctx) string {
	key, _ := c.Locals(string(SessionKeyContextKey)).(string)
	return key
}
