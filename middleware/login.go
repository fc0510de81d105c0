// middleware/login.go
package middleware

import (
	"context"
	"errors"
	"net/url"

	"league-portal/models"
	"league-portal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

const LoginURL = "/login"

type CurrentUserFinder interface {
	CurrentUser(ctx context.Context, sessionKey string) (*models.User, error)
}

// LoginRequired lets the request through only for a logged-in session and puts
// the user in the context. Anonymous visitors are sent to the login page.
func LoginRequired(auth CurrentUserFinder, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c.UserContext(), SessionKey(c))
		if err != nil {
			if !errors.Is(err, services.ErrNotFound) {
				log.WithError(err).WithField("path", utils.CopyString(c.Path())).Error("Session lookup failed")
				return fiber.ErrServiceUnavailable
			}
			return c.Redirect(LoginURL+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}
		c.Locals(string(UserContextKey), user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by LoginRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(string(UserContextKey)).(*models.User)
	return user
}
