// middleware/admin.go
package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"league-portal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type StaffAuthenticator interface {
	AuthenticateStaff(ctx context.Context, email, password string) (*models.User, error)
}

// AdminAuth accepts either "Authorization: Bearer <ADMIN_TOKEN>" or HTTP basic
// auth with a staff account's email and password. An empty token disables the
// bearer form.
func AdminAuth(token string, staff StaffAuthenticator, log logrus.FieldLogger) fiber.Handler {
	basic := basicauth.New(basicauth.Config{
		Realm: "league-admin",
		Authorizer: func(email, password string) bool {
			if staff == nil {
				return false
			}
			if _, err := staff.AuthenticateStaff(context.Background(), email, password); err != nil {
				log.WithField("email", email).Warn("[ADMIN_AUTH] Staff login rejected")
				return false
			}
			return true
		},
		Unauthorized: func(c *fiber.Ctx) error {
			return unauthorized(c, "invalid admin credentials")
		},
	})

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			log.WithField("path", utils.CopyString(c.Path())).Warn("[ADMIN_AUTH] Missing Authorization header")
			return unauthorized(c, "admin credentials missing")
		}

		if bearer, ok := strings.CutPrefix(header, "Bearer "); ok {
			if token != "" && subtle.ConstantTimeCompare([]byte(bearer), []byte(token)) == 1 {
				return c.Next()
			}
			log.WithField("path", utils.CopyString(c.Path())).Warn("[ADMIN_AUTH] Invalid admin token")
			return unauthorized(c, "invalid admin token")
		}
		return basic(c)
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="league-admin"`)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": msg})
}
