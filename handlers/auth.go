// handlers/auth.go
package handlers

import (
	"league-portal/middleware"
	"league-portal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SetupAuthRoutes wires signup, OTP and login. Business failures answer 200
// with success=false so the pages can show the message inline.
func SetupAuthRoutes(app *fiber.App, auth *services.AuthService, log logrus.FieldLogger) {
	app.Post("/signup/validate", func(c *fiber.Ctx) error {
		var in services.SignupInput
		if err := parseJSON(c, &in); err != nil {
			return badBody(c)
		}
		res, err := auth.Signup(c.UserContext(), middleware.SessionKey(c), in)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(res)
	})

	app.Post("/otp/send", func(c *fiber.Ctx) error {
		var in struct {
			Email string `json:"email"`
		}
		if err := parseJSON(c, &in); err != nil {
			return badBody(c)
		}
		res, err := auth.SendOTP(c.UserContext(), middleware.SessionKey(c), in.Email)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(res)
	})

	app.Post("/login/validate", func(c *fiber.Ctx) error {
		var in services.LoginInput
		if err := parseJSON(c, &in); err != nil {
			return badBody(c)
		}
		res, err := auth.Login(c.UserContext(), middleware.SessionKey(c), in)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(res)
	})

	app.Get("/logout", func(c *fiber.Ctx) error {
		if err := auth.Logout(c.UserContext(), middleware.SessionKey(c)); err != nil {
			log.WithError(err).Warn("Logout could not clear the session")
		}
		return c.Redirect(middleware.LoginURL, fiber.StatusFound)
	})
}
