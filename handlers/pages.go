// handlers/pages.go
package handlers

import (
	"errors"
	"net/http"

	"league-portal/middleware"
	"league-portal/services"
	"league-portal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

const layout = "layout"

type PageDeps struct {
	League     *services.LeagueService
	Auth       middleware.CurrentUserFinder
	RequireOTP bool
}

// SetupPageRoutes mounts the HTML pages and their static assets.
func SetupPageRoutes(app *fiber.App, deps PageDeps, log logrus.FieldLogger) {
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(views.Static),
		PathPrefix: "static",
		MaxAge:     3600,
	}))

	app.Get("/", middleware.LoginRequired(deps.Auth, log), func(c *fiber.Ctx) error {
		return c.Render("home", fiber.Map{
			"Title": "Home",
			"User":  middleware.CurrentUser(c),
		}, layout)
	})

	app.Get("/signup", func(c *fiber.Ctx) error {
		return c.Render("signup", fiber.Map{"Title": "Sign up"}, layout)
	})

	app.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("login", fiber.Map{
			"Title":      "Log in",
			"Next":       safeNext(c.Query("next")),
			"RequireOTP": deps.RequireOTP,
		}, layout)
	})

	app.Get("/standing", func(c *fiber.Ctx) error {
		rows, err := deps.League.Standing(c.UserContext())
		if err != nil {
			return renderError(c, log, err)
		}
		return c.Render("standing", fiber.Map{"Title": "Standing", "Standing": rows}, layout)
	})

	app.Get("/teams/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return renderError(c, log, fiber.ErrNotFound)
		}
		details, err := deps.League.TeamDetails(c.UserContext(), id)
		if err != nil {
			return renderError(c, log, err)
		}
		return c.Render("team", fiber.Map{"Title": details.Team.Name, "Details": details}, layout)
	})

	app.Get("/matches/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return renderError(c, log, fiber.ErrNotFound)
		}
		details, err := deps.League.MatchDetails(c.UserContext(), id)
		if err != nil {
			return renderError(c, log, err)
		}
		return c.Render("match", fiber.Map{"Title": "Match", "Details": details}, layout)
	})
}

func renderError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	status, msg := fiber.StatusInternalServerError, "Something went wrong."
	var fe *fiber.Error
	var se *services.Error
	switch {
	case errors.As(err, &fe):
		status, msg = fe.Code, fe.Message
	case errors.As(err, &se):
		status, msg = statusFor(err), se.Message
	default:
		log.WithError(err).WithField("path", utils.CopyString(c.Path())).Error("Page failed")
	}
	return c.Status(status).Render("error", fiber.Map{"Title": msg, "Status": status, "Message": msg}, layout)
}

// safeNext only allows local paths as a post-login destination.
func safeNext(next string) string {
	if len(next) < 1 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return "/"
	}
	return next
}
